package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/pragmagen/courtwatch/config"
	"github.com/pragmagen/courtwatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Client talks to the court site's WebForms pages: case lookup, docket
// scraping and attachment retrieval all go through it.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.CourtBaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		log: log,
	}
}

func (c *Client) caseURL(internalID string) string {
	return fmt.Sprintf("%s/CaseDetails.aspx?id=%s&Number=True", c.baseURL, internalID)
}

// LookupCase validates a case reference against the site. A nil result means
// the site answered but not with a recognizable case page (soft block, or a
// template we can't read); errors are reserved for transport faults.
func (c *Client) LookupCase(ctx context.Context, internalID string) (*models.SearchResult, error) {
	pageURL := c.caseURL(internalID)
	page, _, err := c.getPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if Blocked(page) {
		c.log.Sugar().Warnw("case lookup hit the anti-bot block page", "url", pageURL)
		return nil, nil
	}

	result := ParseCaseIdentity(page)
	if result == nil {
		return nil, nil
	}
	result.InternalID = internalID
	result.URL = pageURL
	return result, nil
}

// ScrapeDocket fetches the case page and extracts its history rows. A soft
// block yields zero entries, same as a genuinely empty docket.
func (c *Client) ScrapeDocket(ctx context.Context, internalID string) ([]models.ScrapedDocketEntry, string, error) {
	pageURL := c.caseURL(internalID)
	page, _, err := c.getPage(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}
	if Blocked(page) {
		c.log.Sugar().Warnw("docket scrape hit the anti-bot block page", "url", pageURL)
		return []models.ScrapedDocketEntry{}, "", nil
	}

	entries, caseName := ParseDocketTable(page)
	return entries, caseName, nil
}

func (c *Client) getPage(ctx context.Context, pageURL string) (string, http.Header, error) {
	var body string
	headers := make(http.Header)

	err := requests.URL(pageURL).
		Client(c.http).
		CopyHeaders(headers).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return "", nil, err
	}
	return body, headers, nil
}
