package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/carlmjohnson/requests"
	"golang.org/x/net/html"
)

// postbackTokens are the hidden WebForms fields the server expects echoed
// back before it will honor a postback as legitimate.
type postbackTokens struct {
	viewState          string
	viewStateGenerator string
	eventValidation    string
}

// FetchAttachment retrieves the file bound to a docket row's postback target.
// It replays the WebForms two-step: GET the case page to harvest the hidden
// state tokens and session cookie, then POST the tokens back with the event
// target set. Each call runs its own GET/POST pair; nothing is shared across
// attachments, so a crashed cycle leaves no session to clean up.
//
// A nil, nil return means the postback didn't resolve to a file (missing
// tokens, or an HTML error page came back instead of a PDF); the entry is
// still alertable, just without its attachment.
func (c *Client) FetchAttachment(ctx context.Context, internalID, postbackTarget string) ([]byte, error) {
	pageURL := c.caseURL(internalID)

	page, pageHeaders, err := c.getPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	tokens, ok := harvestPostbackTokens(page)
	if !ok {
		// The page we got back may itself be the block page.
		c.log.Sugar().Warnw("page format unrecognized, no postback tokens", "url", pageURL)
		return nil, nil
	}

	form := url.Values{}
	form.Set("__VIEWSTATE", tokens.viewState)
	form.Set("__VIEWSTATEGENERATOR", tokens.viewStateGenerator)
	form.Set("__EVENTVALIDATION", tokens.eventValidation)
	form.Set("__EVENTTARGET", postbackTarget)
	form.Set("__EVENTARGUMENT", "")

	var body bytes.Buffer
	respHeaders := make(http.Header)
	err = requests.URL(pageURL).
		Client(c.http).
		Method(http.MethodPost).
		Header("Cookie", sessionCookie(pageHeaders)).
		BodyForm(form).
		CopyHeaders(respHeaders).
		ToBytesBuffer(&body).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}

	contentType := strings.ToLower(respHeaders.Get("Content-Type"))
	if !strings.Contains(contentType, "pdf") && !strings.Contains(contentType, "octet-stream") {
		c.log.Sugar().Warnw("postback did not resolve to a file",
			"url", pageURL, "target", postbackTarget, "content_type", contentType)
		return nil, nil
	}

	return body.Bytes(), nil
}

func harvestPostbackTokens(page string) (postbackTokens, bool) {
	doc, err := htmlquery.Parse(strings.NewReader(page))
	if err != nil {
		return postbackTokens{}, false
	}

	tokens := postbackTokens{
		viewState:          hiddenFieldValue(doc, "__VIEWSTATE"),
		viewStateGenerator: hiddenFieldValue(doc, "__VIEWSTATEGENERATOR"),
		eventValidation:    hiddenFieldValue(doc, "__EVENTVALIDATION"),
	}
	if tokens.viewState == "" || tokens.eventValidation == "" {
		return postbackTokens{}, false
	}
	return tokens, true
}

func hiddenFieldValue(doc *html.Node, id string) string {
	node := htmlquery.FindOne(doc, fmt.Sprintf("//input[@id='%s']", id))
	if node == nil {
		return ""
	}
	return htmlquery.SelectAttr(node, "value")
}

// sessionCookie condenses the response's Set-Cookie headers into a Cookie
// value the follow-up POST can carry. Only the name=value pair matters, the
// attributes after the first ";" are dropped.
func sessionCookie(headers http.Header) string {
	var pairs []string
	for _, raw := range headers.Values("Set-Cookie") {
		pairs = append(pairs, strings.SplitN(raw, ";", 2)[0])
	}
	return strings.Join(pairs, "; ")
}
