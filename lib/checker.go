package lib

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pragmagen/courtwatch/config"
	"github.com/pragmagen/courtwatch/lib/models"
	"github.com/pragmagen/courtwatch/lib/scrape"
	"github.com/pragmagen/courtwatch/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoAlertEmail = errors.New("no alert email configured")

// DocketScraper is what the checker needs from the scrape client.
type DocketScraper interface {
	ScrapeDocket(ctx context.Context, internalID string) ([]models.ScrapedDocketEntry, string, error)
	FetchAttachment(ctx context.Context, internalID, postbackTarget string) ([]byte, error)
}

// Checker runs one check cycle over every tracked case: scrape, diff,
// persist, fetch attachments, alert. Cases are processed one at a time --
// the site fingerprints client behavior, and a burst of concurrent requests
// is exactly what gets an address blocked.
type Checker struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	scraper DocketScraper
	senders senders.Registry
}

func NewChecker(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, db *gorm.DB, client *scrape.Client, senders senders.Registry) *Checker {
	return &Checker{cfg, log, db, client, senders}
}

type CaseResult struct {
	CaseNumber   string `json:"case_number"`
	NewEntries   int    `json:"new_entries"`
	PDFsAttached int    `json:"pdfs_attached,omitempty"`
	Err          string `json:"error,omitempty"`
}

type CheckSummary struct {
	Checked int          `json:"checked"`
	Results []CaseResult `json:"results"`
}

// Run is the single idempotent "check everything once" entry point. A crash
// mid-cycle is safe: re-running re-scrapes every case and insert-or-ignore
// makes already-persisted entries invisible to the next diff. Per-case
// failures never abort the batch.
func (c *Checker) Run(ctx context.Context) (*CheckSummary, error) {
	recipient, err := c.alertEmail()
	if err != nil {
		return nil, err
	}

	var cases models.Cases
	if tx := c.db.Find(&cases); tx.Error != nil {
		return nil, tx.Error
	}

	startedAt := time.Now().UTC()
	summary := &CheckSummary{Checked: len(cases), Results: make([]CaseResult, 0, len(cases))}
	for i := range cases {
		tracked := &cases[i]
		if tracked.InternalID == "" {
			// Cannot be addressed against the site.
			continue
		}
		summary.Results = append(summary.Results, c.checkCase(ctx, tracked, recipient))
	}

	elapsed := time.Now().UTC().Sub(startedAt)
	c.log.Sugar().Infow("Check cycle completed",
		"checked", summary.Checked, "elapsed_msecs", int(elapsed.Milliseconds()))
	return summary, nil
}

func (c *Checker) alertEmail() (string, error) {
	var setting models.Setting
	tx := c.db.Where("key = ?", models.SettingAlertEmail).First(&setting)
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return "", ErrNoAlertEmail
	} else if tx.Error != nil {
		return "", tx.Error
	}
	if setting.Value == "" {
		return "", ErrNoAlertEmail
	}
	return setting.Value, nil
}

func (c *Checker) checkCase(ctx context.Context, tracked *models.Case, recipient string) CaseResult {
	result := CaseResult{CaseNumber: tracked.CaseNumber}

	scraped, caseName, err := c.scraper.ScrapeDocket(ctx, tracked.InternalID)
	if err != nil {
		c.log.Sugar().Errorw("Scrape failed", "case", tracked.CaseNumber, "err", err)
		result.Err = err.Error()
		return result
	}
	if caseName == "" {
		caseName = tracked.CaseName
	}

	var existing []models.DocketEntry
	tx := c.db.Select("entry_date", "event", "filer").Where("case_id = ?", tracked.ID).Find(&existing)
	if tx.Error != nil {
		result.Err = tx.Error.Error()
		return result
	}

	fresh := NewEntries(scraped, existing)
	if len(fresh) == 0 {
		return result
	}

	// Only rows this cycle actually inserted count as new; a concurrent or
	// previously crashed cycle may have gotten there first.
	inserted := c.persistEntries(tracked, fresh)
	if len(inserted) == 0 {
		return result
	}
	result.NewEntries = len(inserted)

	attachments := c.fetchAttachments(ctx, tracked, inserted)
	result.PDFsAttached = len(attachments)

	sender, ok := c.senders["email"]
	if !ok {
		result.Err = "no email sender configured"
		return result
	}
	if _, err := sender.SendAlert(ctx, recipient, tracked.CaseNumber, caseName, inserted, attachments); err != nil {
		c.log.Sugar().Errorw("Failed to send alert", "case", tracked.CaseNumber, "err", err)
		result.Err = err.Error()
		return result
	}

	alert := models.Alert{CaseID: tracked.ID, EntriesCount: len(inserted), SentAt: time.Now().UTC()}
	if tx := c.db.Create(&alert); tx.Error != nil {
		result.Err = tx.Error.Error()
		return result
	}

	c.log.Sugar().Infow("Alert sent",
		"case", tracked.CaseNumber, "new_entries", len(inserted), "pdfs_attached", len(attachments))
	return result
}

func (c *Checker) persistEntries(tracked *models.Case, fresh []models.ScrapedDocketEntry) []models.ScrapedDocketEntry {
	inserted := make([]models.ScrapedDocketEntry, 0, len(fresh))
	for _, entry := range fresh {
		row := models.DocketEntry{
			CaseID:    tracked.ID,
			EntryDate: entry.Date,
			Event:     entry.Event,
			Filer:     entry.Filer,
			HasPDF:    entry.HasPDF,
		}
		if entry.PostbackTarget != "" {
			row.PDFPostbackTarget = sql.NullString{String: entry.PostbackTarget, Valid: true}
		}

		tx := c.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if tx.Error != nil {
			c.log.Sugar().Errorw("Failed to persist entry",
				"case", tracked.CaseNumber, "entry", entry.IdentityKey(), "err", tx.Error)
			continue
		}
		if tx.RowsAffected > 0 {
			inserted = append(inserted, entry)
		}
	}
	return inserted
}

// fetchAttachments retrieves the PDFs bound to the new entries. Every
// attachment costs a second full postback round-trip, so when a cycle turns
// up more new entries than the configured cap (a freshly added case imports
// its whole history at once) fetching is skipped and the entries are alerted
// without files. A failed fetch likewise never drops its entry.
func (c *Checker) fetchAttachments(ctx context.Context, tracked *models.Case, fresh []models.ScrapedDocketEntry) []models.Attachment {
	if len(fresh) > c.cfg.AttachmentFetchCap {
		c.log.Sugar().Infow("Skipping attachment fetch, too many new entries",
			"case", tracked.CaseNumber, "new_entries", len(fresh), "cap", c.cfg.AttachmentFetchCap)
		return nil
	}

	var attachments []models.Attachment
	for _, entry := range fresh {
		if !entry.HasPDF || entry.PostbackTarget == "" {
			continue
		}

		content, err := c.scraper.FetchAttachment(ctx, tracked.InternalID, entry.PostbackTarget)
		if err != nil {
			c.log.Sugar().Warnw("Attachment fetch failed",
				"case", tracked.CaseNumber, "event", entry.Event, "err", err)
			continue
		}
		if content == nil {
			continue
		}

		attachments = append(attachments, models.Attachment{
			Filename: attachmentFilename(tracked.CaseNumber, entry),
			Content:  content,
		})
	}
	return attachments
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

func attachmentFilename(caseNumber string, entry models.ScrapedDocketEntry) string {
	name := unsafeFilenameChars.ReplaceAllString(entry.Event, "_")
	if len(name) > 50 {
		name = name[:50]
	}
	if strings.Trim(name, "_") == "" {
		name = uuid.NewString()
	}
	return fmt.Sprintf("%s_%s_%s.pdf",
		unsafeFilenameChars.ReplaceAllString(caseNumber, "_"),
		unsafeFilenameChars.ReplaceAllString(entry.Date, "_"),
		name,
	)
}
