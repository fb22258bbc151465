package models

import "strings"

// ScrapedDocketEntry is one freshly scraped docket row, not yet compared
// against what we have on record.
type ScrapedDocketEntry struct {
	Date           string
	Event          string
	Filer          string
	HasPDF         bool
	PostbackTarget string
}

func (e ScrapedDocketEntry) IdentityKey() string {
	return identityKey(e.Date, e.Event, e.Filer)
}

// identityKey is the dedup key for a docket row within one case. The "|"
// separator does not occur in well-formed court dates, event descriptions or
// filer names.
func identityKey(date, event, filer string) string {
	return strings.Join([]string{date, event, filer}, "|")
}

// SearchResult is a case reference validated against the site.
type SearchResult struct {
	CaseNumber string
	CaseName   string
	InternalID string
	URL        string
}

type Attachment struct {
	Filename string
	Content  []byte
}
