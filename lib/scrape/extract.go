package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pragmagen/courtwatch/lib/models"
)

var (
	// WebForms pads grid cells with &nbsp;, which \s does not cover in Go.
	whitespace      = regexp.MustCompile(`[\s\x{00A0}]+`)
	postbackPattern = regexp.MustCompile(`__doPostBack\('([^']+)'`)
)

// Blocked reports whether the body is the site's anti-bot interstitial. The
// block page arrives with HTTP 200, so this is the only reliable signal.
func Blocked(html string) bool {
	return strings.Contains(html, "Security Notice") || strings.Contains(html, "Unusual Activity")
}

// ParseCaseIdentity pulls the case name and number out of a case details page.
// The site template repeats its chrome headings before the case-specific ones,
// so the second h1/h2 is the real one whenever more than one is present.
// Returns nil when no case number can be found.
func ParseCaseIdentity(html string) *models.SearchResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	caseName := secondOrFirst(doc.Find("h1"))
	caseNumber := secondOrFirst(doc.Find("h2"))
	if caseNumber == "" {
		return nil
	}

	return &models.SearchResult{CaseNumber: caseNumber, CaseName: caseName}
}

// ParseDocketTable extracts the case history rows from a case details page.
// A page matching none of the known layouts yields zero entries, not an error:
// "the template changed" and "the case has no history" look the same upstream.
func ParseDocketTable(html string) (entries []models.ScrapedDocketEntry, caseName string) {
	entries = []models.ScrapedDocketEntry{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entries, ""
	}
	caseName = secondOrFirst(doc.Find("h1"))

	table := findHistoryTable(doc)
	if table == nil {
		return entries, caseName
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		entry := models.ScrapedDocketEntry{
			Date:  compactWhitespace(cells.Eq(0).Text()),
			Event: compactWhitespace(cells.Eq(1).Text()),
			Filer: compactWhitespace(cells.Eq(2).Text()),
		}

		if link := cells.Eq(3).Find("a"); link.Length() > 0 {
			entry.HasPDF = true
			if m := postbackPattern.FindStringSubmatch(link.AttrOr("href", "")); m != nil {
				entry.PostbackTarget = m[1]
			}
		}

		entries = append(entries, entry)
	})

	return entries, caseName
}

// findHistoryTable prefers the table right after an h3 reading "Case History";
// when the heading is missing it falls back to any table whose header row
// carries both a "Date" and an "Event" column.
func findHistoryTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection

	doc.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.TrimSpace(h.Text()) != "Case History" {
			return true
		}
		if next := h.Next(); goquery.NodeName(next) == "table" {
			table = next
			return false
		}
		return true
	})
	if table != nil {
		return table
	}

	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		var hasDate, hasEvent bool
		t.Find("th").Each(func(_ int, th *goquery.Selection) {
			switch strings.TrimSpace(th.Text()) {
			case "Date":
				hasDate = true
			case "Event":
				hasEvent = true
			}
		})
		if hasDate && hasEvent {
			table = t
			return false
		}
		return true
	})
	return table
}

func secondOrFirst(sel *goquery.Selection) string {
	if sel.Length() > 1 {
		return compactWhitespace(sel.Eq(1).Text())
	}
	return compactWhitespace(sel.First().Text())
}

func compactWhitespace(s string) string {
	s = whitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, " ")
}
