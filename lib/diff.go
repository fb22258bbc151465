package lib

import "github.com/pragmagen/courtwatch/lib/models"

// NewEntries returns the scraped entries whose identity key (date, event,
// filer) is not on record yet, preserving the scrape's table order since
// that is the order the alert displays. Pure; persistence is the checker's
// job. A key repeated within one scrape is reported once.
func NewEntries(scraped []models.ScrapedDocketEntry, existing []models.DocketEntry) []models.ScrapedDocketEntry {
	seen := make(map[string]struct{}, len(existing)+len(scraped))
	for i := range existing {
		seen[existing[i].IdentityKey()] = struct{}{}
	}

	fresh := make([]models.ScrapedDocketEntry, 0, len(scraped))
	for _, entry := range scraped {
		key := entry.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, entry)
	}
	return fresh
}
