package lib

import (
	"testing"

	"github.com/pragmagen/courtwatch/lib/models"
	"github.com/stretchr/testify/require"
)

func scrapedEntry(date, event, filer string) models.ScrapedDocketEntry {
	return models.ScrapedDocketEntry{Date: date, Event: event, Filer: filer}
}

func persistedEntry(date, event, filer string) models.DocketEntry {
	return models.DocketEntry{EntryDate: date, Event: event, Filer: filer}
}

func TestNewEntriesAllKnown(t *testing.T) {
	scraped := []models.ScrapedDocketEntry{
		scrapedEntry("01/02/2026", "Petition Filed", "Smith"),
		scrapedEntry("01/10/2026", "Order Entered", ""),
	}
	existing := []models.DocketEntry{
		persistedEntry("01/02/2026", "Petition Filed", "Smith"),
		persistedEntry("01/10/2026", "Order Entered", ""),
	}

	require.Empty(t, NewEntries(scraped, existing))
}

func TestNewEntriesPreservesScrapeOrder(t *testing.T) {
	scraped := []models.ScrapedDocketEntry{
		scrapedEntry("01/02/2026", "Petition Filed", "Smith"),
		scrapedEntry("01/10/2026", "Order Entered", ""),
		scrapedEntry("01/15/2026", "Hearing Set", "Court"),
		scrapedEntry("01/20/2026", "Notice Mailed", "Clerk"),
	}
	existing := []models.DocketEntry{
		persistedEntry("01/10/2026", "Order Entered", ""),
	}

	fresh := NewEntries(scraped, existing)
	require.Len(t, fresh, 3)
	require.Equal(t, "Petition Filed", fresh[0].Event)
	require.Equal(t, "Hearing Set", fresh[1].Event)
	require.Equal(t, "Notice Mailed", fresh[2].Event)
}

func TestNewEntriesIdenticalTupleIsNotNew(t *testing.T) {
	// Same (date, event, filer) arriving in a later scrape must not re-report.
	scraped := []models.ScrapedDocketEntry{
		scrapedEntry("01/02/2026", "Petition Filed", "Smith"),
	}
	existing := []models.DocketEntry{
		persistedEntry("01/02/2026", "Petition Filed", "Smith"),
	}
	require.Empty(t, NewEntries(scraped, existing))

	// But changing any leg of the tuple makes it a different entry.
	scraped[0].Filer = "Jones"
	require.Len(t, NewEntries(scraped, existing), 1)
}

func TestNewEntriesDuplicateWithinScrape(t *testing.T) {
	scraped := []models.ScrapedDocketEntry{
		scrapedEntry("01/02/2026", "Petition Filed", "Smith"),
		scrapedEntry("01/02/2026", "Petition Filed", "Smith"),
	}

	// Reported once; the second row would be an insert no-op anyway.
	require.Len(t, NewEntries(scraped, nil), 1)
}

func TestNewEntriesEmptyScrape(t *testing.T) {
	existing := []models.DocketEntry{
		persistedEntry("01/02/2026", "Petition Filed", "Smith"),
	}
	require.Empty(t, NewEntries(nil, existing))
}
