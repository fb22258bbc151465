package models

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Case struct {
	gorm.Model
	CaseNumber string `gorm:"unique"`
	CaseName   string
	CaseURL    string
	InternalID string // the site's own identifier; the only key usable against it

	Entries []DocketEntry `gorm:"constraint:OnDelete:CASCADE"`
	Alerts  []Alert       `gorm:"constraint:OnDelete:CASCADE"`
}

type Cases []Case

type DocketEntry struct {
	gorm.Model
	CaseID            uint   `gorm:"uniqueIndex:idx_docket_identity"`
	EntryDate         string `gorm:"uniqueIndex:idx_docket_identity"`
	Event             string `gorm:"uniqueIndex:idx_docket_identity"`
	Filer             string `gorm:"uniqueIndex:idx_docket_identity"`
	HasPDF            bool
	PDFPostbackTarget sql.NullString
}

func (e *DocketEntry) IdentityKey() string {
	return identityKey(e.EntryDate, e.Event, e.Filer)
}

type Alert struct {
	gorm.Model
	CaseID       uint
	EntriesCount int
	SentAt       time.Time

	Case Case
}

type Alerts []Alert

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const SettingAlertEmail = "alert_email"
