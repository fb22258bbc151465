package app

import (
	"time"

	"github.com/pragmagen/courtwatch/lib/models"
)

type CaseView struct {
	ID         uint   `json:"id"`
	CaseNumber string `json:"case_number"`
	CaseName   string `json:"case_name"`
	CaseURL    string `json:"case_url"`
	CreatedAt  string `json:"created_at"`
}

func (view CaseView) From(entity models.Case) CaseView {
	return CaseView{
		ID:         entity.ID,
		CaseNumber: entity.CaseNumber,
		CaseName:   entity.CaseName,
		CaseURL:    entity.CaseURL,
		CreatedAt:  isoformat(entity.CreatedAt),
	}
}

type AlertView struct {
	ID           uint   `json:"id"`
	CaseNumber   string `json:"case_number"`
	CaseName     string `json:"case_name"`
	EntriesCount int    `json:"entries_count"`
	SentAt       string `json:"sent_at"`
}

func (view AlertView) From(entity models.Alert) AlertView {
	return AlertView{
		ID:           entity.ID,
		CaseNumber:   entity.Case.CaseNumber,
		CaseName:     entity.Case.CaseName,
		EntriesCount: entity.EntriesCount,
		SentAt:       isoformat(entity.SentAt),
	}
}

type Fromable[Entity any, Repr any] interface {
	From(Entity) Repr
}

func FromMany[U Fromable[T, U], T any](elems []T) []U {
	out := make([]U, len(elems))
	for i, t := range elems {
		var u U
		out[i] = u.From(t)
	}
	return out
}

func isoformat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
