package senders

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/pragmagen/courtwatch/lib/models"
)

var (
	//go:embed alert.html
	alertHTML     string
	alertTemplate = template.Must(template.New("alert.html").Parse(alertHTML))
)

func mustFillTemplate(tmpl *template.Template, values any) string {
	buf := new(strings.Builder)
	err := tmpl.Execute(buf, values)
	if err != nil {
		return ""
	}
	return buf.String()
}

type AlertEmailFormat struct {
	CaseNumber string
	CaseName   string
	Entries    []models.ScrapedDocketEntry
}

func (ef *AlertEmailFormat) Subject() string {
	return fmt.Sprintf("[Court Alert] New activity in %s", ef.CaseNumber)
}

func (ef *AlertEmailFormat) Body() string {
	return mustFillTemplate(alertTemplate, ef)
}
