package senders

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/pragmagen/courtwatch/lib/models"
)

type mailgunSender struct {
	base
}

func (e *mailgunSender) SendAlert(ctx context.Context, recipient, caseNumber, caseName string, entries []models.ScrapedDocketEntry, attachments []models.Attachment) (string, error) {
	mg := mailgun.NewMailgun(e.cfg.Mailgun.Domain, e.cfg.Mailgun.APIKey)
	mg.Client().Transport = e.transport

	format := &AlertEmailFormat{
		CaseNumber: caseNumber,
		CaseName:   caseName,
		Entries:    entries,
	}

	// Create message with empty body first.
	message := mg.NewMessage(e.cfg.Mailgun.SenderFrom, format.Subject(), "", recipient)
	// SetHtml with the payload proper. This will assign the MIME type properly.
	message.SetHtml(format.Body())

	for _, a := range attachments {
		message.AddBufferAttachment(a.Filename, a.Content)
	}

	timeout := time.Duration(e.cfg.Mailgun.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, id, err := mg.Send(ctx, message)
	return id, err
}
