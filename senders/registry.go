package senders

import (
	"context"
	"net/http"

	"github.com/pragmagen/courtwatch/config"
	"github.com/pragmagen/courtwatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Sender interface {
	SendAlert(ctx context.Context, recipient, caseNumber, caseName string, entries []models.ScrapedDocketEntry, attachments []models.Attachment) (string, error)
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) Registry {
	base := base{log, cfg, transport}
	return Registry{
		"email": &mailgunSender{base},
	}
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}
