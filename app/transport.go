package app

import (
	"net/http"

	"github.com/pragmagen/courtwatch/lib/scrape"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewTransport provides the browser-profile RoundTripper shared by the scrape
// client and the senders. It is stateless and safe to hold by reference; tests
// substitute their own RoundTripper to feed components canned responses.
func NewTransport(lc fx.Lifecycle, log *zap.Logger) http.RoundTripper {
	return scrape.NewRoundTripper()
}
