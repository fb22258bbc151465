package main

import (
	"net/http"
	"os"
	"time"

	"github.com/pragmagen/courtwatch/app"
	"github.com/pragmagen/courtwatch/config"
	"github.com/pragmagen/courtwatch/lib"
	"github.com/pragmagen/courtwatch/lib/scrape"
	"github.com/pragmagen/courtwatch/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),

		fx.Provide(senders.NewSenderRegistry),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(scrape.NewClient),
		fx.Provide(lib.NewChecker),
		fx.Provide(lib.NewService),
		fx.Provide(app.NewAPI),

		fx.Invoke(func(*http.Server) {}),
	).Run()
}
