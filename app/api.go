package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pragmagen/courtwatch/config"
	"github.com/pragmagen/courtwatch/lib"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg, log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if creds := cfg.GetCreds(); len(creds) > 0 {
			r.Use(middleware.BasicAuth("courtwatch", creds))
		} else {
			log.Sugar().Info("Auth is disabled since no credentials are defined")
		}

		r.Route("/cases", func(r chi.Router) {
			r.Get("/", ctrl.listCases)
			r.Post("/", ctrl.addCase)
			r.Delete("/{case_id}", ctrl.removeCase)
		})
		r.Get("/alerts", ctrl.listAlerts)
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", ctrl.getSettings)
			r.Post("/", ctrl.setSettings)
		})

		// GET allowed too so a dumb cron trigger can hit it.
		r.Get("/check", ctrl.runCheck)
		r.Post("/check", ctrl.runCheck)
	})

	return r
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	if b, err := json.Marshal(body); err != nil {
		ctrl.reject(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Error("Request failed", "error", err)
		return
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if b != nil {
			w.Write(b)
		}
	}
}

func (ctrl *controller) listCases(w http.ResponseWriter, r *http.Request) {
	cases, err := ctrl.svc.ListCases(r.Context())
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, FromMany[CaseView](cases))
}

func (ctrl *controller) addCase(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CaseURL string `json:"case_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		ctrl.reject(w, 400, err)
		return
	}
	if strings.TrimSpace(payload.CaseURL) == "" {
		ctrl.reject(w, 400, errors.New("Case URL is required"))
		return
	}

	tracked, err := ctrl.svc.AddCase(r.Context(), strings.TrimSpace(payload.CaseURL))
	switch {
	case errors.Is(err, lib.ErrCaseNotFound):
		ctrl.reject(w, 404, err)
		return
	case errors.Is(err, lib.ErrAlreadyTracked):
		ctrl.reject(w, 409, err)
		return
	case err != nil:
		ctrl.reject(w, 502, err)
		return
	}
	ctrl.resolve(w, 200, CaseView{}.From(*tracked))
}

func (ctrl *controller) removeCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "case_id")
	if err := ctrl.svc.RemoveCase(r.Context(), parseInt(caseID)); err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, map[string]any{"ok": true})
}

func (ctrl *controller) listAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := ctrl.svc.RecentAlerts(r.Context(), 20)
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, FromMany[AlertView](alerts))
}

func (ctrl *controller) getSettings(w http.ResponseWriter, r *http.Request) {
	email, err := ctrl.svc.AlertEmail(r.Context())
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, map[string]any{"alert_email": email})
}

func (ctrl *controller) setSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		AlertEmail string `json:"alert_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		ctrl.reject(w, 400, err)
		return
	}

	email := strings.TrimSpace(payload.AlertEmail)
	if email == "" || !strings.Contains(email, "@") {
		ctrl.reject(w, 400, errors.New("Valid email is required"))
		return
	}

	if err := ctrl.svc.SetAlertEmail(r.Context(), email); err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, map[string]any{"ok": true})
}

func (ctrl *controller) runCheck(w http.ResponseWriter, r *http.Request) {
	summary, err := ctrl.svc.Check(r.Context())
	switch {
	case errors.Is(err, lib.ErrNoAlertEmail):
		ctrl.reject(w, 400, err)
		return
	case err != nil:
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, summary)
}

func parseInt(s string) uint {
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}
