// Package server assembles the HTTP surface: middleware, routing, and the
// health endpoint.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	accounthandler "constituent-connect/backend/internal/account/handler"
	billshandler "constituent-connect/backend/internal/bills/handler"
	concernshandler "constituent-connect/backend/internal/concerns/handler"
	loginhandler "constituent-connect/backend/internal/login/handler"
	projectshandler "constituent-connect/backend/internal/projects/handler"
	repshandler "constituent-connect/backend/internal/representative/handler"
	"constituent-connect/backend/internal/security"
	"constituent-connect/backend/internal/server/httpx"
	updateshandler "constituent-connect/backend/internal/updates/handler"
)

// Pinger reports backing-store liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps carries everything the router needs. Handlers are nil-checked so a
// partial wiring (e.g. in tests) still routes.
type Deps struct {
	Logger *slog.Logger
	Tokens *security.TokenProvider
	DB     Pinger

	Login          *loginhandler.Handler
	Accounts       *accounthandler.Handler
	Bills          *billshandler.Handler
	Projects       *projectshandler.Handler
	Updates        *updateshandler.Handler
	Concerns       *concernshandler.Handler
	Representative *repshandler.Handler
	DevOTPEnabled  bool
}

// NewRouter builds the chi router with the full middleware stack and all
// feature routes mounted.
func NewRouter(d Deps) chi.Router {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(log))
	r.Use(loggingMiddleware(log))

	r.Get("/healthz", d.health)

	if d.Login != nil {
		r.Route("/auth/v1", d.Login.Routes)
		if d.DevOTPEnabled {
			r.Route("/dev", d.Login.DevRoutes)
		}
	}

	// public civic content
	r.Route("/api/v1", func(api chi.Router) {
		if d.Bills != nil {
			d.Bills.Routes(api)
		}
		if d.Projects != nil {
			d.Projects.Routes(api)
		}
		if d.Updates != nil {
			d.Updates.Routes(api)
		}
		if d.Representative != nil {
			d.Representative.Routes(api)
		}

		// authenticated constituent endpoints
		api.Group(func(authed chi.Router) {
			authed.Use(authMiddleware(d.Tokens))
			if d.Accounts != nil {
				d.Accounts.Routes(authed)
			}
			if d.Concerns != nil {
				d.Concerns.Routes(authed)
			}
		})

		// admin dashboard endpoints
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware(d.Tokens))
			admin.Use(requireAdmin)
			if d.Accounts != nil {
				d.Accounts.AdminRoutes(admin)
			}
			if d.Bills != nil {
				d.Bills.AdminRoutes(admin)
			}
			if d.Projects != nil {
				d.Projects.AdminRoutes(admin)
			}
			if d.Updates != nil {
				d.Updates.AdminRoutes(admin)
			}
			if d.Concerns != nil {
				d.Concerns.AdminRoutes(admin)
			}
			if d.Representative != nil {
				d.Representative.AdminRoutes(admin)
			}
		})
	})

	return r
}

func (d Deps) health(w http.ResponseWriter, r *http.Request) {
	if d.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.PingContext(ctx); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			return
		}
	}
	httpx.WriteMessage(w, http.StatusOK, "ok")
}
