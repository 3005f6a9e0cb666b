package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-interiors/meridian/internal/auth"
	"github.com/meridian-interiors/meridian/internal/expenses"
	"github.com/meridian-interiors/meridian/internal/leads"
	"github.com/meridian-interiors/meridian/internal/ledger"
	revenuehttp "github.com/meridian-interiors/meridian/internal/revenue/http"
	"github.com/meridian-interiors/meridian/internal/shared"
	"github.com/meridian-interiors/meridian/internal/vendors"
	"github.com/meridian-interiors/meridian/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	AuthHandler    *auth.Handler
	LeadHandler    *leads.Handler
	LedgerHandler  *ledger.Handler
	VendorHandler  *vendors.Handler
	ExpenseHandler *expenses.Handler
	RevenueHandler *revenuehttp.Handler
	ImportHandler  *jobs.Handler
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(RequireAuth)

			protected.Route("/leads", func(lr chi.Router) {
				params.LeadHandler.MountRoutes(lr)
				params.LedgerHandler.MountRoutes(lr)
				params.VendorHandler.MountLeadRoutes(lr)
			})
			protected.Route("/vendors", params.VendorHandler.MountRoutes)
			protected.Route("/expenses", params.ExpenseHandler.MountRoutes)
			protected.Route("/revenue", params.RevenueHandler.MountRoutes)
			if params.ImportHandler != nil {
				protected.Route("/import", params.ImportHandler.MountRoutes)
			}
		})
	})

	return r
}
