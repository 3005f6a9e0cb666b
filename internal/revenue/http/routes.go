package revenuehttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/meridian-interiors/meridian/internal/shared"
)

// MountRoutes registers revenue endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/all", h.handleAllRevenue)
	r.Get("/store/{userID}", h.handleStoreRevenue)
	r.Get("/ongoing", h.handleOngoing)
	r.Get("/ongoing/store/{userID}", h.handleOngoingStore)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/export.csv", h.handleCSV)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
		return "user:" + shared.StoreKey(claims.UserID, claims.Store), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
