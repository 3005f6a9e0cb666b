// Package revenuehttp exposes the revenue dashboards over HTTP.
package revenuehttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-interiors/meridian/internal/platform/httpx"
	"github.com/meridian-interiors/meridian/internal/revenue"
	"github.com/meridian-interiors/meridian/internal/revenue/export"
	"github.com/meridian-interiors/meridian/internal/shared"
)

// ReportService defines the dashboard data contract used by the handler.
type ReportService interface {
	Build(ctx context.Context, variant revenue.Variant, userID int64) (*revenue.Report, error)
}

// Handler coordinates HTTP requests for the revenue dashboards.
type Handler struct {
	logger  *slog.Logger
	service ReportService
}

// NewHandler constructs the revenue HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleAllRevenue(w http.ResponseWriter, r *http.Request) {
	h.respondReport(w, r, revenue.VariantSnapshot, 0)
}

func (h *Handler) handleStoreRevenue(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.scopedUserID(w, r)
	if !ok {
		return
	}
	h.respondReport(w, r, revenue.VariantSnapshot, userID)
}

func (h *Handler) handleOngoing(w http.ResponseWriter, r *http.Request) {
	h.respondReport(w, r, revenue.VariantOngoing, 0)
}

func (h *Handler) handleOngoingStore(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.scopedUserID(w, r)
	if !ok {
		return
	}
	h.respondReport(w, r, revenue.VariantOngoing, userID)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	variant := revenue.VariantSnapshot
	if r.URL.Query().Get("variant") == string(revenue.VariantOngoing) {
		variant = revenue.VariantOngoing
	}
	report, err := h.service.Build(r.Context(), variant, 0)
	if err != nil {
		h.logger.Error("build report for csv", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="revenue.csv"`)
	if err := export.WriteReportCSV(w, report); err != nil {
		h.logger.Error("write csv", slog.Any("error", err))
	}
}

func (h *Handler) respondReport(w http.ResponseWriter, r *http.Request, variant revenue.Variant, userID int64) {
	report, err := h.service.Build(r.Context(), variant, userID)
	if err != nil {
		h.logger.Error("build report", slog.Any("error", err), slog.String("variant", string(variant)))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// scopedUserID parses the path user id and refuses managers peeking at
// other stores.
func (h *Handler) scopedUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return 0, false
	}
	claims := shared.ClaimsFromContext(r.Context())
	if claims != nil && !claims.IsAdmin() && claims.UserID != userID {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "store dashboards are scoped to the owning manager")
		return 0, false
	}
	return userID, true
}
