package leads

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-interiors/meridian/internal/platform/httpx"
	"github.com/meridian-interiors/meridian/internal/shared"
)

// Handler manages lead endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers lead routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createLead)
	r.Get("/", h.listLeads)
	r.Get("/{number}", h.getLead)
	r.Post("/{number}/init", h.initLead)
	r.Post("/{number}/handover", h.confirmHandover)
	r.Post("/{number}/lost", h.markLost)
}

type createLeadRequest struct {
	Number       string `json:"leadNumber" validate:"required"`
	Store        string `json:"store" validate:"required"`
	CustomerName string `json:"customerName" validate:"required"`
}

func (h *Handler) createLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); fields != nil {
		httpx.ProblemFields(w, fields)
		return
	}
	claims := shared.ClaimsFromContext(r.Context())

	lead, err := h.service.Create(r.Context(), CreateInput{
		Number:       req.Number,
		Store:        req.Store,
		CustomerName: req.CustomerName,
		UserID:       claims.UserID,
	})
	if err != nil {
		h.respondError(w, "create lead", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, lead)
}

func (h *Handler) listLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Store:  r.URL.Query().Get("store"),
		Status: LeadStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
		return
	}
	claims := shared.ClaimsFromContext(r.Context())

	list, err := h.service.List(r.Context(), claims, filter)
	if err != nil {
		h.respondError(w, "list leads", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"leads": list})
}

type leadDetailResponse struct {
	Lead    *Lead            `json:"lead"`
	Summary FinancialSummary `json:"summary"`
}

func (h *Handler) getLead(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	lead, err := h.service.Get(r.Context(), number)
	if err != nil {
		h.respondError(w, "get lead", err)
		return
	}
	httpx.JSON(w, http.StatusOK, leadDetailResponse{Lead: lead, Summary: lead.Summary()})
}

type initLeadRequest struct {
	TotalProjectCost    float64    `json:"totalProjectCost" validate:"required,gt=0"`
	PayInCash           float64    `json:"payInCash" validate:"gte=0"`
	PayInOnline         float64    `json:"payInOnline" validate:"gte=0"`
	AdditionalItemsCost float64    `json:"additionalItemsCost" validate:"gte=0"`
	TotalGST            float64    `json:"totalGST" validate:"gte=0"`
	ExpectedHandover    *time.Time `json:"expectedHandoverDate"`
}

func (h *Handler) initLead(w http.ResponseWriter, r *http.Request) {
	var req initLeadRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); fields != nil {
		httpx.ProblemFields(w, fields)
		return
	}

	lead, err := h.service.Initialize(r.Context(), chi.URLParam(r, "number"), InitInput{
		TotalProjectCost:    req.TotalProjectCost,
		PayInCash:           req.PayInCash,
		PayInOnline:         req.PayInOnline,
		AdditionalItemsCost: req.AdditionalItemsCost,
		TotalGST:            req.TotalGST,
		ExpectedHandover:    req.ExpectedHandover,
	})
	if err != nil {
		h.respondError(w, "init lead", err)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

func (h *Handler) confirmHandover(w http.ResponseWriter, r *http.Request) {
	lead, err := h.service.ConfirmHandover(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.respondError(w, "confirm handover", err)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

func (h *Handler) markLost(w http.ResponseWriter, r *http.Request) {
	lead, err := h.service.MarkLost(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.respondError(w, "mark lost", err)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

func (h *Handler) fieldErrors(req any) map[string]string {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicateNumber):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrHandoverBlocked),
		errors.Is(err, ErrAlreadyInitialized),
		errors.Is(err, ErrNotInProgress),
		errors.Is(err, ErrTerminalStatus):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrCostSplitMismatch), errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
