package vendors

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-interiors/meridian/internal/leads"
	"github.com/meridian-interiors/meridian/internal/platform/httpx"
)

// Handler manages vendor endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers vendor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createVendor)
	r.Get("/", h.listVendors)
	r.Get("/{id}", h.getVendor)
	r.Post("/{id}/assign", h.assignVendor)
	r.Put("/charge", h.editCharge)
	r.Delete("/assignment", h.unassignVendor)
}

// MountLeadRoutes registers the per-lead breakdown view. Mounted under
// the lead routes so the path reads /leads/{number}/vendors.
func (h *Handler) MountLeadRoutes(r chi.Router) {
	r.Get("/{number}/vendors", h.leadBreakdowns)
}

func (h *Handler) leadBreakdowns(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.BreakdownsForLead(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.respondError(w, "list lead breakdowns", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"breakdowns": list})
}

type createVendorRequest struct {
	Name     string `json:"name" validate:"required"`
	MobileNo string `json:"mobileNo"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); fields != nil {
		httpx.ProblemFields(w, fields)
		return
	}
	vendor, err := h.service.Create(r.Context(), CreateInput{
		Name:     req.Name,
		MobileNo: req.MobileNo,
		Address:  req.Address,
		City:     req.City,
	})
	if err != nil {
		h.respondError(w, "create vendor", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vendor)
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "list vendors", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vendors": list})
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid vendor id")
		return
	}
	vendor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get vendor", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

type assignRequest struct {
	LeadNumber string  `json:"leadNumber" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
}

func (h *Handler) assignVendor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid vendor id")
		return
	}
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); fields != nil {
		httpx.ProblemFields(w, fields)
		return
	}
	breakdown, err := h.service.Assign(r.Context(), id, req.LeadNumber, req.Amount)
	if err != nil {
		h.respondError(w, "assign vendor", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, breakdown)
}

type chargeRequest struct {
	VendorID   int64   `json:"vendorId" validate:"required"`
	LeadNumber string  `json:"leadNumber" validate:"required"`
	NewAmount  float64 `json:"newAmount" validate:"gte=0"`
}

func (h *Handler) editCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); fields != nil {
		httpx.ProblemFields(w, fields)
		return
	}
	breakdown, err := h.service.EditCharge(r.Context(), req.VendorID, req.LeadNumber, req.NewAmount)
	if err != nil {
		h.respondError(w, "edit vendor charge", err)
		return
	}
	httpx.JSON(w, http.StatusOK, breakdown)
}

type unassignRequest struct {
	VendorID   int64  `json:"vendorId" validate:"required"`
	LeadNumber string `json:"leadNumber" validate:"required"`
}

func (h *Handler) unassignVendor(w http.ResponseWriter, r *http.Request) {
	var req unassignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); fields != nil {
		httpx.ProblemFields(w, fields)
		return
	}
	if err := h.service.Unassign(r.Context(), req.VendorID, req.LeadNumber); err != nil {
		h.respondError(w, "unassign vendor", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "vendor unassigned"})
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
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBreakdownNotFound), errors.Is(err, leads.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAlreadyAssigned):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
