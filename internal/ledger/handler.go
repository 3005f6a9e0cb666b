package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-interiors/meridian/internal/leads"
	"github.com/meridian-interiors/meridian/internal/platform/httpx"
)

// Handler manages transaction posting endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	leadSvc  *leads.Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, leadSvc *leads.Service) *Handler {
	return &Handler{logger: logger, service: service, leadSvc: leadSvc, validate: validator.New()}
}

// MountRoutes registers ledger routes under a lead.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{number}/transactions", h.postTransaction)
	r.Get("/{number}/transactions", h.listTransactions)
}

type postRequest struct {
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	Name       string     `json:"transactionName" validate:"required"`
	Type       string     `json:"transactionType" validate:"required,oneof=CASH_IN CASH_OUT"`
	Method     string     `json:"paymentMethod" validate:"required,oneof=CASH ONLINE"`
	VendorID   *int64     `json:"vendorId,omitempty"`
	Remark     string     `json:"remark,omitempty"`
	ActualDate *time.Time `json:"actualDate,omitempty"`
}

func (h *Handler) postTransaction(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		httpx.ProblemFields(w, fields)
		return
	}

	result, err := h.service.Post(r.Context(), PostInput{
		LeadNumber: chi.URLParam(r, "number"),
		Amount:     req.Amount,
		Name:       TransactionName(req.Name),
		Type:       TransactionType(req.Type),
		Method:     PaymentMethod(req.Method),
		VendorID:   req.VendorID,
		Remark:     req.Remark,
		ActualDate: req.ActualDate,
	})
	if err != nil {
		h.respondError(w, "post transaction", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	lead, err := h.leadSvc.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.respondError(w, "resolve lead", err)
		return
	}
	notes, err := h.service.ListForLead(r.Context(), lead.ID)
	if err != nil {
		h.respondError(w, "list transactions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": notes})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, leads.ErrNotFound), errors.Is(err, ErrVendorNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrVendorNotLinked):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownEnum), errors.Is(err, ErrVendorRequired):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
