package expenses

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

// Handler manages store expense endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers expense routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createExpense)
	r.Get("/", h.listExpenses)
}

type createExpenseRequest struct {
	Amount          float64    `json:"amount" validate:"required,gt=0"`
	Name            string     `json:"transactionName" validate:"required"`
	Remark          string     `json:"remark"`
	TransactionDate *time.Time `json:"transactionDate"`
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
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

	input := CreateInput{Amount: req.Amount, Name: req.Name, Remark: req.Remark}
	if req.TransactionDate != nil {
		input.TransactionDate = *req.TransactionDate
	}
	exp, err := h.service.Create(r.Context(), shared.ClaimsFromContext(r.Context()), input)
	if err != nil {
		h.respondError(w, "create expense", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, exp)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), shared.ClaimsFromContext(r.Context()), ListFilter{
		Store: r.URL.Query().Get("store"),
	})
	if err != nil {
		h.respondError(w, "list expenses", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expenses": list})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownName):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
