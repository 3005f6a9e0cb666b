package leads

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridian-interiors/meridian/internal/shared"
)

// RepositoryPort defines data access methods for leads.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateInput) (*Lead, error)
	GetByNumber(ctx context.Context, number string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the row operations inside one lifecycle
// transition. The lead row is locked for the duration, so the gate
// check and the status flip see the same balances even with postings
// running concurrently.
type TxRepository interface {
	GetByNumberForUpdate(ctx context.Context, number string) (*Lead, error)
	Initialize(ctx context.Context, id int64, input InitInput) (*Lead, error)
	SetStatus(ctx context.Context, id int64, status LeadStatus) (*Lead, error)
}

// ClosureRecorder is notified when a project closes, so the revenue
// snapshot table stays current without leads depending on the revenue
// package directly.
type ClosureRecorder interface {
	RecordClosure(ctx context.Context, lead Lead) error
}

// CreateInput books a fresh lead in WON state.
type CreateInput struct {
	Number       string
	Store        string
	CustomerName string
	UserID       int64
}

// InitInput moves a WON lead into INPROGRESS with its cost split.
type InitInput struct {
	TotalProjectCost    float64
	PayInCash           float64
	PayInOnline         float64
	AdditionalItemsCost float64
	TotalGST            float64
	ExpectedHandover    *time.Time
}

// ListFilter narrows lead listings.
type ListFilter struct {
	Store  string
	Status LeadStatus
	UserID int64
}

// Service handles lead lifecycle logic.
type Service struct {
	repo    RepositoryPort
	closure ClosureRecorder
	logger  *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, closure ClosureRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, closure: closure, logger: logger}
}

// Create books a new lead in WON state.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Lead, error) {
	if input.Number == "" {
		return nil, fmt.Errorf("%w: lead number required", ErrInvalidInput)
	}
	return s.repo.Create(ctx, input)
}

// Get resolves a lead by its display number.
func (s *Service) Get(ctx context.Context, number string) (*Lead, error) {
	return s.repo.GetByNumber(ctx, number)
}

// List returns leads visible to the caller. Managers only see their own
// store; admins see everything.
func (s *Service) List(ctx context.Context, claims *shared.Claims, filter ListFilter) ([]Lead, error) {
	if claims != nil && !claims.IsAdmin() {
		filter.Store = claims.Store
		filter.UserID = claims.UserID
	}
	return s.repo.List(ctx, filter)
}

// Initialize attaches the cost split to a WON lead and moves it to
// INPROGRESS. The split identity totalProjectCost == payInCash +
// payInOnline + additionalItemsCost is enforced here.
func (s *Service) Initialize(ctx context.Context, number string, input InitInput) (*Lead, error) {
	if input.TotalProjectCost <= 0 {
		return nil, fmt.Errorf("%w: total project cost must be positive", ErrCostSplitMismatch)
	}
	if input.PayInCash+input.PayInOnline+input.AdditionalItemsCost != input.TotalProjectCost {
		return nil, ErrCostSplitMismatch
	}

	var updated *Lead
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lead, err := tx.GetByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		switch lead.Status {
		case StatusWon:
		case StatusInProgress:
			return ErrAlreadyInitialized
		default:
			return ErrTerminalStatus
		}
		updated, err = tx.Initialize(ctx, lead.ID, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConfirmHandover closes a lead. Rejected while any balance remains.
// The settlement check runs against the locked lead row, so a posting
// landing concurrently cannot slip a balance back in under the close.
func (s *Service) ConfirmHandover(ctx context.Context, number string) (*Lead, error) {
	var closed *Lead
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lead, err := tx.GetByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		if lead.Status != StatusInProgress {
			return ErrNotInProgress
		}
		if remaining := lead.TotalProjectCost - (lead.ReceiveCash + lead.ReceiveOnline); remaining > 0 {
			return fmt.Errorf("%w: %.2f outstanding", ErrHandoverBlocked, remaining)
		}
		closed, err = tx.SetStatus(ctx, lead.ID, StatusClosed)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.closure != nil {
		if err := s.closure.RecordClosure(ctx, *closed); err != nil && s.logger != nil {
			s.logger.Error("record closure snapshot", slog.Any("error", err), slog.String("lead", closed.Number))
		}
	}
	return closed, nil
}

// MarkLost flags a lead as lost.
func (s *Service) MarkLost(ctx context.Context, number string) (*Lead, error) {
	var lost *Lead
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lead, err := tx.GetByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		if lead.Status == StatusClosed || lead.Status == StatusLost {
			return ErrTerminalStatus
		}
		lost, err = tx.SetStatus(ctx, lead.ID, StatusLost)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lost, nil
}
