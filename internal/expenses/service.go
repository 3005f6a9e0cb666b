package expenses

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-interiors/meridian/internal/ledger"
	"github.com/meridian-interiors/meridian/internal/shared"
)

// RepositoryPort defines data access for store expenses.
type RepositoryPort interface {
	Create(ctx context.Context, exp StoreExpense) (*StoreExpense, error)
	List(ctx context.Context, filter ListFilter) ([]StoreExpense, error)
}

// CacheBumper invalidates report caches after an expense lands.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// ListFilter narrows expense listings.
type ListFilter struct {
	UserID int64
	Store  string
	From   time.Time
	To     time.Time
}

// CreateInput records one store expense.
type CreateInput struct {
	Amount          float64
	Name            string
	Remark          string
	TransactionDate time.Time
}

// Service handles store expense bookkeeping.
type Service struct {
	repo   RepositoryPort
	cache  CacheBumper
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Create records a store expense for the calling manager's store.
func (s *Service) Create(ctx context.Context, claims *shared.Claims, input CreateInput) (*StoreExpense, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	exp := StoreExpense{
		Amount:          input.Amount,
		Name:            ledger.TransactionName(input.Name),
		Remark:          input.Remark,
		TransactionDate: input.TransactionDate,
	}
	if !exp.Name.Valid() {
		return nil, ErrUnknownName
	}
	if exp.TransactionDate.IsZero() {
		exp.TransactionDate = time.Now()
	}
	if claims != nil {
		exp.UserID = claims.UserID
		exp.Store = claims.Store
	}
	created, err := s.repo.Create(ctx, exp)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
			s.logger.Warn("bump report cache", slog.Any("error", err))
		}
	}
	return created, nil
}

// List returns expenses visible to the caller.
func (s *Service) List(ctx context.Context, claims *shared.Claims, filter ListFilter) ([]StoreExpense, error) {
	if claims != nil && !claims.IsAdmin() {
		filter.UserID = claims.UserID
		filter.Store = claims.Store
	}
	return s.repo.List(ctx, filter)
}
