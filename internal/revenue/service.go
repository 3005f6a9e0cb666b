package revenue

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-interiors/meridian/internal/leads"
	"github.com/meridian-interiors/meridian/internal/platform/cache"
)

// Repository defines the row loaders behind both record sources.
type Repository interface {
	LoadSnapshots(ctx context.Context, userID int64) ([]Entry, error)
	LoadOngoing(ctx context.Context, userID int64) ([]Entry, error)
	LoadExpenses(ctx context.Context, userID int64) ([]ExpenseEntry, error)
	UpsertSnapshot(ctx context.Context, lead leads.Lead) error
}

// Variant selects the record population feeding the engine. The snapshot
// variant reads the precomputed revenue table; the ongoing variant
// recomputes from live INPROGRESS leads. Callers must not conflate the
// two: they produce the same shape over different populations.
type Variant string

const (
	VariantSnapshot Variant = "snapshot"
	VariantOngoing  Variant = "ongoing"
)

// Service coordinates report building with the cache layer.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService wires a Repository with the cache helper.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Build produces the report for one variant and scope. userID zero means
// company-wide. Lead rows and store expenses load concurrently; both
// land in the same bucket map.
func (s *Service) Build(ctx context.Context, variant Variant, userID int64) (*Report, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		var entries []Entry
		var expenses []ExpenseEntry

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			switch variant {
			case VariantOngoing:
				entries, err = s.repo.LoadOngoing(gctx, userID)
			default:
				entries, err = s.repo.LoadSnapshots(gctx, userID)
			}
			return err
		})
		g.Go(func() error {
			var err error
			expenses, err = s.repo.LoadExpenses(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return Aggregate(entries, expenses), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.(*Report), nil
	}

	key, err := s.cache.BuildKey(ctx, "revenue", string(variant), strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, err
	}
	var report Report
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return nil, err
	}
	return &report, nil
}

// RecordClosure folds a closed lead into the snapshot table so the
// snapshot variant stays current. Implements leads.ClosureRecorder.
func (s *Service) RecordClosure(ctx context.Context, lead leads.Lead) error {
	if err := s.repo.UpsertSnapshot(ctx, lead); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}
