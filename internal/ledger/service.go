package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-interiors/meridian/internal/leads"
)

// TxRepository exposes the row operations available inside one posting
// transaction. Lead and vendor rows are locked for the duration, which is
// what closes the lost-update race between concurrent postings.
type TxRepository interface {
	GetLeadForUpdate(ctx context.Context, number string) (*leads.Lead, error)
	InsertNote(ctx context.Context, note TransactionNote) (*TransactionNote, error)
	ApplyLeadDelta(ctx context.Context, leadID int64, delta BalanceDelta) (*leads.Lead, error)
	GetVendorForUpdate(ctx context.Context, vendorID int64) (*VendorBalances, error)
	HasBreakdown(ctx context.Context, vendorID, leadID int64) (bool, error)
	ApplyGivenDelta(ctx context.Context, vendorID, leadID int64, delta float64) (*VendorBalances, error)
}

// RepositoryPort defines data access for the ledger.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListByLead(ctx context.Context, leadID int64) ([]TransactionNote, error)
}

// CacheBumper invalidates report caches after a posting lands.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// PostInput is the poster's input contract.
type PostInput struct {
	LeadNumber string
	Amount     float64
	Name       TransactionName
	Type       TransactionType
	Method     PaymentMethod
	VendorID   *int64
	Remark     string
	ActualDate *time.Time
}

// PostResult reports everything one posting changed. Summary carries the
// derived balances so callers see over-payment immediately instead of
// having to refetch the lead.
type PostResult struct {
	Note    *TransactionNote       `json:"newTransaction"`
	Lead    *leads.Lead            `json:"updatedLead"`
	Summary leads.FinancialSummary `json:"summary"`
	Vendor  *VendorBalances        `json:"updatedVendor,omitempty"`
}

// Service applies transactions to leads and vendors.
type Service struct {
	repo   RepositoryPort
	cache  CacheBumper
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Post applies one transaction note to a lead, and to a vendor when the
// note is a vendor payment. All writes happen in a single database
// transaction: the note insert, the lead balance update and the vendor
// totals commit together or roll back together.
func (s *Service) Post(ctx context.Context, input PostInput) (*PostResult, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !input.Name.Valid() || !input.Type.Valid() || !input.Method.Valid() {
		return nil, ErrUnknownEnum
	}
	if input.Name == NameVendorPayment && input.VendorID == nil {
		return nil, ErrVendorRequired
	}

	var result PostResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lead, err := tx.GetLeadForUpdate(ctx, input.LeadNumber)
		if err != nil {
			return err
		}

		note, err := tx.InsertNote(ctx, TransactionNote{
			LeadID:          lead.ID,
			Amount:          input.Amount,
			Name:            input.Name,
			Type:            input.Type,
			Method:          input.Method,
			VendorID:        input.VendorID,
			Remark:          input.Remark,
			ActualDate:      input.ActualDate,
			TransactionDate: s.now(),
		})
		if err != nil {
			return err
		}
		result.Note = note

		updated, err := tx.ApplyLeadDelta(ctx, lead.ID, DeltaFor(input.Name, input.Type, input.Method, input.Amount))
		if err != nil {
			return err
		}
		result.Lead = updated

		if input.VendorID != nil && input.Name == NameVendorPayment {
			if _, err := tx.GetVendorForUpdate(ctx, *input.VendorID); err != nil {
				return err
			}
			linked, err := tx.HasBreakdown(ctx, *input.VendorID, lead.ID)
			if err != nil {
				return err
			}
			if !linked {
				return ErrVendorNotLinked
			}
			vendor, err := tx.ApplyGivenDelta(ctx, *input.VendorID, lead.ID, GivenDelta(input.Name, input.Type, input.Amount))
			if err != nil {
				return err
			}
			result.Vendor = vendor
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Summary = result.Lead.Summary()

	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
			s.logger.Warn("bump report cache", slog.Any("error", err))
		}
	}
	return &result, nil
}

// ListForLead returns the ledger of one lead, newest first.
func (s *Service) ListForLead(ctx context.Context, leadID int64) ([]TransactionNote, error) {
	return s.repo.ListByLead(ctx, leadID)
}
