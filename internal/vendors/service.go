package vendors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridian-interiors/meridian/internal/ledger"
)

// TxRepository exposes row operations inside one vendor mutation. Vendor
// and breakdown rows are locked for the duration.
type TxRepository interface {
	GetLeadID(ctx context.Context, leadNumber string) (int64, error)
	GetVendorForUpdate(ctx context.Context, vendorID int64) (*Vendor, error)
	GetBreakdownForUpdate(ctx context.Context, vendorID, leadID int64) (*Breakdown, error)
	CreateBreakdown(ctx context.Context, vendorID, leadID int64, totalAmt float64) (*Breakdown, error)
	SetBreakdown(ctx context.Context, id int64, totalAmt, totalGiven float64) (*Breakdown, error)
	DeleteBreakdown(ctx context.Context, id int64) error
	ApplyVendorDeltas(ctx context.Context, vendorID int64, totalChargeDelta, givenChargeDelta float64) (*Vendor, error)
	InsertNote(ctx context.Context, note ledger.TransactionNote) error
	ApplyLeadExpDelta(ctx context.Context, leadID int64, delta float64) error
	LinkLeadVendor(ctx context.Context, vendorID, leadID int64) error
	UnlinkLeadVendor(ctx context.Context, vendorID, leadID int64) error
}

// RepositoryPort defines data access for vendors.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Create(ctx context.Context, input CreateInput) (*Vendor, error)
	Get(ctx context.Context, vendorID int64) (*Vendor, error)
	List(ctx context.Context) ([]Vendor, error)
	GetLeadID(ctx context.Context, leadNumber string) (int64, error)
	ListBreakdownsForLead(ctx context.Context, leadID int64) ([]Breakdown, error)
}

// CacheBumper invalidates report caches after vendor money moves.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// CreateInput registers a new vendor.
type CreateInput struct {
	Name     string
	MobileNo string
	Address  string
	City     string
}

// Service handles vendor assignment and charge bookkeeping.
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

// Create registers a vendor.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Vendor, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	return s.repo.Create(ctx, input)
}

// Get returns one vendor.
func (s *Service) Get(ctx context.Context, vendorID int64) (*Vendor, error) {
	return s.repo.Get(ctx, vendorID)
}

// List returns all vendors.
func (s *Service) List(ctx context.Context) ([]Vendor, error) {
	return s.repo.List(ctx)
}

// BreakdownsForLead returns the commitments attached to one lead.
func (s *Service) BreakdownsForLead(ctx context.Context, leadNumber string) ([]Breakdown, error) {
	leadID, err := s.repo.GetLeadID(ctx, leadNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBreakdownsForLead(ctx, leadID)
}

// Assign commits a vendor to a lead for the given amount.
func (s *Service) Assign(ctx context.Context, vendorID int64, leadNumber string, amount float64) (*Breakdown, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	var created *Breakdown
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		leadID, err := tx.GetLeadID(ctx, leadNumber)
		if err != nil {
			return err
		}
		if _, err := tx.GetVendorForUpdate(ctx, vendorID); err != nil {
			return err
		}
		if existing, err := tx.GetBreakdownForUpdate(ctx, vendorID, leadID); err == nil && existing != nil {
			return ErrAlreadyAssigned
		} else if err != nil && err != ErrBreakdownNotFound {
			return err
		}
		created, err = tx.CreateBreakdown(ctx, vendorID, leadID, amount)
		if err != nil {
			return err
		}
		if _, err := tx.ApplyVendorDeltas(ctx, vendorID, amount, 0); err != nil {
			return err
		}
		return tx.LinkLeadVendor(ctx, vendorID, leadID)
	})
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return created, nil
}

// EditCharge changes the committed amount for a (vendor, lead) pair.
// Lowering the commitment below what has already been paid clamps
// totalGiven down to the new amount and records the difference as a
// vendor refund note, so the ledger keeps an audit trail instead of
// history being rewritten.
func (s *Service) EditCharge(ctx context.Context, vendorID int64, leadNumber string, newAmount float64) (*Breakdown, error) {
	if newAmount < 0 {
		return nil, ErrInvalidAmount
	}
	var updated *Breakdown
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		leadID, err := tx.GetLeadID(ctx, leadNumber)
		if err != nil {
			return err
		}
		if _, err := tx.GetVendorForUpdate(ctx, vendorID); err != nil {
			return err
		}
		bd, err := tx.GetBreakdownForUpdate(ctx, vendorID, leadID)
		if err != nil {
			return err
		}

		switch {
		case newAmount >= bd.TotalGiven:
			updated, err = tx.SetBreakdown(ctx, bd.ID, newAmount, bd.TotalGiven)
			if err != nil {
				return err
			}
			_, err = tx.ApplyVendorDeltas(ctx, vendorID, newAmount-bd.TotalAmt, 0)
			return err
		default:
			// newAmount < totalGiven: clamp and refund the overpayment.
			refund := bd.TotalGiven - newAmount
			updated, err = tx.SetBreakdown(ctx, bd.ID, newAmount, newAmount)
			if err != nil {
				return err
			}
			if _, err := tx.ApplyVendorDeltas(ctx, vendorID, newAmount-bd.TotalAmt, -refund); err != nil {
				return err
			}
			return tx.InsertNote(ctx, ledger.TransactionNote{
				LeadID:          leadID,
				Amount:          refund,
				Name:            ledger.NameVendorPayment,
				Type:            ledger.TypeCashIn,
				Method:          ledger.MethodOnline,
				VendorID:        &vendorID,
				Remark:          "vendor charge reduced below amount already given, refund recorded",
				TransactionDate: s.now(),
			})
		}
	})
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return updated, nil
}

// Unassign detaches a vendor from a lead, reversing its financial
// footprint. Money already given comes back as a refund note and the
// lead's recorded expenses shrink by the same amount.
func (s *Service) Unassign(ctx context.Context, vendorID int64, leadNumber string) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		leadID, err := tx.GetLeadID(ctx, leadNumber)
		if err != nil {
			return err
		}
		if _, err := tx.GetVendorForUpdate(ctx, vendorID); err != nil {
			return err
		}
		bd, err := tx.GetBreakdownForUpdate(ctx, vendorID, leadID)
		if err != nil {
			return err
		}

		if err := tx.DeleteBreakdown(ctx, bd.ID); err != nil {
			return err
		}
		if bd.TotalGiven > 0 {
			if err := tx.InsertNote(ctx, ledger.TransactionNote{
				LeadID:          leadID,
				Amount:          bd.TotalGiven,
				Name:            ledger.NameVendorPayment,
				Type:            ledger.TypeCashIn,
				Method:          ledger.MethodOnline,
				VendorID:        &vendorID,
				Remark:          "vendor unassigned, amount given refunded",
				TransactionDate: s.now(),
			}); err != nil {
				return err
			}
			if err := tx.ApplyLeadExpDelta(ctx, leadID, -bd.TotalGiven); err != nil {
				return err
			}
		}
		if _, err := tx.ApplyVendorDeltas(ctx, vendorID, -bd.TotalAmt, -bd.TotalGiven); err != nil {
			return err
		}
		return tx.UnlinkLeadVendor(ctx, vendorID, leadID)
	})
	if err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("bump report cache", slog.Any("error", err))
	}
}
