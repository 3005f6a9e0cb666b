package vendors

import (
	"errors"
	"time"
)

// Vendor is a supplier assignable to leads. TotalCharge and GivenCharge
// are running sums over its breakdowns across all leads.
type Vendor struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	MobileNo    string    `json:"mobileNo"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	TotalCharge float64   `json:"totalCharge"`
	GivenCharge float64   `json:"givenCharge"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Breakdown is the per-(vendor, lead) commitment. totalGiven never
// exceeds totalAmt after any operation completes; the charge editor and
// unassignment insert compensating ledger entries to keep it that way.
type Breakdown struct {
	ID         int64     `json:"id"`
	VendorID   int64     `json:"vendorId"`
	LeadID     int64     `json:"leadId"`
	TotalAmt   float64   `json:"totalAmt"`
	TotalGiven float64   `json:"totalGiven"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Domain errors.
var (
	ErrNotFound          = errors.New("vendors: vendor not found")
	ErrBreakdownNotFound = errors.New("vendors: vendor is not assigned to this lead")
	ErrAlreadyAssigned   = errors.New("vendors: vendor already assigned to this lead")
	ErrInvalidAmount     = errors.New("vendors: amount must not be negative")
	ErrInvalidInput      = errors.New("vendors: invalid input")
)
