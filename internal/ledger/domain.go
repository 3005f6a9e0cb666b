package ledger

import (
	"errors"
	"time"
)

// TransactionName enumerates ledger entry kinds.
type TransactionName string

const (
	NameClientPayment TransactionName = "CLIENT_PAYMENT"
	NameVendorPayment TransactionName = "VENDOR_PAYMENT"
	NameRoundOff      TransactionName = "ROUNDOFF"
	NameSalary        TransactionName = "SALARY"
	NameBankDeduction TransactionName = "BANK_DDN"
	NameCashDeduction TransactionName = "CASH_DDN"
	NameLabour        TransactionName = "LABOUR"
	NameTransport     TransactionName = "TRANSPORT"
	NameMaterial      TransactionName = "MATERIAL"
	NameRent          TransactionName = "RENT"
	NameElectricity   TransactionName = "ELECTRICITY"
	NameMisc          TransactionName = "MISC"
)

// Valid reports whether the name belongs to the closed set.
func (n TransactionName) Valid() bool {
	switch n {
	case NameClientPayment, NameVendorPayment, NameRoundOff, NameSalary,
		NameBankDeduction, NameCashDeduction, NameLabour, NameTransport,
		NameMaterial, NameRent, NameElectricity, NameMisc:
		return true
	}
	return false
}

// TransactionType marks money direction.
type TransactionType string

const (
	TypeCashIn  TransactionType = "CASH_IN"
	TypeCashOut TransactionType = "CASH_OUT"
)

// Valid reports whether the type is known.
func (t TransactionType) Valid() bool {
	return t == TypeCashIn || t == TypeCashOut
}

// PaymentMethod marks the settlement channel.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "CASH"
	MethodOnline PaymentMethod = "ONLINE"
)

// Valid reports whether the method is known.
func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodOnline
}

// TransactionNote is one immutable ledger entry against a lead.
// Adjustments never mutate existing notes; they insert compensating ones.
type TransactionNote struct {
	ID              int64           `json:"id"`
	LeadID          int64           `json:"leadId"`
	Amount          float64         `json:"amount"`
	Name            TransactionName `json:"transactionName"`
	Type            TransactionType `json:"transactionType"`
	Method          PaymentMethod   `json:"paymentMethod"`
	VendorID        *int64          `json:"vendorId,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	ActualDate      *time.Time      `json:"actualDate,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// BalanceDelta is the signed effect of one note on a lead's balances.
type BalanceDelta struct {
	ReceiveCash   float64
	ReceiveOnline float64
	TotalExp      float64
}

// DeltaFor derives the lead balance effect from the posting case analysis.
// Vendor payments never move the client receive balances; any cash-out
// that is not a client payment accumulates into totalExp, and a vendor
// refund (CASH_IN vendor payment) reduces it.
func DeltaFor(name TransactionName, typ TransactionType, method PaymentMethod, amount float64) BalanceDelta {
	var d BalanceDelta

	if name != NameVendorPayment {
		switch typ {
		case TypeCashIn:
			switch method {
			case MethodCash:
				d.ReceiveCash += amount
			case MethodOnline:
				d.ReceiveOnline += amount
			}
		case TypeCashOut:
			switch method {
			case MethodCash:
				d.ReceiveCash -= amount
			case MethodOnline:
				d.ReceiveOnline -= amount
			}
		}
	}

	switch typ {
	case TypeCashOut:
		if name != NameClientPayment {
			d.TotalExp += amount
		}
	case TypeCashIn:
		if name == NameVendorPayment {
			d.TotalExp -= amount
		}
	}

	return d
}

// GivenDelta is the signed effect of a vendor payment on GivenCharge and
// the matching breakdown's totalGiven. Zero for non-vendor notes.
func GivenDelta(name TransactionName, typ TransactionType, amount float64) float64 {
	if name != NameVendorPayment {
		return 0
	}
	switch typ {
	case TypeCashOut:
		return amount
	case TypeCashIn:
		return -amount
	}
	return 0
}

// VendorBalances mirrors the vendor running totals touched by a posting.
type VendorBalances struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	TotalCharge float64 `json:"totalCharge"`
	GivenCharge float64 `json:"givenCharge"`
}

// Domain errors.
var (
	ErrInvalidAmount   = errors.New("ledger: amount must be positive")
	ErrUnknownEnum     = errors.New("ledger: unknown transaction name, type or method")
	ErrVendorNotFound  = errors.New("ledger: vendor not found")
	ErrVendorNotLinked = errors.New("ledger: vendor is not assigned to this lead")
	ErrVendorRequired  = errors.New("ledger: vendor payments require a vendor id")
)
