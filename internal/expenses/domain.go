package expenses

import (
	"errors"
	"time"

	"github.com/meridian-interiors/meridian/internal/ledger"
)

// StoreExpense is a store-level operating cost, independent of any lead.
type StoreExpense struct {
	ID              int64                  `json:"id"`
	UserID          int64                  `json:"userId"`
	Store           string                 `json:"store"`
	Amount          float64                `json:"amount"`
	Name            ledger.TransactionName `json:"transactionName"`
	Remark          string                 `json:"remark,omitempty"`
	TransactionDate time.Time              `json:"transactionDate"`
}

// Domain errors.
var (
	ErrInvalidAmount = errors.New("expenses: amount must be positive")
	ErrUnknownName   = errors.New("expenses: unknown transaction name")
)
