package leads

import (
	"errors"
	"time"
)

// LeadStatus enumerates lifecycle states of a project lead.
type LeadStatus string

const (
	// StatusWon marks a freshly booked, not yet initialised project.
	StatusWon        LeadStatus = "WON"
	StatusInProgress LeadStatus = "INPROGRESS"
	StatusClosed     LeadStatus = "CLOSED"
	StatusLost       LeadStatus = "LOST"
)

// Valid reports whether the status is a known lifecycle state.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusWon, StatusInProgress, StatusClosed, StatusLost:
		return true
	}
	return false
}

// Lead is one customer project tracked from booking to handover.
type Lead struct {
	ID                  int64      `json:"id"`
	Number              string     `json:"leadNumber"`
	Store               string     `json:"store"`
	CustomerName        string     `json:"customerName"`
	Status              LeadStatus `json:"status"`
	TotalProjectCost    float64    `json:"totalProjectCost"`
	PayInCash           float64    `json:"payInCash"`
	PayInOnline         float64    `json:"payInOnline"`
	ReceiveCash         float64    `json:"receiveCash"`
	ReceiveOnline       float64    `json:"receiveOnline"`
	TotalExp            float64    `json:"totalExp"`
	AdditionalItemsCost float64    `json:"additionalItemsCost"`
	TotalGST            float64    `json:"totalGST"`
	UserID              int64      `json:"userId"`
	ExpectedHandover    *time.Time `json:"expectedHandoverDate,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// FinancialSummary carries the derived money fields for one lead.
type FinancialSummary struct {
	RemainingAmount        float64 `json:"remainingAmount"`
	TotalOnlineAmount      float64 `json:"totalOnlineAmount"`
	CashReceivedProgress   float64 `json:"cashReceivedProgress"`
	OnlineReceivedProgress float64 `json:"onlineReceivedProgress"`
	OverPaid               bool    `json:"overPaid"`
	HandoverAllowed        bool    `json:"handoverAllowed"`
}

// Summary derives the financial summary from the lead's current balances.
// Additional items are always billed online, so they extend the online
// target rather than the cash one.
func (l Lead) Summary() FinancialSummary {
	totalOnline := l.PayInOnline + l.AdditionalItemsCost
	remaining := l.TotalProjectCost - (l.ReceiveCash + l.ReceiveOnline)

	summary := FinancialSummary{
		RemainingAmount:   remaining,
		TotalOnlineAmount: totalOnline,
		OverPaid:          l.ReceiveCash > l.PayInCash || l.ReceiveOnline > totalOnline,
		HandoverAllowed:   remaining <= 0,
	}
	if l.PayInCash > 0 {
		summary.CashReceivedProgress = l.ReceiveCash / l.PayInCash
	}
	if totalOnline > 0 {
		summary.OnlineReceivedProgress = l.ReceiveOnline / totalOnline
	}
	return summary
}

// Domain errors.
var (
	ErrNotFound           = errors.New("leads: lead not found")
	ErrInvalidInput       = errors.New("leads: invalid input")
	ErrDuplicateNumber    = errors.New("leads: lead number already exists")
	ErrAlreadyInitialized = errors.New("leads: lead already initialised")
	ErrNotInProgress      = errors.New("leads: lead is not in progress")
	ErrCostSplitMismatch  = errors.New("leads: cost split does not add up to total project cost")
	ErrHandoverBlocked    = errors.New("leads: outstanding balance blocks handover")
	ErrTerminalStatus     = errors.New("leads: lead is closed or lost")
)
