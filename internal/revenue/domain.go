package revenue

import (
	"time"
)

// Entry is the engine's unified input row. Both record sources, the
// precomputed snapshot table and the live lead recompute, normalise into
// this shape so a single aggregation pass serves every dashboard
// variant.
type Entry struct {
	UserID        int64
	Store         string
	Date          time.Time
	Revenue       float64
	Profit        float64
	Closed        int
	Projects      int
	ReceiveCash   float64
	ReceiveOnline float64
	PayInCash     float64
	PayInOnline   float64
}

// ExpenseEntry is a store expense matched into the same buckets in a
// second pass.
type ExpenseEntry struct {
	UserID int64
	Store  string
	Amount float64
	Date   time.Time
}

// Bucket accumulates one time or store slice of the report.
type Bucket struct {
	Key           string  `json:"key"`
	Revenue       float64 `json:"revenue"`
	TotalProfit   float64 `json:"totalProfit"`
	ProjectClose  int     `json:"projectClose"`
	TotalProjects int     `json:"totalProjects"`
	ReceiveCash   float64 `json:"receiveCash"`
	ReceiveOnline float64 `json:"receiveOnline"`
	PayInCash     float64 `json:"payInCash"`
	PayInOnline   float64 `json:"payInOnline"`
	TotalExpenses float64 `json:"totalExpenses"`

	start time.Time
}

// Totals carries grand totals for the whole query scope.
type Totals struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalProfit       float64 `json:"totalProfit"`
	TotalProjectClose int     `json:"totalProjectClose"`
	TotalProjects     int     `json:"totalProjects"`
	TotalExpenses     float64 `json:"totalExpenses"`
}

// Report is the full time-bucketed rollup for one dashboard request.
type Report struct {
	Months         []Bucket `json:"months"`
	Quarters       []Bucket `json:"quarters"`
	Years          []Bucket `json:"years"`
	FinancialYears []Bucket `json:"financialYears"`
	Stores         []Bucket `json:"stores"`
	Totals         Totals   `json:"totals"`
}
