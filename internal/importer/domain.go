// Package importer pulls lead rows from an external spreadsheet into the
// database. The job is idempotent per lead number: a duplicate row is counted
// as skipped, a malformed one is recorded and the run continues.
package importer

import "errors"

// RowError captures a row that could not be imported.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarises one import run.
type Result struct {
	Added   int        `json:"added"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors"`
}

// SheetRow is one parsed spreadsheet line.
type SheetRow struct {
	Number           string
	Store            string
	CustomerName     string
	TotalProjectCost float64
	PayInCash        float64
	PayInOnline      float64
}

// ErrNoSource indicates no spreadsheet URL is configured.
var ErrNoSource = errors.New("importer: no sheet source configured")
