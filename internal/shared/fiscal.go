package shared

import (
	"fmt"
	"time"
)

// Bucket key helpers shared by the aggregation engine and exports. The
// financial year runs April through March.

// MonthKey formats a time as "January-2024".
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%s-%d", t.Month().String(), t.Year())
}

// Quarter returns the calendar quarter 1..4 for a time.
func Quarter(t time.Time) int {
	return (int(t.Month()) + 2) / 3
}

// QuarterKey formats a time as "Q1-2024".
func QuarterKey(t time.Time) string {
	return fmt.Sprintf("Q%d-%d", Quarter(t), t.Year())
}

// YearKey formats a time as "2024".
func YearKey(t time.Time) string {
	return fmt.Sprintf("%d", t.Year())
}

// FinancialYearKey formats a time as "2024-2025". April 1 opens a new
// financial year; March 31 still belongs to the previous one.
func FinancialYearKey(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.April {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// StoreKey composes the per-manager rollup key "{userID}-{store}".
func StoreKey(userID int64, store string) string {
	return fmt.Sprintf("%d-%s", userID, store)
}
