package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthKey(t *testing.T) {
	require.Equal(t, "January-2024", MonthKey(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "December-2023", MonthKey(time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC)))
}

func TestQuarterKey(t *testing.T) {
	cases := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Q1-2024"},
		{time.March, "Q1-2024"},
		{time.April, "Q2-2024"},
		{time.June, "Q2-2024"},
		{time.July, "Q3-2024"},
		{time.September, "Q3-2024"},
		{time.October, "Q4-2024"},
		{time.December, "Q4-2024"},
	}
	for _, tc := range cases {
		got := QuarterKey(time.Date(2024, tc.month, 10, 0, 0, 0, 0, time.UTC))
		require.Equal(t, tc.want, got)
	}
}

func TestFinancialYearBoundary(t *testing.T) {
	marchEnd := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)
	aprilStart := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "2023-2024", FinancialYearKey(marchEnd))
	require.Equal(t, "2024-2025", FinancialYearKey(aprilStart))
}

func TestStoreKey(t *testing.T) {
	require.Equal(t, "7-Indiranagar", StoreKey(7, "Indiranagar"))
}
