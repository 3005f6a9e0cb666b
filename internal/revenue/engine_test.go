package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateFinancialYearBuckets(t *testing.T) {
	entries := []Entry{
		{UserID: 1, Store: "Leeds", Date: day(2024, time.January, 15), Revenue: 10000, Projects: 1},
		{UserID: 1, Store: "Leeds", Date: day(2024, time.April, 2), Revenue: 20000, Projects: 1},
	}

	report := Aggregate(entries, nil)

	require.Len(t, report.FinancialYears, 2)
	require.Equal(t, "2023-2024", report.FinancialYears[0].Key)
	require.Equal(t, 10000.0, report.FinancialYears[0].Revenue)
	require.Equal(t, "2024-2025", report.FinancialYears[1].Key)
	require.Equal(t, 20000.0, report.FinancialYears[1].Revenue)
}

func TestAggregateRevenueCompleteness(t *testing.T) {
	entries := []Entry{
		{UserID: 1, Store: "Leeds", Date: day(2024, time.January, 5), Revenue: 12000},
		{UserID: 1, Store: "Leeds", Date: day(2024, time.January, 28), Revenue: 3000},
		{UserID: 2, Store: "York", Date: day(2024, time.March, 31), Revenue: 7500},
		{UserID: 2, Store: "York", Date: day(2024, time.April, 1), Revenue: 4500},
		{UserID: 1, Store: "Leeds", Date: day(2025, time.December, 12), Revenue: 900},
	}

	var want float64
	for _, e := range entries {
		want += e.Revenue
	}

	report := Aggregate(entries, nil)

	var monthSum, quarterSum, yearSum, finYearSum, storeSum float64
	for _, b := range report.Months {
		monthSum += b.Revenue
	}
	for _, b := range report.Quarters {
		quarterSum += b.Revenue
	}
	for _, b := range report.Years {
		yearSum += b.Revenue
	}
	for _, b := range report.FinancialYears {
		finYearSum += b.Revenue
	}
	for _, b := range report.Stores {
		storeSum += b.Revenue
	}

	require.Equal(t, want, monthSum)
	require.Equal(t, want, quarterSum)
	require.Equal(t, want, yearSum)
	require.Equal(t, want, finYearSum)
	require.Equal(t, want, storeSum)
	require.Equal(t, want, report.Totals.TotalRevenue)
}

func TestAggregateMonthAndQuarterKeys(t *testing.T) {
	entries := []Entry{
		{UserID: 1, Store: "Leeds", Date: day(2024, time.February, 10), Revenue: 100, Closed: 1, Projects: 1, Profit: 40},
		{UserID: 1, Store: "Leeds", Date: day(2024, time.February, 20), Revenue: 200, Projects: 1, Profit: 60},
		{UserID: 1, Store: "Leeds", Date: day(2024, time.August, 1), Revenue: 300, Projects: 1},
	}

	report := Aggregate(entries, nil)

	require.Len(t, report.Months, 2)
	require.Equal(t, "February-2024", report.Months[0].Key)
	require.Equal(t, 300.0, report.Months[0].Revenue)
	require.Equal(t, 100.0, report.Months[0].TotalProfit)
	require.Equal(t, 1, report.Months[0].ProjectClose)
	require.Equal(t, 2, report.Months[0].TotalProjects)
	require.Equal(t, "August-2024", report.Months[1].Key)

	require.Len(t, report.Quarters, 2)
	require.Equal(t, "Q1-2024", report.Quarters[0].Key)
	require.Equal(t, "Q3-2024", report.Quarters[1].Key)
}

func TestAggregateExpensesSecondPass(t *testing.T) {
	entries := []Entry{
		{UserID: 1, Store: "Leeds", Date: day(2024, time.May, 5), Revenue: 5000},
	}
	expenses := []ExpenseEntry{
		{UserID: 1, Store: "Leeds", Date: day(2024, time.May, 9), Amount: 700},
		// No lead entry exists for June; the expense still gets a bucket.
		{UserID: 1, Store: "Leeds", Date: day(2024, time.June, 2), Amount: 300},
	}

	report := Aggregate(entries, expenses)

	require.Len(t, report.Months, 2)
	require.Equal(t, "May-2024", report.Months[0].Key)
	require.Equal(t, 700.0, report.Months[0].TotalExpenses)
	require.Equal(t, 5000.0, report.Months[0].Revenue)
	require.Equal(t, "June-2024", report.Months[1].Key)
	require.Equal(t, 300.0, report.Months[1].TotalExpenses)
	require.Zero(t, report.Months[1].Revenue)
	require.Equal(t, 1000.0, report.Totals.TotalExpenses)
}

func TestAggregateStoreKeys(t *testing.T) {
	entries := []Entry{
		{UserID: 1, Store: "Leeds", Date: day(2024, time.May, 5), Revenue: 100},
		{UserID: 2, Store: "York", Date: day(2024, time.May, 6), Revenue: 200},
	}

	report := Aggregate(entries, nil)

	require.Len(t, report.Stores, 2)
	require.Equal(t, "1-Leeds", report.Stores[0].Key)
	require.Equal(t, "2-York", report.Stores[1].Key)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, nil)
	require.Empty(t, report.Months)
	require.Empty(t, report.Stores)
	require.Zero(t, report.Totals.TotalRevenue)
}
