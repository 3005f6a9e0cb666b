package export_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-interiors/meridian/internal/revenue"
	"github.com/meridian-interiors/meridian/internal/revenue/export"
)

func TestWriteBucketsCSV(t *testing.T) {
	var sb strings.Builder
	buckets := []revenue.Bucket{
		{Key: "January-2024", Revenue: 1234567.5, TotalProfit: 1000, ProjectClose: 2, TotalProjects: 3, TotalExpenses: 250},
	}
	require.NoError(t, export.WriteBucketsCSV(&sb, "Month", buckets))

	out := sb.String()
	require.Contains(t, out, "Month,Revenue,Profit,Closed,Projects,Expenses")
	require.Contains(t, out, `January-2024,"1,234,567.50","1,000.00",2,3,250.00`)
}

func TestWriteReportCSV(t *testing.T) {
	var sb strings.Builder
	report := &revenue.Report{
		Months: []revenue.Bucket{{Key: "May-2024", Revenue: 5000}},
		Stores: []revenue.Bucket{{Key: "1-Leeds", Revenue: 5000}},
		Totals: revenue.Totals{TotalRevenue: 5000, TotalProjects: 1},
	}
	require.NoError(t, export.WriteReportCSV(&sb, report))

	out := sb.String()
	require.Contains(t, out, `Total Revenue,"5,000.00"`)
	require.Contains(t, out, "May-2024")
	require.Contains(t, out, "1-Leeds")
	require.Contains(t, out, "Financial Year")
}
