// Package export serialises revenue reports for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-interiors/meridian/internal/revenue"
)

var printer = message.NewPrinter(language.English)

func formatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// WriteBucketsCSV emits one bucket dimension as CSV rows.
func WriteBucketsCSV(w io.Writer, label string, buckets []revenue.Bucket) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{label, "Revenue", "Profit", "Closed", "Projects", "Expenses"}); err != nil {
		return err
	}
	for _, b := range buckets {
		if err := writer.Write([]string{
			b.Key,
			formatAmount(b.Revenue),
			formatAmount(b.TotalProfit),
			strconv.Itoa(b.ProjectClose),
			strconv.Itoa(b.TotalProjects),
			formatAmount(b.TotalExpenses),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteReportCSV emits the full report: totals first, then every bucket
// dimension as its own section.
func WriteReportCSV(w io.Writer, report *revenue.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Total Revenue", formatAmount(report.Totals.TotalRevenue)},
		{"Total Profit", formatAmount(report.Totals.TotalProfit)},
		{"Projects Closed", strconv.Itoa(report.Totals.TotalProjectClose)},
		{"Total Projects", strconv.Itoa(report.Totals.TotalProjects)},
		{"Total Expenses", formatAmount(report.Totals.TotalExpenses)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{}); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	sections := []struct {
		label   string
		buckets []revenue.Bucket
	}{
		{"Month", report.Months},
		{"Quarter", report.Quarters},
		{"Year", report.Years},
		{"Financial Year", report.FinancialYears},
		{"Store", report.Stores},
	}
	for _, section := range sections {
		if err := WriteBucketsCSV(w, section.label, section.buckets); err != nil {
			return err
		}
	}
	return nil
}
