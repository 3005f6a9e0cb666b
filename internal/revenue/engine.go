package revenue

import (
	"sort"
	"time"

	"github.com/meridian-interiors/meridian/internal/shared"
)

// bucketMap groups entries under string keys while remembering each
// bucket's start time for chronological ordering.
type bucketMap map[string]*Bucket

func (m bucketMap) at(key string, start time.Time) *Bucket {
	b, ok := m[key]
	if !ok {
		b = &Bucket{Key: key, start: start}
		m[key] = b
	}
	return b
}

func (m bucketMap) sortedByTime() []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].start.Equal(out[j].start) {
			return out[i].Key < out[j].Key
		}
		return out[i].start.Before(out[j].start)
	})
	return out
}

func (m bucketMap) sortedByKey() []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func quarterStart(t time.Time) time.Time {
	firstMonth := time.Month((shared.Quarter(t)-1)*3 + 1)
	return time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC)
}

func yearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func finYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// Aggregate rolls entries up into month, quarter, calendar-year,
// financial-year and store buckets, then matches store expenses into the
// same buckets in a second pass. Every entry lands in exactly one bucket
// per dimension.
func Aggregate(entries []Entry, expenses []ExpenseEntry) *Report {
	months := bucketMap{}
	quarters := bucketMap{}
	years := bucketMap{}
	finYears := bucketMap{}
	stores := bucketMap{}

	var totals Totals

	for _, e := range entries {
		targets := []*Bucket{
			months.at(shared.MonthKey(e.Date), monthStart(e.Date)),
			quarters.at(shared.QuarterKey(e.Date), quarterStart(e.Date)),
			years.at(shared.YearKey(e.Date), yearStart(e.Date)),
			finYears.at(shared.FinancialYearKey(e.Date), finYearStart(e.Date)),
			stores.at(shared.StoreKey(e.UserID, e.Store), time.Time{}),
		}
		for _, b := range targets {
			b.Revenue += e.Revenue
			b.TotalProfit += e.Profit
			b.ProjectClose += e.Closed
			b.TotalProjects += e.Projects
			b.ReceiveCash += e.ReceiveCash
			b.ReceiveOnline += e.ReceiveOnline
			b.PayInCash += e.PayInCash
			b.PayInOnline += e.PayInOnline
		}
		totals.TotalRevenue += e.Revenue
		totals.TotalProfit += e.Profit
		totals.TotalProjectClose += e.Closed
		totals.TotalProjects += e.Projects
	}

	for _, x := range expenses {
		targets := []*Bucket{
			months.at(shared.MonthKey(x.Date), monthStart(x.Date)),
			quarters.at(shared.QuarterKey(x.Date), quarterStart(x.Date)),
			years.at(shared.YearKey(x.Date), yearStart(x.Date)),
			finYears.at(shared.FinancialYearKey(x.Date), finYearStart(x.Date)),
			stores.at(shared.StoreKey(x.UserID, x.Store), time.Time{}),
		}
		for _, b := range targets {
			b.TotalExpenses += x.Amount
		}
		totals.TotalExpenses += x.Amount
	}

	return &Report{
		Months:         months.sortedByTime(),
		Quarters:       quarters.sortedByTime(),
		Years:          years.sortedByTime(),
		FinancialYears: finYears.sortedByTime(),
		Stores:         stores.sortedByKey(),
		Totals:         totals,
	}
}
