package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticSource struct {
	rows [][]string
	err  error
}

func (s staticSource) Fetch(ctx context.Context) ([][]string, error) {
	return s.rows, s.err
}

type memoryRepo struct {
	existing      map[string]bool
	stores        map[string]int64
	notifications []string
	inserted      []SheetRow
	failNumbers   map[string]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		existing:    make(map[string]bool),
		stores:      map[string]int64{"Leeds": 1, "York": 2},
		failNumbers: make(map[string]bool),
	}
}

func (r *memoryRepo) InsertLead(ctx context.Context, row SheetRow, userID int64) (bool, error) {
	if r.failNumbers[row.Number] {
		return false, errors.New("insert failed")
	}
	if r.existing[row.Number] {
		return false, nil
	}
	r.existing[row.Number] = true
	r.inserted = append(r.inserted, row)
	return true, nil
}

func (r *memoryRepo) UserIDForStore(ctx context.Context, store string) (int64, error) {
	id, ok := r.stores[store]
	if !ok {
		return 0, fmt.Errorf("no active user")
	}
	return id, nil
}

func (r *memoryRepo) InsertNotification(ctx context.Context, userID int64, message string) error {
	r.notifications = append(r.notifications, message)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sheet(rows ...[]string) [][]string {
	header := []string{"Lead Number", "Store", "Customer", "Total", "Cash", "Online"}
	return append([][]string{header}, rows...)
}

func TestRunImportsRows(t *testing.T) {
	repo := newMemoryRepo()
	src := staticSource{rows: sheet(
		[]string{"L-100", "Leeds", "A Client", "100000", "40000", "60000"},
		[]string{"L-101", "York", "B Client", "50000", "50000", "0"},
	)}
	svc := NewService(testLogger(), src, repo, 50)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Added)
	require.Zero(t, result.Skipped)
	require.Empty(t, result.Errors)
	require.Len(t, repo.inserted, 2)
	require.Len(t, repo.notifications, 2)
}

func TestRunSkipsDuplicates(t *testing.T) {
	repo := newMemoryRepo()
	repo.existing["L-100"] = true
	src := staticSource{rows: sheet(
		[]string{"L-100", "Leeds", "A Client", "100000", "40000", "60000"},
		[]string{"L-101", "Leeds", "B Client", "50000", "50000", "0"},
	)}
	svc := NewService(testLogger(), src, repo, 50)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Added)
	require.Equal(t, 1, result.Skipped)
	require.Empty(t, result.Errors)
	require.Len(t, repo.notifications, 1)
}

func TestRunRecordsRowErrorsAndContinues(t *testing.T) {
	repo := newMemoryRepo()
	repo.failNumbers["L-103"] = true
	src := staticSource{rows: sheet(
		[]string{"L-100", "Leeds", "A Client", "not-a-number", "0", "0"},
		[]string{"", "Leeds", "B Client", "100", "100", "0"},
		[]string{"L-102", "Unknown", "C Client", "100", "100", "0"},
		[]string{"L-103", "Leeds", "D Client", "100", "100", "0"},
		[]string{"L-104", "Leeds", "E Client", "100", "100", "0"},
	)}
	svc := NewService(testLogger(), src, repo, 50)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Added)
	require.Zero(t, result.Skipped)
	require.Len(t, result.Errors, 4)

	// Row numbers are sheet rows, header included.
	require.Equal(t, 2, result.Errors[0].Row)
	require.Equal(t, 3, result.Errors[1].Row)
	require.Contains(t, result.Errors[2].Message, "Unknown")
}

func TestRunFlushesInBatches(t *testing.T) {
	repo := newMemoryRepo()
	rows := make([][]string, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, []string{fmt.Sprintf("L-%d", i), "Leeds", "Client", "100", "100", "0"})
	}
	src := staticSource{rows: sheet(rows...)}
	svc := NewService(testLogger(), src, repo, 50)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 120, result.Added)
}

func TestRunSourceFailure(t *testing.T) {
	svc := NewService(testLogger(), staticSource{err: ErrNoSource}, newMemoryRepo(), 50)
	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrNoSource)
}

func TestParseRow(t *testing.T) {
	row, err := parseRow([]string{"L-1", "Leeds", "Client", "1,00,000", "40000", "60000"})
	require.NoError(t, err)
	require.Equal(t, 100000.0, row.TotalProjectCost)

	_, err = parseRow([]string{"L-1", "Leeds", "Client", "-5", "0", "0"})
	require.Error(t, err)

	_, err = parseRow([]string{"L-1", "Leeds"})
	require.Error(t, err)

	row, err = parseRow([]string{"L-1", "Leeds", "Client", "", "", ""})
	require.NoError(t, err)
	require.Zero(t, row.TotalProjectCost)
}
