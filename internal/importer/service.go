package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// RepositoryPort defines data access used by the import run.
type RepositoryPort interface {
	// InsertLead writes one imported lead. It returns false without error
	// when the lead number already exists.
	InsertLead(ctx context.Context, row SheetRow, userID int64) (bool, error)
	// UserIDForStore resolves the manager account that owns a store.
	UserIDForStore(ctx context.Context, store string) (int64, error)
	// InsertNotification records an import notification for a user.
	InsertNotification(ctx context.Context, userID int64, message string) error
}

// Service runs spreadsheet imports.
type Service struct {
	logger    *slog.Logger
	source    Source
	repo      RepositoryPort
	batchSize int
}

// NewService constructs a Service. batchSize caps how many parsed rows are
// held before they are flushed to the database.
func NewService(logger *slog.Logger, source Source, repo RepositoryPort, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Service{logger: logger, source: source, repo: repo, batchSize: batchSize}
}

// Run fetches the sheet and imports every data row. The first row is treated
// as a header. A failed row never aborts the run.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: []RowError{}}
	batch := make([]parsedRow, 0, s.batchSize)

	for i, cells := range raw {
		if i == 0 {
			continue
		}
		rowNum := i + 1
		row, err := parseRow(cells)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		batch = append(batch, parsedRow{num: rowNum, row: row})
		if len(batch) >= s.batchSize {
			s.flush(ctx, batch, result)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		s.flush(ctx, batch, result)
	}

	s.logger.Info("sheet import finished",
		"added", result.Added, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

type parsedRow struct {
	num int
	row SheetRow
}

func (s *Service) flush(ctx context.Context, batch []parsedRow, result *Result) {
	for _, p := range batch {
		userID, err := s.repo.UserIDForStore(ctx, p.row.Store)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: p.num, Message: fmt.Sprintf("store %q: %v", p.row.Store, err)})
			continue
		}
		added, err := s.repo.InsertLead(ctx, p.row, userID)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: p.num, Message: err.Error()})
			continue
		}
		if !added {
			result.Skipped++
			continue
		}
		result.Added++
		msg := fmt.Sprintf("Lead %s imported for %s", p.row.Number, p.row.Store)
		if err := s.repo.InsertNotification(ctx, userID, msg); err != nil {
			s.logger.Warn("insert notification", "lead", p.row.Number, "error", err)
		}
	}
}

// parseRow maps one sheet line onto a SheetRow. Expected columns:
// lead number, store, customer name, total project cost, pay in cash,
// pay in online.
func parseRow(cells []string) (SheetRow, error) {
	if len(cells) < 6 {
		return SheetRow{}, fmt.Errorf("expected 6 columns, got %d", len(cells))
	}
	row := SheetRow{
		Number:       strings.TrimSpace(cells[0]),
		Store:        strings.TrimSpace(cells[1]),
		CustomerName: strings.TrimSpace(cells[2]),
	}
	if row.Number == "" {
		return SheetRow{}, fmt.Errorf("missing lead number")
	}
	if row.Store == "" {
		return SheetRow{}, fmt.Errorf("missing store")
	}
	var err error
	if row.TotalProjectCost, err = parseAmount(cells[3]); err != nil {
		return SheetRow{}, fmt.Errorf("total project cost: %w", err)
	}
	if row.PayInCash, err = parseAmount(cells[4]); err != nil {
		return SheetRow{}, fmt.Errorf("pay in cash: %w", err)
	}
	if row.PayInOnline, err = parseAmount(cells[5]); err != nil {
		return SheetRow{}, fmt.Errorf("pay in online: %w", err)
	}
	if row.TotalProjectCost < 0 || row.PayInCash < 0 || row.PayInOnline < 0 {
		return SheetRow{}, fmt.Errorf("negative amount")
	}
	return row, nil
}

func parseAmount(cell string) (float64, error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}
