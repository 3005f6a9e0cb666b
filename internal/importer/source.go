package importer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

// Source yields raw spreadsheet rows, header included.
type Source interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// HTTPSource downloads an xlsx workbook from a fixed URL and reads its first
// sheet.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource constructs an HTTPSource.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch downloads and parses the workbook.
func (s *HTTPSource) Fetch(ctx context.Context) ([][]string, error) {
	if s.url == "" {
		return nil, ErrNoSource
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
