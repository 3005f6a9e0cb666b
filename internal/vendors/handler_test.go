package vendors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestLeadBreakdownsRoute(t *testing.T) {
	repo := newMemoryRepo(Vendor{ID: 9, Name: "Stoneworks"})
	repo.seedBreakdown(1, 5000, 2000)
	handler := NewHandler(testLogger(), NewService(repo, nil, testLogger()))

	router := chi.NewRouter()
	handler.MountLeadRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/L-1/vendors", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Breakdowns []Breakdown `json:"breakdowns"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Breakdowns, 1)
	require.Equal(t, int64(9), body.Breakdowns[0].VendorID)
	require.Equal(t, 5000.0, body.Breakdowns[0].TotalAmt)
}

func TestLeadBreakdownsRouteUnknownLead(t *testing.T) {
	handler := NewHandler(testLogger(), NewService(newMemoryRepo(Vendor{ID: 9}), nil, testLogger()))

	router := chi.NewRouter()
	handler.MountLeadRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/L-404/vendors", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
