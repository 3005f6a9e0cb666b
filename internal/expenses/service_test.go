package expenses

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-interiors/meridian/internal/shared"
)

type memoryRepo struct {
	expenses []StoreExpense
	nextID   int64
}

func (r *memoryRepo) Create(ctx context.Context, exp StoreExpense) (*StoreExpense, error) {
	r.nextID++
	exp.ID = r.nextID
	r.expenses = append(r.expenses, exp)
	return &exp, nil
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]StoreExpense, error) {
	var out []StoreExpense
	for _, e := range r.expenses {
		if filter.UserID != 0 && e.UserID != filter.UserID {
			continue
		}
		if filter.Store != "" && e.Store != filter.Store {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type countingBumper struct{ calls int }

func (b *countingBumper) Bump(ctx context.Context) error {
	b.calls++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCreateExpense(t *testing.T) {
	repo := &memoryRepo{}
	bumper := &countingBumper{}
	svc := NewService(repo, bumper, testLogger())
	claims := &shared.Claims{UserID: 4, Store: "Leeds", Role: shared.RoleManager}

	exp, err := svc.Create(context.Background(), claims, CreateInput{
		Amount:          2500,
		Name:            "RENT",
		TransactionDate: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, int64(4), exp.UserID)
	require.Equal(t, "Leeds", exp.Store)
	require.Equal(t, 1, bumper.calls)
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil, testLogger())
	claims := &shared.Claims{UserID: 4, Store: "Leeds"}

	_, err := svc.Create(context.Background(), claims, CreateInput{Amount: 0, Name: "RENT"})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(context.Background(), claims, CreateInput{Amount: 10, Name: "GROCERIES"})
	require.ErrorIs(t, err, ErrUnknownName)
}

func TestListScopesManagers(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, nil, testLogger())

	leeds := &shared.Claims{UserID: 1, Store: "Leeds", Role: shared.RoleManager}
	york := &shared.Claims{UserID: 2, Store: "York", Role: shared.RoleManager}
	_, err := svc.Create(context.Background(), leeds, CreateInput{Amount: 100, Name: "RENT"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), york, CreateInput{Amount: 200, Name: "MISC"})
	require.NoError(t, err)

	out, err := svc.List(context.Background(), leeds, ListFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 100.0, out[0].Amount)

	admin := &shared.Claims{UserID: 99, Role: shared.RoleAdmin}
	out, err = svc.List(context.Background(), admin, ListFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
}
