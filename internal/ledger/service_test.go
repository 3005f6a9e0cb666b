package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-interiors/meridian/internal/leads"
)

type memoryRepo struct {
	lead       leads.Lead
	vendor     VendorBalances
	given      map[int64]float64 // breakdown totalGiven keyed by vendor id
	notes      []TransactionNote
	nextNoteID int64
	failInsert bool
}

func newMemoryRepo(lead leads.Lead) *memoryRepo {
	return &memoryRepo{lead: lead, given: make(map[int64]float64)}
}

type memoryTx struct {
	repo *memoryRepo
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	lead := r.lead
	vendor := r.vendor
	given := make(map[int64]float64, len(r.given))
	for k, v := range r.given {
		given[k] = v
	}
	notes := len(r.notes)

	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.lead = lead
		r.vendor = vendor
		r.given = given
		r.notes = r.notes[:notes]
		return err
	}
	return nil
}

func (r *memoryRepo) ListByLead(ctx context.Context, leadID int64) ([]TransactionNote, error) {
	out := make([]TransactionNote, len(r.notes))
	copy(out, r.notes)
	return out, nil
}

func (tx *memoryTx) GetLeadForUpdate(ctx context.Context, number string) (*leads.Lead, error) {
	if tx.repo.lead.Number != number {
		return nil, leads.ErrNotFound
	}
	lead := tx.repo.lead
	return &lead, nil
}

func (tx *memoryTx) InsertNote(ctx context.Context, note TransactionNote) (*TransactionNote, error) {
	if tx.repo.failInsert {
		return nil, errors.New("insert failed")
	}
	tx.repo.nextNoteID++
	note.ID = tx.repo.nextNoteID
	tx.repo.notes = append(tx.repo.notes, note)
	return &note, nil
}

func (tx *memoryTx) ApplyLeadDelta(ctx context.Context, leadID int64, delta BalanceDelta) (*leads.Lead, error) {
	tx.repo.lead.ReceiveCash += delta.ReceiveCash
	tx.repo.lead.ReceiveOnline += delta.ReceiveOnline
	tx.repo.lead.TotalExp += delta.TotalExp
	lead := tx.repo.lead
	return &lead, nil
}

func (tx *memoryTx) GetVendorForUpdate(ctx context.Context, vendorID int64) (*VendorBalances, error) {
	if tx.repo.vendor.ID != vendorID {
		return nil, ErrVendorNotFound
	}
	vendor := tx.repo.vendor
	return &vendor, nil
}

func (tx *memoryTx) HasBreakdown(ctx context.Context, vendorID, leadID int64) (bool, error) {
	_, ok := tx.repo.given[vendorID]
	return ok, nil
}

func (tx *memoryTx) ApplyGivenDelta(ctx context.Context, vendorID, leadID int64, delta float64) (*VendorBalances, error) {
	tx.repo.given[vendorID] += delta
	tx.repo.vendor.GivenCharge += delta
	vendor := tx.repo.vendor
	return &vendor, nil
}

type noopBumper struct{ calls int }

func (b *noopBumper) Bump(ctx context.Context) error {
	b.calls++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPostClientPaymentsAllowHandover(t *testing.T) {
	repo := newMemoryRepo(leads.Lead{
		ID:               1,
		Number:           "L-100",
		Status:           leads.StatusInProgress,
		TotalProjectCost: 100000,
		PayInCash:        40000,
		PayInOnline:      60000,
	})
	bumper := &noopBumper{}
	svc := NewService(repo, bumper, testLogger())

	res, err := svc.Post(context.Background(), PostInput{
		LeadNumber: "L-100",
		Amount:     40000,
		Name:       NameClientPayment,
		Type:       TypeCashIn,
		Method:     MethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, 40000.0, res.Lead.ReceiveCash)
	require.Zero(t, res.Lead.ReceiveOnline)
	require.Zero(t, res.Lead.TotalExp)

	res, err = svc.Post(context.Background(), PostInput{
		LeadNumber: "L-100",
		Amount:     60000,
		Name:       NameClientPayment,
		Type:       TypeCashIn,
		Method:     MethodOnline,
	})
	require.NoError(t, err)
	require.Equal(t, 60000.0, res.Lead.ReceiveOnline)

	require.Zero(t, res.Summary.RemainingAmount)
	require.True(t, res.Summary.HandoverAllowed)
	require.False(t, res.Summary.OverPaid)
	require.Equal(t, 2, bumper.calls)
}

func TestPostOverPaymentFlaggedInResult(t *testing.T) {
	repo := newMemoryRepo(leads.Lead{
		ID:               3,
		Number:           "L-9",
		Status:           leads.StatusInProgress,
		TotalProjectCost: 10000,
		PayInCash:        400,
		PayInOnline:      9600,
	})
	svc := NewService(repo, nil, testLogger())

	res, err := svc.Post(context.Background(), PostInput{
		LeadNumber: "L-9",
		Amount:     5000,
		Name:       NameClientPayment,
		Type:       TypeCashIn,
		Method:     MethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, 5000.0, res.Lead.ReceiveCash)
	require.True(t, res.Summary.OverPaid)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	require.Contains(t, string(body), `"overPaid":true`)
}

func TestPostCashBalanceConservation(t *testing.T) {
	repo := newMemoryRepo(leads.Lead{ID: 1, Number: "L-7", TotalProjectCost: 50000})
	svc := NewService(repo, nil, testLogger())

	postings := []struct {
		name   TransactionName
		typ    TransactionType
		amount float64
	}{
		{NameClientPayment, TypeCashIn, 12000},
		{NameRoundOff, TypeCashIn, 500},
		{NameCashDeduction, TypeCashOut, 300},
		{NameClientPayment, TypeCashIn, 8000},
		{NameMisc, TypeCashOut, 1200},
	}

	var want float64
	for _, p := range postings {
		_, err := svc.Post(context.Background(), PostInput{
			LeadNumber: "L-7",
			Amount:     p.amount,
			Name:       p.name,
			Type:       p.typ,
			Method:     MethodCash,
		})
		require.NoError(t, err)
		if p.typ == TypeCashIn {
			want += p.amount
		} else {
			want -= p.amount
		}
	}
	require.Equal(t, want, repo.lead.ReceiveCash)
}

func TestPostVendorPayment(t *testing.T) {
	repo := newMemoryRepo(leads.Lead{ID: 4, Number: "L-4", TotalProjectCost: 80000})
	repo.vendor = VendorBalances{ID: 9, Name: "Carpentry Co", TotalCharge: 20000, GivenCharge: 5000}
	repo.given[9] = 5000
	svc := NewService(repo, nil, testLogger())

	vendorID := int64(9)
	res, err := svc.Post(context.Background(), PostInput{
		LeadNumber: "L-4",
		Amount:     3000,
		Name:       NameVendorPayment,
		Type:       TypeCashOut,
		Method:     MethodCash,
		VendorID:   &vendorID,
	})
	require.NoError(t, err)

	// Vendor payments move expense and vendor totals, never the client balances.
	require.Zero(t, res.Lead.ReceiveCash)
	require.Equal(t, 3000.0, res.Lead.TotalExp)
	require.Equal(t, 8000.0, res.Vendor.GivenCharge)
	require.Equal(t, 8000.0, repo.given[9])
}

func TestPostVendorNotLinked(t *testing.T) {
	repo := newMemoryRepo(leads.Lead{ID: 4, Number: "L-4"})
	repo.vendor = VendorBalances{ID: 9, Name: "Carpentry Co"}
	svc := NewService(repo, nil, testLogger())

	vendorID := int64(9)
	_, err := svc.Post(context.Background(), PostInput{
		LeadNumber: "L-4",
		Amount:     3000,
		Name:       NameVendorPayment,
		Type:       TypeCashOut,
		Method:     MethodCash,
		VendorID:   &vendorID,
	})
	require.ErrorIs(t, err, ErrVendorNotLinked)
	require.Empty(t, repo.notes)
	require.Zero(t, repo.lead.TotalExp)
}

func TestPostRollsBackOnFailure(t *testing.T) {
	repo := newMemoryRepo(leads.Lead{ID: 2, Number: "L-2", ReceiveCash: 1000})
	repo.failInsert = true
	svc := NewService(repo, nil, testLogger())

	_, err := svc.Post(context.Background(), PostInput{
		LeadNumber: "L-2",
		Amount:     500,
		Name:       NameClientPayment,
		Type:       TypeCashIn,
		Method:     MethodCash,
	})
	require.Error(t, err)
	require.Equal(t, 1000.0, repo.lead.ReceiveCash)
	require.Empty(t, repo.notes)
}

func TestPostValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(leads.Lead{Number: "L-1"}), nil, testLogger())

	_, err := svc.Post(context.Background(), PostInput{LeadNumber: "L-1", Amount: 0, Name: NameMisc, Type: TypeCashOut, Method: MethodCash})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Post(context.Background(), PostInput{LeadNumber: "L-1", Amount: 10, Name: "UNKNOWN", Type: TypeCashOut, Method: MethodCash})
	require.ErrorIs(t, err, ErrUnknownEnum)

	_, err = svc.Post(context.Background(), PostInput{LeadNumber: "L-1", Amount: 10, Name: NameVendorPayment, Type: TypeCashOut, Method: MethodCash})
	require.ErrorIs(t, err, ErrVendorRequired)
}

func TestDeltaForCases(t *testing.T) {
	cases := []struct {
		name   TransactionName
		typ    TransactionType
		method PaymentMethod
		want   BalanceDelta
	}{
		{NameClientPayment, TypeCashIn, MethodCash, BalanceDelta{ReceiveCash: 100}},
		{NameClientPayment, TypeCashIn, MethodOnline, BalanceDelta{ReceiveOnline: 100}},
		{NameCashDeduction, TypeCashOut, MethodCash, BalanceDelta{ReceiveCash: -100, TotalExp: 100}},
		{NameVendorPayment, TypeCashOut, MethodCash, BalanceDelta{TotalExp: 100}},
		{NameVendorPayment, TypeCashIn, MethodOnline, BalanceDelta{TotalExp: -100}},
		{NameSalary, TypeCashOut, MethodOnline, BalanceDelta{ReceiveOnline: -100, TotalExp: 100}},
	}
	for _, c := range cases {
		got := DeltaFor(c.name, c.typ, c.method, 100)
		require.Equal(t, c.want, got, "%s/%s/%s", c.name, c.typ, c.method)
	}
}
