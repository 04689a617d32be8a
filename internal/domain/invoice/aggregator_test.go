package invoice

import (
	"context"
	"math"
	"testing"
	"time"

	"financas/internal/domain/expense"
)

// MockInstallmentSource implements InstallmentSource
type MockInstallmentSource struct {
	ListByUserIDFunc func(ctx context.Context, userID int64, filter expense.ListFilter) ([]*expense.Installment, error)
}

func (m *MockInstallmentSource) ListByUserID(ctx context.Context, userID int64, filter expense.ListFilter) ([]*expense.Installment, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, filter)
	}
	return nil, nil
}

func strPtr(s string) *string { return &s }

func installment(purchaseID string, number, total int, amount float64, payment time.Time, status string) *expense.Installment {
	return &expense.Installment{
		ID:                purchaseID + "-" + string(rune('0'+number)),
		UserID:            1,
		Description:       "Compra " + purchaseID,
		Category:          "Eletrônicos",
		Modality:          expense.ModalityCredit,
		CardID:            strPtr("card-1"),
		Amount:            amount,
		InstallmentAmount: amount,
		InstallmentNumber: number,
		TotalInstallments: total,
		PurchaseID:        purchaseID,
		Status:            status,
		PurchaseDate:      expense.NewDate(2024, time.March, 20),
		PaymentDate:       payment,
	}
}

func sourceWith(rows ...*expense.Installment) *MockInstallmentSource {
	return &MockInstallmentSource{
		ListByUserIDFunc: func(ctx context.Context, userID int64, filter expense.ListFilter) ([]*expense.Installment, error) {
			return rows, nil
		},
	}
}

func TestStatements(t *testing.T) {
	ctx := context.Background()

	agg := NewAggregator(sourceWith(
		installment("a", 1, 3, 100, expense.NewDate(2024, time.April, 10), expense.StatusPending),
		installment("a", 2, 3, 100, expense.NewDate(2024, time.May, 10), expense.StatusPending),
		installment("a", 3, 3, 100, expense.NewDate(2024, time.June, 10), expense.StatusPending),
		installment("b", 1, 1, 50, expense.NewDate(2024, time.April, 28), expense.StatusPaid),
	))

	buckets, err := agg.Statements(ctx, 1, "card-1", 2024)
	if err != nil {
		t.Fatalf("Statements() error = %v", err)
	}

	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}

	april := buckets[3] // April == month index 3
	if april == nil {
		t.Fatal("missing April bucket")
	}
	if april.Total != 150 {
		t.Errorf("April total = %v, want 150", april.Total)
	}
	if len(april.Items) != 2 {
		t.Fatalf("April has %d items, want 2", len(april.Items))
	}
	// Sorted by payment date descending.
	if !april.Items[0].PaymentDate.After(april.Items[1].PaymentDate) {
		t.Error("April items are not sorted by payment date descending")
	}

	if buckets[4].Total != 100 || buckets[5].Total != 100 {
		t.Errorf("May/June totals = %v/%v, want 100/100", buckets[4].Total, buckets[5].Total)
	}
}

func TestSummaryAverageOverActiveMonths(t *testing.T) {
	ctx := context.Background()

	// 300 spread over 3 distinct months plus 50 in one of them:
	// average divides by 3, never by 12.
	agg := NewAggregator(sourceWith(
		installment("a", 1, 3, 100, expense.NewDate(2024, time.April, 10), expense.StatusPaid),
		installment("a", 2, 3, 100, expense.NewDate(2024, time.May, 10), expense.StatusPending),
		installment("a", 3, 3, 100, expense.NewDate(2024, time.June, 10), expense.StatusPending),
		installment("b", 1, 1, 50, expense.NewDate(2024, time.April, 28), "Paga"),
	))

	s, err := agg.Summary(ctx, 1, "card-1", 2024)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if s.TotalSpent != 350 {
		t.Errorf("totalSpent = %v, want 350", s.TotalSpent)
	}
	want := 350.0 / 3.0
	if math.Abs(s.MonthlyAverage-want) > 1e-9 {
		t.Errorf("monthlyAverage = %v, want %v", s.MonthlyAverage, want)
	}
	if s.TotalPending != 200 {
		t.Errorf("totalPending = %v, want 200 (legacy Paga counts as paid)", s.TotalPending)
	}
}

func TestSummaryEmptyYear(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(sourceWith())

	s, err := agg.Summary(ctx, 1, "card-1", 2024)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.TotalSpent != 0 || s.MonthlyAverage != 0 || s.TotalPending != 0 {
		t.Errorf("empty year summary = %+v, want zeros", s)
	}
}

func TestPurchasesGrouping(t *testing.T) {
	ctx := context.Background()

	agg := NewAggregator(sourceWith(
		installment("a", 2, 3, 100, expense.NewDate(2024, time.May, 10), expense.StatusPaid),
		installment("a", 1, 3, 100, expense.NewDate(2024, time.April, 10), expense.StatusPaid),
		installment("a", 3, 3, 100, expense.NewDate(2024, time.June, 10), expense.StatusPending),
		installment("b", 1, 2, 40, expense.NewDate(2024, time.April, 10), "Paga"),
		installment("b", 2, 2, 40, expense.NewDate(2024, time.May, 10), expense.StatusPaid),
	))

	groups, err := agg.Purchases(ctx, 1, nil)
	if err != nil {
		t.Fatalf("Purchases() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	byID := map[string]*PurchaseGroup{}
	for _, g := range groups {
		byID[g.PurchaseID] = g
	}

	a := byID["a"]
	if a.Status != expense.StatusPending {
		t.Errorf("group a status = %q, want Pendente while one installment is open", a.Status)
	}
	if a.TotalAmount != 300 {
		t.Errorf("group a total = %v, want installment amount × count = 300", a.TotalAmount)
	}
	if a.PaidCount != 2 {
		t.Errorf("group a paidCount = %d, want 2", a.PaidCount)
	}
	if a.Installments[0].InstallmentNumber != 1 {
		t.Errorf("group a installments not sorted by number, first = %d", a.Installments[0].InstallmentNumber)
	}

	b := byID["b"]
	if b.Status != expense.StatusPaid {
		t.Errorf("group b status = %q, want Pago when every installment is paid (Paga included)", b.Status)
	}
	if b.TotalAmount != 80 {
		t.Errorf("group b total = %v, want 80", b.TotalAmount)
	}
}
