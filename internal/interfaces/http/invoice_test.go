package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"financas/internal/domain/expense"
	"financas/internal/domain/invoice"
)

func creditInstallment(id, purchaseID string, number, total int, amount float64, paymentDate, status string) *expense.Installment {
	d, _ := expense.ParseDate(paymentDate)
	cardID := "card-1"
	return &expense.Installment{
		ID:                id,
		UserID:            1,
		Description:       "Notebook",
		Modality:          expense.ModalityCredit,
		CardID:            &cardID,
		Amount:            amount,
		InstallmentAmount: amount,
		InstallmentNumber: number,
		TotalInstallments: total,
		PurchaseID:        purchaseID,
		Status:            status,
		PurchaseDate:      d,
		PaymentDate:       d,
	}
}

func newInvoiceHandler(rows []*expense.Installment) *InvoiceHandler {
	repo := &MockExpenseRepo{
		ListByUserIDFunc: func(ctx context.Context, userID int64, filter expense.ListFilter) ([]*expense.Installment, error) {
			return rows, nil
		},
	}
	return NewInvoiceHandler(invoice.NewAggregator(repo))
}

func TestHandleStatements(t *testing.T) {
	handler := newInvoiceHandler([]*expense.Installment{
		creditInstallment("i-1", "p-1", 1, 2, 100, "2024-04-10", expense.StatusPending),
		creditInstallment("i-2", "p-1", 2, 2, 100, "2024-05-10", expense.StatusPending),
		creditInstallment("i-3", "p-2", 1, 1, 50, "2024-04-25", expense.StatusPaid),
	})

	req := authedRequest(http.MethodGet, "/api/invoices/card-1?year=2024", nil)
	req.SetPathValue("cardId", "card-1")
	rr := httptest.NewRecorder()
	handler.HandleStatements(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp map[string]*invoice.MonthBucket
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// April is index 3.
	april, ok := resp["3"]
	if !ok {
		t.Fatalf("expected bucket for month index 3, got keys %v", keysOf(resp))
	}
	if april.Total != 150 {
		t.Errorf("april total = %v, want 150", april.Total)
	}
	if len(april.Items) != 2 {
		t.Errorf("april has %d items, want 2", len(april.Items))
	}
}

func TestHandleStatements_BadYear(t *testing.T) {
	handler := newInvoiceHandler(nil)

	req := authedRequest(http.MethodGet, "/api/invoices/card-1?year=abc", nil)
	req.SetPathValue("cardId", "card-1")
	rr := httptest.NewRecorder()
	handler.HandleStatements(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestHandleSummary(t *testing.T) {
	handler := newInvoiceHandler([]*expense.Installment{
		creditInstallment("i-1", "p-1", 1, 2, 100, "2024-04-10", expense.StatusPaid),
		creditInstallment("i-2", "p-1", 2, 2, 100, "2024-05-10", expense.StatusPending),
		creditInstallment("i-3", "p-2", 1, 1, 150, "2024-07-15", "Paga"),
	})

	req := authedRequest(http.MethodGet, "/api/invoices/card-1/summary?year=2024", nil)
	req.SetPathValue("cardId", "card-1")
	rr := httptest.NewRecorder()
	handler.HandleSummary(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp invoice.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalSpent != 350 {
		t.Errorf("totalSpent = %v, want 350", resp.TotalSpent)
	}
	// Three active months, not twelve.
	if want := 350.0 / 3; resp.MonthlyAverage != want {
		t.Errorf("monthlyAverage = %v, want %v", resp.MonthlyAverage, want)
	}
	if resp.TotalPending != 100 {
		t.Errorf("totalPending = %v, want 100", resp.TotalPending)
	}
}

func TestHandlePurchases(t *testing.T) {
	handler := newInvoiceHandler([]*expense.Installment{
		creditInstallment("i-1", "p-1", 1, 2, 100, "2024-04-10", expense.StatusPaid),
		creditInstallment("i-2", "p-1", 2, 2, 100, "2024-05-10", expense.StatusPending),
	})

	rr := httptest.NewRecorder()
	handler.HandlePurchases(rr, authedRequest(http.MethodGet, "/api/expenses/purchases", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp []*invoice.PurchaseGroup
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("response has %d groups, want 1", len(resp))
	}
	g := resp[0]
	if g.TotalAmount != 200 {
		t.Errorf("totalAmount = %v, want 200", g.TotalAmount)
	}
	if g.Status != expense.StatusPending {
		t.Errorf("status = %q, want %q (one installment still pending)", g.Status, expense.StatusPending)
	}
	if g.PaidCount != 1 {
		t.Errorf("paidCount = %d, want 1", g.PaidCount)
	}
}

func keysOf(m map[string]*invoice.MonthBucket) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
