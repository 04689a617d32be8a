package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"financas/internal/domain/invoice"
	"financas/internal/shared/middleware"
)

type InvoiceHandler struct {
	invoices *invoice.Aggregator
}

func NewInvoiceHandler(invoices *invoice.Aggregator) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// HandleStatements returns a card's installments of one year bucketed by
// statement month. Keys are 0-based month indexes, January == 0.
func (h *InvoiceHandler) HandleStatements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	year, err := parseYear(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	buckets, err := h.invoices.Statements(r.Context(), userID, r.PathValue("cardId"), year)
	if err != nil {
		logrus.WithError(err).Error("failed to build statements")
		http.Error(w, "Failed to build statements", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buckets)
}

// HandleSummary returns a card's yearly totals: amount spent, monthly average
// over active months, and the pending balance.
func (h *InvoiceHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	year, err := parseYear(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.invoices.Summary(r.Context(), userID, r.PathValue("cardId"), year)
	if err != nil {
		logrus.WithError(err).Error("failed to build invoice summary")
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// HandlePurchases returns the user's credit purchases grouped by purchase
// identifier, optionally narrowed to one card.
func (h *InvoiceHandler) HandlePurchases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var cardID *string
	if v := r.URL.Query().Get("cardId"); v != "" {
		cardID = &v
	}

	groups, err := h.invoices.Purchases(r.Context(), userID, cardID)
	if err != nil {
		logrus.WithError(err).Error("failed to group purchases")
		http.Error(w, "Failed to list purchases", http.StatusInternalServerError)
		return
	}
	if groups == nil {
		groups = []*invoice.PurchaseGroup{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}

// parseYear reads the year query parameter, defaulting to the current year.
func parseYear(r *http.Request) (int, error) {
	v := r.URL.Query().Get("year")
	if v == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("year must be a number")
	}
	return year, nil
}
