package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"financas/internal/domain/expense"
	"financas/internal/shared/middleware"
)

type ExpenseHandler struct {
	expenses *expense.Service
}

func NewExpenseHandler(expenses *expense.Service) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// PurchaseRequest is the payload for creating or replacing a purchase. For
// credit purchases with more than one installment the per-installment amount
// is what the user typed; for everything else the total amount is.
type PurchaseRequest struct {
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Modality          string  `json:"modality"`
	CardID            *string `json:"cardId,omitempty"`
	Amount            float64 `json:"amount"`
	InstallmentAmount float64 `json:"installmentAmount"`
	Installments      int     `json:"installments"`
	PurchaseDate      string  `json:"purchaseDate"` // YYYY-MM-DD
}

type ToggleStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// HandleExpenses serves the installment collection: list and create.
func (h *ExpenseHandler) HandleExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		h.materialize(w, r, userID, "")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleExpensesByPurchase replaces or deletes every installment of one
// purchase, addressed by the shared purchase identifier.
func (h *ExpenseHandler) HandleExpensesByPurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	purchaseID := r.PathValue("idCompra")
	if purchaseID == "" {
		http.Error(w, "Purchase ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.materialize(w, r, userID, purchaseID)
	case http.MethodDelete:
		err := h.expenses.DeletePurchase(r.Context(), userID, purchaseID)
		if errors.Is(err, expense.ErrPurchaseNotFound) {
			http.Error(w, "Purchase not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logrus.WithError(err).Error("failed to delete purchase")
			http.Error(w, "Failed to delete purchase", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleToggleStatus flips one installment between paid and pending. Sibling
// installments of the same purchase are untouched.
func (h *ExpenseHandler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	status, err := h.expenses.ToggleStatus(r.Context(), userID, id)
	if errors.Is(err, expense.ErrInstallmentNotFound) {
		http.Error(w, "Installment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("failed to toggle installment status")
		http.Error(w, "Failed to toggle status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToggleStatusResponse{ID: id, Status: status})
}

func (h *ExpenseHandler) materialize(w http.ResponseWriter, r *http.Request, userID int64, existingPurchaseID string) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	purchaseDate, err := expense.ParseDate(req.PurchaseDate)
	if err != nil {
		http.Error(w, "Invalid purchaseDate format (use YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	installments := req.Installments
	if installments == 0 {
		installments = 1
	}

	params := expense.PurchaseParams{
		UserID:            userID,
		Description:       req.Description,
		Category:          req.Category,
		Modality:          req.Modality,
		CardID:            req.CardID,
		TotalAmount:       req.Amount,
		InstallmentAmount: req.InstallmentAmount,
		Installments:      installments,
		PurchaseDate:      purchaseDate,
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.expenses.Materialize(r.Context(), params, existingPurchaseID)
	if errors.Is(err, expense.ErrCardNotFound) {
		http.Error(w, "Card not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("failed to materialize purchase")
		http.Error(w, "Failed to save purchase", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if existingPurchaseID == "" {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(rows)
}

func (h *ExpenseHandler) handleList(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, err := parseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.expenses.ListInstallments(r.Context(), userID, filter)
	if err != nil {
		logrus.WithError(err).Error("failed to list installments")
		http.Error(w, "Failed to list expenses", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []*expense.Installment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func parseListFilter(r *http.Request) (expense.ListFilter, error) {
	var filter expense.ListFilter
	q := r.URL.Query()

	if v := q.Get("cardId"); v != "" {
		filter.CardID = &v
	}
	if v := q.Get("modality"); v != "" {
		filter.Modality = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("year must be a number")
		}
		filter.Year = &year
	}
	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 0 || month > 11 {
			return filter, errors.New("month must be a 0-based index between 0 and 11")
		}
		filter.Month = &month
	}

	return filter, nil
}
