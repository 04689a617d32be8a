package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"financas/internal/domain/card"
	"financas/internal/shared/middleware"
)

type CardHandler struct {
	cards *card.Service
}

func NewCardHandler(cards *card.Service) *CardHandler {
	return &CardHandler{cards: cards}
}

type CreateCardRequest struct {
	Nickname   string   `json:"nickname"`
	Brand      string   `json:"brand"`
	ClosingDay int      `json:"closingDay"`
	DueDay     int      `json:"dueDay"`
	TotalLimit *float64 `json:"totalLimit,omitempty"`
}

type UpdateCardRequest struct {
	Nickname   *string  `json:"nickname,omitempty"`
	Brand      *string  `json:"brand,omitempty"`
	ClosingDay *int     `json:"closingDay,omitempty"`
	DueDay     *int     `json:"dueDay,omitempty"`
	TotalLimit *float64 `json:"totalLimit,omitempty"`
}

// HandleCards serves the card collection: list and create.
func (h *CardHandler) HandleCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		h.handleCreate(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CardHandler) handleList(w http.ResponseWriter, r *http.Request, userID int64) {
	cards, err := h.cards.ListCards(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("failed to list cards")
		http.Error(w, "Failed to list cards", http.StatusInternalServerError)
		return
	}
	if cards == nil {
		cards = []*card.Card{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (h *CardHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := card.CreateParams{
		UserID:     userID,
		Nickname:   req.Nickname,
		Brand:      req.Brand,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
		TotalLimit: req.TotalLimit,
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.cards.CreateCard(r.Context(), params)
	if err != nil {
		h.writeCardError(w, err, "failed to create card")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// HandleCardByID serves one card: get, update, delete.
func (h *CardHandler) HandleCardByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cardID := r.PathValue("id")
	if cardID == "" {
		http.Error(w, "Card ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.cards.GetCard(r.Context(), cardID, userID)
		if err != nil {
			h.writeCardError(w, err, "failed to get card")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c)

	case http.MethodPut, http.MethodPatch:
		var req UpdateCardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		c, err := h.cards.UpdateCard(r.Context(), cardID, userID, card.UpdateParams{
			Nickname:   req.Nickname,
			Brand:      req.Brand,
			ClosingDay: req.ClosingDay,
			DueDay:     req.DueDay,
			TotalLimit: req.TotalLimit,
		})
		if err != nil {
			h.writeCardError(w, err, "failed to update card")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c)

	case http.MethodDelete:
		if err := h.cards.DeleteCard(r.Context(), cardID, userID); err != nil {
			h.writeCardError(w, err, "failed to delete card")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCardLimit returns the derived credit consumption of one card.
func (h *CardHandler) HandleCardLimit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, err := h.cards.ComputeLimit(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.writeCardError(w, err, "failed to compute card limit")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(limit)
}

// HandleCardLimits returns the limits of every card the user owns, keyed by
// card ID.
func (h *CardHandler) HandleCardLimits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limits, err := h.cards.ComputeLimits(r.Context(), userID)
	if err != nil {
		h.writeCardError(w, err, "failed to compute card limits")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(limits)
}

func (h *CardHandler) writeCardError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, card.ErrCardNotFound):
		http.Error(w, "Card not found", http.StatusNotFound)
	case errors.Is(err, card.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, card.ErrInvalidDay):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logrus.WithError(err).Error(logMsg)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
