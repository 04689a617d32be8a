package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"financas/internal/domain/card"
)

// MockCardRepo implements card.Repository for testing
type MockCardRepo struct {
	CreateFunc       func(ctx context.Context, params card.CreateParams) (*card.Card, error)
	GetByIDFunc      func(ctx context.Context, id string) (*card.Card, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*card.Card, error)
	UpdateFunc       func(ctx context.Context, id string, params card.UpdateParams) (*card.Card, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockCardRepo) Create(ctx context.Context, params card.CreateParams) (*card.Card, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockCardRepo) GetByID(ctx context.Context, id string) (*card.Card, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCardRepo) ListByUserID(ctx context.Context, userID int64) ([]*card.Card, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCardRepo) Update(ctx context.Context, id string, params card.UpdateParams) (*card.Card, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockCardRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockInstallmentSource implements card.InstallmentSource for testing
type MockInstallmentSource struct {
	PendingFunc func(ctx context.Context, userID int64, cardID string) ([]float64, error)
}

func (m *MockInstallmentSource) PendingInstallmentAmounts(ctx context.Context, userID int64, cardID string) ([]float64, error) {
	if m.PendingFunc != nil {
		return m.PendingFunc(ctx, userID, cardID)
	}
	return nil, nil
}

func newCardHandler(repo *MockCardRepo, source *MockInstallmentSource) *CardHandler {
	return NewCardHandler(card.NewService(repo, source))
}

func TestHandleCards_Create(t *testing.T) {
	repo := &MockCardRepo{
		CreateFunc: func(ctx context.Context, params card.CreateParams) (*card.Card, error) {
			return &card.Card{
				ID:         "card-1",
				UserID:     params.UserID,
				Nickname:   params.Nickname,
				ClosingDay: params.ClosingDay,
				DueDay:     params.DueDay,
			}, nil
		},
	}
	handler := newCardHandler(repo, &MockInstallmentSource{})

	body, _ := json.Marshal(CreateCardRequest{
		Nickname:   "Nubank",
		Brand:      "Mastercard",
		ClosingDay: 25,
		DueDay:     10,
	})

	rr := httptest.NewRecorder()
	handler.HandleCards(rr, authedRequest(http.MethodPost, "/api/cards", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp card.Card
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Nickname != "Nubank" || resp.ClosingDay != 25 {
		t.Errorf("unexpected card in response: %+v", resp)
	}
}

func TestHandleCards_CreateInvalidDay(t *testing.T) {
	handler := newCardHandler(&MockCardRepo{}, &MockInstallmentSource{})

	body, _ := json.Marshal(CreateCardRequest{
		Nickname:   "Nubank",
		ClosingDay: 32,
		DueDay:     10,
	})

	rr := httptest.NewRecorder()
	handler.HandleCards(rr, authedRequest(http.MethodPost, "/api/cards", body))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestHandleCards_List(t *testing.T) {
	repo := &MockCardRepo{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*card.Card, error) {
			return []*card.Card{
				{ID: "card-1", Nickname: "Nubank"},
				{ID: "card-2", Nickname: "Inter"},
			}, nil
		},
	}
	handler := newCardHandler(repo, &MockInstallmentSource{})

	rr := httptest.NewRecorder()
	handler.HandleCards(rr, authedRequest(http.MethodGet, "/api/cards", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp []*card.Card
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("response has %d cards, want 2", len(resp))
	}
}

func TestHandleCardByID_ForbiddenForOtherUser(t *testing.T) {
	repo := &MockCardRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*card.Card, error) {
			return &card.Card{ID: id, UserID: 999}, nil
		},
	}
	handler := newCardHandler(repo, &MockInstallmentSource{})

	req := authedRequest(http.MethodGet, "/api/cards/card-1", nil)
	req.SetPathValue("id", "card-1")
	rr := httptest.NewRecorder()
	handler.HandleCardByID(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestHandleCardByID_NotFound(t *testing.T) {
	handler := newCardHandler(&MockCardRepo{}, &MockInstallmentSource{})

	req := authedRequest(http.MethodGet, "/api/cards/ghost", nil)
	req.SetPathValue("id", "ghost")
	rr := httptest.NewRecorder()
	handler.HandleCardByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHandleCardByID_Delete(t *testing.T) {
	deleted := ""
	repo := &MockCardRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*card.Card, error) {
			return &card.Card{ID: id, UserID: 1}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := newCardHandler(repo, &MockInstallmentSource{})

	req := authedRequest(http.MethodDelete, "/api/cards/card-1", nil)
	req.SetPathValue("id", "card-1")
	rr := httptest.NewRecorder()
	handler.HandleCardByID(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if deleted != "card-1" {
		t.Errorf("deleted card %q, want card-1", deleted)
	}
}

func TestHandleCardLimit(t *testing.T) {
	limit := 1000.0
	repo := &MockCardRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*card.Card, error) {
			return &card.Card{ID: id, UserID: 1, TotalLimit: &limit}, nil
		},
	}
	source := &MockInstallmentSource{
		PendingFunc: func(ctx context.Context, userID int64, cardID string) ([]float64, error) {
			return []float64{200, 250}, nil
		},
	}
	handler := newCardHandler(repo, source)

	req := authedRequest(http.MethodGet, "/api/cards/card-1/limit", nil)
	req.SetPathValue("id", "card-1")
	rr := httptest.NewRecorder()
	handler.HandleCardLimit(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp card.Limit
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Used != 450 {
		t.Errorf("used = %v, want 450", resp.Used)
	}
	if resp.Available != 550 {
		t.Errorf("available = %v, want 550", resp.Available)
	}
	if resp.PercentUsed != 45 {
		t.Errorf("percentUsed = %v, want 45", resp.PercentUsed)
	}
}
