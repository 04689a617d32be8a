package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"financas/internal/domain/user"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func TestHandleMe(t *testing.T) {
	repo := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*user.User, error) {
			return &user.User{ID: id, Email: "ana@example.com", Name: "Ana"}, nil
		},
	}
	handler := NewUserHandler(repo)

	rr := httptest.NewRecorder()
	handler.HandleMe(rr, authedRequest(http.MethodGet, "/api/users/me", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp user.User
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || resp.Email != "ana@example.com" {
		t.Errorf("unexpected user in response: %+v", resp)
	}
}

func TestHandleMe_NotFound(t *testing.T) {
	handler := NewUserHandler(&MockUserRepo{})

	rr := httptest.NewRecorder()
	handler.HandleMe(rr, authedRequest(http.MethodGet, "/api/users/me", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHandleMe_Unauthorized(t *testing.T) {
	handler := NewUserHandler(&MockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rr := httptest.NewRecorder()
	handler.HandleMe(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without user context, got %d", rr.Code)
	}
}
