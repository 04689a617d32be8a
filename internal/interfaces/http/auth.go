package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"financas/internal/domain/user"
	"financas/internal/shared/auth"
)

type AuthHandler struct {
	users user.Repository
	jwt   *auth.JWT
}

func NewAuthHandler(users user.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates an account and signs the new user in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "password must have at least 8 characters", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	u, err := h.users.Create(r.Context(), user.CreateParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	})
	if err == user.ErrEmailTaken {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("failed to create user")
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	h.respondWithToken(w, u)
}

// HandleLogin verifies credentials and issues an access token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		logrus.WithError(err).Error("failed to look up user")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	if u == nil || auth.VerifyPassword(u.PasswordHash, req.Password) != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	h.respondWithToken(w, u)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *user.User) {
	token, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: u})
}
