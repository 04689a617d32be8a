package user

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
