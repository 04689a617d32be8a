package card

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrCardNotFound = errors.New("card not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrInvalidDay   = errors.New("closing and due days must be between 1 and 31")
)

// Card is a credit/debit card configured by the user. ClosingDay is the
// day-of-month the card's invoice closes and DueDay the day it is due.
type Card struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"-"`
	Nickname   string    `json:"nickname"` // apelido
	Brand      string    `json:"brand"`    // bandeira
	ClosingDay int       `json:"closingDay"`
	DueDay     int       `json:"dueDay"`
	TotalLimit *float64  `json:"totalLimit,omitempty"` // nil means no limit tracked
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Limit is the derived credit consumption of one card.
type Limit struct {
	CardID      string  `json:"cardId"`
	Total       float64 `json:"total"`
	Used        float64 `json:"used"`
	Available   float64 `json:"available"`
	PercentUsed float64 `json:"percentUsed"`
}

// CreateParams contains parameters for creating a card.
type CreateParams struct {
	UserID     int64
	Nickname   string
	Brand      string
	ClosingDay int
	DueDay     int
	TotalLimit *float64
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Nickname == "" {
		return errors.New("nickname is required")
	}
	if !isValidDay(p.ClosingDay) || !isValidDay(p.DueDay) {
		return ErrInvalidDay
	}
	return nil
}

// UpdateParams contains parameters for updating a card. Nil fields are left
// unchanged.
type UpdateParams struct {
	Nickname   *string
	Brand      *string
	ClosingDay *int
	DueDay     *int
	TotalLimit *float64
}

// Validate validates the update parameters.
func (p UpdateParams) Validate() error {
	if p.ClosingDay != nil && !isValidDay(*p.ClosingDay) {
		return ErrInvalidDay
	}
	if p.DueDay != nil && !isValidDay(*p.DueDay) {
		return ErrInvalidDay
	}
	return nil
}

func isValidDay(d int) bool {
	return d >= 1 && d <= 31
}
