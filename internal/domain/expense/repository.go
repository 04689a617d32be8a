package expense

import (
	"context"
)

// ListFilter narrows installment listings. Nil fields are not applied.
type ListFilter struct {
	CardID   *string
	Modality *string
	Status   *string
	Year     *int // matches the payment date's year
	Month    *int // 0-based month index of the payment date, January == 0
}

// Repository defines the interface for installment data access.
type Repository interface {
	CreateBatch(ctx context.Context, installments []*Installment) error
	GetByID(ctx context.Context, userID int64, id string) (*Installment, error)
	ListByUserID(ctx context.Context, userID int64, filter ListFilter) ([]*Installment, error)
	ListByPurchaseID(ctx context.Context, userID int64, purchaseID string) ([]*Installment, error)
	DeleteByPurchaseID(ctx context.Context, userID int64, purchaseID string) (int64, error)
	UpdateStatus(ctx context.Context, userID int64, id, status string) error
}

// BillingInfo is the slice of a card the billing engine needs: which day its
// invoice closes and which day it is due.
type BillingInfo struct {
	CardID     string
	ClosingDay int // fechamento_fatura
	DueDay     int // vencimento_fatura
}

// CardLookup resolves a card's billing days. Returns (nil, nil) when the card
// does not exist.
type CardLookup interface {
	BillingInfo(ctx context.Context, userID int64, cardID string) (*BillingInfo, error)
}
