package card

import (
	"context"
)

// Repository defines the interface for card data access.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Card, error)
	GetByID(ctx context.Context, id string) (*Card, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Card, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Card, error)
	Delete(ctx context.Context, id string) error
}

// InstallmentSource exposes the pending credit-card installment amounts the
// limit calculator consumes. Implemented by the expense repository.
type InstallmentSource interface {
	PendingInstallmentAmounts(ctx context.Context, userID int64, cardID string) ([]float64, error)
}
