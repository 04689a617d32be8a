package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service contains the business logic for purchases and their installments.
type Service struct {
	repo   Repository
	cards  CardLookup
	logger *logrus.Logger
}

// NewService creates a new expense service.
func NewService(repo Repository, cards CardLookup, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{repo: repo, cards: cards, logger: logger}
}

// Materialize turns a purchase into its installment rows.
//
// A credit-card purchase with more than one installment produces N pending
// rows sharing one purchase identifier, dated along the card's billing cycle.
// Any other purchase produces a single row that is settled at entry time: its
// payment date is the purchase date itself and its status is already paid.
//
// When existingPurchaseID is non-empty the call is an edit: every row carrying
// that identifier is deleted before the fresh set is inserted. Individual
// installments are never updated in place.
func (s *Service) Materialize(ctx context.Context, params PurchaseParams, existingPurchaseID string) ([]*Installment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	purchaseID := existingPurchaseID
	if purchaseID == "" {
		purchaseID = uuid.NewString()
	}

	rows, err := s.buildInstallments(ctx, params, purchaseID)
	if err != nil {
		return nil, err
	}

	if existingPurchaseID != "" {
		// Replace the whole set. If the insert below fails the purchase is
		// left with no rows; that is the documented failure mode and the
		// caller re-submits.
		if _, err := s.repo.DeleteByPurchaseID(ctx, params.UserID, existingPurchaseID); err != nil {
			return nil, fmt.Errorf("failed to delete previous installments: %w", err)
		}
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		s.logger.WithError(err).WithField("purchaseId", purchaseID).Error("failed to insert installments")
		return nil, fmt.Errorf("failed to create installments: %w", err)
	}

	return rows, nil
}

func (s *Service) buildInstallments(ctx context.Context, params PurchaseParams, purchaseID string) ([]*Installment, error) {
	if params.Modality == ModalityCredit && params.Installments > 1 {
		info, err := s.cards.BillingInfo(ctx, params.UserID, *params.CardID)
		if err != nil {
			return nil, err
		}
		if info == nil {
			return nil, ErrCardNotFound
		}

		first := FirstPaymentDate(params.PurchaseDate, info.DueDay, info.ClosingDay)
		rows := make([]*Installment, 0, params.Installments)
		for i := 1; i <= params.Installments; i++ {
			rows = append(rows, &Installment{
				ID:                uuid.NewString(),
				UserID:            params.UserID,
				Description:       params.Description,
				Category:          params.Category,
				Modality:          params.Modality,
				CardID:            params.CardID,
				Amount:            params.InstallmentAmount,
				InstallmentAmount: params.InstallmentAmount,
				InstallmentNumber: i,
				TotalInstallments: params.Installments,
				PurchaseID:        purchaseID,
				Status:            StatusPending,
				PurchaseDate:      Anchor(params.PurchaseDate),
				PaymentDate:       InstallmentDate(first, i),
			})
		}
		return rows, nil
	}

	// PIX, debit, or a single-installment credit purchase: one row, settled
	// on the purchase date.
	var cardID *string
	if params.Modality == ModalityDebit || params.Modality == ModalityCredit {
		cardID = params.CardID
	}
	return []*Installment{{
		ID:                uuid.NewString(),
		UserID:            params.UserID,
		Description:       params.Description,
		Category:          params.Category,
		Modality:          params.Modality,
		CardID:            cardID,
		Amount:            params.TotalAmount,
		InstallmentAmount: params.TotalAmount,
		InstallmentNumber: 1,
		TotalInstallments: 1,
		PurchaseID:        purchaseID,
		Status:            StatusPaid,
		PurchaseDate:      Anchor(params.PurchaseDate),
		PaymentDate:       Anchor(params.PurchaseDate),
	}}, nil
}

// GetInstallment returns a single installment owned by the user.
func (s *Service) GetInstallment(ctx context.Context, userID int64, id string) (*Installment, error) {
	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrInstallmentNotFound
	}
	return row, nil
}

// ListInstallments returns the user's installments, newest payment date first.
func (s *Service) ListInstallments(ctx context.Context, userID int64, filter ListFilter) ([]*Installment, error) {
	return s.repo.ListByUserID(ctx, userID, filter)
}

// ToggleStatus flips one installment between paid and pending and returns the
// new status. Sibling installments of the same purchase are not touched.
func (s *Service) ToggleStatus(ctx context.Context, userID int64, id string) (string, error) {
	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", ErrInstallmentNotFound
	}

	newStatus := StatusPaid
	if IsPaid(row.Status) {
		newStatus = StatusPending
	}

	if err := s.repo.UpdateStatus(ctx, userID, id, newStatus); err != nil {
		return "", err
	}
	return newStatus, nil
}

// DeletePurchase removes every installment of a purchase.
func (s *Service) DeletePurchase(ctx context.Context, userID int64, purchaseID string) error {
	deleted, err := s.repo.DeleteByPurchaseID(ctx, userID, purchaseID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrPurchaseNotFound
	}
	return nil
}
