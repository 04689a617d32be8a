package card

import (
	"context"
	"errors"
)

// Service contains the business logic for card operations.
type Service struct {
	repo         Repository
	installments InstallmentSource
}

// NewService creates a new card service.
func NewService(repo Repository, installments InstallmentSource) *Service {
	return &Service{repo: repo, installments: installments}
}

// CreateCard creates a new card after validation.
func (s *Service) CreateCard(ctx context.Context, params CreateParams) (*Card, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// GetCard retrieves a card by ID and verifies user ownership.
func (s *Service) GetCard(ctx context.Context, cardID string, userID int64) (*Card, error) {
	c, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCardNotFound
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

// ListCards retrieves all cards for a user, ordered by nickname.
func (s *Service) ListCards(ctx context.Context, userID int64) ([]*Card, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// UpdateCard updates a card after verifying ownership.
func (s *Service) UpdateCard(ctx context.Context, cardID string, userID int64, params UpdateParams) (*Card, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetCard(ctx, cardID, userID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, cardID, params)
}

// DeleteCard deletes a card after verifying ownership.
func (s *Service) DeleteCard(ctx context.Context, cardID string, userID int64) error {
	if _, err := s.GetCard(ctx, cardID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, cardID)
}

// ComputeLimit derives the card's credit consumption from its pending
// credit-card installments. Used sums the per-installment amount of every
// pending row; paid installments no longer consume limit. Available is not
// clamped and goes negative when the card is over-committed. A card with no
// tracked limit (total zero or unset) still reports used, but available stays
// at total and percent at zero.
func (s *Service) ComputeLimit(ctx context.Context, cardID string, userID int64) (*Limit, error) {
	c, err := s.GetCard(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}
	return s.computeLimit(ctx, c)
}

// ComputeLimits returns the limit of every card the user owns, keyed by card ID.
func (s *Service) ComputeLimits(ctx context.Context, userID int64) (map[string]*Limit, error) {
	cards, err := s.ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits := make(map[string]*Limit, len(cards))
	for _, c := range cards {
		l, err := s.computeLimit(ctx, c)
		if err != nil {
			return nil, err
		}
		limits[c.ID] = l
	}
	return limits, nil
}

func (s *Service) computeLimit(ctx context.Context, c *Card) (*Limit, error) {
	var total float64
	if c.TotalLimit != nil {
		total = *c.TotalLimit
	}

	amounts, err := s.installments.PendingInstallmentAmounts(ctx, c.UserID, c.ID)
	if err != nil {
		return nil, err
	}

	var used float64
	for _, a := range amounts {
		used += a
	}

	if total == 0 {
		return &Limit{CardID: c.ID, Total: total, Used: used, Available: total, PercentUsed: 0}, nil
	}

	return &Limit{
		CardID:      c.ID,
		Total:       total,
		Used:        used,
		Available:   total - used,
		PercentUsed: used / total * 100,
	}, nil
}
