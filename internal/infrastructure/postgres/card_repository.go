package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"financas/internal/domain/card"
	"financas/internal/domain/expense"
)

type CardRepository struct {
	db *DB
}

func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `id, usuario_id, apelido, bandeira, fechamento_fatura, vencimento_fatura, limite_total, created_at, updated_at`

func scanCard(s interface{ Scan(...any) error }) (*card.Card, error) {
	var c card.Card
	var limit sql.NullFloat64

	err := s.Scan(
		&c.ID, &c.UserID, &c.Nickname, &c.Brand, &c.ClosingDay, &c.DueDay,
		&limit, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if limit.Valid {
		c.TotalLimit = &limit.Float64
	}
	return &c, nil
}

func (r *CardRepository) Create(ctx context.Context, params card.CreateParams) (*card.Card, error) {
	query := `
		INSERT INTO cartoes (id, usuario_id, apelido, bandeira, fechamento_fatura, vencimento_fatura, limite_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + cardColumns

	var limit sql.NullFloat64
	if params.TotalLimit != nil {
		limit = sql.NullFloat64{Float64: *params.TotalLimit, Valid: true}
	}

	c, err := scanCard(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Nickname, params.Brand,
		params.ClosingDay, params.DueDay, limit,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	return c, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE id = $1`

	c, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return c, nil
}

func (r *CardRepository) ListByUserID(ctx context.Context, userID int64) ([]*card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE usuario_id = $1 ORDER BY apelido, created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

func (r *CardRepository) Update(ctx context.Context, id string, params card.UpdateParams) (*card.Card, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Nickname != nil {
		set("apelido", *params.Nickname)
	}
	if params.Brand != nil {
		set("bandeira", *params.Brand)
	}
	if params.ClosingDay != nil {
		set("fechamento_fatura", *params.ClosingDay)
	}
	if params.DueDay != nil {
		set("vencimento_fatura", *params.DueDay)
	}
	if params.TotalLimit != nil {
		set("limite_total", *params.TotalLimit)
	}

	query := `UPDATE cartoes SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + cardColumns

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	return c, nil
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cartoes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted card: %w", err)
	}
	if affected == 0 {
		return card.ErrCardNotFound
	}

	return nil
}

// BillingInfo resolves a card's billing-cycle days for the installment
// scheduler. Returns (nil, nil) when the card does not exist or belongs to
// another user.
func (r *CardRepository) BillingInfo(ctx context.Context, userID int64, cardID string) (*expense.BillingInfo, error) {
	query := `
		SELECT id, fechamento_fatura, vencimento_fatura
		FROM cartoes
		WHERE id = $1 AND usuario_id = $2
	`

	var info expense.BillingInfo
	err := r.db.QueryRowContext(ctx, query, cardID, userID).Scan(
		&info.CardID, &info.ClosingDay, &info.DueDay,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card billing info: %w", err)
	}

	return &info, nil
}
