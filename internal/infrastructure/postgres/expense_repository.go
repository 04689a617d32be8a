package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"financas/internal/domain/expense"
)

type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const installmentColumns = `id, usuario_id, descricao, categoria, modalidade, cartao_id,
		valor, valor_parcela, parcela_atual, parcelas_total, id_compra, status,
		data_compra, data_pagamento, created_at, updated_at`

func scanInstallment(s interface{ Scan(...any) error }) (*expense.Installment, error) {
	var in expense.Installment
	var cardID sql.NullString

	err := s.Scan(
		&in.ID, &in.UserID, &in.Description, &in.Category, &in.Modality, &cardID,
		&in.Amount, &in.InstallmentAmount, &in.InstallmentNumber, &in.TotalInstallments,
		&in.PurchaseID, &in.Status, &in.PurchaseDate, &in.PaymentDate,
		&in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cardID.Valid {
		in.CardID = &cardID.String
	}

	// DATE columns come back at midnight UTC; re-anchor so date arithmetic
	// downstream can never cross a day boundary.
	in.PurchaseDate = expense.Anchor(in.PurchaseDate)
	in.PaymentDate = expense.Anchor(in.PaymentDate)

	return &in, nil
}

func (r *ExpenseRepository) CreateBatch(ctx context.Context, installments []*expense.Installment) error {
	query := `
		INSERT INTO despesas (id, usuario_id, descricao, categoria, modalidade, cartao_id,
			valor, valor_parcela, parcela_atual, parcelas_total, id_compra, status,
			data_compra, data_pagamento)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	for _, in := range installments {
		err := r.db.QueryRowContext(
			ctx, query,
			in.ID, in.UserID, in.Description, in.Category, in.Modality, in.CardID,
			in.Amount, in.InstallmentAmount, in.InstallmentNumber, in.TotalInstallments,
			in.PurchaseID, in.Status,
			in.PurchaseDate, in.PaymentDate,
		).Scan(&in.CreatedAt, &in.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert installment %d/%d: %w", in.InstallmentNumber, in.TotalInstallments, err)
		}
	}

	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, userID int64, id string) (*expense.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM despesas WHERE id = $1 AND usuario_id = $2`

	in, err := scanInstallment(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}

	return in, nil
}

func (r *ExpenseRepository) ListByUserID(ctx context.Context, userID int64, filter expense.ListFilter) ([]*expense.Installment, error) {
	where := []string{"usuario_id = $1"}
	args := []any{userID}

	add := func(condition string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(condition, len(args)))
	}

	if filter.CardID != nil {
		add("cartao_id = $%d", *filter.CardID)
	}
	if filter.Modality != nil {
		add("modalidade = $%d", *filter.Modality)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.Year != nil {
		add("EXTRACT(YEAR FROM data_pagamento) = $%d", *filter.Year)
	}
	if filter.Month != nil {
		// Filter carries a 0-based month index; postgres months are 1-based.
		add("EXTRACT(MONTH FROM data_pagamento) = $%d", *filter.Month+1)
	}

	query := `SELECT ` + installmentColumns + `
		FROM despesas
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY data_pagamento DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var installments []*expense.Installment
	for rows.Next() {
		in, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installments: %w", err)
	}

	return installments, nil
}

func (r *ExpenseRepository) ListByPurchaseID(ctx context.Context, userID int64, purchaseID string) ([]*expense.Installment, error) {
	query := `SELECT ` + installmentColumns + `
		FROM despesas
		WHERE usuario_id = $1 AND id_compra = $2
		ORDER BY parcela_atual`

	rows, err := r.db.QueryContext(ctx, query, userID, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase installments: %w", err)
	}
	defer rows.Close()

	var installments []*expense.Installment
	for rows.Next() {
		in, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installments: %w", err)
	}

	return installments, nil
}

func (r *ExpenseRepository) DeleteByPurchaseID(ctx context.Context, userID int64, purchaseID string) (int64, error) {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM despesas WHERE usuario_id = $1 AND id_compra = $2`,
		userID, purchaseID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete purchase installments: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted installments: %w", err)
	}

	return affected, nil
}

func (r *ExpenseRepository) UpdateStatus(ctx context.Context, userID int64, id, status string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE despesas SET status = $3, updated_at = now() WHERE id = $1 AND usuario_id = $2`,
		id, userID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update installment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated installment: %w", err)
	}
	if affected == 0 {
		return expense.ErrInstallmentNotFound
	}

	return nil
}

// PendingInstallmentAmounts returns the per-installment amounts of every
// pending credit-card row on one card. The limit calculator sums these.
func (r *ExpenseRepository) PendingInstallmentAmounts(ctx context.Context, userID int64, cardID string) ([]float64, error) {
	query := `
		SELECT valor_parcela
		FROM despesas
		WHERE usuario_id = $1 AND cartao_id = $2 AND modalidade = $3 AND status = $4
	`

	rows, err := r.db.QueryContext(ctx, query, userID, cardID, expense.ModalityCredit, expense.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending installment amounts: %w", err)
	}
	defer rows.Close()

	var amounts []float64
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan installment amount: %w", err)
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installment amounts: %w", err)
	}

	return amounts, nil
}
