package expense

import (
	"errors"
	"time"
)

// Payment modalities as stored in the despesas table.
const (
	ModalityPix    = "PIX"
	ModalityDebit  = "Cartão Débito"
	ModalityCredit = "Cartão Crédito"
)

// Installment status literals.
const (
	StatusPaid    = "Pago"
	StatusPending = "Pendente"

	// statusPaidLegacy appears on rows written by an earlier version of the
	// installment control screen. It must keep counting as paid.
	statusPaidLegacy = "Paga"
)

// Domain errors
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidModality      = errors.New("invalid payment modality")
	ErrCardRequired         = errors.New("card is required for this modality")
	ErrCardNotFound         = errors.New("card not found")
	ErrInstallmentNotFound  = errors.New("installment not found")
	ErrPurchaseNotFound     = errors.New("purchase not found")
)

var modalities = map[string]struct{}{
	ModalityPix:    {},
	ModalityDebit:  {},
	ModalityCredit: {},
}

// IsValidModality checks if the provided modality is one of the known literals.
func IsValidModality(m string) bool {
	_, ok := modalities[m]
	return ok
}

// IsPaid reports whether a status literal counts as paid, accepting the
// legacy "Paga" spelling.
func IsPaid(status string) bool {
	return status == StatusPaid || status == statusPaidLegacy
}

// Installment is one scheduled payment of a purchase. A purchase paid in N
// credit-card installments materializes into N rows sharing one PurchaseID;
// any other purchase is a single row.
type Installment struct {
	ID                string    `json:"id"`
	UserID            int64     `json:"-"`
	Description       string    `json:"description"`       // descricao
	Category          string    `json:"category"`          // categoria
	Modality          string    `json:"modality"`          // modalidade
	CardID            *string   `json:"cardId,omitempty"`  // cartao_id
	Amount            float64   `json:"amount"`            // valor
	InstallmentAmount float64   `json:"installmentAmount"` // valor_parcela
	InstallmentNumber int       `json:"installmentNumber"` // parcela_atual, 1-based
	TotalInstallments int       `json:"totalInstallments"` // parcelas_total
	PurchaseID        string    `json:"purchaseId"`        // id_compra
	Status            string    `json:"status"`
	PurchaseDate      time.Time `json:"purchaseDate"` // data_compra
	PaymentDate       time.Time `json:"paymentDate"`  // data_pagamento
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// PurchaseParams describes one purchase to be materialized into installment
// rows. For credit purchases the user enters the per-installment amount and
// the count directly; the purchase total is InstallmentAmount × Installments,
// never a typed total divided by N.
type PurchaseParams struct {
	UserID            int64
	Description       string
	Category          string
	Modality          string
	CardID            *string
	TotalAmount       float64 // used for PIX/debit/single-installment purchases
	InstallmentAmount float64 // used for credit purchases
	Installments      int
	PurchaseDate      time.Time
}

// Validate checks the purchase parameters before any store call is made.
func (p PurchaseParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if p.PurchaseDate.IsZero() {
		return errors.New("purchase date is required")
	}
	if !IsValidModality(p.Modality) {
		return ErrInvalidModality
	}
	if p.Modality == ModalityDebit || p.Modality == ModalityCredit {
		if p.CardID == nil || *p.CardID == "" {
			return ErrCardRequired
		}
	}
	if p.Modality == ModalityCredit {
		if p.Installments < 1 {
			return errors.New("installment count must be at least 1")
		}
		if p.Installments > 1 {
			if p.InstallmentAmount <= 0 {
				return errors.New("installment amount must be positive")
			}
			return nil
		}
	}
	if p.TotalAmount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}
