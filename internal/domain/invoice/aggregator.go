// Package invoice derives per-statement views from installment records.
// Nothing here is persisted; every read recomputes from the store.
package invoice

import (
	"context"
	"sort"

	"financas/internal/domain/expense"
)

// InstallmentSource is the slice of the expense repository the aggregator
// reads from.
type InstallmentSource interface {
	ListByUserID(ctx context.Context, userID int64, filter expense.ListFilter) ([]*expense.Installment, error)
}

// MonthBucket is one statement month of a card: the installments whose
// payment date falls in that month and their total.
type MonthBucket struct {
	Total float64                `json:"total"`
	Items []*expense.Installment `json:"items"`
}

// Summary condenses a card's year of statements.
type Summary struct {
	TotalSpent     float64 `json:"totalSpent"`
	MonthlyAverage float64 `json:"monthlyAverage"`
	TotalPending   float64 `json:"totalPending"`
}

// PurchaseGroup collapses the installments sharing one purchase identifier
// into a single entry. Status is paid only when every installment of the set
// is paid; the displayed amount is the full purchase value, not one
// installment's.
type PurchaseGroup struct {
	PurchaseID        string                 `json:"purchaseId"`
	Description       string                 `json:"description"`
	Category          string                 `json:"category"`
	Modality          string                 `json:"modality"`
	CardID            *string                `json:"cardId,omitempty"`
	PurchaseDate      string                 `json:"purchaseDate"`
	InstallmentAmount float64                `json:"installmentAmount"`
	TotalInstallments int                    `json:"totalInstallments"`
	TotalAmount       float64                `json:"totalAmount"`
	Status            string                 `json:"status"`
	PaidCount         int                    `json:"paidCount"`
	Installments      []*expense.Installment `json:"installments"`
}

// Aggregator groups a card's installments into monthly statements.
type Aggregator struct {
	installments InstallmentSource
}

// NewAggregator creates a new invoice aggregator.
func NewAggregator(installments InstallmentSource) *Aggregator {
	return &Aggregator{installments: installments}
}

// Statements buckets the card's credit installments of one year by the month
// of their payment date. Keys are 0-based month indexes (January == 0).
// Items inside each bucket are sorted by payment date descending.
func (a *Aggregator) Statements(ctx context.Context, userID int64, cardID string, year int) (map[int]*MonthBucket, error) {
	rows, err := a.listCardYear(ctx, userID, cardID, year)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int]*MonthBucket)
	for _, row := range rows {
		month := int(expense.Anchor(row.PaymentDate).Month()) - 1
		b, ok := buckets[month]
		if !ok {
			b = &MonthBucket{}
			buckets[month] = b
		}
		b.Total += row.InstallmentAmount
		b.Items = append(b.Items, row)
	}

	for _, b := range buckets {
		sortByPaymentDateDesc(b.Items)
	}
	return buckets, nil
}

// Summary computes a card's yearly totals. The monthly average divides by the
// number of distinct months that actually have an installment, not by 12.
// TotalPending sums every pending installment of the year regardless of month.
func (a *Aggregator) Summary(ctx context.Context, userID int64, cardID string, year int) (*Summary, error) {
	rows, err := a.listCardYear(ctx, userID, cardID, year)
	if err != nil {
		return nil, err
	}

	s := &Summary{}
	months := make(map[int]struct{})
	for _, row := range rows {
		s.TotalSpent += row.InstallmentAmount
		months[int(expense.Anchor(row.PaymentDate).Month())-1] = struct{}{}
		if !expense.IsPaid(row.Status) {
			s.TotalPending += row.InstallmentAmount
		}
	}
	if len(months) > 0 {
		s.MonthlyAverage = s.TotalSpent / float64(len(months))
	}
	return s, nil
}

// Purchases returns the user's credit purchases grouped by purchase
// identifier, newest purchase first.
func (a *Aggregator) Purchases(ctx context.Context, userID int64, cardID *string) ([]*PurchaseGroup, error) {
	modality := expense.ModalityCredit
	rows, err := a.installments.ListByUserID(ctx, userID, expense.ListFilter{
		CardID:   cardID,
		Modality: &modality,
	})
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*PurchaseGroup)
	var order []string
	for _, row := range rows {
		g, ok := groups[row.PurchaseID]
		if !ok {
			g = &PurchaseGroup{
				PurchaseID:        row.PurchaseID,
				TotalInstallments: row.TotalInstallments,
			}
			groups[row.PurchaseID] = g
			order = append(order, row.PurchaseID)
		}
		g.Installments = append(g.Installments, row)
	}

	result := make([]*PurchaseGroup, 0, len(order))
	for _, id := range order {
		g := groups[id]
		sort.Slice(g.Installments, func(i, j int) bool {
			return g.Installments[i].InstallmentNumber < g.Installments[j].InstallmentNumber
		})

		first := g.Installments[0]
		g.Description = first.Description
		g.Category = first.Category
		g.Modality = first.Modality
		g.CardID = first.CardID
		g.PurchaseDate = expense.FormatDate(first.PurchaseDate)
		g.InstallmentAmount = first.InstallmentAmount
		g.TotalAmount = first.InstallmentAmount * float64(g.TotalInstallments)

		allPaid := true
		for _, row := range g.Installments {
			if expense.IsPaid(row.Status) {
				g.PaidCount++
			} else {
				allPaid = false
			}
		}
		if allPaid {
			g.Status = expense.StatusPaid
		} else {
			g.Status = expense.StatusPending
		}

		result = append(result, g)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PurchaseDate > result[j].PurchaseDate
	})
	return result, nil
}

func (a *Aggregator) listCardYear(ctx context.Context, userID int64, cardID string, year int) ([]*expense.Installment, error) {
	modality := expense.ModalityCredit
	return a.installments.ListByUserID(ctx, userID, expense.ListFilter{
		CardID:   &cardID,
		Modality: &modality,
		Year:     &year,
	})
}

func sortByPaymentDateDesc(items []*expense.Installment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PaymentDate.After(items[j].PaymentDate)
	})
}
