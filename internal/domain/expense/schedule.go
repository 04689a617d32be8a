package expense

import (
	"time"
)

// billingZone is the fixed UTC-3 offset every date in the billing engine is
// anchored to. Dates are always constructed at noon so that driver-side
// timezone conversion can never shift them across a day boundary.
var billingZone = time.FixedZone("-03", -3*60*60)

// NewDate returns the given calendar day anchored at noon UTC-3.
// Out-of-range months and days are normalized by time.Date, so a due day of 31
// in a 30-day month rolls into the next month. That overflow is accepted
// billing behavior, not corrected.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, billingZone)
}

// Anchor re-anchors an arbitrary time to noon UTC-3 on the same calendar day.
// Every date read back from the store goes through this before being compared.
func Anchor(t time.Time) time.Time {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string into an anchored date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return Anchor(t), nil
}

// FormatDate renders an anchored date back to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.In(billingZone).Format("2006-01-02")
}

// FirstPaymentDate computes the invoice date of the first installment of a
// credit-card purchase.
//
// A card's billing cycle closes on closingDay of each month. A purchase made
// on or after closingDay misses the cycle that is about to close and lands on
// the invoice due two calendar months after the purchase month; a purchase
// made before closingDay falls inside the open cycle and is due one month
// after. The day of the returned date is always dueDay.
func FirstPaymentDate(purchaseDate time.Time, dueDay, closingDay int) time.Time {
	y, m, d := purchaseDate.In(billingZone).Date()
	if d >= closingDay {
		return NewDate(y, m+2, dueDay)
	}
	return NewDate(y, m+1, dueDay)
}

// InstallmentDate advances the first payment date by whole calendar months for
// the n-th installment (1-based). n == 1 returns firstPayment unchanged.
func InstallmentDate(firstPayment time.Time, n int) time.Time {
	y, m, d := firstPayment.In(billingZone).Date()
	return NewDate(y, m+time.Month(n-1), d)
}
