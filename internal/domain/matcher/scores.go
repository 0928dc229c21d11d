package matcher

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// centTolerance is the cutoff for "the amounts are the same": one cent.
var centTolerance = decimal.New(1, -2)

// amountScore maps the gap between a transaction amount and an amount due
// onto a step scale. Both inputs must already be unsigned.
//
//	diff <= 1 cent -> 1.00
//	diff <= 1%     -> 0.95
//	diff <= 5%     -> 0.85
//	diff <= 10%    -> 0.70
//	beyond         -> 0.00
func amountScore(txAmount, amountDue decimal.Decimal) float64 {
	diff := txAmount.Sub(amountDue).Abs()
	if diff.LessThanOrEqual(centTolerance) {
		return 1.0
	}
	if amountDue.IsZero() {
		return 0.0
	}
	relative := diff.Div(amountDue)
	switch {
	case relative.LessThanOrEqual(decimal.New(1, -2)):
		return 0.95
	case relative.LessThanOrEqual(decimal.New(5, -2)):
		return 0.85
	case relative.LessThanOrEqual(decimal.New(1, -1)):
		return 0.70
	default:
		return 0.0
	}
}

// dateScore maps the calendar-day distance between two dates onto a step
// scale.
//
//	same day  -> 1.00
//	<= 1 day  -> 0.95
//	<= 3 days -> 0.85
//	<= 7 days -> 0.70
//	<= 14     -> 0.50
//	beyond    -> 0.00
func dateScore(a, b time.Time) float64 {
	days := daysBetween(a, b)
	switch {
	case days == 0:
		return 1.0
	case days <= 1:
		return 0.95
	case days <= 3:
		return 0.85
	case days <= 7:
		return 0.70
	case days <= 14:
		return 0.50
	default:
		return 0.0
	}
}

// daysBetween returns the absolute distance in whole calendar days.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Abs(ad.Sub(bd).Hours() / 24))
}

// withinCent reports whether two unsigned amounts differ by at most one cent.
func withinCent(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(centTolerance)
}

// withinPercent reports whether the gap between two unsigned amounts stays
// inside a relative tolerance of the amount due.
func withinPercent(txAmount, amountDue decimal.Decimal, percent int64) bool {
	if withinCent(txAmount, amountDue) {
		return true
	}
	if amountDue.IsZero() {
		return false
	}
	diff := txAmount.Sub(amountDue).Abs()
	return diff.Div(amountDue).LessThanOrEqual(decimal.New(percent, -2))
}
