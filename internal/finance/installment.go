// Package finance holds the derived-field calculations of a loan tape: amortized
// installments, delinquency aging and the risk-tier credit model.
package finance

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/wealthpath/loantape/internal/model"
)

// Installment computes the equated monthly installment rounded to the rupee.
//
//	M = P * r(1+r)^n / ((1+r)^n - 1),  r = annualRatePercent / 12 / 100
//
// A zero rate degenerates to straight-line repayment and a non-positive tenure
// returns the principal as a single payment.
func Installment(principal decimal.Decimal, annualRatePercent float64, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 {
		return principal.Round(0)
	}

	p := principal.InexactFloat64()
	n := float64(tenureMonths)
	r := annualRatePercent / 12 / 100

	var payment float64
	if r == 0 {
		payment = p / n
	} else {
		growth := math.Pow(1+r, n)
		payment = p * r * growth / (growth - 1)
	}

	return decimal.NewFromFloat(math.Round(payment))
}

// DelinquencyBucket maps days past due to its aging label. Each named bucket is
// inclusive on its upper edge; non-positive values are Current.
func DelinquencyBucket(daysPastDue int) string {
	switch {
	case daysPastDue <= 0:
		return model.BucketCurrent
	case daysPastDue <= 30:
		return model.Bucket1To30
	case daysPastDue <= 60:
		return model.Bucket31To60
	case daysPastDue <= 90:
		return model.Bucket61To90
	default:
		return model.Bucket90Plus
	}
}

// StatusFor derives the loan status from days past due.
func StatusFor(daysPastDue int) model.LoanStatus {
	switch {
	case daysPastDue > 90:
		return model.LoanStatusDefault
	case daysPastDue > 0:
		return model.LoanStatusDelinquent
	default:
		return model.LoanStatusActive
	}
}
