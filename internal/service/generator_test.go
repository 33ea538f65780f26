package service

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthpath/loantape/internal/catalog"
	"github.com/wealthpath/loantape/internal/finance"
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/random"
)

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// stubSource replays fixed Float64 values and delegates everything else.
type stubSource struct {
	*random.Rand
	floats []float64
	next   int
}

func (s *stubSource) Float64() float64 {
	v := s.floats[s.next%len(s.floats)]
	s.next++
	return v
}

func testProfile(t *testing.T, key string) model.PortfolioProfile {
	t.Helper()
	p, ok := catalog.MustDefault().Get(key)
	require.True(t, ok)
	return p
}

func TestGenerate_CountAndIDs(t *testing.T) {
	t.Parallel()

	gen := NewLoanGenerator(catalog.NewGeographyCatalog(), random.NewSeeded(1))
	records := gen.Generate(testProfile(t, "small"), 2500, "SMA")

	require.Len(t, records, 2500)
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("SMA%06d", i+1), r.LoanID)
		assert.Equal(t, fmt.Sprintf("Borrower %d", i+1), r.BorrowerName)
		assert.False(t, seen[r.LoanID])
		seen[r.LoanID] = true
	}
	assert.Equal(t, "SMA000001", records[0].LoanID)
	assert.Equal(t, "SMA002500", records[2499].LoanID)
}

func TestGenerate_NonPositiveCount(t *testing.T) {
	t.Parallel()

	gen := NewLoanGenerator(nil, random.NewSeeded(1))
	for _, n := range []int{0, -1, -100} {
		records := gen.Generate(testProfile(t, "small"), n, "SMA")
		assert.NotNil(t, records)
		assert.Empty(t, records)
	}
}

func TestGenerate_RecordConstraints(t *testing.T) {
	t.Parallel()

	geo := catalog.NewGeographyCatalog()
	for _, e := range catalog.MustDefault().List() {
		e := e
		t.Run(e.Key, func(t *testing.T) {
			t.Parallel()

			gen := NewLoanGenerator(geo, random.NewSeeded(99))
			records := gen.Generate(e.Profile, 1500, "TST")
			lo, hi := finance.ScoreRange(e.Profile.RiskTier)

			for _, r := range records {
				assertRecordConstraints(t, e.Profile, geo, r, lo, hi)
			}
		})
	}
}

func assertRecordConstraints(t *testing.T, p model.PortfolioProfile, geo *catalog.GeographyCatalog, r model.LoanRecord, scoreLo, scoreHi int) {
	t.Helper()

	// Terms and dates
	assert.True(t, r.MaturityDate.Equal(r.OriginationDate.AddMonths(r.TenureMonths).Time), r.LoanID)
	assert.GreaterOrEqual(t, r.InterestRate, 8.5)
	assert.LessOrEqual(t, r.InterestRate, 24.0)
	assert.GreaterOrEqual(t, r.TenureMonths, 12)
	assert.LessOrEqual(t, r.TenureMonths, 84)
	assert.True(t, r.Installment.Equal(finance.Installment(r.Principal, r.InterestRate, r.TenureMonths)))
	assert.GreaterOrEqual(t, r.OriginationDate.Year(), 2020)
	assert.LessOrEqual(t, r.OriginationDate.Year(), 2024)

	// Status
	assert.Equal(t, finance.DelinquencyBucket(r.DaysPastDue), r.DelinquencyBucket)
	assert.Equal(t, finance.StatusFor(r.DaysPastDue), r.LoanStatus)
	assert.GreaterOrEqual(t, r.DaysPastDue, 0)
	assert.LessOrEqual(t, r.DaysPastDue, 120)

	// Classification
	assert.Equal(t, CategoryOf(r.ProductType), r.LoanCategory)
	assert.Contains(t, productNames(p), r.ProductType)

	// Principal range
	m := principalMultiples[r.ProductType]
	avg := p.AvgLoanSize.InexactFloat64()
	assert.GreaterOrEqual(t, r.Principal.InexactFloat64(), avg*m.lo-1)
	assert.LessOrEqual(t, r.Principal.InexactFloat64(), avg*m.hi)

	// Credit
	assert.GreaterOrEqual(t, r.CreditScoreAtOrigination, scoreLo)
	assert.LessOrEqual(t, r.CreditScoreAtOrigination, scoreHi)
	assert.LessOrEqual(t, r.CurrentCreditScore, r.CreditScoreAtOrigination)
	assert.GreaterOrEqual(t, r.CurrentCreditScore, finance.MinCreditScore)

	// Ratios and collateral
	assert.Equal(t, r.LTV > 0, r.CollateralValue != nil, r.LoanID)
	if ltv, ok := ltvRanges[r.ProductType]; ok {
		assert.GreaterOrEqual(t, r.LTV, ltv.lo)
		assert.LessOrEqual(t, r.LTV, ltv.hi)
	} else {
		assert.Zero(t, r.LTV)
	}
	if r.LoanCategory == model.LoanCategoryBusiness {
		require.NotNil(t, r.DSCR, r.LoanID)
		assert.GreaterOrEqual(t, *r.DSCR, 1.1)
		assert.LessOrEqual(t, *r.DSCR, 2.5)
	} else {
		assert.Nil(t, r.DSCR, r.LoanID)
	}
	if r.ProductType == model.ProductPersonal {
		assert.Equal(t, "None", r.CollateralType)
	} else {
		assert.Contains(t, collateralTypes, r.CollateralType)
	}

	// Demographics
	assert.Regexp(t, panPattern, r.PAN)
	assert.GreaterOrEqual(t, r.BorrowerAge, 21)
	assert.LessOrEqual(t, r.BorrowerAge, 65)
	assert.True(t, r.AnnualIncome.GreaterThanOrEqual(decimal.NewFromInt(300000)))
	assert.True(t, r.AnnualIncome.LessThanOrEqual(decimal.NewFromInt(2000000)))
	assert.Contains(t, employmentTypes, r.EmploymentType)
	assert.Contains(t, channels, r.OriginationChannel)
	assert.Contains(t, geo.CitiesFor(r.State), r.City)
	if p.IsNationwide() {
		assert.Contains(t, geo.Regions(), r.State)
	} else {
		assert.Contains(t, p.GeographicScope, r.State)
	}
	assert.Contains(t, []string{model.KYCComplete, model.KYCPending}, r.KYCStatus)

	// Monetary outcomes
	if r.DaysPastDue > 0 {
		assert.True(t, r.LatePaymentFee.GreaterThanOrEqual(decimal.NewFromInt(500)))
		assert.True(t, r.LatePaymentFee.LessThanOrEqual(decimal.NewFromInt(2000)))
	} else {
		assert.True(t, r.LatePaymentFee.IsZero())
	}
	assertFraction(t, r.ProcessingFee, r.Principal, 0.01, 0.03)

	if r.IsDefault() {
		assert.True(t, r.OutstandingPrincipal.IsZero())
		assertFraction(t, r.RecoveryAmount, r.Principal, 0.1, 0.6)
		assertFraction(t, r.WriteOffAmount, r.Principal, 0.4, 0.9)
	} else {
		assertFraction(t, r.OutstandingPrincipal, r.Principal, 0.3, 0.95)
		assert.True(t, r.RecoveryAmount.IsZero(), r.LoanID)
		assert.True(t, r.WriteOffAmount.IsZero(), r.LoanID)
	}
}

func assertFraction(t *testing.T, amount, principal decimal.Decimal, lo, hi float64) {
	t.Helper()
	p := principal.InexactFloat64()
	v := amount.InexactFloat64()
	assert.GreaterOrEqual(t, v, p*lo-1)
	assert.LessOrEqual(t, v, p*hi+1)
}

func productNames(p model.PortfolioProfile) []string {
	names := make([]string, 0, len(p.ProductMix))
	for _, pw := range p.ProductMix {
		names = append(names, pw.Product)
	}
	return names
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	profile := testProfile(t, "xlarge")
	a := NewLoanGenerator(nil, random.NewSeeded(2024)).Generate(profile, 300, "GRE")
	b := NewLoanGenerator(nil, random.NewSeeded(2024)).Generate(profile, 300, "GRE")
	c := NewLoanGenerator(nil, random.NewSeeded(2025)).Generate(profile, 300, "GRE")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_ProductMixConverges(t *testing.T) {
	t.Parallel()

	profile := testProfile(t, "medium")
	records := NewLoanGenerator(nil, random.NewSeeded(5)).Generate(profile, 20000, "LES")

	counts := make(map[string]int)
	for _, r := range records {
		counts[r.ProductType]++
	}
	for _, pw := range profile.ProductMix {
		got := float64(counts[pw.Product]) / float64(len(records))
		assert.InDelta(t, pw.Weight, got, 0.02, pw.Product)
	}
}

func TestPickProduct(t *testing.T) {
	t.Parallel()

	mix := []model.ProductWeight{
		{Product: "A", Weight: 0.4},
		{Product: "B", Weight: 0.35},
		{Product: "C", Weight: 0.25},
	}

	tests := []struct {
		name string
		u    float64
		want string
	}{
		{"zero", 0, "A"},
		{"exactly first boundary", 0.4, "A"},
		{"just past first boundary", 0.4000001, "B"},
		{"inside second", 0.6, "B"},
		{"last", 0.9999, "C"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := &stubSource{Rand: random.NewSeeded(1), floats: []float64{tt.u}}
			assert.Equal(t, tt.want, PickProduct(src, mix))
		})
	}

	t.Run("rounding slack resolves to last entry", func(t *testing.T) {
		t.Parallel()
		short := []model.ProductWeight{{Product: "X", Weight: 0.5}, {Product: "Y", Weight: 0.4999999}}
		src := &stubSource{Rand: random.NewSeeded(1), floats: []float64{0.99999999}}
		assert.Equal(t, "Y", PickProduct(src, short))
	})
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.LoanCategoryBusiness, CategoryOf(model.ProductBusiness))
	assert.Equal(t, model.LoanCategoryBusiness, CategoryOf(model.ProductCorporate))
	assert.Equal(t, model.LoanCategoryRetail, CategoryOf(model.ProductHome))
	assert.Equal(t, model.LoanCategoryRetail, CategoryOf(model.ProductPersonal))
}

func TestGenerate_UnknownProductUsesAverage(t *testing.T) {
	t.Parallel()

	p := testProfile(t, "small")
	p.ProductMix = []model.ProductWeight{{Product: "Microfinance Loan", Weight: 1}}
	p.GeographicScope = []string{"Goa"}

	records := NewLoanGenerator(nil, random.NewSeeded(3)).Generate(p, 50, "MIC")
	for _, r := range records {
		assert.True(t, r.Principal.Equal(p.AvgLoanSize))
		assert.Equal(t, model.LoanCategoryRetail, r.LoanCategory)
		assert.Equal(t, "Goa", r.State)
		assert.Equal(t, "Goa", r.City)
	}
}

func TestPAN(t *testing.T) {
	t.Parallel()

	src := random.NewSeeded(11)
	for i := 0; i < 200; i++ {
		assert.Regexp(t, panPattern, PAN(src))
	}
}
