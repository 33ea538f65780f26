package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthpath/loantape/internal/catalog"
	"github.com/wealthpath/loantape/internal/finance"
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/datetime"
	"github.com/wealthpath/loantape/pkg/random"
)

// Draw probabilities and ranges of the synthesized portfolio.
const (
	probCurrent        = 0.85
	probPrepayment     = 0.15
	probRestructured   = 0.08
	probFirstPaymentDf = 0.03
	probManualOverride = 0.05
	probKYCComplete    = 0.98

	minInterestRate = 8.5
	maxInterestRate = 24.0
	minTenure       = 12
	maxTenure       = 84
	maxDaysPastDue  = 120
)

var (
	originationStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	originationEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	employmentTypes = []string{"Salaried", "Self-Employed", "Business Owner", "Professional", "Retired"}
	channels        = []string{"Digital", "Branch", "DSA", "Telecalling", "Co-lending", "Partner"}
	collateralTypes = []string{"Property", "Vehicle", "Gold", "FD", "Shares", "None"}

	panLetters = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	panDigits  = []rune("0123456789")
)

type multiple struct {
	lo, hi float64
}

// Principal ranges as multiples of the profile's average loan size.
var principalMultiples = map[string]multiple{
	model.ProductPersonal:  {0.3, 1.5},
	model.ProductBusiness:  {0.8, 3},
	model.ProductVehicle:   {0.5, 2},
	model.ProductHome:      {2, 8},
	model.ProductGold:      {0.1, 0.8},
	model.ProductCorporate: {5, 20},
}

// LTV ranges for collateral-backed products; other products carry LTV 0.
var ltvRanges = map[string]multiple{
	model.ProductHome:    {60, 90},
	model.ProductVehicle: {70, 95},
	model.ProductGold:    {60, 80},
}

// LoanGenerator synthesizes loan records for a portfolio profile.
// A generator owns its random source and is not safe for concurrent use.
type LoanGenerator struct {
	geo *catalog.GeographyCatalog
	src random.Source
}

// NewLoanGenerator creates a LoanGenerator. A nil source is replaced by a time-seeded one.
func NewLoanGenerator(geo *catalog.GeographyCatalog, src random.Source) *LoanGenerator {
	if geo == nil {
		geo = catalog.NewGeographyCatalog()
	}
	if src == nil {
		src = random.New()
	}
	return &LoanGenerator{geo: geo, src: src}
}

// Generate returns exactly count records for the profile, with loan IDs
// institutionCode + 000001.. in order. A non-positive count yields an empty slice.
func (g *LoanGenerator) Generate(profile model.PortfolioProfile, count int, institutionCode string) []model.LoanRecord {
	if count <= 0 {
		return []model.LoanRecord{}
	}

	records := make([]model.LoanRecord, 0, count)
	for i := 1; i <= count; i++ {
		records = append(records, g.record(profile, i, institutionCode))
	}
	return records
}

func (g *LoanGenerator) record(profile model.PortfolioProfile, index int, code string) model.LoanRecord {
	src := g.src

	product := PickProduct(src, profile.ProductMix)
	category := CategoryOf(product)
	principal := g.principal(product, profile.AvgLoanSize)

	rate := src.Float(minInterestRate, maxInterestRate, 2)
	tenure := src.Int(minTenure, maxTenure)
	emi := finance.Installment(principal, rate, tenure)

	origination := datetime.DateOf(src.Date(originationStart, originationEnd))
	maturity := origination.AddMonths(tenure)

	state := g.region(profile)
	city := random.Pick(src, g.geo.CitiesFor(state))

	score := finance.CreditScore(src, profile.RiskTier)
	dpd := 0
	if !random.Chance(src, probCurrent) {
		dpd = src.Int(1, maxDaysPastDue)
	}
	status := finance.StatusFor(dpd)

	var ltv float64
	if r, ok := ltvRanges[product]; ok {
		ltv = src.Float(r.lo, r.hi, 2)
	}

	rec := model.LoanRecord{
		LoanID:       fmt.Sprintf("%s%06d", code, index),
		BorrowerName: fmt.Sprintf("Borrower %d", index),
		PAN:          PAN(src),

		ProductType:  product,
		LoanCategory: category,

		Principal:       principal,
		InterestRate:    rate,
		TenureMonths:    tenure,
		Installment:     emi,
		OriginationDate: origination,
		MaturityDate:    maturity,

		LoanStatus:        status,
		DelinquencyBucket: finance.DelinquencyBucket(dpd),
		DaysPastDue:       dpd,

		CreditScoreAtOrigination: score,
		CurrentCreditScore:       finance.CurrentScore(src, score),

		LTV: ltv,
	}

	if category == model.LoanCategoryBusiness {
		dscr := src.Float(1.1, 2.5, 2)
		rec.DSCR = &dscr
	}

	rec.BorrowerAge = src.Int(21, 65)
	rec.AnnualIncome = decimal.NewFromInt(int64(src.Int(300000, 2000000)))
	rec.EmploymentType = random.Pick(src, employmentTypes)
	rec.State = state
	rec.City = city
	rec.OriginationChannel = random.Pick(src, channels)

	if product == model.ProductPersonal {
		rec.CollateralType = "None"
	} else {
		rec.CollateralType = random.Pick(src, collateralTypes)
	}
	if ltv > 0 {
		cv := principal.Div(decimal.NewFromFloat(ltv / 100)).Round(0)
		rec.CollateralValue = &cv
	}

	if status == model.LoanStatusDefault {
		rec.OutstandingPrincipal = decimal.Zero
	} else {
		rec.OutstandingPrincipal = fractionOf(principal, src.Float(0.3, 0.95, 2))
	}
	rec.TotalInterestPaid = decimal.NewFromFloat(math.Round(emi.InexactFloat64() * float64(src.Int(1, tenure)) * 0.4))
	rec.ProcessingFee = fractionOf(principal, src.Float(0.01, 0.03, 2))
	rec.LatePaymentFee = decimal.Zero
	if dpd > 0 {
		rec.LatePaymentFee = decimal.NewFromInt(int64(src.Int(500, 2000)))
	}

	rec.Prepayment = random.Chance(src, probPrepayment)
	rec.Restructured = random.Chance(src, probRestructured)
	rec.FirstPaymentDefault = random.Chance(src, probFirstPaymentDf)
	rec.KYCStatus = model.KYCPending
	if random.Chance(src, probKYCComplete) {
		rec.KYCStatus = model.KYCComplete
	}
	rec.ManualOverride = random.Chance(src, probManualOverride)
	rec.RiskRating = finance.RiskRating(src, profile.RiskTier)

	rec.RecoveryAmount = decimal.Zero
	rec.WriteOffAmount = decimal.Zero
	if status == model.LoanStatusDefault {
		rec.RecoveryAmount = fractionOf(principal, src.Float(0.1, 0.6, 2))
		rec.WriteOffAmount = fractionOf(principal, src.Float(0.4, 0.9, 2))
	}

	return rec
}

func (g *LoanGenerator) principal(product string, avg decimal.Decimal) decimal.Decimal {
	m, ok := principalMultiples[product]
	if !ok {
		return avg.Round(0)
	}
	lo := avg.Mul(decimal.NewFromFloat(m.lo)).IntPart()
	hi := avg.Mul(decimal.NewFromFloat(m.hi)).IntPart()
	return decimal.NewFromInt(int64(g.src.Int(int(lo), int(hi))))
}

func (g *LoanGenerator) region(profile model.PortfolioProfile) string {
	if profile.IsNationwide() {
		return random.Pick(g.src, g.geo.Regions())
	}
	return random.Pick(g.src, profile.GeographicScope)
}

// PickProduct performs weighted categorical sampling over the mix in its defined
// order: it draws u in [0, 1) and returns the first product whose cumulative weight
// is >= u. Rounding slack past the final cumulative sum resolves to the last entry.
func PickProduct(src random.Source, mix []model.ProductWeight) string {
	u := src.Float64()
	var cumulative float64
	for _, pw := range mix {
		cumulative += pw.Weight
		if u <= cumulative {
			return pw.Product
		}
	}
	return mix[len(mix)-1].Product
}

// CategoryOf classifies a product as Business when its name mentions Business or
// Corporate, and Retail otherwise.
func CategoryOf(product string) model.LoanCategory {
	if strings.Contains(product, "Business") || strings.Contains(product, "Corporate") {
		return model.LoanCategoryBusiness
	}
	return model.LoanCategoryRetail
}

// PAN returns a synthetic permanent account number: five letters, four digits, one letter.
func PAN(src random.Source) string {
	var b strings.Builder
	b.Grow(10)
	for i := 0; i < 5; i++ {
		b.WriteRune(random.Pick(src, panLetters))
	}
	for i := 0; i < 4; i++ {
		b.WriteRune(random.Pick(src, panDigits))
	}
	b.WriteRune(random.Pick(src, panLetters))
	return b.String()
}

func fractionOf(amount decimal.Decimal, fraction float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(fraction)).Round(0)
}
