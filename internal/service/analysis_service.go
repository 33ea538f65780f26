package service

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/datetime"
	"github.com/wealthpath/loantape/pkg/random"
)

// Forensic thresholds, in percent of loans.
const (
	thresholdFPD            = 2.0
	thresholdManualOverride = 4.0
	thresholdEvergreening   = 5.0
)

// Portfolio assumptions used where a tape carries no data of its own.
const (
	costOfFundsPercent   = 9.0
	operatingCostPercent = 2.0
	topBorrowerCount     = 10
)

var stressMultipliers = []struct {
	scenario   string
	multiplier float64
}{
	{"Base Case", 1.0},
	{"Adverse", 1.5},
	{"Severely Adverse", 2.5},
}

// Underwriting turnaround in days by origination channel.
var channelTurnaround = map[string]float64{
	"Digital":     1,
	"Co-lending":  2,
	"Partner":     2,
	"Telecalling": 3,
	"DSA":         4,
	"Branch":      5,
}

// AnalysisService derives portfolio analytics and forensic flags from loan records.
type AnalysisService struct {
	now func() time.Time
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{now: time.Now}
}

// Analyze computes the analysis of a generated tape.
func (s *AnalysisService) Analyze(tape model.GeneratedTape) model.AnalysisResult {
	return s.AnalyzeRecords(tape.File.Filename, tape.Records)
}

// AnalyzeRecords computes the analysis of records labelled with fileName.
// Every rate is on a 0-100 scale; an empty record set yields zero metrics.
func (s *AnalysisService) AnalyzeRecords(fileName string, records []model.LoanRecord) model.AnalysisResult {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Principal)
	}
	avg := decimal.Zero
	if len(records) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(records)))).Round(0)
	}

	result := model.AnalysisResult{
		ID:          uuid.New(),
		FileName:    fileName,
		FileType:    strings.TrimPrefix(filepath.Ext(fileName), "."),
		GeneratedAt: datetime.Now(),
		TotalLoans:  len(records),
		TotalAmount: total,
		AvgLoanSize: avg,
	}

	result.PortfolioMetrics = portfolioMetrics(records, total, avg)
	result.CreditQuality = creditQuality(records)
	result.PerformanceMetrics = performanceMetrics(records, total)
	result.YieldMetrics = yieldMetrics(records, total, result.PerformanceMetrics)
	result.ComplianceMetrics = complianceMetrics(records)
	result.MacroMetrics = macroMetrics(records, result.PortfolioMetrics.AvgTenure)
	result.ConcentrationRisk = concentrationRisk(records, total)
	result.ForensicFlags = s.forensicFlags(records, result.ComplianceMetrics)

	return result
}

func portfolioMetrics(records []model.LoanRecord, total, avg decimal.Decimal) model.PortfolioMetrics {
	m := model.PortfolioMetrics{
		TotalLoans:            len(records),
		TotalAmount:           total,
		AvgLoanSize:           avg,
		MedianLoanSize:        decimal.Zero,
		LoanTypeDistribution:  countShare(records, func(r model.LoanRecord) string { return r.ProductType }),
		ChannelDistribution:   countShare(records, func(r model.LoanRecord) string { return r.OriginationChannel }),
		GeographyDistribution: countShare(records, func(r model.LoanRecord) string { return r.State }),
	}
	if len(records) == 0 {
		return m
	}

	amounts := make([]decimal.Decimal, len(records))
	tenure := 0
	for i, r := range records {
		amounts[i] = r.Principal
		tenure += r.TenureMonths
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })

	mid := len(amounts) / 2
	if len(amounts)%2 == 0 {
		m.MedianLoanSize = amounts[mid-1].Add(amounts[mid]).Div(decimal.NewFromInt(2)).Round(0)
	} else {
		m.MedianLoanSize = amounts[mid]
	}
	m.AvgTenure = random.Round(float64(tenure)/float64(len(records)), 2)

	return m
}

// ScoreBand labels a credit score for distribution reporting.
func ScoreBand(score int) string {
	switch {
	case score >= 750:
		return "750+"
	case score >= 700:
		return "700-749"
	case score >= 650:
		return "650-699"
	default:
		return "<650"
	}
}

func creditQuality(records []model.LoanRecord) model.CreditQuality {
	q := model.CreditQuality{
		CreditScoreDistribution: countShare(records, func(r model.LoanRecord) string { return ScoreBand(r.CreditScoreAtOrigination) }),
		RiskRatingDistribution:  countShare(records, func(r model.LoanRecord) string { return r.RiskRating }),
	}

	var scoreSum, dscrSum, ltvSum float64
	var dscrN, ltvN int
	for _, r := range records {
		scoreSum += float64(r.CreditScoreAtOrigination)
		if r.DSCR != nil {
			dscrSum += *r.DSCR
			dscrN++
		}
		if r.LTV > 0 {
			ltvSum += r.LTV
			ltvN++
		}
	}

	q.AvgCreditScore = mean(scoreSum, len(records))
	q.AvgDSCR = mean(dscrSum, dscrN)
	q.AvgLTV = mean(ltvSum, ltvN)
	q.UnderwritingQuality = underwritingQuality(q.AvgCreditScore)

	return q
}

func underwritingQuality(avgScore float64) string {
	switch {
	case avgScore >= 750:
		return "Excellent"
	case avgScore >= 700:
		return "Good"
	case avgScore >= 650:
		return "Fair"
	default:
		return "Weak"
	}
}

func performanceMetrics(records []model.LoanRecord, total decimal.Decimal) model.PerformanceMetrics {
	p := model.PerformanceMetrics{
		DPDDistribution: make(map[string]float64, len(model.DelinquencyBuckets)),
		RollRates:       make(map[string]float64, 3),
		VintageAnalysis: make(map[string]float64),
	}
	for _, b := range model.DelinquencyBuckets {
		p.DPDDistribution[b] = 0
	}

	var past0, past30, past60, past90, prepaid int
	defaulted, recovered, writtenOff := decimal.Zero, decimal.Zero, decimal.Zero
	buckets := make(map[string]int, len(model.DelinquencyBuckets))
	vintageLoans := make(map[string]int)
	vintageDefaults := make(map[string]int)

	for _, r := range records {
		buckets[r.DelinquencyBucket]++
		if r.DaysPastDue > 0 {
			past0++
		}
		if r.DaysPastDue > 30 {
			past30++
		}
		if r.DaysPastDue > 60 {
			past60++
		}
		if r.DaysPastDue > 90 {
			past90++
		}
		if r.Prepayment {
			prepaid++
		}

		vintage := strconv.Itoa(r.OriginationDate.Year())
		vintageLoans[vintage]++
		if r.IsDefault() {
			vintageDefaults[vintage]++
			defaulted = defaulted.Add(r.Principal)
			recovered = recovered.Add(r.RecoveryAmount)
			writtenOff = writtenOff.Add(r.WriteOffAmount)
		}
	}

	for b, n := range buckets {
		p.DPDDistribution[b] = percent(n, len(records))
	}
	p.RollRates["30to60"] = percent(past30, past0)
	p.RollRates["60to90"] = percent(past60, past30)
	p.RollRates["90toLoss"] = percent(past90, past60)

	p.CurrentDelinquencyRate = percent(past0, len(records))
	p.CumulativeDefaultRate = decimalPercent(defaulted, total)
	p.NetLossRate = decimalPercent(writtenOff, total)
	p.RecoveryRate = decimalPercent(recovered, defaulted)
	p.PrepaymentRate = percent(prepaid, len(records))

	for vintage, n := range vintageLoans {
		p.VintageAnalysis[vintage] = percent(vintageDefaults[vintage], n)
	}

	return p
}

func yieldMetrics(records []model.LoanRecord, total decimal.Decimal, perf model.PerformanceMetrics) model.YieldMetrics {
	var y model.YieldMetrics
	if !total.IsPositive() {
		return y
	}

	weighted := decimal.Zero
	fees := decimal.Zero
	for _, r := range records {
		weighted = weighted.Add(r.Principal.Mul(decimal.NewFromFloat(r.InterestRate)))
		fees = fees.Add(r.ProcessingFee).Add(r.LatePaymentFee)
	}

	y.AvgContractualYield = random.Round(weighted.Div(total).InexactFloat64(), 2)
	y.EffectiveYield = random.Round(y.AvgContractualYield*(1-perf.CumulativeDefaultRate/100), 2)
	y.NetInterestMargin = random.Round(y.EffectiveYield-costOfFundsPercent, 2)
	y.FeeIncome = decimalPercent(fees, total)

	if income := y.NetInterestMargin + y.FeeIncome; income > 0 {
		y.CostToIncomeRatio = random.Round(operatingCostPercent/income*100, 2)
	}

	return y
}

func complianceMetrics(records []model.LoanRecord) model.ComplianceMetrics {
	var kyc, overrides, restructured, fpd int
	var tat float64
	for _, r := range records {
		if r.KYCStatus == model.KYCComplete {
			kyc++
		}
		if r.ManualOverride {
			overrides++
		}
		if r.Restructured {
			restructured++
		}
		if r.FirstPaymentDefault {
			fpd++
		}
		tat += channelTurnaround[r.OriginationChannel]
	}

	return model.ComplianceMetrics{
		KYCCompletionRate:  percent(kyc, len(records)),
		AvgUnderwritingTAT: mean(tat, len(records)),
		ManualOverrideRate: percent(overrides, len(records)),
		RestructuringRate:  percent(restructured, len(records)),
		FPD:                percent(fpd, len(records)),
	}
}

func macroMetrics(records []model.LoanRecord, avgTenureMonths float64) model.MacroMetrics {
	m := model.MacroMetrics{StressTestResults: make(map[string]float64, len(stressMultipliers))}

	defaults := 0
	exposure, writtenOff := decimal.Zero, decimal.Zero
	for _, r := range records {
		if r.IsDefault() {
			defaults++
			exposure = exposure.Add(r.Principal)
			writtenOff = writtenOff.Add(r.WriteOffAmount)
		}
	}

	m.AvgPD = percent(defaults, len(records))
	m.AvgLGD = decimalPercent(writtenOff, exposure)
	m.ExpectedCreditLoss = random.Round(m.AvgPD*m.AvgLGD/100, 2)
	for _, s := range stressMultipliers {
		m.StressTestResults[s.scenario] = random.Round(m.ExpectedCreditLoss*s.multiplier, 2)
	}
	// Amortizing loans have a duration of roughly half their term.
	m.InterestRateSensitivity = random.Round(avgTenureMonths/12/2, 2)

	return m
}

func concentrationRisk(records []model.LoanRecord, total decimal.Decimal) model.ConcentrationRisk {
	c := model.ConcentrationRisk{
		IndustryConcentration:  amountShare(records, total, func(r model.LoanRecord) string { return r.EmploymentType }),
		GeographyConcentration: amountShare(records, total, func(r model.LoanRecord) string { return r.State }),
		ChannelConcentration:   amountShare(records, total, func(r model.LoanRecord) string { return r.OriginationChannel }),
		VintageConcentration: amountShare(records, total, func(r model.LoanRecord) string {
			return strconv.Itoa(r.OriginationDate.Year())
		}),
	}

	amounts := make([]decimal.Decimal, len(records))
	for i, r := range records {
		amounts[i] = r.Principal
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].GreaterThan(amounts[j]) })

	top := decimal.Zero
	for i := 0; i < len(amounts) && i < topBorrowerCount; i++ {
		top = top.Add(amounts[i])
	}
	c.Top10BorrowersShare = decimalPercent(top, total)

	return c
}

func (s *AnalysisService) forensicFlags(records []model.LoanRecord, compliance model.ComplianceMetrics) []model.ForensicFlag {
	flags := []model.ForensicFlag{}
	today := datetime.DateOf(s.now())

	var fpd, overrides, zeroEMI, evergreen, backdated, sharedPAN loanSet
	byPAN := make(map[string][]int, len(records))

	for i, r := range records {
		if r.FirstPaymentDefault {
			fpd.add(r)
		}
		if r.ManualOverride {
			overrides.add(r)
		}
		if !r.Installment.IsPositive() {
			zeroEMI.add(r)
		}
		if r.Restructured && r.DaysPastDue == 0 {
			evergreen.add(r)
		}
		if r.OriginationDate.After(r.MaturityDate.Time) || r.OriginationDate.After(today.Time) {
			backdated.add(r)
		}
		byPAN[r.PAN] = append(byPAN[r.PAN], i)
	}
	for _, idx := range byPAN {
		if len(idx) > 1 {
			for _, i := range idx {
				sharedPAN.add(records[i])
			}
		}
	}

	if compliance.FPD > thresholdFPD {
		flags = append(flags, newFlag(model.FlagHighFPD, model.SeverityHigh, fpd,
			fmt.Sprintf("First payment default rate of %.2f%% exceeds the %.1f%% benchmark", compliance.FPD, thresholdFPD),
			"Review underwriting criteria and borrower verification processes"))
	}
	if compliance.ManualOverrideRate > thresholdManualOverride {
		flags = append(flags, newFlag(model.FlagManualOverride, model.SeverityMedium, overrides,
			fmt.Sprintf("Manual underwriting overrides on %.2f%% of loans", compliance.ManualOverrideRate),
			"Implement stricter approval workflows and documentation requirements"))
	}
	if zeroEMI.count > 0 {
		flags = append(flags, newFlag(model.FlagZeroEMI, model.SeverityCritical, zeroEMI,
			"Loans carry a zero installment amount",
			"Verify repayment schedules against the loan management system"))
	}
	if rate := percent(evergreen.count, len(records)); rate > thresholdEvergreening {
		flags = append(flags, newFlag(model.FlagEvergreening, model.SeverityHigh, evergreen,
			fmt.Sprintf("%.2f%% of loans are restructured yet reported current", rate),
			"Trace restructured accounts for fresh disbursals used to settle overdue dues"))
	}
	if backdated.count > 0 {
		flags = append(flags, newFlag(model.FlagBackdatedDisbursal, model.SeverityCritical, backdated,
			"Origination dates fall after maturity or in the future",
			"Reconcile disbursal dates with bank statements"))
	}
	if sharedPAN.count > 0 {
		flags = append(flags, newFlag(model.FlagRoundTripping, model.SeverityMedium, sharedPAN,
			"Multiple loans share a borrower PAN",
			"Confirm related-party exposure and end use of funds"))
	}

	return flags
}

type loanSet struct {
	count  int
	amount decimal.Decimal
}

func (s *loanSet) add(r model.LoanRecord) {
	s.count++
	s.amount = s.amount.Add(r.Principal)
}

func newFlag(t model.FlagType, sev model.Severity, set loanSet, description, recommendation string) model.ForensicFlag {
	return model.ForensicFlag{
		ID:             uuid.New(),
		Type:           t,
		Severity:       sev,
		Description:    description,
		AffectedLoans:  set.count,
		RiskAmount:     set.amount,
		Recommendation: recommendation,
	}
}

func countShare(records []model.LoanRecord, key func(model.LoanRecord) string) map[string]float64 {
	counts := make(map[string]int)
	for _, r := range records {
		counts[key(r)]++
	}
	out := make(map[string]float64, len(counts))
	for k, n := range counts {
		out[k] = percent(n, len(records))
	}
	return out
}

func amountShare(records []model.LoanRecord, total decimal.Decimal, key func(model.LoanRecord) string) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for _, r := range records {
		k := key(r)
		sums[k] = sums[k].Add(r.Principal)
	}
	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = decimalPercent(v, total)
	}
	return out
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return random.Round(float64(part)/float64(whole)*100, 2)
}

func decimalPercent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return random.Round(part.Div(whole).InexactFloat64()*100, 2)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return random.Round(sum/float64(n), 2)
}
