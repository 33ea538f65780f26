package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthpath/loantape/pkg/datetime"
)

// AnalysisResult is the portfolio analysis consumed by the report renderer.
// Percentages are expressed on a 0-100 scale.
type AnalysisResult struct {
	ID          uuid.UUID         `json:"id"`
	FileName    string            `json:"fileName"`
	FileType    string            `json:"fileType"`
	GeneratedAt datetime.DateTime `json:"generatedAt"`
	TotalLoans  int               `json:"totalLoans"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	AvgLoanSize decimal.Decimal   `json:"avgLoanSize"`

	PortfolioMetrics   PortfolioMetrics   `json:"portfolioMetrics"`
	CreditQuality      CreditQuality      `json:"creditQuality"`
	PerformanceMetrics PerformanceMetrics `json:"performanceMetrics"`
	YieldMetrics       YieldMetrics       `json:"yieldMetrics"`
	ComplianceMetrics  ComplianceMetrics  `json:"complianceMetrics"`
	MacroMetrics       MacroMetrics       `json:"macroMetrics"`
	ConcentrationRisk  ConcentrationRisk  `json:"concentrationRisk"`
	ForensicFlags      []ForensicFlag     `json:"forensicFlags"`
}

type PortfolioMetrics struct {
	TotalLoans            int                `json:"totalLoans"`
	TotalAmount           decimal.Decimal    `json:"totalAmount"`
	AvgLoanSize           decimal.Decimal    `json:"avgLoanSize"`
	MedianLoanSize        decimal.Decimal    `json:"medianLoanSize"`
	AvgTenure             float64            `json:"avgTenure"`
	LoanTypeDistribution  map[string]float64 `json:"loanTypeDistribution"`
	ChannelDistribution   map[string]float64 `json:"channelDistribution"`
	GeographyDistribution map[string]float64 `json:"geographyDistribution"`
}

type CreditQuality struct {
	AvgCreditScore          float64            `json:"avgCreditScore"`
	CreditScoreDistribution map[string]float64 `json:"creditScoreDistribution"`
	AvgDSCR                 float64            `json:"avgDscr"`
	AvgLTV                  float64            `json:"avgLtv"`
	RiskRatingDistribution  map[string]float64 `json:"riskRatingDistribution"`
	UnderwritingQuality     string             `json:"underwritingQuality"`
}

type PerformanceMetrics struct {
	CurrentDelinquencyRate float64            `json:"currentDelinquencyRate"`
	DPDDistribution        map[string]float64 `json:"dpdDistribution"`
	RollRates              map[string]float64 `json:"rollRates"`
	CumulativeDefaultRate  float64            `json:"cumulativeDefaultRate"`
	NetLossRate            float64            `json:"netLossRate"`
	PrepaymentRate         float64            `json:"prepaymentRate"`
	RecoveryRate           float64            `json:"recoveryRate"`
	VintageAnalysis        map[string]float64 `json:"vintageAnalysis"`
}

type YieldMetrics struct {
	AvgContractualYield float64 `json:"avgContractualYield"`
	EffectiveYield      float64 `json:"effectiveYield"`
	NetInterestMargin   float64 `json:"netInterestMargin"`
	FeeIncome           float64 `json:"feeIncome"`
	CostToIncomeRatio   float64 `json:"costToIncomeRatio"`
}

type ComplianceMetrics struct {
	KYCCompletionRate  float64 `json:"kycCompletionRate"`
	AvgUnderwritingTAT float64 `json:"avgUnderwritingTat"`
	ManualOverrideRate float64 `json:"manualOverrideRate"`
	RestructuringRate  float64 `json:"restructuringRate"`
	FPD                float64 `json:"fpd"`
}

type MacroMetrics struct {
	AvgPD                   float64            `json:"avgPd"`
	AvgLGD                  float64            `json:"avgLgd"`
	ExpectedCreditLoss      float64            `json:"expectedCreditLoss"`
	StressTestResults       map[string]float64 `json:"stressTestResults"`
	InterestRateSensitivity float64            `json:"interestRateSensitivity"`
}

type ConcentrationRisk struct {
	Top10BorrowersShare    float64            `json:"top10BorrowersShare"`
	IndustryConcentration  map[string]float64 `json:"industryConcentration"`
	GeographyConcentration map[string]float64 `json:"geographyConcentration"`
	ChannelConcentration   map[string]float64 `json:"channelConcentration"`
	VintageConcentration   map[string]float64 `json:"vintageConcentration"`
}

type FlagType string

const (
	FlagZeroEMI            FlagType = "zero_emi"
	FlagBackdatedDisbursal FlagType = "backdated_disbursal"
	FlagEvergreening       FlagType = "evergreening"
	FlagRoundTripping      FlagType = "round_tripping"
	FlagHighFPD            FlagType = "high_fpd"
	FlagManualOverride     FlagType = "manual_override"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ForensicFlag is a heuristic anomaly raised against a loan tape.
type ForensicFlag struct {
	ID             uuid.UUID       `json:"id"`
	Type           FlagType        `json:"type"`
	Severity       Severity        `json:"severity"`
	Description    string          `json:"description"`
	AffectedLoans  int             `json:"affectedLoans"`
	RiskAmount     decimal.Decimal `json:"riskAmount"`
	Recommendation string          `json:"recommendation"`
}

// HasSeverity reports whether any flag carries the given severity.
func (a *AnalysisResult) HasSeverity(s Severity) bool {
	for _, f := range a.ForensicFlags {
		if f.Severity == s {
			return true
		}
	}
	return false
}
