package model

import (
	"github.com/shopspring/decimal"

	"github.com/wealthpath/loantape/pkg/datetime"
)

type LoanCategory string

const (
	LoanCategoryBusiness LoanCategory = "Business"
	LoanCategoryRetail   LoanCategory = "Retail"
)

type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "Active"
	LoanStatusDelinquent LoanStatus = "Delinquent"
	LoanStatusDefault    LoanStatus = "Default"
)

// Delinquency bucket labels, ordered from best to worst.
const (
	BucketCurrent = "Current"
	Bucket1To30   = "1-30 DPD"
	Bucket31To60  = "31-60 DPD"
	Bucket61To90  = "61-90 DPD"
	Bucket90Plus  = "90+ DPD"
)

// DelinquencyBuckets lists every bucket label in aging order.
var DelinquencyBuckets = []string{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, Bucket90Plus}

const (
	KYCComplete = "Complete"
	KYCPending  = "Pending"
)

// LoanRecord is one synthesized loan. Monetary amounts are whole rupees.
type LoanRecord struct {
	LoanID       string `json:"loanId"`
	BorrowerName string `json:"borrowerName"`
	PAN          string `json:"pan"`

	ProductType  string       `json:"productType"`
	LoanCategory LoanCategory `json:"loanCategory"`

	Principal       decimal.Decimal `json:"principal"`
	InterestRate    float64         `json:"interestRate"`
	TenureMonths    int             `json:"tenureMonths"`
	Installment     decimal.Decimal `json:"installment"`
	OriginationDate datetime.Date   `json:"originationDate"`
	MaturityDate    datetime.Date   `json:"maturityDate"`

	LoanStatus        LoanStatus `json:"loanStatus"`
	DelinquencyBucket string     `json:"delinquencyBucket"`
	DaysPastDue       int        `json:"daysPastDue"`

	CreditScoreAtOrigination int `json:"creditScoreAtOrigination"`
	CurrentCreditScore       int `json:"currentCreditScore"`

	LTV             float64          `json:"ltv"`
	DSCR            *float64         `json:"dscr,omitempty"`
	CollateralType  string           `json:"collateralType"`
	CollateralValue *decimal.Decimal `json:"collateralValue,omitempty"`

	BorrowerAge    int             `json:"borrowerAge"`
	AnnualIncome   decimal.Decimal `json:"annualIncome"`
	EmploymentType string          `json:"employmentType"`
	State          string          `json:"state"`
	City           string          `json:"city"`

	OriginationChannel  string `json:"originationChannel"`
	Prepayment          bool   `json:"prepayment"`
	Restructured        bool   `json:"restructured"`
	FirstPaymentDefault bool   `json:"firstPaymentDefault"`
	KYCStatus           string `json:"kycStatus"`
	ManualOverride      bool   `json:"manualOverride"`
	RiskRating          string `json:"riskRating"`

	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal"`
	TotalInterestPaid    decimal.Decimal `json:"totalInterestPaid"`
	ProcessingFee        decimal.Decimal `json:"processingFee"`
	LatePaymentFee       decimal.Decimal `json:"latePaymentFee"`
	RecoveryAmount       decimal.Decimal `json:"recoveryAmount"`
	WriteOffAmount       decimal.Decimal `json:"writeOffAmount"`
}

// IsDefault reports whether the loan is in default.
func (r LoanRecord) IsDefault() bool {
	return r.LoanStatus == LoanStatusDefault
}

// LoanTapeColumns is the fixed column order of the "Loan Tape" sheet and CSV export.
var LoanTapeColumns = []string{
	"Loan ID",
	"Borrower Name",
	"PAN",
	"Product Type",
	"Loan Type",
	"Loan Amount",
	"Interest Rate (%)",
	"Tenure (Months)",
	"EMI Amount",
	"Origination Date",
	"Maturity Date",
	"Loan Status",
	"Delinquency Status",
	"Days Past Due",
	"Credit Score at Origination",
	"Current Credit Score",
	"LTV (%)",
	"DSCR",
	"Borrower Age",
	"Annual Income",
	"Employment Type",
	"State",
	"City",
	"Origination Channel",
	"Collateral Type",
	"Collateral Value",
	"Outstanding Principal",
	"Total Interest Paid",
	"Processing Fee",
	"Late Payment Fee",
	"Prepayment",
	"Restructured",
	"First Payment Default",
	"KYC Status",
	"Manual Override",
	"Risk Rating",
	"Recovery Amount",
	"Write-off Amount",
}

// TapeRow returns the record's cells in LoanTapeColumns order. Amounts are int64,
// ratios float64, optional fields nil when absent and flags "Yes"/"No".
func (r LoanRecord) TapeRow() []any {
	var dscr, collateral any
	if r.DSCR != nil {
		dscr = *r.DSCR
	}
	if r.CollateralValue != nil {
		collateral = r.CollateralValue.IntPart()
	}

	return []any{
		r.LoanID,
		r.BorrowerName,
		r.PAN,
		r.ProductType,
		string(r.LoanCategory),
		r.Principal.IntPart(),
		r.InterestRate,
		r.TenureMonths,
		r.Installment.IntPart(),
		r.OriginationDate.String(),
		r.MaturityDate.String(),
		string(r.LoanStatus),
		r.DelinquencyBucket,
		r.DaysPastDue,
		r.CreditScoreAtOrigination,
		r.CurrentCreditScore,
		r.LTV,
		dscr,
		r.BorrowerAge,
		r.AnnualIncome.IntPart(),
		r.EmploymentType,
		r.State,
		r.City,
		r.OriginationChannel,
		r.CollateralType,
		collateral,
		r.OutstandingPrincipal.IntPart(),
		r.TotalInterestPaid.IntPart(),
		r.ProcessingFee.IntPart(),
		r.LatePaymentFee.IntPart(),
		yesNo(r.Prepayment),
		yesNo(r.Restructured),
		yesNo(r.FirstPaymentDefault),
		r.KYCStatus,
		yesNo(r.ManualOverride),
		r.RiskRating,
		r.RecoveryAmount.IntPart(),
		r.WriteOffAmount.IntPart(),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
