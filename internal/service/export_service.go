package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/currency"
	"github.com/wealthpath/loantape/pkg/datetime"
)

// ReportTitle heads every analysis report.
const ReportTitle = "LOAN TAPE ANALYTICS REPORT"

// ExportService handles CSV export of loan tapes and PDF rendering of analyses.
type ExportService struct {
	now func() time.Time
}

// NewExportService creates a new ExportService.
func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// ExportLoanTapeCSV exports a tape's records with the same columns as its Loan Tape sheet.
func (s *ExportService) ExportLoanTapeCSV(tape model.GeneratedTape) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(model.LoanTapeColumns); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	row := make([]string, len(model.LoanTapeColumns))
	for _, r := range tape.Records {
		for i, v := range r.TapeRow() {
			row[i] = csvCell(v)
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row %s: %w", r.LoanID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

func csvCell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// CSVFilename returns the CSV download name for a tape.
func CSVFilename(tape model.GeneratedTape) string {
	return strings.TrimSuffix(tape.File.Filename, filepath.Ext(tape.File.Filename)) + ".csv"
}

// ReportOptions customizes the rendered report.
type ReportOptions struct {
	CompanyName string
	ReportDate  time.Time
}

// ReportFilename returns the PDF download name for an analysis.
func ReportFilename(analysis model.AnalysisResult, date time.Time) string {
	base := strings.TrimSuffix(analysis.FileName, filepath.Ext(analysis.FileName))
	return fmt.Sprintf("Loan_Tape_Analysis_%s_%s.pdf", base, date.Format(datetime.DateFormat))
}

// Recommendations derives the action items listed at the end of a report.
func Recommendations(a model.AnalysisResult) []string {
	var recs []string

	if a.CreditQuality.AvgCreditScore < 650 {
		recs = append(recs, "Consider tightening credit score requirements to improve portfolio quality")
	}
	if a.PerformanceMetrics.CurrentDelinquencyRate > 5 {
		recs = append(recs, "Implement enhanced collection strategies to reduce delinquency rates")
	}
	if a.ConcentrationRisk.Top10BorrowersShare > 20 {
		recs = append(recs, "Diversify borrower base to reduce concentration risk")
	}
	if a.HasSeverity(model.SeverityCritical) {
		recs = append(recs, "Immediately investigate critical forensic flags and implement corrective measures")
	}
	if a.YieldMetrics.NetInterestMargin < 3 {
		recs = append(recs, "Review pricing strategy to improve net interest margins")
	}
	if a.ComplianceMetrics.KYCCompletionRate < 95 {
		recs = append(recs, "Strengthen KYC processes to ensure regulatory compliance")
	}

	if len(recs) == 0 {
		recs = []string{
			"Continue monitoring portfolio performance and maintain current risk management practices",
			"Consider implementing stress testing scenarios for better risk assessment",
			"Regular review of underwriting criteria based on portfolio performance",
		}
	}

	return recs
}

// rupees renders an amount for the PDF core fonts, which cannot draw the rupee sign.
func rupees(amount decimal.Decimal) string {
	return "Rs. " + currency.FormatGrouped(amount, currency.INR)
}

// ExportAnalysisPDF renders an analysis into a PDF report.
func (s *ExportService) ExportAnalysisPDF(a model.AnalysisResult, opts ReportOptions) ([]byte, error) {
	if opts.CompanyName == "" {
		opts.CompanyName = "Financial Institution"
	}
	if opts.ReportDate.IsZero() {
		opts.ReportDate = s.now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 12, ReportTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 7, "Analysis of "+a.FileName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, opts.CompanyName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Report Date: "+opts.ReportDate.Format(datetime.DisplayDateFormat), "", 1, "C", false, 0, "")

	pdf.Ln(8)

	// Executive summary
	sectionHeading(pdf, "EXECUTIVE SUMMARY")
	paragraph(pdf, fmt.Sprintf(
		"This report presents an analysis of the loan tape %q containing %d loans with a total portfolio value of %s. "+
			"The analysis covers credit quality, performance metrics, yield analysis, compliance review and forensic red flag detection.",
		a.FileName, a.TotalLoans, currency.FormatCrore(a.TotalAmount)))

	colWidth := float64(85)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(248, 249, 250)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(colWidth, 8, "Metric", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colWidth, 8, "Value", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range [][2]string{
		{"Total Loans", fmt.Sprintf("%d", a.TotalLoans)},
		{"Portfolio Value", rupees(a.TotalAmount)},
		{"Average Loan Size", rupees(a.AvgLoanSize)},
		{"Current Delinquency Rate", fmt.Sprintf("%.2f%%", a.PerformanceMetrics.CurrentDelinquencyRate)},
		{"Average Credit Score", fmt.Sprintf("%.0f", a.CreditQuality.AvgCreditScore)},
	} {
		pdf.CellFormat(colWidth, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, 7, row[1], "1", 1, "R", false, 0, "")
	}

	pdf.Ln(8)

	// Detailed analysis
	sectionHeading(pdf, "DETAILED ANALYSIS")

	subHeading(pdf, "Credit Quality Assessment")
	paragraph(pdf, fmt.Sprintf(
		"The portfolio demonstrates %s underwriting quality with an average credit score of %.0f. "+
			"The average Debt Service Coverage Ratio (DSCR) stands at %.2f, indicating %s borrower capacity to service debt obligations.",
		a.CreditQuality.UnderwritingQuality, a.CreditQuality.AvgCreditScore, a.CreditQuality.AvgDSCR,
		dscrStrength(a.CreditQuality.AvgDSCR)))

	perf := a.PerformanceMetrics
	prepayNote := "is within acceptable ranges"
	if perf.PrepaymentRate > 15 {
		prepayNote = "may impact yield projections"
	}
	subHeading(pdf, "Performance Metrics")
	paragraph(pdf, fmt.Sprintf(
		"Current portfolio delinquency rate is %.2f%%, with a cumulative default rate of %.2f%%. "+
			"The net loss rate stands at %.2f%%, while the recovery rate is %.2f%%. Prepayment rate is %.2f%%, which %s.",
		perf.CurrentDelinquencyRate, perf.CumulativeDefaultRate, perf.NetLossRate, perf.RecoveryRate,
		perf.PrepaymentRate, prepayNote))

	y := a.YieldMetrics
	subHeading(pdf, "Yield and Profitability Analysis")
	paragraph(pdf, fmt.Sprintf(
		"The portfolio exhibits an average contractual yield of %.2f%% with an effective yield of %.2f%%. "+
			"Net Interest Margin (NIM) is %.2f%% and the cost-to-income ratio is %.2f%%. Fee income contributes %.2f%% of principal.",
		y.AvgContractualYield, y.EffectiveYield, y.NetInterestMargin, y.CostToIncomeRatio, y.FeeIncome))

	conc := a.ConcentrationRisk
	diversification := "limited"
	if len(conc.GeographyConcentration) > 5 {
		diversification = "adequate"
	}
	subHeading(pdf, "Concentration Risk Analysis")
	paragraph(pdf, fmt.Sprintf(
		"The top 10 borrowers represent %.2f%% of the total portfolio, indicating %s. "+
			"Geographic spread across %d states suggests %s diversification across regions.",
		conc.Top10BorrowersShare, concentrationLevel(conc.Top10BorrowersShare),
		len(conc.GeographyConcentration), diversification))

	pdf.Ln(4)

	// Forensic findings
	sectionHeading(pdf, "FORENSIC FINDINGS & RED FLAGS")
	paragraph(pdf, fmt.Sprintf(
		"The forensic analysis has identified %d red flags requiring attention. "+
			"These findings are categorized by severity and potential impact on portfolio quality.",
		len(a.ForensicFlags)))

	if len(a.ForensicFlags) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(248, 249, 250)
		pdf.CellFormat(55, 8, "Flag Type", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 8, "Severity", "1", 0, "L", true, 0, "")
		pdf.CellFormat(35, 8, "Affected Loans", "1", 0, "R", true, 0, "")
		pdf.CellFormat(50, 8, "Risk Amount", "1", 1, "R", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, f := range a.ForensicFlags {
			pdf.CellFormat(55, 7, strings.ToUpper(strings.ReplaceAll(string(f.Type), "_", " ")), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, strings.ToUpper(string(f.Severity)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 7, fmt.Sprintf("%d", f.AffectedLoans), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 7, rupees(f.RiskAmount), "1", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(8)

	// Recommendations
	sectionHeading(pdf, "RECOMMENDATIONS")
	paragraph(pdf, "Based on the analysis, the following recommendations are provided:")
	for _, rec := range Recommendations(a) {
		paragraph(pdf, "- "+rec)
	}

	// Footer
	pdf.SetY(-25)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s", s.now().Format("January 2, 2006")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generating PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func sectionHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(4)
}

func subHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
}

func paragraph(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(3)
}

func dscrStrength(dscr float64) string {
	switch {
	case dscr > 1.25:
		return "strong"
	case dscr > 1.0:
		return "adequate"
	default:
		return "weak"
	}
}

func concentrationLevel(share float64) string {
	switch {
	case share > 25:
		return "high concentration risk"
	case share > 15:
		return "moderate concentration risk"
	default:
		return "well-diversified exposure"
	}
}
