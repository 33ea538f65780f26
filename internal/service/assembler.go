package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/wealthpath/loantape/internal/apperror"
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/currency"
)

// Sheet names of an assembled workbook.
const (
	SheetLoanTape = "Loan Tape"
	SheetSummary  = "Summary"
)

const (
	minColumnWidth     = 10
	maxColumnWidth     = 30
	columnWidthPadding = 2

	summaryKeyWidth   = 25
	summaryValueWidth = 30
)

var nonWord = regexp.MustCompile(`\W`)

// NewInstitution names the index-th synthetic institution of a profile.
func NewInstitution(profile model.PortfolioProfile, index int) model.Institution {
	label := fmt.Sprintf("%sNBFC%d", nonWord.ReplaceAllString(profile.SizeBucketLabel, ""), index)
	code := label
	if len(code) > 3 {
		code = code[:3]
	}
	return model.Institution{
		Index: index,
		Label: label,
		Code:  strings.ToUpper(code),
	}
}

// TapeFilename returns the download name of an institution's tape.
func TapeFilename(inst model.Institution) string {
	return fmt.Sprintf("%s_LoanTape_Sample%d.xlsx", inst.Label, inst.Index)
}

// TapeAssembler packages loan records into a two-sheet workbook.
type TapeAssembler struct {
	generator *LoanGenerator
}

// NewTapeAssembler creates a TapeAssembler that synthesizes records with generator.
func NewTapeAssembler(generator *LoanGenerator) *TapeAssembler {
	return &TapeAssembler{generator: generator}
}

// Assemble generates recordCount records for the institution and builds its workbook.
func (a *TapeAssembler) Assemble(profile model.PortfolioProfile, inst model.Institution, recordCount int) (model.GeneratedTape, error) {
	records := a.generator.Generate(profile, recordCount, inst.Code)

	file, err := a.Build(profile, inst, records)
	if err != nil {
		return model.GeneratedTape{}, err
	}

	return model.GeneratedTape{
		ProfileKey:  profile.Key,
		Institution: inst,
		Records:     records,
		File:        file,
	}, nil
}

// Build serializes already-generated records. Failures are assembly errors and
// can be retried with the same records.
func (a *TapeAssembler) Build(profile model.PortfolioProfile, inst model.Institution, records []model.LoanRecord) (model.GeneratedFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetLoanTape); err != nil {
		return model.GeneratedFile{}, apperror.Assembly(fmt.Errorf("renaming sheet: %w", err))
	}
	if err := writeLoanTapeSheet(f, records); err != nil {
		return model.GeneratedFile{}, apperror.Assembly(err)
	}
	if err := writeSummarySheet(f, profile, inst, len(records)); err != nil {
		return model.GeneratedFile{}, apperror.Assembly(err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return model.GeneratedFile{}, apperror.Assembly(fmt.Errorf("writing workbook: %w", err))
	}

	return model.GeneratedFile{
		Filename:    TapeFilename(inst),
		ContentType: model.XLSXContentType,
		Data:        buf.Bytes(),
	}, nil
}

func writeLoanTapeSheet(f *excelize.File, records []model.LoanRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.TapeRow())
	}

	sw, err := f.NewStreamWriter(SheetLoanTape)
	if err != nil {
		return fmt.Errorf("opening stream writer: %w", err)
	}

	// Column widths must be set before the first row is streamed.
	for col, width := range ColumnWidths(model.LoanTapeColumns, rows) {
		if err := sw.SetColWidth(col+1, col+1, float64(width)); err != nil {
			return fmt.Errorf("setting width of column %d: %w", col+1, err)
		}
	}

	header := make([]any, len(model.LoanTapeColumns))
	for i, h := range model.LoanTapeColumns {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing loan tape sheet: %w", err)
	}
	return nil
}

// ColumnWidths sizes each column to its longest rendered value, header included,
// with a floor of 10 characters, 2 characters of padding and a cap of 30.
func ColumnWidths(header []string, rows [][]any) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(minColumnWidth, utf8.RuneCountInString(h))
	}

	for _, row := range rows {
		for i, v := range row {
			if i >= len(widths) || v == nil {
				continue
			}
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i := range widths {
		widths[i] = min(widths[i]+columnWidthPadding, maxColumnWidth)
	}
	return widths
}

// SummaryRows returns the key/value rows of the Summary sheet. A nil row is left blank.
func SummaryRows(profile model.PortfolioProfile, inst model.Institution, recordCount int) [][]any {
	rows := [][]any{
		{"NBFC Name", inst.Label},
		{"AUM Bucket", profile.SizeBucketLabel},
		{"Total Loans", recordCount},
		{"Portfolio Value (₹)", currency.FormatGrouped(profile.TotalPortfolioValue, currency.INR)},
		{"Average Loan Size (₹)", currency.FormatGrouped(profile.AvgLoanSize, currency.INR)},
		{"Risk Profile", string(profile.RiskTier)},
		{"Geographic Focus", strings.Join(profile.GeographicScope, ", ")},
		nil,
		{"Product Mix", ""},
	}
	for _, pw := range profile.ProductMix {
		rows = append(rows, []any{pw.Product, fmt.Sprintf("%.1f%%", pw.Weight*100)})
	}
	return rows
}

func writeSummarySheet(f *excelize.File, profile model.PortfolioProfile, inst model.Institution, recordCount int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("adding summary sheet: %w", err)
	}

	for i, row := range SummaryRows(profile, inst, recordCount) {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(SheetSummary, "A", "A", summaryKeyWidth); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "B", "B", summaryValueWidth)
}
