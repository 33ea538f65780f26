package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/random"
)

func TestNewInstitution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		profile   string
		index     int
		wantLabel string
		wantCode  string
	}{
		{"small", 1, "Lessthan1000CrNBFC1", "LES"},
		{"medium", 4, "Lessthan5000CrNBFC4", "LES"},
		{"xlarge", 10, "Greaterthan10000CrNBFC10", "GRE"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.wantLabel, func(t *testing.T) {
			t.Parallel()

			inst := NewInstitution(testProfile(t, tt.profile), tt.index)
			assert.Equal(t, tt.index, inst.Index)
			assert.Equal(t, tt.wantLabel, inst.Label)
			assert.Equal(t, tt.wantCode, inst.Code)
		})
	}
}

func TestTapeFilename(t *testing.T) {
	t.Parallel()

	inst := NewInstitution(testProfile(t, "large"), 7)
	assert.Equal(t, "Lessthan10000CrNBFC7_LoanTape_Sample7.xlsx", TapeFilename(inst))
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	profile := testProfile(t, "small")
	inst := NewInstitution(profile, 1)
	asm := NewTapeAssembler(NewLoanGenerator(nil, random.NewSeeded(8)))

	tape, err := asm.Assemble(profile, inst, 120)
	require.NoError(t, err)

	assert.Equal(t, "small", tape.ProfileKey)
	assert.Equal(t, inst, tape.Institution)
	assert.Len(t, tape.Records, 120)
	assert.Equal(t, "Lessthan1000CrNBFC1_LoanTape_Sample1.xlsx", tape.File.Filename)
	assert.Equal(t, model.XLSXContentType, tape.File.ContentType)
	assert.NotZero(t, tape.File.Size())

	f := openWorkbook(t, tape.File.Data)
	assert.Equal(t, []string{SheetLoanTape, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetLoanTape)
	require.NoError(t, err)
	require.Len(t, rows, 121)
	assert.Equal(t, model.LoanTapeColumns, rows[0])
	assert.Equal(t, "LES000001", rows[1][0])
	assert.Equal(t, "LES000120", rows[120][0])
	assert.Equal(t, tape.Records[0].PAN, rows[1][2])
	assert.Equal(t, tape.Records[0].OriginationDate.String(), rows[1][9])

	width, err := f.GetColWidth(SheetLoanTape, "A")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)
}

func TestAssemble_SummarySheet(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"small", "medium", "large", "xlarge"} {
		key := key
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			profile := testProfile(t, key)
			inst := NewInstitution(profile, 2)
			asm := NewTapeAssembler(NewLoanGenerator(nil, random.NewSeeded(2)))

			tape, err := asm.Assemble(profile, inst, 15)
			require.NoError(t, err)

			f := openWorkbook(t, tape.File.Data)
			rows, err := f.GetRows(SheetSummary)
			require.NoError(t, err)

			values := map[string]string{}
			mixStart := -1
			for i, row := range rows {
				if len(row) == 0 {
					continue
				}
				if row[0] == "Product Mix" {
					mixStart = i
					continue
				}
				if len(row) > 1 {
					values[row[0]] = row[1]
				}
			}

			assert.Equal(t, inst.Label, values["NBFC Name"])
			assert.Equal(t, profile.SizeBucketLabel, values["AUM Bucket"])
			assert.Equal(t, "15", values["Total Loans"])
			assert.Equal(t, string(profile.RiskTier), values["Risk Profile"])

			require.Greater(t, mixStart, 0)
			mixRows := rows[mixStart+1:]
			require.Len(t, mixRows, len(profile.ProductMix))
			for i, pw := range profile.ProductMix {
				assert.Equal(t, pw.Product, mixRows[i][0])
				assert.Equal(t, percentLabel(pw.Weight), mixRows[i][1])
			}

			keyWidth, err := f.GetColWidth(SheetSummary, "A")
			require.NoError(t, err)
			assert.Equal(t, 25.0, keyWidth)
			valueWidth, err := f.GetColWidth(SheetSummary, "B")
			require.NoError(t, err)
			assert.Equal(t, 30.0, valueWidth)
		})
	}
}

func percentLabel(weight float64) string {
	return map[float64]string{
		0.1:  "10.0%",
		0.15: "15.0%",
		0.2:  "20.0%",
		0.25: "25.0%",
		0.3:  "30.0%",
		0.35: "35.0%",
		0.4:  "40.0%",
	}[weight]
}

func TestSummaryRows(t *testing.T) {
	t.Parallel()

	profile := testProfile(t, "small")
	rows := SummaryRows(profile, NewInstitution(profile, 3), 2417)

	assert.Equal(t, []any{"NBFC Name", "Lessthan1000CrNBFC3"}, rows[0])
	assert.Equal(t, []any{"Total Loans", 2417}, rows[2])
	assert.Equal(t, []any{"Portfolio Value (₹)", "62,50,00,00,000"}, rows[3])
	assert.Equal(t, []any{"Average Loan Size (₹)", "2,50,000"}, rows[4])
	assert.Equal(t, []any{"Geographic Focus", "Maharashtra, Gujarat, Karnataka"}, rows[6])
	assert.Nil(t, rows[7])
	assert.Equal(t, []any{"Product Mix", ""}, rows[8])
	assert.Equal(t, []any{model.ProductPersonal, "40.0%"}, rows[9])
	assert.Len(t, rows, 9+len(profile.ProductMix))
}

func TestColumnWidths(t *testing.T) {
	t.Parallel()

	header := []string{"ID", "Description", "Amount"}
	rows := [][]any{
		{"A1", "a description that is far longer than thirty characters", int64(125000)},
		{"A2", nil, int64(7)},
	}

	assert.Equal(t, []int{12, 30, 12}, ColumnWidths(header, rows))
	assert.Equal(t, []int{12, 13, 12}, ColumnWidths(header, nil))
}

func TestBuild_NoRecords(t *testing.T) {
	t.Parallel()

	profile := testProfile(t, "medium")
	asm := NewTapeAssembler(NewLoanGenerator(nil, random.NewSeeded(1)))

	file, err := asm.Build(profile, NewInstitution(profile, 1), nil)
	require.NoError(t, err)

	f := openWorkbook(t, file.Data)
	rows, err := f.GetRows(SheetLoanTape)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBuild_ReusesRecords(t *testing.T) {
	t.Parallel()

	profile := testProfile(t, "large")
	inst := NewInstitution(profile, 5)
	records := NewLoanGenerator(nil, random.NewSeeded(4)).Generate(profile, 40, inst.Code)
	asm := NewTapeAssembler(nil)

	first, err := asm.Build(profile, inst, records)
	require.NoError(t, err)
	second, err := asm.Build(profile, inst, records)
	require.NoError(t, err)

	a, err := openWorkbook(t, first.Data).GetRows(SheetLoanTape)
	require.NoError(t, err)
	b, err := openWorkbook(t, second.Data).GetRows(SheetLoanTape)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
