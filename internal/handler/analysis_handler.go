package handler

import (
	"net/http"
	"time"

	"github.com/wealthpath/loantape/internal/service"
)

// AnalysisHandler serves portfolio analytics of generated tapes.
type AnalysisHandler struct {
	library  TapeLibraryInterface
	analyzer *service.AnalysisService
	exporter *service.ExportService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(library TapeLibraryInterface, analyzer *service.AnalysisService, exporter *service.ExportService) *AnalysisHandler {
	return &AnalysisHandler{
		library:  library,
		analyzer: analyzer,
		exporter: exporter,
	}
}

// GetAnalysis godoc
// @Summary Analyze a tape
// @Description Compute portfolio metrics and forensic flags for one generated tape
// @Tags analysis
// @Produce json
// @Param profile path string true "Profile key"
// @Param index path int true "Institution index, starting at 1"
// @Success 200 {object} model.AnalysisResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tapes/{profile}/{index}/analysis [get]
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	tape, ok := lookupTape(w, r, h.library)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.analyzer.Analyze(tape))
}

// GetReport godoc
// @Summary Download an analysis report
// @Description Render the analysis of one generated tape into a PDF report
// @Tags analysis
// @Produce application/pdf
// @Param profile path string true "Profile key"
// @Param index path int true "Institution index, starting at 1"
// @Param company query string false "Company name printed on the report"
// @Success 200 {file} file "PDF file"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tapes/{profile}/{index}/report [get]
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	tape, ok := lookupTape(w, r, h.library)
	if !ok {
		return
	}

	company := r.URL.Query().Get("company")
	if company == "" {
		company = tape.Institution.Label
	}

	now := time.Now()
	analysis := h.analyzer.Analyze(tape)
	data, err := h.exporter.ExportAnalysisPDF(analysis, service.ReportOptions{
		CompanyName: company,
		ReportDate:  now,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondFile(w, "application/pdf", service.ReportFilename(analysis, now), data)
}
