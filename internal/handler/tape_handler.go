package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wealthpath/loantape/internal/apperror"
	"github.com/wealthpath/loantape/internal/catalog"
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/internal/service"
)

// Sample size limits for one-off tapes.
const (
	defaultSampleCount = 100
	maxSampleCount     = 10000
)

// TapeHandler serves the generated batch and one-off sample tapes.
type TapeHandler struct {
	library  TapeLibraryInterface
	sampler  TapeSamplerInterface
	profiles *catalog.ProfileCatalog
	exporter *service.ExportService
}

// NewTapeHandler creates a new TapeHandler
func NewTapeHandler(library TapeLibraryInterface, sampler TapeSamplerInterface, profiles *catalog.ProfileCatalog, exporter *service.ExportService) *TapeHandler {
	return &TapeHandler{
		library:  library,
		sampler:  sampler,
		profiles: profiles,
		exporter: exporter,
	}
}

// ListProfiles godoc
// @Summary List portfolio profiles
// @Description Get the portfolio size buckets tapes are generated for, in catalog order
// @Tags profiles
// @Produce json
// @Success 200 {array} model.PortfolioProfile
// @Router /profiles [get]
func (h *TapeHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	entries := h.profiles.List()
	profiles := make([]model.PortfolioProfile, 0, len(entries))
	for _, e := range entries {
		profiles = append(profiles, e.Profile)
	}
	respondJSON(w, http.StatusOK, profiles)
}

// ListTapes godoc
// @Summary List generated tapes
// @Description Get the tapes of the current batch per profile key
// @Tags tapes
// @Produce json
// @Success 200 {object} service.BatchListing
// @Failure 404 {object} ErrorResponse
// @Router /tapes [get]
func (h *TapeHandler) ListTapes(w http.ResponseWriter, r *http.Request) {
	listing, err := h.library.Listing()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// GetStatus godoc
// @Summary Generation status
// @Description Get run metrics of batch generation
// @Tags tapes
// @Produce json
// @Success 200 {object} service.MetricsSummary
// @Router /tapes/status [get]
func (h *TapeHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.library.Status())
}

// RefreshTapes godoc
// @Summary Regenerate the batch
// @Description Generate a new batch of tapes, replacing the current one
// @Tags tapes
// @Produce json
// @Param seed query int false "Seed for a reproducible batch"
// @Success 200 {object} service.BatchListing
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tapes/refresh [post]
func (h *TapeHandler) RefreshTapes(w http.ResponseWriter, r *http.Request) {
	seed, appErr := queryInt64(r, "seed", 0)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	if _, err := h.library.Refresh(r.Context(), seed); err != nil {
		respondServiceError(w, r, err)
		return
	}

	listing, err := h.library.Listing()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// DownloadTape godoc
// @Summary Download a tape
// @Description Download one institution's loan tape spreadsheet
// @Tags tapes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param profile path string true "Profile key (small, medium, large, xlarge)"
// @Param index path int true "Institution index, starting at 1"
// @Success 200 {file} file "XLSX file"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tapes/{profile}/{index} [get]
func (h *TapeHandler) DownloadTape(w http.ResponseWriter, r *http.Request) {
	tape, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondFile(w, tape.File.ContentType, tape.File.Filename, tape.File.Data)
}

// DownloadTapeCSV godoc
// @Summary Download a tape as CSV
// @Description Download one institution's loan tape records as CSV
// @Tags tapes
// @Produce text/csv
// @Param profile path string true "Profile key"
// @Param index path int true "Institution index, starting at 1"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tapes/{profile}/{index}/csv [get]
func (h *TapeHandler) DownloadTapeCSV(w http.ResponseWriter, r *http.Request) {
	tape, ok := h.lookup(w, r)
	if !ok {
		return
	}

	data, err := h.exporter.ExportLoanTapeCSV(tape)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondFile(w, "text/csv", service.CSVFilename(tape), data)
}

// SampleTape godoc
// @Summary Generate a sample tape
// @Description Generate a one-off tape for a profile without touching the current batch
// @Tags profiles
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param profile path string true "Profile key"
// @Param count query int false "Number of loans" default(100)
// @Param seed query int false "Seed for a reproducible tape"
// @Success 200 {file} file "XLSX file"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{profile}/sample [get]
func (h *TapeHandler) SampleTape(w http.ResponseWriter, r *http.Request) {
	count, appErr := queryInt64(r, "count", defaultSampleCount)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	if count < 1 || count > maxSampleCount {
		respondAppError(w, apperror.ValidationError("count", "count must be between 1 and "+strconv.Itoa(maxSampleCount)))
		return
	}

	seed, appErr := queryInt64(r, "seed", 0)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	tape, err := h.sampler.Sample(chi.URLParam(r, "profile"), int(count), seed)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondFile(w, tape.File.ContentType, tape.File.Filename, tape.File.Data)
}

// lookup resolves the {profile}/{index} path to a tape, writing the error response
// when it cannot.
func (h *TapeHandler) lookup(w http.ResponseWriter, r *http.Request) (model.GeneratedTape, bool) {
	return lookupTape(w, r, h.library)
}

func lookupTape(w http.ResponseWriter, r *http.Request, library TapeLibraryInterface) (model.GeneratedTape, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 1 {
		respondAppError(w, apperror.ValidationError("index", "index must be a positive integer"))
		return model.GeneratedTape{}, false
	}

	tape, err := library.Get(chi.URLParam(r, "profile"), index)
	if err != nil {
		respondServiceError(w, r, err)
		return model.GeneratedTape{}, false
	}
	return tape, true
}
