package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/wealthpath/loantape/internal/logger"
)

// RouterConfig holds router settings.
type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter wires every API route onto a chi router.
func NewRouter(cfg RouterConfig, tapes *TapeHandler, analysis *AnalysisHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestContext)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/api/health", Health)

	r.Get("/api/profiles", tapes.ListProfiles)
	r.Get("/api/profiles/{profile}/sample", tapes.SampleTape)

	r.Get("/api/tapes", tapes.ListTapes)
	r.Get("/api/tapes/status", tapes.GetStatus)
	r.Post("/api/tapes/refresh", tapes.RefreshTapes)
	r.Get("/api/tapes/{profile}/{index}", tapes.DownloadTape)
	r.Get("/api/tapes/{profile}/{index}/csv", tapes.DownloadTapeCSV)
	r.Get("/api/tapes/{profile}/{index}/analysis", analysis.GetAnalysis)
	r.Get("/api/tapes/{profile}/{index}/report", analysis.GetReport)

	return r
}

// Health godoc
// @Summary Health check
// @Description Check if the API is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestContext carries chi's request ID into the logging context.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logger.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
