package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/feedbackge/ai-backend/internal/handlers"
	"github.com/feedbackge/ai-backend/internal/middleware"
	"github.com/feedbackge/ai-backend/internal/repository"
	"github.com/feedbackge/ai-backend/internal/services"
	"github.com/feedbackge/ai-backend/internal/utils"
)

type Deps struct {
	AI            services.AIService
	Imports       services.ImportService
	Runs          repository.TaskRunRepository // nil disables GET /api/ai/runs
	MaxUploadSize int64
	Logger        *utils.Logger
}

func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))

	aiHandler := handlers.NewAIHandler(d.AI, d.Logger)
	importHandler := handlers.NewImportHandler(d.Imports, d.MaxUploadSize, d.Logger)
	runsHandler := handlers.NewRunsHandler(d.Runs, d.Logger)

	r.HandleFunc("/health", aiHandler.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/ai").Subrouter()
	api.HandleFunc("/status", aiHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/generate-survey", aiHandler.GenerateSurvey).Methods(http.MethodPost)
	api.HandleFunc("/analyze-survey", aiHandler.AnalyzeSurvey).Methods(http.MethodPost)
	api.HandleFunc("/insights", aiHandler.Insights).Methods(http.MethodPost)
	api.HandleFunc("/import-questions", aiHandler.ImportQuestions).Methods(http.MethodPost)
	api.HandleFunc("/import-questions/upload", importHandler.Upload).Methods(http.MethodPost)
	api.HandleFunc("/recommendations", aiHandler.Recommendations).Methods(http.MethodPost)
	api.HandleFunc("/runs", runsHandler.List).Methods(http.MethodGet)

	// Wrapped outside the router so preflight requests never hit method
	// matching.
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.AIModeHeader, middleware.RequestIDHeader},
	}).Handler(r)
}
