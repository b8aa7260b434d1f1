package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/feedbackge/ai-backend/internal/middleware"
	"github.com/feedbackge/ai-backend/internal/models"
	"github.com/feedbackge/ai-backend/internal/repository"
	"github.com/feedbackge/ai-backend/internal/services"
	"github.com/feedbackge/ai-backend/internal/utils"
)

const MaxJSONBodySize = 1 << 20

type AIHandler struct {
	ai     services.AIService
	logger *utils.Logger
}

func NewAIHandler(ai services.AIService, logger *utils.Logger) *AIHandler {
	return &AIHandler{ai: ai, logger: logger}
}

func (h *AIHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, h.ai.Health())
}

func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, h.ai.Status())
}

func (h *AIHandler) GenerateSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.SurveyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	reply, err := h.ai.GenerateSurvey(r.Context(), &req)
	respondReply(w, h.logger, reply, err)
}

func (h *AIHandler) AnalyzeSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	reply, err := h.ai.AnalyzeSurvey(r.Context(), &req)
	respondReply(w, h.logger, reply, err)
}

func (h *AIHandler) Insights(w http.ResponseWriter, r *http.Request) {
	var req models.InsightsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	reply, err := h.ai.Insights(r.Context(), &req)
	respondReply(w, h.logger, reply, err)
}

func (h *AIHandler) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.ImportQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	reply, err := h.ai.ImportQuestions(r.Context(), &req)
	respondReply(w, h.logger, reply, err)
}

func (h *AIHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	reply, err := h.ai.Recommendations(r.Context(), &req)
	respondReply(w, h.logger, reply, err)
}

// RunsHandler serves the audit trail. A nil repository means auditing is
// off and every request gets a 404.
type RunsHandler struct {
	repo   repository.TaskRunRepository
	logger *utils.Logger
}

func NewRunsHandler(repo repository.TaskRunRepository, logger *utils.Logger) *RunsHandler {
	return &RunsHandler{repo: repo, logger: logger}
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, h.logger, utils.NewNotFoundError("Task run auditing is disabled"))
		return
	}

	limit := repository.DefaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, h.logger, utils.NewBadRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list task runs", "error", err)
		respondError(w, h.logger, utils.NewInternalError("Failed to list task runs"))
		return
	}
	respondJSON(w, h.logger, http.StatusOK, models.TaskRunsResponse{Runs: runs})
}

// decodeJSON reads a bounded JSON body. Any decoding problem is a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)
	err := json.NewDecoder(r.Body).Decode(dst)

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return utils.NewBadRequestError("Request body too large")
	case errors.Is(err, io.EOF):
		return utils.NewBadRequestError("Request body is empty")
	default:
		return utils.NewBadRequestError("Invalid JSON body")
	}
}

func respondReply(w http.ResponseWriter, logger *utils.Logger, reply services.Reply, err error) {
	if err != nil {
		respondError(w, logger, err)
		return
	}
	w.Header().Set(middleware.AIModeHeader, string(reply.Mode))
	respondJSON(w, logger, reply.Status, reply.Body)
}

func respondJSON(w http.ResponseWriter, logger *utils.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, logger *utils.Logger, err error) {
	status, message := utils.StatusAndMessage(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request error", "status", status, "error", err)
	} else {
		logger.Debug("Request rejected", "status", status, "error", message)
	}
	respondJSON(w, logger, status, map[string]string{"error": message})
}
