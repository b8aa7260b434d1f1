package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/feedbackge/ai-backend/internal/models"
	"github.com/feedbackge/ai-backend/internal/utils"
)

const (
	defaultLanguage       = "English"
	defaultAudience       = "general consumers"
	defaultTimeRange      = "Last 30 days"
	defaultImportTopic    = "general topic"
	timestampLayoutMillis = "2006-01-02T15:04:05.000Z07:00"
)

// AIService validates client payloads and runs them through the gateway.
// Validation errors are *utils.AppError; every other outcome is a Reply.
type AIService interface {
	Status() models.AIStatus
	Health() models.Health
	GenerateSurvey(ctx context.Context, req *models.SurveyRequest) (Reply, error)
	AnalyzeSurvey(ctx context.Context, req *models.AnalysisRequest) (Reply, error)
	Insights(ctx context.Context, req *models.InsightsRequest) (Reply, error)
	ImportQuestions(ctx context.Context, req *models.ImportQuestionsRequest) (Reply, error)
	Recommendations(ctx context.Context, req *models.RecommendationsRequest) (Reply, error)
}

type aiService struct {
	gateway  *Gateway
	provider string
	model    string
	now      func() time.Time
}

func NewAIService(gateway *Gateway, provider, model string) AIService {
	return &aiService{
		gateway:  gateway,
		provider: provider,
		model:    model,
		now:      time.Now,
	}
}

func (s *aiService) Status() models.AIStatus {
	return models.AIStatus{
		Enabled:   s.gateway.Available(),
		Model:     s.model,
		Provider:  s.provider,
		Timestamp: s.timestamp(),
	}
}

func (s *aiService) Health() models.Health {
	return models.Health{
		Status:    "OK",
		Timestamp: s.timestamp(),
		AIEnabled: s.gateway.Available(),
	}
}

func (s *aiService) GenerateSurvey(ctx context.Context, req *models.SurveyRequest) (Reply, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return Reply{}, utils.NewBadRequestError("topic is required")
	}
	req.TargetAudience = withDefault(req.TargetAudience, defaultAudience)
	req.Market = withDefault(req.Market, models.DefaultMarket)
	req.Language = withDefault(req.Language, defaultLanguage)

	return runTask(ctx, s.gateway, generateSurveyTask, req), nil
}

func (s *aiService) AnalyzeSurvey(ctx context.Context, req *models.AnalysisRequest) (Reply, error) {
	if req.Survey == nil {
		return Reply{}, utils.NewBadRequestError("survey is required")
	}
	if req.Responses == nil {
		return Reply{}, utils.NewBadRequestError("responses are required")
	}
	req.Market = withDefault(req.Market, models.DefaultMarket)

	return runTask(ctx, s.gateway, analyzeSurveyTask, req), nil
}

func (s *aiService) Insights(ctx context.Context, req *models.InsightsRequest) (Reply, error) {
	if isAbsent(req.SurveyData) {
		return Reply{}, utils.NewBadRequestError("surveyData is required")
	}
	req.TimeRange = withDefault(req.TimeRange, defaultTimeRange)
	req.Market = withDefault(req.Market, models.DefaultMarket)

	return runTask(ctx, s.gateway, insightsTask, req), nil
}

func (s *aiService) ImportQuestions(ctx context.Context, req *models.ImportQuestionsRequest) (Reply, error) {
	if strings.TrimSpace(req.FileContent) == "" {
		return Reply{}, utils.NewBadRequestError("fileContent is required")
	}
	req.SurveyTopic = withDefault(req.SurveyTopic, defaultImportTopic)
	req.FileType = strings.TrimSpace(req.FileType)

	return runTask(ctx, s.gateway, importQuestionsTask, req), nil
}

func (s *aiService) Recommendations(ctx context.Context, req *models.RecommendationsRequest) (Reply, error) {
	if isAbsent(req.Survey) {
		return Reply{}, utils.NewBadRequestError("survey is required")
	}
	if req.Responses == nil {
		return Reply{}, utils.NewBadRequestError("responses are required")
	}
	req.Market = withDefault(req.Market, models.DefaultMarket)

	return runTask(ctx, s.gateway, recommendationsTask, req), nil
}

func (s *aiService) timestamp() string {
	return s.now().UTC().Format(timestampLayoutMillis)
}

func withDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
