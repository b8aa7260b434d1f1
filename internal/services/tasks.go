package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/feedbackge/ai-backend/internal/models"
)

// Upstream input caps.
const (
	MaxAnalysisResponses       = 50
	MaxRecommendationResponses = 10
	MaxImportContentChars      = 2000
)

const (
	analysisUnavailable = "AI analysis is currently unavailable. Basic analytics are still available in the Analytics tab."

	importUnavailable = "AI features are currently unavailable"
	importUnparsed    = "Could not parse AI response"
	importFailed      = "Failed to process document"
	importThrottled   = "AI is busy, please try again shortly"
	importSucceeded   = "Questions generated successfully from document"
)

var generateSurveyTask = TaskSpec[*models.SurveyRequest, *models.SurveyResponse]{
	Kind:      TaskGenerateSurvey,
	MaxTokens: 1000,
	Timeout:   30 * time.Second,
	Prompt: func(req *models.SurveyRequest) string {
		return fmt.Sprintf(`Generate a professional survey about "%s" for %s in %s.
Write the survey in %s.
Include 5-7 relevant questions with appropriate question types (multiple choice, rating scale, open-ended, yes/no).
Format as JSON with title, description, and questions array.
Each question should have: id, type, question, options.
Allowed types: "rating", "text", "multiple_choice", "yes_no".

Example format:
{
  "title": "Customer Satisfaction Survey",
  "description": "Help us improve our services",
  "questions": [
    {
      "id": 1,
      "type": "rating",
      "question": "How satisfied are you?",
      "options": ["1-5 scale"]
    }
  ]
}`, req.Topic, req.TargetAudience, req.Market, req.Language)
	},
	Parse: func(data []byte) (*models.SurveyResponse, error) {
		survey, err := models.DecodeSurvey(data)
		if err != nil {
			return nil, err
		}
		return &models.SurveyResponse{Survey: survey}, nil
	},
	Fallback: func(req *models.SurveyRequest, why Failure) *models.SurveyResponse {
		resp := &models.SurveyResponse{Survey: models.FallbackSurvey(req.Topic)}
		if why == FailureUpstream || why == FailureMalformed {
			resp.Error = "AI service error"
		}
		return resp
	},
}

var analyzeSurveyTask = TaskSpec[*models.AnalysisRequest, *models.AnalysisResult]{
	Kind:      TaskAnalyzeSurvey,
	MaxTokens: 800,
	Timeout:   20 * time.Second,
	Prompt: func(req *models.AnalysisRequest) string {
		return fmt.Sprintf(`Analyze this survey data and provide comprehensive insights with actionable recommendations.
Survey Title: %s
Survey Description: %s
Number of Responses: %d
Market: %s

Sample responses: %s

Provide a detailed analysis including:
1. Key findings and trends
2. Sentiment analysis (positive/neutral/negative breakdown)
3. Demographic insights if available
4. Regional patterns for the %s market
5. Specific recommendations for improvement
6. Potential business actions

Format as structured JSON with these keys: analysis, insights[], recommendations[], alerts[]`,
			req.Survey.Title, req.Survey.Description, len(req.Responses), req.Market,
			compactJSON(capResponses(req.Responses, MaxAnalysisResponses)), req.Market)
	},
	Parse: func(data []byte) (*models.AnalysisResult, error) {
		var out models.AnalysisResult
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		out.Error = ""
		if out.Analysis == nil && len(out.Insights) == 0 && len(out.Recommendations) == 0 && len(out.Alerts) == 0 {
			return nil, fmt.Errorf("analysis has no content")
		}
		if out.Analysis == nil {
			out.Analysis = ""
		}
		return &out, nil
	},
	Prose: func(text string) *models.AnalysisResult {
		return &models.AnalysisResult{
			Analysis:        text,
			Insights:        models.Notes{},
			Recommendations: models.Notes{},
			Alerts:          models.Notes{},
		}
	},
	Fallback: func(_ *models.AnalysisRequest, why Failure) *models.AnalysisResult {
		out := &models.AnalysisResult{
			Analysis:        analysisUnavailable,
			Insights:        models.Notes{},
			Recommendations: models.Notes{},
			Alerts:          models.Notes{},
		}
		if why == FailureUpstream {
			out.Error = "AI analysis error"
		}
		return out
	},
}

var insightsTask = TaskSpec[*models.InsightsRequest, *models.InsightsResult]{
	Kind:      TaskInsights,
	MaxTokens: 600,
	Timeout:   15 * time.Second,
	Prompt: func(req *models.InsightsRequest) string {
		return fmt.Sprintf(`Generate AI insights and alerts for this survey data.
Market: %s
Time Range: %s

Survey Performance Data: %s

Generate insights about:
1. Performance trends
2. Regional differences
3. Sentiment changes
4. Key issues or opportunities

Also generate alerts for:
- Significant rating drops
- Negative feedback spikes
- Regional performance issues

Format as JSON with insights[] and alerts[] arrays.`, req.Market, req.TimeRange, compactJSON(req.SurveyData))
	},
	Parse: func(data []byte) (*models.InsightsResult, error) {
		var out models.InsightsResult
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		if len(out.Insights) == 0 && len(out.Alerts) == 0 {
			return nil, fmt.Errorf("no insights or alerts in response")
		}
		out.Analysis = ""
		return &out, nil
	},
	Prose: func(text string) *models.InsightsResult {
		return &models.InsightsResult{
			Insights: models.Notes{},
			Alerts:   models.Notes{},
			Analysis: text,
		}
	},
	Fallback: func(_ *models.InsightsRequest, _ Failure) *models.InsightsResult {
		return &models.InsightsResult{
			Insights: models.Notes{},
			Alerts:   models.Notes{},
		}
	},
}

var importQuestionsTask = TaskSpec[*models.ImportQuestionsRequest, *models.ImportQuestionsResult]{
	Kind:      TaskImportQuestions,
	MaxTokens: 1000,
	Timeout:   30 * time.Second,
	Prompt: func(req *models.ImportQuestionsRequest) string {
		docType := ""
		if req.FileType != "" {
			docType = fmt.Sprintf(" (%s file)", req.FileType)
		}
		return fmt.Sprintf(`Analyze this document%s and extract/create survey questions for a survey about "%s".
Document content: %s

Please create 5-8 relevant survey questions based on the content. Format as JSON array with objects containing:
- question: the question text
- type: "multiple_choice", "rating", "text", or "yes_no"
- options: array of options (for multiple choice) or ["1-5 scale"] for rating

Focus on the key themes and information from the document.`, docType, req.SurveyTopic, TruncateContent(req.FileContent, MaxImportContentChars))
	},
	Parse: func(data []byte) (*models.ImportQuestionsResult, error) {
		questions, err := models.DecodeDraftQuestions(data)
		if err != nil {
			return nil, err
		}
		return &models.ImportQuestionsResult{Questions: questions, Message: importSucceeded}, nil
	},
	Fallback: func(_ *models.ImportQuestionsRequest, why Failure) *models.ImportQuestionsResult {
		msg := importFailed
		switch why {
		case FailureUnavailable:
			msg = importUnavailable
		case FailureThrottled:
			msg = importThrottled
		case FailureMalformed:
			msg = importUnparsed
		}
		return &models.ImportQuestionsResult{Questions: []models.Question{}, Message: msg}
	},
}

var recommendationsTask = TaskSpec[*models.RecommendationsRequest, *models.RecommendationsResult]{
	Kind:      TaskRecommendations,
	MaxTokens: 700,
	Timeout:   20 * time.Second,
	Prompt: func(req *models.RecommendationsRequest) string {
		return fmt.Sprintf(`Generate actionable business recommendations based on this survey data.

Survey: %s
Responses: %s
Market: %s
Previous Data: %s

Provide specific, actionable recommendations such as:
1. Service improvements
2. Pricing adjustments
3. Marketing strategies
4. Operational changes
5. Customer experience enhancements

Focus on the %s market context and make recommendations measurable and time-bound.

Format as JSON array of recommendation objects with: title, description, priority, timeframe, expectedImpact`,
			compactJSON(req.Survey), compactJSON(capResponses(req.Responses, MaxRecommendationResponses)),
			req.Market, compactJSON(req.PreviousData), req.Market)
	},
	Parse: func(data []byte) (*models.RecommendationsResult, error) {
		recs, err := models.DecodeRecommendations(data)
		if err != nil {
			return nil, err
		}
		return &models.RecommendationsResult{Recommendations: recs}, nil
	},
	Prose: func(text string) *models.RecommendationsResult {
		return &models.RecommendationsResult{
			Recommendations: []models.Recommendation{},
			Analysis:        text,
		}
	},
	Fallback: func(_ *models.RecommendationsRequest, _ Failure) *models.RecommendationsResult {
		return &models.RecommendationsResult{Recommendations: []models.Recommendation{}}
	},
}

// TruncateContent keeps the first limit characters (runes) of s.
func TruncateContent(s string, limit int) string {
	if limit < 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func capResponses(responses []json.RawMessage, limit int) []json.RawMessage {
	if len(responses) > limit {
		return responses[:limit]
	}
	return responses
}

// compactJSON renders v for a prompt. Raw messages are re-encoded compactly.
func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return "{}"
	}
	return s
}
