package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SurveySummary is the part of a survey the analysis prompts need.
type SurveySummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AnalysisRequest struct {
	Survey    *SurveySummary    `json:"survey"`
	Responses []json.RawMessage `json:"responses"`
	Market    string            `json:"market,omitempty"`
}

// AnalysisResult is the single authoritative analyze-survey shape. Analysis
// holds either prose or whatever structured object the model produced.
type AnalysisResult struct {
	Error           string `json:"error,omitempty"`
	Analysis        any    `json:"analysis"`
	Insights        Notes  `json:"insights"`
	Recommendations Notes  `json:"recommendations"`
	Alerts          Notes  `json:"alerts"`
}

type InsightsRequest struct {
	SurveyData json.RawMessage `json:"surveyData"`
	TimeRange  string          `json:"timeRange,omitempty"`
	Market     string          `json:"market,omitempty"`
}

type InsightsResult struct {
	Insights Notes  `json:"insights"`
	Alerts   Notes  `json:"alerts"`
	Analysis string `json:"analysis,omitempty"`
}

type ImportQuestionsRequest struct {
	FileContent string `json:"fileContent"`
	FileType    string `json:"fileType,omitempty"`
	SurveyTopic string `json:"surveyTopic,omitempty"`
}

type ImportQuestionsResult struct {
	Questions []Question `json:"questions"`
	Message   string     `json:"message"`
}

type RecommendationsRequest struct {
	Survey       json.RawMessage   `json:"survey"`
	Responses    []json.RawMessage `json:"responses"`
	Market       string            `json:"market,omitempty"`
	PreviousData json.RawMessage   `json:"previousData,omitempty"`
}

type Recommendation struct {
	Title          Text `json:"title"`
	Description    Text `json:"description"`
	Priority       Text `json:"priority"`
	Timeframe      Text `json:"timeframe"`
	ExpectedImpact Text `json:"expectedImpact"`
}

type RecommendationsResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Analysis        string           `json:"analysis,omitempty"`
}

// Text is a string that also accepts numbers and booleans, which models
// sometimes emit for fields like priority.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(strings.TrimSpace(v))
	case float64, bool:
		*t = Text(fmt.Sprint(v))
	default:
		return fmt.Errorf("unsupported text value %s", data)
	}
	return nil
}

// Notes is a list of short findings. Models return either plain strings or
// small objects; both decode into strings.
type Notes []string

func (n *Notes) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*n = Notes{}
	case string:
		*n = Notes{v}
	case []any:
		out := make(Notes, 0, len(v))
		for _, item := range v {
			if s := noteText(item); s != "" {
				out = append(out, s)
			}
		}
		*n = out
	default:
		if s := noteText(v); s != "" {
			*n = Notes{s}
		} else {
			*n = Notes{}
		}
	}
	return nil
}

// MarshalJSON keeps empty lists as [] rather than null.
func (n Notes) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(n))
}

func noteText(item any) string {
	switch v := item.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		var parts []string
		for _, key := range []string{"title", "insight", "alert", "message", "text", "description"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ": ")
		}
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// DecodeRecommendations accepts a bare array or an object holding a
// "recommendations" array.
func DecodeRecommendations(data []byte) ([]Recommendation, error) {
	var list []Recommendation
	if err := json.Unmarshal(data, &list); err == nil {
		return nonEmptyRecommendations(list)
	}

	var wrapped struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return nonEmptyRecommendations(wrapped.Recommendations)
}

func nonEmptyRecommendations(list []Recommendation) ([]Recommendation, error) {
	out := make([]Recommendation, 0, len(list))
	for _, r := range list {
		if r.Title == "" && r.Description == "" {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no recommendations in response")
	}
	return out, nil
}

// DecodeDraftQuestions accepts a bare array or an object holding a
// "questions" array.
func DecodeDraftQuestions(data []byte) ([]Question, error) {
	var drafts []DraftQuestion
	if err := json.Unmarshal(data, &drafts); err != nil {
		var wrapped struct {
			Questions []DraftQuestion `json:"questions"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		drafts = wrapped.Questions
	}

	questions := NormalizeQuestions(drafts)
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}
	return questions, nil
}
