package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Question types understood by the survey builder.
const (
	QuestionRating         = "rating"
	QuestionText           = "text"
	QuestionMultipleChoice = "multiple_choice"
	QuestionYesNo          = "yes_no"
)

const DefaultMarket = "Georgia"

type SurveyRequest struct {
	Topic          string `json:"topic"`
	TargetAudience string `json:"targetAudience"`
	Market         string `json:"market,omitempty"`
	Language       string `json:"language,omitempty"`
}

type Survey struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID       int      `json:"id"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type SurveyResponse struct {
	Error  string  `json:"error,omitempty"`
	Survey *Survey `json:"survey"`
}

// DraftQuestion is a question as written by the model: ids are ignored,
// types are free-form and options may hold any scalar.
type DraftQuestion struct {
	Question string `json:"question"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	Options  []any  `json:"options"`
}

// NormalizeQuestions converts drafts into questions numbered from 1.
// Drafts without text are dropped.
func NormalizeQuestions(drafts []DraftQuestion) []Question {
	questions := make([]Question, 0, len(drafts))
	for _, d := range drafts {
		text := strings.TrimSpace(d.Question)
		if text == "" {
			text = strings.TrimSpace(d.Text)
		}
		if text == "" {
			continue
		}

		options := make([]string, 0, len(d.Options))
		for _, opt := range d.Options {
			if opt == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(opt)); s != "" {
				options = append(options, s)
			}
		}

		questions = append(questions, Question{
			ID:       len(questions) + 1,
			Type:     NormalizeQuestionType(d.Type),
			Question: text,
			Options:  options,
		})
	}
	return questions
}

// NormalizeQuestionType maps the many spellings models use onto the four
// supported types. Anything unrecognised becomes a text question.
func NormalizeQuestionType(t string) string {
	key := strings.ToLower(strings.TrimSpace(t))
	key = strings.NewReplacer("-", "_", " ", "_", "/", "_").Replace(key)

	switch key {
	case "rating", "rating_scale", "scale", "likert", "nps", "stars":
		return QuestionRating
	case "multiple_choice", "multiplechoice", "choice", "single_choice", "select", "checkbox", "radio":
		return QuestionMultipleChoice
	case "yes_no", "yesno", "boolean", "bool":
		return QuestionYesNo
	default:
		return QuestionText
	}
}

// DecodeSurvey reads a survey from model output. The survey may be bare or
// wrapped in a "survey" key.
func DecodeSurvey(data []byte) (*Survey, error) {
	type draftSurvey struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Questions   []DraftQuestion `json:"questions"`
	}

	var draft draftSurvey
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	if len(draft.Questions) == 0 {
		var wrapped struct {
			Survey draftSurvey `json:"survey"`
		}
		if err := json.Unmarshal(data, &wrapped); err == nil {
			draft = wrapped.Survey
		}
	}

	survey := &Survey{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Questions:   NormalizeQuestions(draft.Questions),
	}
	if len(survey.Questions) == 0 {
		return nil, fmt.Errorf("survey has no questions")
	}
	if survey.Title == "" {
		return nil, fmt.Errorf("survey has no title")
	}
	return survey, nil
}

// FallbackSurvey is the two-question survey served when the model cannot be
// used.
func FallbackSurvey(topic string) *Survey {
	title := "Customer"
	subject := "your experience"
	object := "our service"
	if t := strings.TrimSpace(topic); t != "" {
		title = t
		subject = strings.ToLower(t)
		object = subject
	}

	return &Survey{
		Title:       title + " Survey",
		Description: fmt.Sprintf("Please help us understand %s by answering these questions.", subject),
		Questions: []Question{
			{
				ID:       1,
				Type:     QuestionRating,
				Question: fmt.Sprintf("How satisfied are you with %s?", object),
				Options:  []string{"1-5 scale"},
			},
			{
				ID:       2,
				Type:     QuestionText,
				Question: "What improvements would you suggest?",
				Options:  []string{},
			},
		},
	}
}
