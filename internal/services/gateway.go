package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/feedbackge/ai-backend/internal/llm"
	"github.com/feedbackge/ai-backend/internal/models"
	"github.com/feedbackge/ai-backend/internal/utils"
)

type TaskKind string

const (
	TaskGenerateSurvey  TaskKind = "generate-survey"
	TaskAnalyzeSurvey   TaskKind = "analyze-survey"
	TaskInsights        TaskKind = "insights"
	TaskImportQuestions TaskKind = "import-questions"
	TaskRecommendations TaskKind = "recommendations"
)

// Mode tells how a reply was produced.
type Mode string

const (
	ModeAI        Mode = "ai"
	ModeProse     Mode = "prose"
	ModeDegraded  Mode = "degraded"
	ModeFallback  Mode = "fallback"
	ModeThrottled Mode = "throttled"
)

// Failure is the reason a fallback body is built.
type Failure int

const (
	FailureUnavailable Failure = iota
	FailureThrottled
	FailureUpstream
	FailureMalformed
)

// Reply is a finished task: the HTTP status and the body to encode.
type Reply struct {
	Status int
	Mode   Mode
	Body   any
}

// TaskSpec describes one task kind. The gateway control flow is shared;
// only these pieces differ between tasks.
type TaskSpec[Req, Resp any] struct {
	Kind      TaskKind
	MaxTokens int
	Timeout   time.Duration

	// Prompt renders the upstream prompt.
	Prompt func(req Req) string

	// Parse validates the JSON found in the completion.
	Parse func(data []byte) (Resp, error)

	// Prose wraps a non-JSON completion. Nil means such a completion is a
	// failure and the fallback is served with a 500.
	Prose func(text string) Resp

	Fallback func(req Req, why Failure) Resp
}

// RunRecorder stores an audit record of every task run.
type RunRecorder interface {
	Record(ctx context.Context, run *models.TaskRun) error
}

// Gateway owns the completion provider. A nil provider means the process
// runs in degraded mode for its whole lifetime.
type Gateway struct {
	provider llm.CompletionProvider
	limiter  *rate.Limiter
	recorder RunRecorder
	logger   *utils.Logger
}

type GatewayOption func(*Gateway)

// WithLimiter throttles upstream calls. Requests over the limit get the
// fallback instead of waiting.
func WithLimiter(l *rate.Limiter) GatewayOption {
	return func(g *Gateway) { g.limiter = l }
}

func WithRecorder(r RunRecorder) GatewayOption {
	return func(g *Gateway) { g.recorder = r }
}

func NewGateway(provider llm.CompletionProvider, logger *utils.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		provider: provider,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Available() bool {
	return g.provider != nil
}

// runTask executes task for req and always returns a reply with a body of
// the task's shape.
func runTask[Req, Resp any](ctx context.Context, g *Gateway, task TaskSpec[Req, Resp], req Req) Reply {
	start := time.Now()
	reply, err := execute(ctx, g, task, req)
	g.record(ctx, task.Kind, reply, err, time.Since(start))
	return reply
}

func execute[Req, Resp any](ctx context.Context, g *Gateway, task TaskSpec[Req, Resp], req Req) (Reply, error) {
	if !g.Available() {
		g.logger.Warn("AI provider not configured, serving fallback", "task", task.Kind)
		return Reply{Status: http.StatusOK, Mode: ModeDegraded, Body: task.Fallback(req, FailureUnavailable)}, nil
	}

	if g.limiter != nil && !g.limiter.Allow() {
		g.logger.Warn("AI rate limit reached, serving fallback", "task", task.Kind)
		return Reply{Status: http.StatusOK, Mode: ModeThrottled, Body: task.Fallback(req, FailureThrottled)}, nil
	}

	callCtx := ctx
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	g.logger.Debug("Calling AI provider", "task", task.Kind, "max_tokens", task.MaxTokens)
	text, err := g.provider.Complete(callCtx, task.Prompt(req), task.MaxTokens)
	if err != nil {
		g.logger.Error("AI provider call failed", "task", task.Kind, "error", err)
		return Reply{Status: http.StatusInternalServerError, Mode: ModeFallback, Body: task.Fallback(req, FailureUpstream)}, err
	}

	body, err := parseCompletion(task, text)
	if err == nil {
		return Reply{Status: http.StatusOK, Mode: ModeAI, Body: body}, nil
	}

	if task.Prose != nil {
		g.logger.Info("AI completion is not JSON, returning it as text", "task", task.Kind, "length", len(text))
		return Reply{Status: http.StatusOK, Mode: ModeProse, Body: task.Prose(proseText(text))}, err
	}

	g.logger.Error("Failed to parse AI completion", "task", task.Kind, "error", err, "completion", clip(text, 500))
	return Reply{Status: http.StatusInternalServerError, Mode: ModeFallback, Body: task.Fallback(req, FailureMalformed)}, err
}

func parseCompletion[Req, Resp any](task TaskSpec[Req, Resp], text string) (Resp, error) {
	var zero Resp

	data, err := completionJSON(text)
	if err != nil {
		return zero, err
	}

	out, err := task.Parse(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	return out, nil
}

func (g *Gateway) record(ctx context.Context, kind TaskKind, reply Reply, cause error, elapsed time.Duration) {
	if g.recorder == nil {
		return
	}

	run := &models.TaskRun{
		ID:         utils.GenerateID(),
		Task:       string(kind),
		Mode:       string(reply.Mode),
		Status:     reply.Status,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if cause != nil {
		run.Error = clip(cause.Error(), 1000)
	}

	// Recorded even when the client has disconnected.
	if err := g.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		g.logger.Warn("Failed to record task run", "task", kind, "error", err)
	}
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
