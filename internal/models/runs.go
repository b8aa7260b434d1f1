package models

import "time"

// TaskRun is one audited pass through the AI gateway.
type TaskRun struct {
	ID         string    `json:"id" db:"id"`
	Task       string    `json:"task" db:"task"`
	Mode       string    `json:"mode" db:"mode"`
	Status     int       `json:"status" db:"status"`
	DurationMS int64     `json:"durationMs" db:"duration_ms"`
	Error      string    `json:"error,omitempty" db:"error"`
	CreatedAt  time.Time `json:"createdAt" db:"-"`
}

type TaskRunsResponse struct {
	Runs []TaskRun `json:"runs"`
}

type AIStatus struct {
	Enabled   bool   `json:"enabled"`
	Model     string `json:"model"`
	Provider  string `json:"provider"`
	Timestamp string `json:"timestamp"`
}

type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	AIEnabled bool   `json:"ai_enabled"`
}
