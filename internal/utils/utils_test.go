package utils

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusAndMessage(t *testing.T) {
	status, msg := StatusAndMessage(NewBadRequestError("topic is required"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "topic is required", msg)

	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("missing"))
	status, msg = StatusAndMessage(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "missing", msg)

	status, msg = StatusAndMessage(errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", msg)
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "warn")

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown", "task", "insights")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"task":"insights"`)
}
