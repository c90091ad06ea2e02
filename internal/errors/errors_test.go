package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := stderrors.New("connection reset")

	err := NewRemoteError(ErrCodeRemoteFailed, "entity recognition failed", cause)
	assert.Equal(t, "REMOTE_PROVIDER_FAILED: entity recognition failed (caused by: connection reset)", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewValidationError(ErrCodeInvalidRequest, "resume text is empty", nil)
	assert.Equal(t, "INVALID_REQUEST: resume text is empty", plain.Error())
}

func TestIsType(t *testing.T) {
	scoring := NewScoringError(ErrCodeScoringFailed, "catalog invalid", nil)
	wrapped := fmt.Errorf("score command: %w", scoring)

	assert.True(t, IsType(wrapped, ErrorTypeScoring))
	assert.True(t, IsScoringFailure(wrapped))
	assert.False(t, IsType(wrapped, ErrorTypeRemote))
	assert.False(t, IsScoringFailure(stderrors.New("plain")))
	assert.False(t, IsScoringFailure(nil))
}

func TestWithContext(t *testing.T) {
	err := NewIOError(ErrCodeFileNotFound, "file not found", nil).
		WithContext("path", "resume.txt").
		WithContext("size", 12)

	assert.Equal(t, map[string]any{"path": "resume.txt", "size": 12}, err.Context)
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	_, err := New("trace")
	assert.Error(t, err)
}

func TestLogErrorIncludesAppErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	appErr := NewRemoteError(ErrCodeCircuitOpen, "breaker open", stderrors.New("open state")).
		WithContext("operation", "similarity")
	logger.LogError(appErr, "remote call skipped", "provider", "huggingface")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "remote call skipped", record["msg"])
	assert.Equal(t, "remote", record["error_type"])
	assert.Equal(t, ErrCodeCircuitOpen, record["error_code"])
	assert.Equal(t, "open state", record["cause"])
	assert.Equal(t, "similarity", record["operation"])
	assert.Equal(t, "huggingface", record["provider"])
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger().With("component", "test")
	assert.NotPanics(t, func() {
		logger.Info("ignored")
		logger.LogError(stderrors.New("boom"), "ignored")
	})
}
