package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeRemote     ErrorType = "remote"
	ErrorTypeScoring    ErrorType = "scoring"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different types
func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

// NewRemoteError describes a failed call to a remote entity or similarity model.
// These never leave the scoring engine; they select the local fallback instead.
func NewRemoteError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeRemote, code, message, cause)
}

// NewScoringError is the single opaque failure returned by the scoring engine.
func NewScoringError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeScoring, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, typ ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == typ
	}
	return false
}

// IsScoringFailure reports whether err is the engine's ScoringFailure.
func IsScoringFailure(err error) bool {
	return IsType(err, ErrorTypeScoring)
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stderr, opts)
	logger := slog.New(handler)

	return &Logger{logger: logger}
}

// NewDiscardLogger returns a logger that drops every record. Useful in tests.
func NewDiscardLogger() *Logger {
	return &Logger{logger: slog.New(slog.DiscardHandler)}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}
		if appErr.Cause != nil {
			logArgs = append(logArgs, "cause", appErr.Cause.Error())
		}

		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}

		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
	} else {
		logArgs := append([]any{"error", err.Error()}, args...)
		l.logger.Error(message, logArgs...)
	}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// With returns a logger that adds the given attributes to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeFileNotFound       = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable    = "FILE_NOT_READABLE"
	ErrCodeFileTooLarge       = "FILE_TOO_LARGE"
	ErrCodeInvalidFormat      = "INVALID_FORMAT"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidConfig      = "INVALID_CONFIG"
	ErrCodeRemoteFailed       = "REMOTE_PROVIDER_FAILED"
	ErrCodeRemoteTimeout      = "REMOTE_TIMEOUT"
	ErrCodeMalformedPayload   = "MALFORMED_PAYLOAD"
	ErrCodeCircuitOpen        = "CIRCUIT_OPEN"
	ErrCodeProviderDisabled   = "PROVIDER_DISABLED"
	ErrCodeScoringFailed      = "SCORING_FAILED"
	ErrCodeInvalidCatalog     = "INVALID_CATALOG"
	ErrCodeUnsupportedBackend = "UNSUPPORTED_PROVIDER"
)
