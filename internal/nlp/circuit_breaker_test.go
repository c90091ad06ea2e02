package nlp

import (
	stderrors "errors"
	"testing"
	"time"

	"resumatch/internal/config"

	"github.com/sony/gobreaker/v2"
)

func testBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
}

func TestIndependentCircuitBreakers(t *testing.T) {
	entitiesCB := NewCircuitBreaker[[]byte]("huggingface-entities", testBreakerConfig(), nil)
	similarityCB := NewCircuitBreaker[[]byte]("huggingface-similarity", testBreakerConfig(), nil)

	stats := entitiesCB.Stats()
	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "NLP-huggingface-entities" {
		t.Errorf("Expected circuit breaker name 'NLP-huggingface-entities', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	failure := stderrors.New("remote failure")
	for range 2 {
		_, _ = entitiesCB.Execute(func() ([]byte, error) { return nil, failure })
	}

	if entitiesCB.IsHealthy() {
		t.Error("Entities circuit breaker should be open after repeated failures")
	}
	if !similarityCB.IsHealthy() {
		t.Error("Similarity circuit breaker should not be affected by entities failures")
	}

	_, err := entitiesCB.Execute(func() ([]byte, error) {
		t.Error("Function should not run while the breaker is open")
		return nil, nil
	})
	if !stderrors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected open state error, got %v", err)
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := testBreakerConfig()
	cfg.Enabled = false

	cb := NewCircuitBreaker[[]byte]("disabled", cfg, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	result, err := cb.Execute(func() ([]byte, error) { return []byte("ok"), nil })
	if err != nil || string(result) != "ok" {
		t.Errorf("Nil breaker should execute directly, got %q, %v", result, err)
	}

	if !cb.IsHealthy() {
		t.Error("Nil breaker should report healthy")
	}

	if enabled, _ := cb.Stats()["enabled"].(bool); enabled {
		t.Error("Nil breaker stats should report disabled")
	}
}

func TestCircuitBreakerIgnoresEmptyCounts(t *testing.T) {
	cfg := testBreakerConfig()
	cfg.MinRequests = 0

	cb := NewCircuitBreaker[int]("zero", cfg, nil)
	if _, err := cb.Execute(func() (int, error) { return 1, nil }); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cb.IsHealthy() {
		t.Error("Breaker should stay closed after a success")
	}
}
