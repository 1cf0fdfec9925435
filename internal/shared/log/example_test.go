package log

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// Example usage of the context-aware logger
func ExampleL() {
	// Initialize logger for testing
	_ = Init("info")

	// Create base context
	ctx := context.Background()

	// Add request-scoped fields to context
	ctx = WithPropertyID(ctx, "prop123")
	ctx = WithRequestID(ctx, "req456")
	ctx = WithTraceID(ctx, "trace789")

	// Log with context - will include property_id, request_id, and trace_id
	L(ctx).Info("Resolving calendar prices",
		zap.String("room_type_id", "deluxe"),
		zap.Int("days", 31))

	// Using convenience functions
	Info(ctx, "Bulk adjustment committed",
		zap.Int("rules", 42),
		zap.String("reason", "summer season"))

	Error(ctx, "Import failed",
		zap.String("file", "rules.csv"),
		zap.String("error", "missing Price column"))
}

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	ctx = WithPropertyID(ctx, "test_property")
	if propertyID := ctx.Value(PropertyIDKey); propertyID != "test_property" {
		t.Errorf("Expected property_id to be 'test_property', got %v", propertyID)
	}

	ctx = WithRequestID(ctx, "test_request")
	if requestID := ctx.Value(RequestIDKey); requestID != "test_request" {
		t.Errorf("Expected request_id to be 'test_request', got %v", requestID)
	}

	ctx = WithTraceID(ctx, "test_trace")
	if traceID := ctx.Value(TraceIDKey); traceID != "test_trace" {
		t.Errorf("Expected trace_id to be 'test_trace', got %v", traceID)
	}
}
