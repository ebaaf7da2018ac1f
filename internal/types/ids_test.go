// internal/types/ids_test.go
package types

import (
	"testing"
)

func TestNewTraceID(t *testing.T) {
	id := NewTraceID()
	if id == "" {
		t.Error("expected non-empty TraceID")
	}
	if len(string(id)) != 36 {
		t.Errorf("expected UUID format, got %s", id)
	}
	if NewTraceID() == id {
		t.Error("expected distinct trace IDs")
	}
}

func TestNewBatchID(t *testing.T) {
	if len(string(NewBatchID())) != 36 {
		t.Error("expected UUID format")
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID(TraceID("1b4e28ba-2fa1-11d2-883f-0016d3cca427")); got != "1b4e28ba" {
		t.Errorf("expected '1b4e28ba', got %q", got)
	}
	if got := ShortID(BatchID("plain")); got != "plain" {
		t.Errorf("expected 'plain', got %q", got)
	}
}
