// internal/types/ids.go
package types

import (
	"strings"

	"github.com/google/uuid"
)

// TraceID correlates the log lines of one dispatched interaction.
type TraceID string

// BatchID identifies one OCR batch.
type BatchID string

func NewTraceID() TraceID {
	return TraceID(uuid.New().String())
}

func NewBatchID() BatchID {
	return BatchID(uuid.New().String())
}

// ShortID returns the first segment of a UUID-shaped identifier, handy for
// compact log output.
func ShortID[T ~string](id T) string {
	s := string(id)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}
