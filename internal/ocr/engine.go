// Package ocr turns a batch of image URLs into named text results.
package ocr

import (
	"context"
	"regexp"

	"github.com/user/ocrbot/internal/errs"
)

// DefaultLanguages are the trained-data sets loaded when none are configured.
var DefaultLanguages = []string{"eng", "chi_sim", "jpn", "kor"}

// Engine creates recognition workers. Workers are expensive to initialise
// and not safe for concurrent use.
type Engine interface {
	NewWorker(ctx context.Context) (Worker, error)
}

// Worker recognises one image at a time.
type Worker interface {
	Recognize(ctx context.Context, image []byte) (string, error)
	Close() error
}

var engineErrorPrefix = regexp.MustCompile(`(?is)^\w*error:\s*(.+)`)

// NormalizeRecognitionMessage strips a leading "...error:" prefix that
// engines put on their messages.
func NormalizeRecognitionMessage(msg string) string {
	if m := engineErrorPrefix.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return msg
}

// RecognitionError converts an engine failure into a Recognition error.
func RecognitionError(err error) *errs.Error {
	if err == nil {
		return nil
	}
	return &errs.Error{
		Code:    errs.Recognition,
		Message: NormalizeRecognitionMessage(err.Error()),
		Wrapped: err,
	}
}
