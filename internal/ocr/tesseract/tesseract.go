// Package tesseract implements ocr.Engine on top of the gosseract client.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/user/ocrbot/internal/ocr"
)

// Engine creates gosseract-backed workers loaded with a fixed language set.
type Engine struct {
	languages     []string
	tessdataDir   string
	clientFactory func() *gosseract.Client
}

// New constructs an Engine. An empty languages slice selects
// ocr.DefaultLanguages; an empty tessdataDir uses the library default.
func New(languages []string, tessdataDir string) *Engine {
	if len(languages) == 0 {
		languages = ocr.DefaultLanguages
	}
	return &Engine{
		languages:     languages,
		tessdataDir:   tessdataDir,
		clientFactory: gosseract.NewClient,
	}
}

// Languages returns the configured trained-data sets.
func (e *Engine) Languages() []string { return e.languages }

// NewWorker opens a client and loads the language set once for the batch.
func (e *Engine) NewWorker(ctx context.Context) (ocr.Worker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := e.clientFactory()
	if e.tessdataDir != "" {
		if err := c.SetTessdataPrefix(e.tessdataDir); err != nil {
			c.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		c.Close()
		return nil, fmt.Errorf("set languages: %w", err)
	}
	return &worker{client: c}, nil
}

type worker struct {
	client *gosseract.Client
}

func (w *worker) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := w.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := w.client.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (w *worker) Close() error {
	return w.client.Close()
}
