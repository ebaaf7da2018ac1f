package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/ocrbot/internal/customid"
	"github.com/user/ocrbot/internal/interaction"
)

const (
	// BulkModalPrefix starts the custom id of the bulk recognition modal.
	BulkModalPrefix = "bulk-image"
	// BulkOpenPrefix starts the custom id of the button that opens it.
	BulkOpenPrefix = "bulk-open"
	// BulkURLInput is the custom id of the modal's URL field.
	BulkURLInput = "bulk-url-input"
	// MaxBulkURLs caps the images of one bulk request.
	MaxBulkURLs = 10
)

var (
	bulkModalPattern = customid.MustPattern(`bulk-image\|(?P<show>\d+)`)
	bulkOpenPattern  = customid.MustPattern(`bulk-open\|(?P<show>\d+)`)
)

func bulkModal(show bool) interaction.Modal {
	return interaction.Modal{
		CustomID: customid.Join(BulkModalPrefix, customid.Flag(show)),
		Title:    "Recognize images",
		Fields: []interaction.TextField{{
			CustomID:    BulkURLInput,
			Label:       "URLs",
			Placeholder: "One URL per line",
			Paragraph:   true,
			Required:    true,
			MaxLength:   4000,
		}},
	}
}

// BulkModal handles submissions of the bulk recognition modal. The show
// flag of its custom id selects public replies.
type BulkModal struct {
	rec Recognizer
}

func (m *BulkModal) Matcher() customid.Matcher { return bulkModalPattern }

func (m *BulkModal) Handle(ctx context.Context, ev *interaction.ModalSubmission, match customid.Match, r interaction.Responder) error {
	ephemeral := !match.Bool("show")
	if err := r.Defer(ctx, ephemeral); err != nil {
		return err
	}
	field, err := interaction.FindModalField(ev.Components, BulkURLInput)
	if err != nil {
		return err
	}

	urls := parseURLs(field.Value)
	switch {
	case len(urls) == 0:
		return r.Edit(ctx, interaction.Reply{Content: NoImagesMessage, Ephemeral: ephemeral})
	case len(urls) > MaxBulkURLs:
		return r.Edit(ctx, interaction.Reply{
			Content:   fmt.Sprintf("Too many URLs: %d given, at most %d allowed", len(urls), MaxBulkURLs),
			Ephemeral: ephemeral,
		})
	}
	return recognizeAndSend(ctx, m.rec, r, urls, ephemeral)
}

// parseURLs splits a field value into one URL per non-blank line.
func parseURLs(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}

// BulkOpenButton opens the bulk modal, keeping the show flag of its custom
// id.
type BulkOpenButton struct{}

func (b *BulkOpenButton) Kind() interaction.ComponentKind { return interaction.ComponentButton }

func (b *BulkOpenButton) Matcher() customid.Matcher { return bulkOpenPattern }

func (b *BulkOpenButton) Handle(ctx context.Context, _ *interaction.ComponentInteraction, match customid.Match, r interaction.Responder) error {
	return r.OpenModal(ctx, bulkModal(match.Bool("show")))
}
