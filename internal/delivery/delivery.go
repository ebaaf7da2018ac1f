// Package delivery splits recognition output into platform-sized messages and
// sends them through a Responder.
package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/ocrbot/internal/interaction"
	"github.com/user/ocrbot/internal/ocr"
)

// MaxAttachments is Discord's per-message attachment limit.
const MaxAttachments = 10

// Paginate splits items into consecutive pages of at most size elements. A
// size below 1 is treated as 1. The result is empty for empty input.
func Paginate[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		pages = append(pages, items[start:end])
	}
	return pages
}

// Artifacts turns results into text attachments in result order. Failed
// results are left out and listed in the returned note, which is empty when
// everything succeeded.
func Artifacts(results []ocr.Result) ([]interaction.File, string) {
	files := make([]interaction.File, 0, len(results))
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Name)
			continue
		}
		files = append(files, interaction.File{
			Name:        r.Name,
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(r.Text),
		})
	}
	if len(failed) == 0 {
		return files, ""
	}
	return files, fmt.Sprintf("Could not recognize: %s", strings.Join(failed, ", "))
}

// Send delivers files to an interaction that has already been deferred. The
// first page replaces the deferred response along with content; later pages
// are posted as follow-ups, in order, with the same visibility.
func Send(ctx context.Context, r interaction.Responder, content string, files []interaction.File, ephemeral bool) error {
	pages := Paginate(files, MaxAttachments)
	if len(pages) == 0 {
		return r.Edit(ctx, interaction.Reply{Content: content, Ephemeral: ephemeral})
	}
	for i, page := range pages {
		if i == 0 {
			if err := r.Edit(ctx, interaction.Reply{Content: content, Files: page, Ephemeral: ephemeral}); err != nil {
				return fmt.Errorf("edit reply: %w", err)
			}
			continue
		}
		if err := r.FollowUp(ctx, interaction.Reply{Files: page, Ephemeral: ephemeral}); err != nil {
			return fmt.Errorf("follow up page %d/%d: %w", i+1, len(pages), err)
		}
	}
	return nil
}

// SendResults converts results with Artifacts and delivers them with Send.
func SendResults(ctx context.Context, r interaction.Responder, results []ocr.Result, ephemeral bool) error {
	files, note := Artifacts(results)
	return Send(ctx, r, note, files, ephemeral)
}
