package handlers

import (
	"context"
	"strings"

	"github.com/user/ocrbot/internal/customid"
	"github.com/user/ocrbot/internal/dispatch"
	"github.com/user/ocrbot/internal/errs"
	"github.com/user/ocrbot/internal/interaction"
)

// MessageCommandName is the name of the message context-menu command.
const MessageCommandName = "Recognize text"

// MessageCommand recognises the images of a targeted message. Replies are
// always private.
type MessageCommand struct {
	rec Recognizer
}

func (c *MessageCommand) Definition() dispatch.CommandDefinition {
	return dispatch.CommandDefinition{
		Name:             MessageCommandName,
		Kind:             interaction.CommandMessage,
		Contexts:         commandContexts,
		IntegrationTypes: commandIntegrations,
	}
}

func (c *MessageCommand) Handle(ctx context.Context, ev *interaction.CommandInvocation, r interaction.Responder) error {
	if err := r.Defer(ctx, true); err != nil {
		return err
	}
	msg, ok := ev.Resolved.Messages[ev.TargetID]
	if !ok {
		return errs.Newf(errs.OptionResolution, "unable to resolve target message: %s", ev.TargetID)
	}

	urls := imageURLs(msg)
	if len(urls) == 0 {
		return r.Edit(ctx, interaction.Reply{
			Content:   NoImagesMessage,
			Ephemeral: true,
			Buttons: []interaction.Button{{
				Label:    "Enter image URLs",
				CustomID: customid.Join(BulkOpenPrefix, customid.Flag(false)),
			}},
		})
	}
	return recognizeAndSend(ctx, c.rec, r, urls, true)
}

// imageURLs collects image attachments first, then embed images and
// thumbnails, in message order.
func imageURLs(msg interaction.Message) []string {
	var urls []string
	for _, a := range msg.Attachments {
		if strings.HasPrefix(a.ContentType, "image") {
			urls = append(urls, a.URL)
		}
	}
	return append(urls, msg.EmbedImages...)
}
