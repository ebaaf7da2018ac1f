package handlers

import (
	"context"

	"github.com/user/ocrbot/internal/dispatch"
	"github.com/user/ocrbot/internal/errs"
	"github.com/user/ocrbot/internal/interaction"
	"github.com/user/ocrbot/internal/options"
)

// Names of the /recognize command and its subcommands.
const (
	RecognizeCommandName = "recognize"
	SubcommandURL        = "url"
	SubcommandImage      = "image"
	SubcommandBulkImage  = "bulk-image"
)

func showOption() dispatch.OptionDefinition {
	return dispatch.OptionDefinition{
		Name:        "show",
		Description: "Show the results. Defaults to false",
		Type:        options.TypeBoolean,
	}
}

// RecognizeCommand is the /recognize slash command.
type RecognizeCommand struct {
	rec Recognizer
}

func (c *RecognizeCommand) Definition() dispatch.CommandDefinition {
	return dispatch.CommandDefinition{
		Name:        RecognizeCommandName,
		Kind:        interaction.CommandChatInput,
		Description: "Recognize text from an image",
		Options: []dispatch.OptionDefinition{
			{
				Name:        SubcommandURL,
				Description: "Recognize text from a URL",
				Type:        options.TypeSubcommand,
				Options: []dispatch.OptionDefinition{
					{Name: "url", Description: "URL to recognize text from", Type: options.TypeString, Required: true},
					showOption(),
				},
			},
			{
				Name:        SubcommandImage,
				Description: "Recognize text from an image",
				Type:        options.TypeSubcommand,
				Options: []dispatch.OptionDefinition{
					{Name: "image", Description: "Image to recognize text from", Type: options.TypeAttachment, Required: true},
					showOption(),
				},
			},
			{
				Name:        SubcommandBulkImage,
				Description: "Recognize text from multiple images",
				Type:        options.TypeSubcommand,
				Options:     []dispatch.OptionDefinition{showOption()},
			},
		},
		Contexts:         commandContexts,
		IntegrationTypes: commandIntegrations,
	}
}

func (c *RecognizeCommand) Handle(ctx context.Context, ev *interaction.CommandInvocation, r interaction.Responder) error {
	table := options.Resolve(ev.Options)
	show, _, err := table.Bool("show", false)
	if err != nil {
		return err
	}

	if table.Subcommand() == SubcommandBulkImage {
		return r.OpenModal(ctx, bulkModal(show))
	}

	url, err := c.target(ev, table)
	if err != nil {
		return err
	}
	if err := r.Defer(ctx, !show); err != nil {
		return err
	}
	return recognizeAndSend(ctx, c.rec, r, []string{url}, !show)
}

// target resolves the single image URL of the url and image subcommands.
// Anything other than image is treated as url.
func (c *RecognizeCommand) target(ev *interaction.CommandInvocation, table *options.Table) (string, error) {
	if table.Subcommand() != SubcommandImage {
		url, _, err := table.String("url", true)
		return url, err
	}
	id, _, err := table.Attachment("image", true)
	if err != nil {
		return "", err
	}
	att, ok := ev.Resolved.Attachments[id]
	if !ok {
		return "", errs.Newf(errs.OptionResolution, "unable to resolve attachment: %s", id)
	}
	return att.URL, nil
}
