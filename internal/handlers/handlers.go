// Package handlers implements the bot's commands, components and modals.
package handlers

import (
	"context"
	"fmt"

	"github.com/user/ocrbot/internal/delivery"
	"github.com/user/ocrbot/internal/dispatch"
	"github.com/user/ocrbot/internal/interaction"
	"github.com/user/ocrbot/internal/ocr"
)

// NoImagesMessage is the reply when an interaction references no images.
const NoImagesMessage = "No images detected"

// Recognizer runs a recognition batch. *ocr.Pipeline satisfies it.
type Recognizer interface {
	RecognizeAll(ctx context.Context, urls []string) ([]ocr.Result, error)
}

// Every command is usable anywhere the app is installed.
var (
	commandContexts = []interaction.InstallContext{
		interaction.InstallBotDM,
		interaction.InstallGuild,
		interaction.InstallPrivateChannel,
	}
	commandIntegrations = []interaction.IntegrationType{
		interaction.IntegrationGuildInstall,
		interaction.IntegrationUserInstall,
	}
)

// Set is the static list of handlers the bot registers.
type Set struct {
	Commands   []dispatch.Command
	Components []dispatch.Component
	Modals     []dispatch.Modal
}

// All returns every handler, wired to rec.
func All(rec Recognizer) Set {
	return Set{
		Commands: []dispatch.Command{
			&RecognizeCommand{rec: rec},
			&MessageCommand{rec: rec},
		},
		Components: []dispatch.Component{
			&BulkOpenButton{},
		},
		Modals: []dispatch.Modal{
			&BulkModal{rec: rec},
		},
	}
}

// Registry builds the dispatch registry for s.
func (s Set) Registry() (*dispatch.Registry, error) {
	return dispatch.NewRegistry(s.Commands, s.Components, s.Modals)
}

// recognizeAndSend runs one batch for an already deferred interaction and
// delivers its results.
func recognizeAndSend(ctx context.Context, rec Recognizer, r interaction.Responder, urls []string, ephemeral bool) error {
	results, err := rec.RecognizeAll(ctx, urls)
	if err != nil {
		return fmt.Errorf("recognize %d image(s): %w", len(urls), err)
	}
	dispatch.Logger(ctx).Debug("delivering results", "results", len(results))
	return delivery.SendResults(ctx, r, results, ephemeral)
}
