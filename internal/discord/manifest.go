package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/user/ocrbot/internal/dispatch"
)

// Manifest converts command definitions to the application command payload.
func Manifest(defs []dispatch.CommandDefinition) []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, d := range defs {
		cmd := &discordgo.ApplicationCommand{
			Type:    discordgo.ApplicationCommandType(d.Kind),
			Name:    d.Name,
			Options: manifestOptions(d.Options),
		}
		// Only chat input commands carry a description.
		if cmd.Type == discordgo.ChatApplicationCommand {
			cmd.Description = d.Description
		}
		if len(d.Contexts) > 0 {
			contexts := make([]discordgo.InteractionContextType, 0, len(d.Contexts))
			for _, c := range d.Contexts {
				contexts = append(contexts, discordgo.InteractionContextType(c))
			}
			cmd.Contexts = &contexts
		}
		if len(d.IntegrationTypes) > 0 {
			types := make([]discordgo.ApplicationIntegrationType, 0, len(d.IntegrationTypes))
			for _, t := range d.IntegrationTypes {
				types = append(types, discordgo.ApplicationIntegrationType(t))
			}
			cmd.IntegrationTypes = &types
		}
		out = append(out, cmd)
	}
	return out
}

func manifestOptions(defs []dispatch.OptionDefinition) []*discordgo.ApplicationCommandOption {
	if len(defs) == 0 {
		return nil
	}
	out := make([]*discordgo.ApplicationCommandOption, 0, len(defs))
	for _, d := range defs {
		out = append(out, &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionType(d.Type),
			Name:         d.Name,
			Description:  d.Description,
			Required:     d.Required,
			Autocomplete: d.Autocomplete,
			Options:      manifestOptions(d.Options),
		})
	}
	return out
}

// Deploy overwrites the application's global commands with defs.
func Deploy(ctx context.Context, s *discordgo.Session, appID string, defs []dispatch.CommandDefinition) ([]*discordgo.ApplicationCommand, error) {
	cmds, err := s.ApplicationCommandBulkOverwrite(appID, "", Manifest(defs), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("overwrite global commands: %w", err)
	}
	return cmds, nil
}
