package discord

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/user/ocrbot/internal/interaction"
)

// restClient is the subset of *discordgo.Session used to answer
// interactions.
type restClient interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Responder answers one interaction over the REST API.
type Responder struct {
	client      restClient
	interaction *discordgo.Interaction
	acked       atomic.Bool
}

var _ interaction.Responder = (*Responder)(nil)

// NewResponder creates a Responder for i.
func NewResponder(client restClient, i *discordgo.Interaction) *Responder {
	return &Responder{client: client, interaction: i}
}

func (r *Responder) respond(ctx context.Context, resp *discordgo.InteractionResponse) error {
	if r.acked.Load() {
		return fmt.Errorf("interaction %s already acknowledged", r.interaction.ID)
	}
	if err := r.client.InteractionRespond(r.interaction, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("respond to interaction: %w", err)
	}
	r.acked.Store(true)
	return nil
}

func (r *Responder) Defer(ctx context.Context, ephemeral bool) error {
	return r.respond(ctx, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags(ephemeral)},
	})
}

func (r *Responder) Reply(ctx context.Context, rep interaction.Reply) error {
	return r.respond(ctx, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    rep.Content,
			Files:      files(rep.Files),
			Components: buttons(rep.Buttons),
			Flags:      flags(rep.Ephemeral),
		},
	})
}

func (r *Responder) OpenModal(ctx context.Context, m interaction.Modal) error {
	rows := make([]discordgo.MessageComponent, 0, len(m.Fields))
	for _, f := range m.Fields {
		style := discordgo.TextInputShort
		if f.Paragraph {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    f.CustomID,
				Label:       f.Label,
				Style:       style,
				Placeholder: f.Placeholder,
				Required:    f.Required,
				MaxLength:   f.MaxLength,
			},
		}})
	}
	return r.respond(ctx, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   m.CustomID,
			Title:      m.Title,
			Components: rows,
		},
	})
}

func (r *Responder) Suggest(ctx context.Context, choices []interaction.Choice) error {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, c := range choices {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value})
	}
	return r.respond(ctx, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: out},
	})
}

// Edit replaces the original response. Visibility is fixed by the original
// response, so rep.Ephemeral is ignored.
func (r *Responder) Edit(ctx context.Context, rep interaction.Reply) error {
	edit := &discordgo.WebhookEdit{Files: files(rep.Files)}
	if rep.Content != "" {
		edit.Content = &rep.Content
	}
	if comps := buttons(rep.Buttons); comps != nil {
		edit.Components = &comps
	}
	if _, err := r.client.InteractionResponseEdit(r.interaction, edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit interaction response: %w", err)
	}
	return nil
}

func (r *Responder) FollowUp(ctx context.Context, rep interaction.Reply) error {
	params := &discordgo.WebhookParams{
		Content:    rep.Content,
		Files:      files(rep.Files),
		Components: buttons(rep.Buttons),
		Flags:      flags(rep.Ephemeral),
	}
	if _, err := r.client.FollowupMessageCreate(r.interaction, true, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("create follow-up message: %w", err)
	}
	return nil
}

func (r *Responder) Acknowledged() bool { return r.acked.Load() }

func flags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func files(in []interaction.File) []*discordgo.File {
	if len(in) == 0 {
		return nil
	}
	out := make([]*discordgo.File, 0, len(in))
	for _, f := range in {
		out = append(out, &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}
	return out
}

func buttons(in []interaction.Button) []discordgo.MessageComponent {
	if len(in) == 0 {
		return nil
	}
	row := make([]discordgo.MessageComponent, 0, len(in))
	for _, b := range in {
		row = append(row, discordgo.Button{
			Label:    b.Label,
			Style:    discordgo.PrimaryButton,
			CustomID: b.CustomID,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: row}}
}
