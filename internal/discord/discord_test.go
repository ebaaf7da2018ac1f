package discord

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ocrbot/internal/dispatch"
	"github.com/user/ocrbot/internal/errs"
	"github.com/user/ocrbot/internal/interaction"
	"github.com/user/ocrbot/internal/options"
)

func TestDecodeSlashCommand(t *testing.T) {
	i := &discordgo.Interaction{
		ID:      "1",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "g1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "u1"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        "recognize",
			CommandType: discordgo.ChatApplicationCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name: "image",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "image", Type: discordgo.ApplicationCommandOptionAttachment, Value: "a1"},
					{Name: "show", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
				},
			}},
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Attachments: map[string]*discordgo.MessageAttachment{
					"a1": {ID: "a1", URL: "https://cdn/a.png", Filename: "a.png", ContentType: "image/png"},
				},
			},
		},
	}

	ev, err := Decode(i)
	require.NoError(t, err)
	cmd, ok := ev.(*interaction.CommandInvocation)
	require.True(t, ok)
	assert.Equal(t, "u1", cmd.UserID)
	assert.Equal(t, interaction.ContextGuild, cmd.Context)
	assert.Equal(t, interaction.CommandChatInput, cmd.Kind)
	assert.Same(t, i, cmd.Raw)

	table := options.Resolve(cmd.Options)
	assert.Equal(t, "image", table.Subcommand())
	id, ok, err := table.Attachment("image", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://cdn/a.png", cmd.Resolved.Attachments[id].URL)
}

func TestDecodeMessageCommandInDM(t *testing.T) {
	i := &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		User: &discordgo.User{ID: "u2"},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        "Recognize text",
			CommandType: discordgo.MessageApplicationCommand,
			TargetID:    "m1",
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Messages: map[string]*discordgo.Message{
					"m1": {
						ID:          "m1",
						Attachments: []*discordgo.MessageAttachment{{URL: "https://cdn/x.png", ContentType: "image/png"}},
						Embeds: []*discordgo.MessageEmbed{
							{Image: &discordgo.MessageEmbedImage{URL: "https://e/1.png"}, Thumbnail: &discordgo.MessageEmbedThumbnail{URL: "https://e/t.png"}},
							{Title: "text only"},
						},
					},
				},
			},
		},
	}

	ev, err := Decode(i)
	require.NoError(t, err)
	cmd := ev.(*interaction.CommandInvocation)
	assert.Equal(t, interaction.ContextDirectMessage, cmd.Context)
	assert.Equal(t, "u2", cmd.UserID)
	assert.Equal(t, interaction.CommandMessage, cmd.Kind)
	msg := cmd.Resolved.Messages[cmd.TargetID]
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, []string{"https://e/1.png", "https://e/t.png"}, msg.EmbedImages)
}

func TestDecodeComponentAndModal(t *testing.T) {
	ev, err := Decode(&discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "bulk-open|0", ComponentType: discordgo.ButtonComponent},
	})
	require.NoError(t, err)
	comp := ev.(*interaction.ComponentInteraction)
	assert.Equal(t, interaction.ComponentButton, comp.Kind)
	assert.Equal(t, interaction.ContextUnknown, comp.Context)

	ev, err = Decode(&discordgo.Interaction{
		Type:    discordgo.InteractionModalSubmit,
		GuildID: "g",
		Data: discordgo.ModalSubmitInteractionData{
			CustomID: "bulk-image|1",
			Components: []discordgo.MessageComponent{
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: "bulk-url-input", Value: "https://x/a.png"},
				}},
			},
		},
	})
	require.NoError(t, err)
	modal := ev.(*interaction.ModalSubmission)
	field, err := interaction.FindModalField(modal.Components, "bulk-url-input")
	require.NoError(t, err)
	assert.Equal(t, "https://x/a.png", field.Value)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(&discordgo.Interaction{Type: discordgo.InteractionPing})
	assert.True(t, errs.IsCode(err, errs.InvalidInput))

	_, err = Decode(&discordgo.Interaction{
		Type: discordgo.InteractionModalSubmit,
		Data: discordgo.ModalSubmitInteractionData{Components: []discordgo.MessageComponent{nil}},
	})
	assert.True(t, errs.IsCode(err, errs.ComponentResolution))
}

type fakeREST struct {
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followUps []*discordgo.WebhookParams
	err       error
}

func (f *fakeREST) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if f.err != nil {
		return f.err
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeREST) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeREST) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followUps = append(f.followUps, data)
	return &discordgo.Message{}, nil
}

func TestResponderDeferEditFollowUp(t *testing.T) {
	rest := &fakeREST{}
	r := NewResponder(rest, &discordgo.Interaction{ID: "1"})
	ctx := context.Background()

	assert.False(t, r.Acknowledged())
	require.NoError(t, r.Defer(ctx, true))
	assert.True(t, r.Acknowledged())
	require.Len(t, rest.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, rest.responses[0].Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, rest.responses[0].Data.Flags)

	assert.Error(t, r.Defer(ctx, true), "an interaction is answered once")

	require.NoError(t, r.Edit(ctx, interaction.Reply{
		Content: "No images detected",
		Buttons: []interaction.Button{{Label: "Enter image URLs", CustomID: "bulk-open|0"}},
	}))
	require.Len(t, rest.edits, 1)
	require.NotNil(t, rest.edits[0].Content)
	assert.Equal(t, "No images detected", *rest.edits[0].Content)
	require.NotNil(t, rest.edits[0].Components)
	assert.Len(t, *rest.edits[0].Components, 1)

	require.NoError(t, r.FollowUp(ctx, interaction.Reply{
		Files:     []interaction.File{{Name: "0_a.png.txt", Data: []byte("hello")}},
		Ephemeral: true,
	}))
	require.Len(t, rest.followUps, 1)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, rest.followUps[0].Flags)
	require.Len(t, rest.followUps[0].Files, 1)
	body, err := io.ReadAll(rest.followUps[0].Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestResponderEditWithoutContent(t *testing.T) {
	rest := &fakeREST{}
	r := NewResponder(rest, &discordgo.Interaction{})
	require.NoError(t, r.Edit(context.Background(), interaction.Reply{Files: []interaction.File{{Name: "a.txt"}}}))
	assert.Nil(t, rest.edits[0].Content)
	assert.Nil(t, rest.edits[0].Components)
	assert.Len(t, rest.edits[0].Files, 1)
}

func TestResponderModalAndSuggest(t *testing.T) {
	rest := &fakeREST{}
	r := NewResponder(rest, &discordgo.Interaction{})
	require.NoError(t, r.OpenModal(context.Background(), interaction.Modal{
		CustomID: "bulk-image|0",
		Title:    "Recognize images",
		Fields:   []interaction.TextField{{CustomID: "bulk-url-input", Label: "URLs", Paragraph: true}},
	}))
	resp := rest.responses[0]
	assert.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	assert.Equal(t, "bulk-image|0", resp.Data.CustomID)
	require.Len(t, resp.Data.Components, 1)
	row := resp.Data.Components[0].(discordgo.ActionsRow)
	input := row.Components[0].(discordgo.TextInput)
	assert.Equal(t, discordgo.TextInputParagraph, input.Style)

	rest = &fakeREST{}
	r = NewResponder(rest, &discordgo.Interaction{})
	require.NoError(t, r.Suggest(context.Background(), []interaction.Choice{{Name: "English", Value: "eng"}}))
	assert.Equal(t, discordgo.InteractionApplicationCommandAutocompleteResult, rest.responses[0].Type)
	assert.Equal(t, "eng", rest.responses[0].Data.Choices[0].Value)
}

func TestResponderRespondError(t *testing.T) {
	r := NewResponder(&fakeREST{err: errors.New("unknown interaction")}, &discordgo.Interaction{})
	require.Error(t, r.Reply(context.Background(), interaction.Reply{Content: "hi"}))
	assert.False(t, r.Acknowledged())
}

func TestManifest(t *testing.T) {
	cmds := Manifest([]dispatch.CommandDefinition{
		{
			Name:        "recognize",
			Kind:        interaction.CommandChatInput,
			Description: "Recognize text from an image",
			Options: []dispatch.OptionDefinition{{
				Name: "url", Type: options.TypeSubcommand, Description: "Recognize text from a URL",
				Options: []dispatch.OptionDefinition{{Name: "url", Type: options.TypeString, Required: true}},
			}},
			Contexts:         []interaction.InstallContext{interaction.InstallBotDM, interaction.InstallGuild, interaction.InstallPrivateChannel},
			IntegrationTypes: []interaction.IntegrationType{interaction.IntegrationGuildInstall, interaction.IntegrationUserInstall},
		},
		{Name: "Recognize text", Kind: interaction.CommandMessage, Description: "ignored"},
	})
	require.Len(t, cmds, 2)

	slash := cmds[0]
	assert.Equal(t, discordgo.ChatApplicationCommand, slash.Type)
	assert.Equal(t, "Recognize text from an image", slash.Description)
	require.Len(t, slash.Options, 1)
	assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, slash.Options[0].Type)
	assert.Equal(t, discordgo.ApplicationCommandOptionString, slash.Options[0].Options[0].Type)
	assert.True(t, slash.Options[0].Options[0].Required)
	require.NotNil(t, slash.Contexts)
	assert.Equal(t, []discordgo.InteractionContextType{
		discordgo.InteractionContextBotDM, discordgo.InteractionContextGuild, discordgo.InteractionContextPrivateChannel,
	}, *slash.Contexts)
	require.NotNil(t, slash.IntegrationTypes)
	assert.Equal(t, []discordgo.ApplicationIntegrationType{
		discordgo.ApplicationIntegrationGuildInstall, discordgo.ApplicationIntegrationUserInstall,
	}, *slash.IntegrationTypes)

	msg := cmds[1]
	assert.Equal(t, discordgo.MessageApplicationCommand, msg.Type)
	assert.Empty(t, msg.Description)
	assert.Nil(t, msg.Contexts)
}

func TestPresence(t *testing.T) {
	p := Presence(DefaultActivities)
	assert.Equal(t, "online", p.Status)
	require.Len(t, p.Activities, 1)
	assert.Equal(t, discordgo.ActivityTypeCustom, p.Activities[0].Type)
	assert.Equal(t, "Having a bad time", p.Activities[0].State)

	assert.Empty(t, Presence(nil).Activities)
}

type recordingDispatcher struct {
	events []interaction.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev interaction.Event, _ interaction.Responder) {
	d.events = append(d.events, ev)
}

func TestAdapterDispatchesDecodedInteractions(t *testing.T) {
	d := &recordingDispatcher{}
	a, err := New("token", d)
	require.NoError(t, err)

	a.onInteraction(a.Session(), &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "bulk-open|1", ComponentType: discordgo.ButtonComponent},
	}})
	a.onInteraction(a.Session(), &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}})
	require.Len(t, d.events, 1)
	assert.Equal(t, "bulk-open|1", d.events[0].(*interaction.ComponentInteraction).CustomID)
}
