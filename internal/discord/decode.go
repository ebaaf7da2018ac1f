package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/user/ocrbot/internal/errs"
	"github.com/user/ocrbot/internal/interaction"
	"github.com/user/ocrbot/internal/options"
)

// Decode converts a gateway interaction into an interaction.Event.
func Decode(i *discordgo.Interaction) (interaction.Event, error) {
	base := interaction.Base{
		ID:      i.ID,
		UserID:  userID(i),
		Context: contextOf(i),
		Raw:     i,
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		return &interaction.CommandInvocation{
			Base:     base,
			Name:     data.Name,
			Kind:     interaction.CommandKind(data.CommandType),
			Options:  decodeOptions(data.Options),
			Resolved: decodeResolved(data.Resolved),
			TargetID: data.TargetID,
		}, nil

	case discordgo.InteractionApplicationCommandAutocomplete:
		data := i.ApplicationCommandData()
		return &interaction.AutocompleteRequest{
			Base:    base,
			Name:    data.Name,
			Kind:    interaction.CommandKind(data.CommandType),
			Options: decodeOptions(data.Options),
		}, nil

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		return &interaction.ComponentInteraction{
			Base:     base,
			CustomID: data.CustomID,
			Kind:     interaction.ComponentKind(data.ComponentType),
			Values:   data.Values,
		}, nil

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		components, err := decodeComponents(data.Components)
		if err != nil {
			return nil, err
		}
		return &interaction.ModalSubmission{
			Base:       base,
			CustomID:   data.CustomID,
			Components: components,
		}, nil
	}
	return nil, errs.Newf(errs.InvalidInput, "unsupported interaction type %d", i.Type)
}

func userID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// contextOf derives where the interaction happened. Guild interactions carry
// a guild id; direct messages carry only a user.
func contextOf(i *discordgo.Interaction) interaction.Context {
	switch {
	case i.GuildID != "":
		return interaction.ContextGuild
	case i.User != nil:
		return interaction.ContextDirectMessage
	default:
		return interaction.ContextUnknown
	}
}

func decodeOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) []options.Node {
	if len(opts) == 0 {
		return nil
	}
	nodes := make([]options.Node, 0, len(opts))
	for _, o := range opts {
		if o == nil {
			continue
		}
		nodes = append(nodes, options.Node{
			Name:    o.Name,
			Type:    options.Type(o.Type),
			Value:   o.Value,
			Focused: o.Focused,
			Options: decodeOptions(o.Options),
		})
	}
	return nodes
}

func decodeResolved(r *discordgo.ApplicationCommandInteractionDataResolved) interaction.Resolved {
	var out interaction.Resolved
	if r == nil {
		return out
	}
	if len(r.Attachments) > 0 {
		out.Attachments = make(map[string]interaction.Attachment, len(r.Attachments))
		for id, a := range r.Attachments {
			if a != nil {
				out.Attachments[id] = decodeAttachment(a)
			}
		}
	}
	if len(r.Messages) > 0 {
		out.Messages = make(map[string]interaction.Message, len(r.Messages))
		for id, m := range r.Messages {
			if m != nil {
				out.Messages[id] = decodeMessage(m)
			}
		}
	}
	return out
}

func decodeAttachment(a *discordgo.MessageAttachment) interaction.Attachment {
	return interaction.Attachment{
		ID:          a.ID,
		URL:         a.URL,
		Filename:    a.Filename,
		ContentType: a.ContentType,
	}
}

func decodeMessage(m *discordgo.Message) interaction.Message {
	msg := interaction.Message{ID: m.ID}
	for _, a := range m.Attachments {
		if a != nil {
			msg.Attachments = append(msg.Attachments, decodeAttachment(a))
		}
	}
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		if e.Image != nil && e.Image.URL != "" {
			msg.EmbedImages = append(msg.EmbedImages, e.Image.URL)
		}
		if e.Thumbnail != nil && e.Thumbnail.URL != "" {
			msg.EmbedImages = append(msg.EmbedImages, e.Thumbnail.URL)
		}
	}
	return msg
}

func decodeComponents(cs []discordgo.MessageComponent) ([]interaction.Component, error) {
	out := make([]interaction.Component, 0, len(cs))
	for _, c := range cs {
		d, err := decodeComponent(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeComponent(c discordgo.MessageComponent) (interaction.Component, error) {
	switch v := c.(type) {
	case *discordgo.ActionsRow:
		children, err := decodeComponents(v.Components)
		return interaction.Component{Kind: interaction.ComponentActionRow, Children: children}, err
	case discordgo.ActionsRow:
		children, err := decodeComponents(v.Components)
		return interaction.Component{Kind: interaction.ComponentActionRow, Children: children}, err
	case *discordgo.TextInput:
		return interaction.Component{Kind: interaction.ComponentTextInput, CustomID: v.CustomID, Value: v.Value}, nil
	case discordgo.TextInput:
		return interaction.Component{Kind: interaction.ComponentTextInput, CustomID: v.CustomID, Value: v.Value}, nil
	case *discordgo.SelectMenu:
		return interaction.Component{Kind: interaction.ComponentKind(v.Type()), CustomID: v.CustomID}, nil
	case *discordgo.Button:
		return interaction.Component{Kind: interaction.ComponentButton, CustomID: v.CustomID}, nil
	case nil:
		return interaction.Component{}, errs.New(errs.ComponentResolution, "missing component")
	}
	return interaction.Component{}, errs.Newf(errs.ComponentResolution, "unsupported component type %d", c.Type())
}
