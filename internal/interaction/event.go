// Package interaction models inbound platform interactions and the replies
// handlers send back, independent of the Discord client library.
package interaction

import (
	"github.com/user/ocrbot/internal/options"
)

// Context tells where an interaction was invoked.
type Context int

const (
	ContextUnknown Context = iota
	ContextGuild
	ContextDirectMessage
)

func (c Context) String() string {
	switch c {
	case ContextGuild:
		return "guild"
	case ContextDirectMessage:
		return "dm"
	default:
		return "unknown"
	}
}

// InstallContext is a context a command may be declared usable in. Values
// match Discord's interaction context types.
type InstallContext int

const (
	InstallGuild          InstallContext = 0
	InstallBotDM          InstallContext = 1
	InstallPrivateChannel InstallContext = 2
)

// IntegrationType is how the application was installed. Values match
// Discord's application integration types.
type IntegrationType int

const (
	IntegrationGuildInstall IntegrationType = 0
	IntegrationUserInstall  IntegrationType = 1
)

// CommandKind is an application command type.
type CommandKind int

const (
	CommandChatInput CommandKind = 1
	CommandUser      CommandKind = 2
	CommandMessage   CommandKind = 3
)

func (k CommandKind) String() string {
	switch k {
	case CommandChatInput:
		return "ChatInput"
	case CommandUser:
		return "User"
	case CommandMessage:
		return "Message"
	default:
		return "Unknown"
	}
}

// Event is one inbound interaction. The set of implementations is closed:
// *CommandInvocation, *AutocompleteRequest, *ComponentInteraction and
// *ModalSubmission.
type Event interface {
	base() *Base
}

// Base carries the fields common to every event.
type Base struct {
	ID      string
	UserID  string
	Context Context
	// Raw is the platform payload the event was decoded from.
	Raw any
}

func (b *Base) base() *Base { return b }

// BaseOf returns the common fields of e.
func BaseOf(e Event) *Base { return e.base() }

// Attachment is a file attached to a message or command option.
type Attachment struct {
	ID          string
	URL         string
	Filename    string
	ContentType string
}

// Message is a resolved message, as targeted by a message command.
type Message struct {
	ID          string
	Attachments []Attachment
	// EmbedImages holds the image and thumbnail URLs of the message's embeds
	// in embed order, image before thumbnail.
	EmbedImages []string
}

// Resolved holds the entities referenced by command options.
type Resolved struct {
	Attachments map[string]Attachment
	Messages    map[string]Message
}

// CommandInvocation is a slash, user or message command.
type CommandInvocation struct {
	Base
	Name     string
	Kind     CommandKind
	Options  []options.Node
	Resolved Resolved
	TargetID string
}

// AutocompleteRequest asks for suggestions for the focused option.
type AutocompleteRequest struct {
	Base
	Name    string
	Kind    CommandKind
	Options []options.Node
}

// ComponentInteraction is a button press or select menu choice.
type ComponentInteraction struct {
	Base
	CustomID string
	Kind     ComponentKind
	Values   []string
}

// ModalSubmission is a submitted modal form.
type ModalSubmission struct {
	Base
	CustomID   string
	Components []Component
}
