package interaction

import "context"

// File is an in-memory attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Button is a clickable control whose CustomID carries a continuation token.
type Button struct {
	Label    string
	CustomID string
}

// Reply is an outbound message.
type Reply struct {
	Content   string
	Files     []File
	Buttons   []Button
	Ephemeral bool
}

// TextField is a text input rendered in a modal.
type TextField struct {
	CustomID    string
	Label       string
	Placeholder string
	Paragraph   bool
	Required    bool
	MaxLength   int
}

// Modal is a form shown in response to a command or component.
type Modal struct {
	CustomID string
	Title    string
	Fields   []TextField
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string
	Value any
}

// Responder sends replies for a single interaction. Every interaction must
// be answered exactly once with Defer, Reply, OpenModal or Suggest; Edit and
// FollowUp are only valid afterwards.
type Responder interface {
	// Defer acknowledges the interaction and shows a loading state.
	Defer(ctx context.Context, ephemeral bool) error
	// Reply answers the interaction immediately.
	Reply(ctx context.Context, r Reply) error
	// Edit replaces the original (deferred) response.
	Edit(ctx context.Context, r Reply) error
	// FollowUp posts an additional message after the original response.
	FollowUp(ctx context.Context, r Reply) error
	// OpenModal answers the interaction with a modal form.
	OpenModal(ctx context.Context, m Modal) error
	// Suggest answers an autocomplete request.
	Suggest(ctx context.Context, choices []Choice) error
	// Acknowledged reports whether the interaction has been answered.
	Acknowledged() bool
}
