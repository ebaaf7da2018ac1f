// Package dispatch routes interaction events to registered handlers.
package dispatch

import (
	"context"
	"fmt"

	"github.com/user/ocrbot/internal/customid"
	"github.com/user/ocrbot/internal/interaction"
	"github.com/user/ocrbot/internal/options"
)

// OptionDefinition describes one option of a command's schema.
type OptionDefinition struct {
	Name         string
	Description  string
	Type         options.Type
	Required     bool
	Autocomplete bool
	Options      []OptionDefinition
}

// CommandDefinition is the manifest entry of a command.
type CommandDefinition struct {
	Name             string
	Kind             interaction.CommandKind
	Description      string
	Options          []OptionDefinition
	Contexts         []interaction.InstallContext
	IntegrationTypes []interaction.IntegrationType
}

// Command handles slash, user and message commands.
type Command interface {
	Definition() CommandDefinition
	Handle(ctx context.Context, ev *interaction.CommandInvocation, r interaction.Responder) error
}

// Autocompleter is implemented by commands that suggest option values.
type Autocompleter interface {
	Autocomplete(ctx context.Context, ev *interaction.AutocompleteRequest, r interaction.Responder) error
}

// Component handles buttons and select menus whose custom id it matches.
type Component interface {
	Kind() interaction.ComponentKind
	Matcher() customid.Matcher
	Handle(ctx context.Context, ev *interaction.ComponentInteraction, m customid.Match, r interaction.Responder) error
}

// Modal handles modal submissions whose custom id it matches.
type Modal interface {
	Matcher() customid.Matcher
	Handle(ctx context.Context, ev *interaction.ModalSubmission, m customid.Match, r interaction.Responder) error
}

type commandKey struct {
	name string
	kind interaction.CommandKind
}

// Registry is the immutable set of handlers a Router dispatches to.
type Registry struct {
	commands   map[commandKey]Command
	order      []Command
	components []Component
	modals     []Modal
}

// NewRegistry builds a registry. Commands are keyed by name and kind; a
// duplicate key is an error. Components and modals are tried in the order
// given.
func NewRegistry(commands []Command, components []Component, modals []Modal) (*Registry, error) {
	r := &Registry{
		commands:   make(map[commandKey]Command, len(commands)),
		order:      make([]Command, 0, len(commands)),
		components: append([]Component(nil), components...),
		modals:     append([]Modal(nil), modals...),
	}
	for _, c := range commands {
		def := c.Definition()
		if def.Name == "" {
			return nil, fmt.Errorf("command with kind %s has no name", def.Kind)
		}
		key := commandKey{name: def.Name, kind: def.Kind}
		if _, dup := r.commands[key]; dup {
			return nil, fmt.Errorf("duplicate %s command %q", def.Kind, def.Name)
		}
		r.commands[key] = c
		r.order = append(r.order, c)
	}
	return r, nil
}

// Command returns the command registered under name and kind.
func (r *Registry) Command(name string, kind interaction.CommandKind) (Command, bool) {
	c, ok := r.commands[commandKey{name: name, kind: kind}]
	return c, ok
}

// Definitions returns every command's manifest entry in registration order.
func (r *Registry) Definitions() []CommandDefinition {
	out := make([]CommandDefinition, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, c.Definition())
	}
	return out
}

// matchComponent returns the first component of kind whose matcher accepts
// token.
func (r *Registry) matchComponent(kind interaction.ComponentKind, token string) (Component, customid.Match, bool) {
	for _, c := range r.components {
		if c.Kind() != kind {
			continue
		}
		if m, ok := c.Matcher().Match(token); ok {
			return c, m, true
		}
	}
	return nil, customid.Match{}, false
}

// matchModal returns the first modal whose matcher accepts token.
func (r *Registry) matchModal(token string) (Modal, customid.Match, bool) {
	for _, h := range r.modals {
		if m, ok := h.Matcher().Match(token); ok {
			return h, m, true
		}
	}
	return nil, customid.Match{}, false
}

// usableIn reports whether def may run in c. Guild invocations are always
// allowed; anywhere else needs a declared non-guild context.
func usableIn(def CommandDefinition, c interaction.Context) bool {
	if c == interaction.ContextGuild {
		return true
	}
	for _, ic := range def.Contexts {
		if ic != interaction.InstallGuild {
			return true
		}
	}
	return false
}
