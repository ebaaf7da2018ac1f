package interaction

import (
	"github.com/user/ocrbot/internal/errs"
)

// ComponentKind is a message component type. Values match Discord's
// component type ids.
type ComponentKind int

const (
	ComponentActionRow     ComponentKind = 1
	ComponentButton        ComponentKind = 2
	ComponentStringSelect  ComponentKind = 3
	ComponentTextInput     ComponentKind = 4
	ComponentUserSelect    ComponentKind = 5
	ComponentRoleSelect    ComponentKind = 6
	ComponentMentionSelect ComponentKind = 7
	ComponentChannelSelect ComponentKind = 8
)

func (k ComponentKind) String() string {
	switch k {
	case ComponentActionRow:
		return "ActionRow"
	case ComponentButton:
		return "Button"
	case ComponentStringSelect:
		return "StringSelect"
	case ComponentTextInput:
		return "TextInput"
	case ComponentUserSelect:
		return "UserSelect"
	case ComponentRoleSelect:
		return "RoleSelect"
	case ComponentMentionSelect:
		return "MentionableSelect"
	case ComponentChannelSelect:
		return "ChannelSelect"
	default:
		return "Unknown"
	}
}

// Component is a node of a submitted or rendered component tree.
type Component struct {
	Kind     ComponentKind
	CustomID string
	Value    string
	Values   []string
	Children []Component
}

// findComponent searches the tree depth-first for the component with
// customID. A component found with a different kind is a
// ComponentResolution error.
func findComponent(components []Component, customID string, kind ComponentKind) (*Component, error) {
	for i := range components {
		c := &components[i]
		if c.CustomID == customID && c.Kind != ComponentActionRow {
			if c.Kind != kind {
				return nil, errs.Newf(errs.ComponentResolution, "expected component type %s for %s, received %s", kind, customID, c.Kind)
			}
			return c, nil
		}
		if len(c.Children) > 0 {
			found, err := findComponent(c.Children, customID, kind)
			if found != nil || err != nil {
				return found, err
			}
		}
	}
	return nil, nil
}

// FindModalField returns the text input with customID from a modal
// submission. Missing fields and fields of another kind are
// ModalFieldResolution errors.
func FindModalField(components []Component, customID string) (*Component, error) {
	c, err := findComponent(components, customID, ComponentTextInput)
	if err != nil {
		return nil, errs.Wrapf(err, errs.ModalFieldResolution, "modal field is not of type %s: %s", ComponentTextInput, customID)
	}
	if c == nil {
		return nil, errs.Newf(errs.ModalFieldResolution, "unable to find modal field: %s", customID)
	}
	return c, nil
}
