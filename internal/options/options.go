// Package options flattens a command's option tree into a lookup table.
package options

import (
	"fmt"
	"math"

	"github.com/user/ocrbot/internal/errs"
)

// Type is a command option type. Values match Discord's option type ids.
type Type int

const (
	TypeSubcommand      Type = 1
	TypeSubcommandGroup Type = 2
	TypeString          Type = 3
	TypeInteger         Type = 4
	TypeBoolean         Type = 5
	TypeUser            Type = 6
	TypeChannel         Type = 7
	TypeRole            Type = 8
	TypeMentionable     Type = 9
	TypeNumber          Type = 10
	TypeAttachment      Type = 11
)

var typeNames = map[Type]string{
	TypeSubcommand:      "Subcommand",
	TypeSubcommandGroup: "SubcommandGroup",
	TypeString:          "String",
	TypeInteger:         "Integer",
	TypeBoolean:         "Boolean",
	TypeUser:            "User",
	TypeChannel:         "Channel",
	TypeRole:            "Role",
	TypeMentionable:     "Mentionable",
	TypeNumber:          "Number",
	TypeAttachment:      "Attachment",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Node is one option in the raw tree. Structural nodes (subcommand,
// subcommand group) carry children; leaves carry a value.
type Node struct {
	Name    string
	Type    Type
	Value   any
	Focused bool
	Options []Node
}

// Table is the flattened view of an option tree. Leaf names are unique
// because only one subcommand path is active per invocation.
type Table struct {
	leaves     map[string]Node
	subcommand string
	group      string
	focused    string
}

// Resolve walks nodes and builds a Table. A nil tree yields an empty table.
func Resolve(nodes []Node) *Table {
	t := &Table{leaves: make(map[string]Node)}
	t.walk(nodes)
	return t
}

func (t *Table) walk(nodes []Node) {
	for _, n := range nodes {
		switch n.Type {
		case TypeSubcommand:
			t.subcommand = n.Name
		case TypeSubcommandGroup:
			t.group = n.Name
		default:
			if n.Focused {
				t.focused = n.Name
			}
			t.leaves[n.Name] = n
		}
		if len(n.Options) > 0 {
			t.walk(n.Options)
		}
	}
}

// Subcommand returns the active subcommand name, or "" when there is none.
func (t *Table) Subcommand() string { return t.subcommand }

// Group returns the active subcommand group name, or "".
func (t *Table) Group() string { return t.group }

// Len returns the number of leaves in the table.
func (t *Table) Len() int { return len(t.leaves) }

// Get looks up a leaf by name. An absent optional leaf returns (nil, nil).
// A leaf whose type differs from typ is a schema mismatch and always fails.
func (t *Table) Get(name string, typ Type, required bool) (*Node, error) {
	n, ok := t.leaves[name]
	if !ok {
		if required {
			return nil, errs.Newf(errs.OptionResolution, "unable to find required option: %s", name)
		}
		return nil, nil
	}
	if n.Type != typ {
		return nil, errs.Newf(errs.OptionResolution, "expected option type %s for %s, received %s", typ, name, n.Type).
			WithDetail("option", name)
	}
	return &n, nil
}

// Focused returns the leaf the user is currently typing into. Only
// meaningful for autocomplete requests.
func (t *Table) Focused() (*Node, error) {
	if t.focused == "" {
		return nil, errs.New(errs.OptionResolution, "unable to find focused option")
	}
	n := t.leaves[t.focused]
	return &n, nil
}

// String returns a string leaf's value.
func (t *Table) String(name string, required bool) (string, bool, error) {
	n, err := t.Get(name, TypeString, required)
	if err != nil || n == nil {
		return "", false, err
	}
	s, ok := n.Value.(string)
	if !ok {
		return "", false, valueError(n, "string")
	}
	return s, true, nil
}

// Bool returns a boolean leaf's value.
func (t *Table) Bool(name string, required bool) (bool, bool, error) {
	n, err := t.Get(name, TypeBoolean, required)
	if err != nil || n == nil {
		return false, false, err
	}
	b, ok := n.Value.(bool)
	if !ok {
		return false, false, valueError(n, "bool")
	}
	return b, true, nil
}

// Integer returns an integer leaf's value. JSON-decoded payloads deliver
// integers as float64, which are accepted when integral.
func (t *Table) Integer(name string, required bool) (int64, bool, error) {
	n, err := t.Get(name, TypeInteger, required)
	if err != nil || n == nil {
		return 0, false, err
	}
	switch v := n.Value.(type) {
	case int64:
		return v, true, nil
	case int:
		return int64(v), true, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false, valueError(n, "integer")
		}
		return int64(v), true, nil
	}
	return 0, false, valueError(n, "integer")
}

// Number returns a number leaf's value.
func (t *Table) Number(name string, required bool) (float64, bool, error) {
	n, err := t.Get(name, TypeNumber, required)
	if err != nil || n == nil {
		return 0, false, err
	}
	switch v := n.Value.(type) {
	case float64:
		return v, true, nil
	case int64:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	}
	return 0, false, valueError(n, "number")
}

// Attachment returns an attachment leaf's value, the attachment id used to
// look the attachment up in the interaction's resolved data.
func (t *Table) Attachment(name string, required bool) (string, bool, error) {
	n, err := t.Get(name, TypeAttachment, required)
	if err != nil || n == nil {
		return "", false, err
	}
	id, ok := n.Value.(string)
	if !ok {
		return "", false, valueError(n, "attachment id")
	}
	return id, true, nil
}

func valueError(n *Node, want string) error {
	return errs.Newf(errs.OptionResolution, "option %s: expected %s value, received %T", n.Name, want, n.Value).
		WithDetail("option", n.Name)
}
