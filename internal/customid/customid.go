// Package customid matches the continuation tokens embedded in component and
// modal custom ids.
package customid

import (
	"regexp"
	"strconv"
	"strings"
)

// Separator joins the fields of a continuation token.
const Separator = "|"

// Match holds the named captures of a successful pattern match. Exact
// matchers produce an empty Match.
type Match struct {
	Token    string
	captures map[string]string
}

// Get returns a named capture.
func (m Match) Get(name string) (string, bool) {
	v, ok := m.captures[name]
	return v, ok
}

// Bool decodes a capture holding a numeric flag; any non-zero number is true.
// Missing or non-numeric captures decode as false.
func (m Match) Bool(name string) bool {
	n, ok := m.Int(name)
	return ok && n != 0
}

// Int decodes a numeric capture.
func (m Match) Int(name string) (int, bool) {
	v, ok := m.captures[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Matcher tests a continuation token.
type Matcher interface {
	Match(token string) (Match, bool)
}

type exact string

func (e exact) Match(token string) (Match, bool) {
	if token != string(e) {
		return Match{}, false
	}
	return Match{Token: token}, true
}

// Exact returns a Matcher accepting only token, byte for byte.
func Exact(token string) Matcher {
	return exact(token)
}

type pattern struct {
	re *regexp.Regexp
}

func (p pattern) Match(token string) (Match, bool) {
	sub := p.re.FindStringSubmatch(token)
	if sub == nil {
		return Match{}, false
	}
	m := Match{Token: token, captures: make(map[string]string)}
	for i, name := range p.re.SubexpNames() {
		if name != "" && i < len(sub) {
			m.captures[name] = sub[i]
		}
	}
	return m, true
}

// Pattern returns a Matcher accepting tokens that match re in full. The
// expression is anchored on both ends.
func Pattern(re *regexp.Regexp) Matcher {
	return pattern{re: anchor(re)}
}

// MustPattern compiles expr and returns a Pattern matcher. It panics on an
// invalid expression, so use it for package-level handler declarations.
func MustPattern(expr string) Matcher {
	return Pattern(regexp.MustCompile(expr))
}

func anchor(re *regexp.Regexp) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + re.String() + `)$`)
}

// Join builds a continuation token from its fields.
func Join(parts ...string) string {
	return strings.Join(parts, Separator)
}

// Flag encodes a boolean as the numeric character used in tokens.
func Flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
