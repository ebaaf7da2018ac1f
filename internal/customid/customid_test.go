package customid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExact(t *testing.T) {
	m := Exact("bulk-open")

	for token, want := range map[string]bool{
		"bulk-open":   true,
		"bulk-open ":  false,
		"Bulk-open":   false,
		"bulk-open|1": false,
		"":            false,
	} {
		_, ok := m.Match(token)
		assert.Equal(t, want, ok, "token %q", token)
	}
}

func TestPatternCaptures(t *testing.T) {
	m := MustPattern(`^bulk-image\|(?P<show>\d+)$`)

	match, ok := m.Match("bulk-image|1")
	require.True(t, ok)
	assert.True(t, match.Bool("show"))
	v, ok := match.Get("show")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	match, ok = m.Match("bulk-image|0")
	require.True(t, ok)
	assert.False(t, match.Bool("show"))

	_, ok = m.Match("bulk-image|x")
	assert.False(t, ok)
}

func TestPatternRequiresFullToken(t *testing.T) {
	// Unanchored expressions still only match the whole token.
	m := Pattern(regexp.MustCompile(`bulk-image\|(?P<show>\d)`))

	_, ok := m.Match("bulk-image|1")
	assert.True(t, ok)
	_, ok = m.Match("xbulk-image|1")
	assert.False(t, ok)
	_, ok = m.Match("bulk-image|12")
	assert.False(t, ok)
}

func TestMatchInt(t *testing.T) {
	match, ok := MustPattern(`page\|(?P<n>\d+)`).Match("page|12")
	require.True(t, ok)

	n, ok := match.Int("n")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = match.Int("missing")
	assert.False(t, ok)
	assert.False(t, match.Bool("missing"))
}

func TestJoinAndFlag(t *testing.T) {
	assert.Equal(t, "bulk-image|1", Join("bulk-image", Flag(true)))
	assert.Equal(t, "bulk-open|0", Join("bulk-open", Flag(false)))
}
