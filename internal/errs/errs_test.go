package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New(Fetch, "404 Not Found")
	assert.Equal(t, "[FETCH] 404 Not Found", err.Error())

	wrapped := Wrap(errors.New("connection reset"), Fetch, "download failed")
	assert.Equal(t, "[FETCH] download failed: connection reset", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, Internal, "nothing"))
	assert.Nil(t, Wrapf(nil, Internal, "nothing %d", 1))
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", Newf(OptionResolution, "missing %s", "url"))

	assert.True(t, errors.Is(err, New(OptionResolution, "")))
	assert.False(t, errors.Is(err, New(Fetch, "")))
	assert.True(t, IsCode(err, OptionResolution))
	assert.Equal(t, OptionResolution, CodeOf(err))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Internal, CodeOf(errors.New("boom")))
	assert.False(t, IsCode(errors.New("boom"), Fetch))
}

func TestDetail(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(Fetch, "503").WithDetail("status", 503))

	v, ok := Detail(err, "status")
	require.True(t, ok)
	assert.Equal(t, 503, v)

	_, ok = Detail(err, "missing")
	assert.False(t, ok)
	_, ok = Detail(errors.New("plain"), "status")
	assert.False(t, ok)
}
