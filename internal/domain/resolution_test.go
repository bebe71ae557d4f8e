package domain

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCloser struct {
	io.Reader
	closes int
	err    error
}

func (c *countingCloser) Close() error {
	c.closes++
	return c.err
}

func TestBinaryHandleReleaseIdempotent(t *testing.T) {
	cc := &countingCloser{Reader: strings.NewReader("bytes")}
	h := NewBinaryHandle(cc, "video/mp4")

	require.False(t, h.Released())
	h.Release()
	h.Release()
	h.Release()

	assert.Equal(t, 1, cc.closes)
	assert.True(t, h.Released())
}

func TestBinaryHandleReleaseSwallowsCloseError(t *testing.T) {
	cc := &countingCloser{Reader: strings.NewReader(""), err: errors.New("boom")}
	h := NewBinaryHandle(cc, "")

	// Must not panic or surface the close failure.
	h.Release()
	assert.True(t, h.Released())
}

func TestBinaryHandleReadAfterRelease(t *testing.T) {
	cc := &countingCloser{Reader: strings.NewReader("bytes")}
	h := NewBinaryHandle(cc, "audio/ogg")

	buf := make([]byte, 2)
	n, err := h.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	h.Release()
	_, err = h.Read(buf)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
