package domain

import (
	"io"
	"sync/atomic"
)

// ResolutionKind tags which delivery branch the platform chose for a play.
type ResolutionKind int

const (
	// ResolutionInternal delivers platform-hosted bytes via a BinaryHandle
	ResolutionInternal ResolutionKind = iota
	// ResolutionExternal delivers a third-party URL for the client to classify
	ResolutionExternal
)

// Resolution is the narrowed result of a resolve-and-count round trip.
// Exactly one of Handle/URL is meaningful, selected by Kind; raw response
// shapes never travel past the adapter boundary.
type Resolution struct {
	Kind   ResolutionKind
	Handle *BinaryHandle // ResolutionInternal only
	URL    string        // ResolutionExternal only
}

// BinaryHandle owns a platform-hosted media stream fetched for internal
// playback. The session that triggered the fetch owns the handle and must
// release it on every exit path; Release is safe to call more than once.
type BinaryHandle struct {
	ContentType string

	rc       io.ReadCloser
	released atomic.Bool
}

// NewBinaryHandle wraps a fetched stream body.
func NewBinaryHandle(rc io.ReadCloser, contentType string) *BinaryHandle {
	return &BinaryHandle{ContentType: contentType, rc: rc}
}

// Read implements io.Reader over the underlying stream.
func (h *BinaryHandle) Read(p []byte) (int, error) {
	if h.released.Load() {
		return 0, io.ErrClosedPipe
	}
	return h.rc.Read(p)
}

// Release closes the underlying stream exactly once. Double release is a
// no-op and close failures are swallowed; releasing is never fatal.
func (h *BinaryHandle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	_ = h.rc.Close()
}

// Released reports whether the handle has been released.
func (h *BinaryHandle) Released() bool {
	return h.released.Load()
}
