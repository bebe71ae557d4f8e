package playback

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mmarder/screener/internal/domain"
)

// Status is the lifecycle state of a playback session.
type Status int

const (
	StatusIdle Status = iota
	StatusResolving
	StatusPlayingInternal
	StatusPlayingEmbedded
	StatusPlayingExternalTab
	StatusClosed
	StatusFailed
)

// String returns a human-readable representation of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusResolving:
		return "resolving"
	case StatusPlayingInternal:
		return "playing-internal"
	case StatusPlayingEmbedded:
		return "playing-embedded"
	case StatusPlayingExternalTab:
		return "playing-external-tab"
	case StatusClosed:
		return "closed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SourceKind is the delivery mechanism a session ended up playing.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceBinaryStream
	SourceEmbeddedProvider
	SourceOpaqueExternal
)

// Session owns the currently active player: its source kind, its underlying
// resource handles and their teardown. Sessions are created per play intent
// and never reused; a new intent closes the previous session first.
type Session struct {
	id      uuid.UUID
	mediaID string
	surface PlayerSurface

	// mu guards the lifecycle fields below: the controller mutates them
	// from the intent goroutine while Close may arrive from the UI one.
	mu       sync.Mutex
	status   Status
	source   SourceKind
	handle   *domain.BinaryHandle // internal playback only
	embedURL string               // embedded playback only

	viewCounted bool // set by ViewCounter, at most once per session
}

// attachment is the outcome of a successful surface attach, held aside until
// the session commits it. Keeping the attach and the state transition apart
// lets a concurrent close win without being resurrected.
type attachment struct {
	status   Status
	source   SourceKind
	handle   *domain.BinaryHandle
	embedURL string
}

func newSession(mediaID string, surface PlayerSurface) *Session {
	return &Session{
		id:      uuid.New(),
		mediaID: mediaID,
		status:  StatusIdle,
		surface: surface,
	}
}

// ID returns the session's unique identity, used for staleness detection.
func (s *Session) ID() uuid.UUID { return s.id }

// MediaID returns the item the session was opened for.
func (s *Session) MediaID() string { return s.mediaID }

// Status returns the session's current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Source returns the delivery mechanism the session is playing.
func (s *Session) Source() SourceKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// playing reports whether the session holds an attached surface that needs
// teardown. An external-tab open is deliberately untracked. Callers hold mu.
func (s *Session) playing() bool {
	return s.status == StatusPlayingInternal || s.status == StatusPlayingEmbedded
}

// commit moves the session from resolving into the attached playing state.
// It reports false when the session was closed in the meantime; the caller
// then owns the undo of whatever the attach acquired.
func (s *Session) commit(att attachment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusClosed {
		return false
	}
	s.status = att.status
	s.source = att.source
	s.handle = att.handle
	s.embedURL = att.embedURL
	return true
}

// Close tears the session down: the surface is detached before any handle is
// released, and the binary handle is revoked exactly once. Closing a closed
// session is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusClosed {
		return
	}
	if s.playing() {
		s.surface.Detach()
	}
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
	s.embedURL = ""
	s.status = StatusClosed
}

// fail marks the session failed and releases any partially acquired
// resources. A failed session retains no state worth keeping; callers
// surface the error and the controller returns to idle.
func (s *Session) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusClosed {
		return
	}
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
	s.embedURL = ""
	s.status = StatusFailed
}
