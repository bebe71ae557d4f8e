package playback

import "github.com/mmarder/screener/internal/domain"

// PlayerSurface abstracts whatever actually renders media, so the session
// state machine can be driven and tested without a real player.
type PlayerSurface interface {
	// AttachBinary hands a platform-hosted stream to a native player keyed
	// by the item's audio/video kind.
	AttachBinary(handle *domain.BinaryHandle, kind domain.MediaKind) error

	// AttachMedia plays a direct media URL in the native player.
	AttachMedia(url string, kind domain.MediaKind) error

	// AttachEmbed shows an embeddable provider URL in-surface. For opaque
	// links the surface renders a fallback link instead of a player.
	AttachEmbed(url string) error

	// OpenExternal opens a URL outside the surface (new tab/window). It may
	// fail, e.g. when the environment blocks spawning an opener.
	OpenExternal(url string) error

	// Detach pauses and fully releases whatever was attached. Detaching an
	// already-detached surface is a no-op.
	Detach()
}
