package domain

import (
	"fmt"
	"time"
)

// MediaKind distinguishes content types
type MediaKind int

const (
	MediaKindAudio MediaKind = iota
	MediaKindVideo
)

// String returns a human-readable representation of the media kind
func (k MediaKind) String() string {
	switch k {
	case MediaKindAudio:
		return "audio"
	case MediaKindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// MediaItem represents a playable catalog item
type MediaItem struct {
	ID          string        // Platform unique identifier
	Title       string        // Display title
	Summary     string        // Synopsis
	Kind        MediaKind     // Audio or Video
	MinimumAge  int           // Minimum viewer age in years, 0 = unrestricted
	VIPOnly     bool          // Restricted to VIP viewers
	Visible     bool          // Whether the item is published (filtered upstream)
	ViewCount   int64         // Successful plays, monotonically increasing
	ExternalURL string        // Third-party hosting URL, empty if platform-hosted
	InternalRef string        // Platform stream reference, empty if third-party
	Duration    time.Duration // Total runtime
	AddedAt     int64         // Unix timestamp when published
}

// Restricted reports whether the item carries any access gate at all.
func (m MediaItem) Restricted() bool {
	return m.VIPOnly || m.MinimumAge > 0
}

// FormattedDuration returns the duration in a human-readable format
func (m MediaItem) FormattedDuration() string {
	h := int(m.Duration.Hours())
	mins := int(m.Duration.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// AgeBadge returns a short label for the item's age gate, or "" if unrestricted.
func (m MediaItem) AgeBadge() string {
	if m.MinimumAge <= 0 {
		return ""
	}
	return fmt.Sprintf("%d+", m.MinimumAge)
}
