// Package source classifies opaque external URLs into delivery mechanisms:
// a recognized embeddable provider, a direct media file for a native player,
// or an opaque link that can only be offered as-is.
package source

import (
	"net/url"
	"path"
	"strings"
)

// Kind is the delivery mechanism for an external URL.
type Kind int

const (
	// KindEmbedded is a recognized provider rewritten to a frameable player URL
	KindEmbedded Kind = iota
	// KindDirect is a direct media file for a native audio/video element
	KindDirect
	// KindOpaque cannot be embedded safely; offered as a same/new-tab link
	KindOpaque
)

// Source is the classification result. URL holds the canonical embed URL for
// KindEmbedded and the input URL unchanged otherwise.
type Source struct {
	Kind Kind
	URL  string
}

// Direct-playable file extensions, lowercased. m3u8 covers HLS playlists.
var directMediaExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
	".m3u8": true,
}

// Classify maps a raw URL string to its delivery mechanism. It is total:
// any input it cannot parse or recognize, including the empty string,
// classifies as opaque. No network access is performed.
func Classify(raw string) Source {
	opaque := Source{Kind: KindOpaque, URL: raw}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return opaque
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return opaque
	}

	if embed, ok := youtubeEmbedURL(u); ok {
		return Source{Kind: KindEmbedded, URL: embed}
	}
	if embed, ok := vimeoEmbedURL(u); ok {
		return Source{Kind: KindEmbedded, URL: embed}
	}

	if directMediaExts[strings.ToLower(path.Ext(u.Path))] {
		return Source{Kind: KindDirect, URL: raw}
	}

	return opaque
}

// youtubeEmbedURL recognizes watch?v=ID, youtu.be/ID and /shorts/ID forms and
// rewrites them to an autoplaying embed URL with minimal player chrome.
func youtubeEmbedURL(u *url.URL) (string, bool) {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	var id string
	switch host {
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/shorts/"))
		}
	case "youtu.be":
		id = firstSegment(strings.TrimPrefix(u.Path, "/"))
	default:
		return "", false
	}

	if !validVideoToken(id) {
		return "", false
	}
	return "https://www.youtube.com/embed/" + id + "?autoplay=1&rel=0&modestbranding=1", true
}

// vimeoEmbedURL recognizes /video/ID and root numeric /ID forms.
func vimeoEmbedURL(u *url.URL) (string, bool) {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "vimeo.com" {
		return "", false
	}

	var id string
	if strings.HasPrefix(u.Path, "/video/") {
		id = firstSegment(strings.TrimPrefix(u.Path, "/video/"))
	} else {
		id = firstSegment(strings.TrimPrefix(u.Path, "/"))
	}

	if !numericToken(id) {
		return "", false
	}
	return "https://player.vimeo.com/video/" + id + "?autoplay=1&title=0&byline=0", true
}

func firstSegment(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// validVideoToken accepts the provider's video id alphabet only, so a
// mangled path never round-trips into an embed URL.
func validVideoToken(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

func numericToken(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
