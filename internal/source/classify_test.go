package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyYouTubeForms(t *testing.T) {
	wantEmbed := "https://www.youtube.com/embed/abc123?autoplay=1&rel=0&modestbranding=1"
	cases := []string{
		"https://www.youtube.com/watch?v=abc123",
		"https://youtube.com/watch?v=abc123",
		"https://m.youtube.com/watch?v=abc123&t=42s",
		"https://youtu.be/abc123",
		"https://youtu.be/abc123?si=share",
		"https://www.youtube.com/shorts/abc123",
		"https://www.youtube.com/shorts/abc123/extra",
	}
	for _, raw := range cases {
		got := Classify(raw)
		assert.Equal(t, KindEmbedded, got.Kind, raw)
		assert.Equal(t, wantEmbed, got.URL, raw)
	}
}

func TestClassifyVimeoForms(t *testing.T) {
	wantEmbed := "https://player.vimeo.com/video/76979871?autoplay=1&title=0&byline=0"
	for _, raw := range []string{
		"https://vimeo.com/76979871",
		"https://www.vimeo.com/video/76979871",
		"https://vimeo.com/video/76979871",
	} {
		got := Classify(raw)
		assert.Equal(t, KindEmbedded, got.Kind, raw)
		assert.Equal(t, wantEmbed, got.URL, raw)
	}

	// Non-numeric vimeo paths are channel/user pages, not videos.
	assert.Equal(t, KindOpaque, Classify("https://vimeo.com/staffpicks").Kind)
}

func TestClassifyDirectMedia(t *testing.T) {
	for _, raw := range []string{
		"https://cdn.example.com/movie.mp4",
		"https://cdn.example.com/clip.WebM",
		"https://cdn.example.com/track.ogg",
		"https://cdn.example.com/live/stream.m3u8?token=x",
	} {
		got := Classify(raw)
		assert.Equal(t, KindDirect, got.Kind, raw)
		assert.Equal(t, raw, got.URL, "direct URLs pass through unchanged")
	}
}

func TestClassifyOpaque(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/some/page",
		"https://dailymotion.com/video/x7u5k",
		"https://cdn.example.com/archive.mkv",
		"ftp://example.com/movie.mp4",
		"not a url at all",
		"://missing-scheme",
		"https://youtube.com/watch", // no video id
		"https://youtu.be/",
		"https://www.youtube.com/watch?v=abc%20def", // id outside alphabet
	} {
		got := Classify(raw)
		assert.Equal(t, KindOpaque, got.Kind, raw)
		assert.Equal(t, raw, got.URL, raw)
	}
}

// Classify must be total: no input may panic, and anything unparseable
// lands in the opaque bucket.
func TestClassifyTotality(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"\x00\x01\x02",
		"http://",
		"https://",
		"%zz",
		"https://[::1:bad",
		string(make([]byte, 512)),
	}
	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			got := Classify(raw)
			assert.Equal(t, KindOpaque, got.Kind)
		})
	}
}
