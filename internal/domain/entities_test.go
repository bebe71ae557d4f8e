package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRestricted(t *testing.T) {
	assert.False(t, MediaItem{}.Restricted())
	assert.True(t, MediaItem{VIPOnly: true}.Restricted())
	assert.True(t, MediaItem{MinimumAge: 12}.Restricted())
	assert.True(t, MediaItem{VIPOnly: true, MinimumAge: 18}.Restricted())
}

func TestFormattedDuration(t *testing.T) {
	assert.Equal(t, "42m", MediaItem{Duration: 42 * time.Minute}.FormattedDuration())
	assert.Equal(t, "1h 35m", MediaItem{Duration: 95 * time.Minute}.FormattedDuration())
	assert.Equal(t, "2h 0m", MediaItem{Duration: 2 * time.Hour}.FormattedDuration())
	assert.Equal(t, "0m", MediaItem{}.FormattedDuration())
}
