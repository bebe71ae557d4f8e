package mediaserver

import (
	"time"

	"github.com/mmarder/screener/internal/domain"
)

// itemDTO mirrors the platform's catalog item JSON.
type itemDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Kind        string `json:"kind"` // "audio" | "video"
	MinimumAge  int    `json:"minimumAge"`
	VIPOnly     bool   `json:"vipOnly"`
	Visible     bool   `json:"visible"`
	ViewCount   int64  `json:"viewCount"`
	ExternalURL string `json:"externalUrl,omitempty"`
	InternalRef string `json:"internalRef,omitempty"`
	DurationSec int64  `json:"durationSeconds"`
	AddedAt     int64  `json:"addedAt"`
}

type catalogResponse struct {
	Items []itemDTO `json:"items"`
}

// resolveResponse is the raw shape of a successful resolve-and-count call.
// It is narrowed into domain.Resolution before leaving this package.
type resolveResponse struct {
	Kind       string `json:"kind"` // "internal" | "external"
	URL        string `json:"url,omitempty"`
	StreamPath string `json:"streamPath,omitempty"`
}

// errorResponse is the platform's error envelope.
type errorResponse struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type favoritesResponse struct {
	IDs []string `json:"ids"`
}

// viewerDescriptor is the minimal projection of the viewer the platform needs.
type viewerDescriptor struct {
	Role      string `json:"role"`
	VIP       bool   `json:"vip"`
	BirthDate string `json:"birthDate,omitempty"` // 2006-01-02
	Email     string `json:"email,omitempty"`
	ReadOnly  bool   `json:"readOnly,omitempty"`
}

func describeViewer(v domain.ViewerContext) viewerDescriptor {
	d := viewerDescriptor{
		Role:     v.Role.String(),
		VIP:      v.VIP,
		Email:    v.Email,
		ReadOnly: v.ReadOnlyImpersonation,
	}
	if v.BirthDate != nil {
		d.BirthDate = v.BirthDate.Format("2006-01-02")
	}
	return d
}

func mapItem(dto itemDTO) *domain.MediaItem {
	kind := domain.MediaKindVideo
	if dto.Kind == "audio" {
		kind = domain.MediaKindAudio
	}
	return &domain.MediaItem{
		ID:          dto.ID,
		Title:       dto.Title,
		Summary:     dto.Summary,
		Kind:        kind,
		MinimumAge:  dto.MinimumAge,
		VIPOnly:     dto.VIPOnly,
		Visible:     dto.Visible,
		ViewCount:   dto.ViewCount,
		ExternalURL: dto.ExternalURL,
		InternalRef: dto.InternalRef,
		Duration:    time.Duration(dto.DurationSec) * time.Second,
		AddedAt:     dto.AddedAt,
	}
}

func mapItems(dtos []itemDTO) []*domain.MediaItem {
	items := make([]*domain.MediaItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, mapItem(dto))
	}
	return items
}
