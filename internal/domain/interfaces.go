package domain

import "context"

// CatalogClient lists the catalog as the platform currently publishes it.
// Visibility filtering happens server-side; VIP/age/read-only annotation
// happens client-side via Evaluate.
type CatalogClient interface {
	ListVisibleItems(ctx context.Context) ([]*MediaItem, error)
}

// PlaybackClient provides the network half of the playback pipeline.
type PlaybackClient interface {
	// Preflight re-checks the access policy server-side. A denial returns
	// *AccessError and is terminal for the play attempt.
	Preflight(ctx context.Context, mediaID string, viewer ViewerContext) error

	// ResolveAndCount resolves a concrete playable source and, for standard
	// viewers, counts the play server-side. Fails with ErrOpaqueTransport
	// when the hosting origin cannot be fetched cross-origin; callers then
	// fall back to the item's raw external URL.
	ResolveAndCount(ctx context.Context, mediaID string, viewer ViewerContext) (Resolution, error)
}

// FavoritesClient manages the viewer's favorite set on the platform.
type FavoritesClient interface {
	ListFavorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, mediaID string) error
	RemoveFavorite(ctx context.Context, mediaID string) error
}
