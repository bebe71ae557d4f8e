// Package mediaserver is the HTTP adapter over the platform's catalog,
// playback and favorites endpoints. Raw response shapes stop here: callers
// see domain entities, tagged resolutions and sentinel errors only.
package mediaserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmarder/screener/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Screener/1.0"
)

// Client implements domain.CatalogClient, domain.PlaybackClient and
// domain.FavoritesClient against the platform API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// streamClient has no overall timeout: internal playback streams stay
	// open for the duration of the media.
	streamClient *http.Client
	logger       *slog.Logger
}

// NewClient creates a new platform API client.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		streamClient: &http.Client{},
		logger:       logger,
	}
}

// doRequest performs an authenticated request and maps error statuses onto
// domain errors. The response body is returned for 2xx statuses.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("platform request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("platform request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, c.mapErrorStatus(resp.StatusCode, respBody)
}

// mapErrorStatus converts an error status plus envelope into sentinel or
// typed domain errors.
func (c *Client) mapErrorStatus(status int, body []byte) error {
	var envelope errorResponse
	_ = json.Unmarshal(body, &envelope) // best effort, envelope may be absent

	switch status {
	case http.StatusUnauthorized:
		return domain.ErrAuthFailed
	case http.StatusNotFound:
		return domain.ErrItemNotFound
	case http.StatusForbidden:
		reason := domain.DenyReason(envelope.Reason)
		if reason == "" {
			reason = domain.DenyReason("forbidden")
		}
		return &domain.AccessError{Reason: reason}
	case http.StatusBadGateway:
		if envelope.Code == "opaque" {
			return domain.ErrOpaqueTransport
		}
	}

	c.logger.Error("platform request error", "status", status, "body", string(body))
	return fmt.Errorf("unexpected status code: %d", status)
}

// ListVisibleItems returns the catalog as the platform publishes it.
func (c *Client) ListVisibleItems(ctx context.Context) ([]*domain.MediaItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/catalog", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp catalogResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}
	return mapItems(resp.Items), nil
}

// Preflight re-checks the access policy server-side before resolution.
func (c *Client) Preflight(ctx context.Context, mediaID string, viewer domain.ViewerContext) error {
	path := "/api/media/" + url.PathEscape(mediaID) + "/preflight"
	_, err := c.doRequest(ctx, http.MethodPost, path, nil, describeViewer(viewer))
	return err
}

// ResolveAndCount resolves a play into a concrete source. For standard
// viewers the platform counts the play as part of this call. The raw
// internal/external response shape is narrowed to domain.Resolution here.
func (c *Client) ResolveAndCount(ctx context.Context, mediaID string, viewer domain.ViewerContext) (domain.Resolution, error) {
	path := "/api/media/" + url.PathEscape(mediaID) + "/play"
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, describeViewer(viewer))
	if err != nil {
		return domain.Resolution{}, err
	}

	var resp resolveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Resolution{}, fmt.Errorf("failed to parse resolve response: %w", err)
	}

	switch resp.Kind {
	case "internal":
		if resp.StreamPath == "" {
			return domain.Resolution{}, domain.ErrNoPlayableSource
		}
		handle, err := c.fetchStream(ctx, resp.StreamPath)
		if err != nil {
			return domain.Resolution{}, err
		}
		return domain.Resolution{Kind: domain.ResolutionInternal, Handle: handle}, nil
	case "external":
		if resp.URL == "" {
			return domain.Resolution{}, domain.ErrNoPlayableSource
		}
		return domain.Resolution{Kind: domain.ResolutionExternal, URL: resp.URL}, nil
	default:
		return domain.Resolution{}, domain.ErrNoPlayableSource
	}
}

// fetchStream opens the platform-hosted stream for an internal resolution.
// Ownership of the returned handle passes to the caller.
func (c *Client) fetchStream(ctx context.Context, streamPath string) (*domain.BinaryHandle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+streamPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		c.logger.Error("stream fetch failed", "error", err, "path", streamPath)
		return nil, domain.ErrServerOffline
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, c.mapErrorStatus(resp.StatusCode, body)
	}

	return domain.NewBinaryHandle(resp.Body, resp.Header.Get("Content-Type")), nil
}

// ListFavorites returns the viewer's favorite item ids.
func (c *Client) ListFavorites(ctx context.Context) ([]string, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/favorites", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp favoritesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse favorites response: %w", err)
	}
	return resp.IDs, nil
}

// AddFavorite adds an item to the viewer's favorite set.
func (c *Client) AddFavorite(ctx context.Context, mediaID string) error {
	path := "/api/favorites/" + url.PathEscape(mediaID)
	_, err := c.doRequest(ctx, http.MethodPut, path, nil, nil)
	return err
}

// RemoveFavorite removes an item from the viewer's favorite set.
func (c *Client) RemoveFavorite(ctx context.Context, mediaID string) error {
	path := "/api/favorites/" + url.PathEscape(mediaID)
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}
