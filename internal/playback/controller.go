// Package playback drives a single playback session from user intent to a
// rendered player: local policy check, server preflight, resolution, source
// classification, surface attachment and the view-count side effect.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmarder/screener/internal/domain"
	"github.com/mmarder/screener/internal/source"
)

// Controller owns the single active playback session and the single-flight
// discipline around play intents. Exactly one resolution is in flight at any
// time; intents arriving while one is running are dropped as double-clicks.
type Controller struct {
	client  domain.PlaybackClient
	surface PlayerSurface
	counter ViewCounter
	logger  *slog.Logger
	now     func() time.Time

	// busy is set before the first network call of a play intent and
	// cleared on every exit path.
	busy atomic.Bool

	mu      sync.Mutex
	current *Session
}

// NewController creates a new playback controller.
func NewController(client domain.PlaybackClient, surface PlayerSurface, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		client:  client,
		surface: surface,
		logger:  logger,
		now:     time.Now,
	}
}

// Play runs the full pipeline for one play intent. A nil return means the
// item is playing, was opened externally, or the intent was dropped because
// another one is in flight. Any error has already torn down partial state
// and is safe to surface directly to the viewer.
func (c *Controller) Play(ctx context.Context, item *domain.MediaItem, viewer domain.ViewerContext) error {
	if !c.busy.CompareAndSwap(false, true) {
		c.logger.Debug("play intent dropped, another in flight", "mediaID", item.ID)
		return nil
	}
	defer c.busy.Store(false)

	// Local policy first: denials here cost no network round trip.
	if err := domain.Evaluate(viewer, *item, c.now()).Err(); err != nil {
		c.logger.Info("playback denied by policy", "mediaID", item.ID, "error", err)
		return err
	}

	// A new intent replaces whatever was playing.
	c.closeCurrent()

	sess := newSession(item.ID, c.surface)
	sess.status = StatusResolving
	c.setCurrent(sess)

	if err := c.client.Preflight(ctx, item.ID, viewer); err != nil {
		c.abandon(sess)
		var accessErr *domain.AccessError
		if errors.As(err, &accessErr) {
			c.logger.Info("playback denied by preflight", "mediaID", item.ID, "reason", accessErr.Reason)
			return err
		}
		return fmt.Errorf("preflight failed: %w", err)
	}

	res, fallback, err := c.resolve(ctx, item, viewer)
	if err != nil {
		c.abandon(sess)
		return err
	}

	// An explicit close racing the resolution must not resurrect the
	// session; a stale result is discarded, resources and all.
	if !c.isCurrent(sess) {
		c.logger.Debug("discarding stale resolution", "mediaID", item.ID, "session", sess.id)
		if res.Handle != nil {
			res.Handle.Release()
		}
		return nil
	}

	att, err := c.open(item, res, fallback)
	if err != nil {
		c.abandon(sess)
		return err
	}

	// The attach can be slow; a close arriving while it ran must win. A
	// closed session is never resurrected, so undo the attach instead.
	if !sess.commit(att) {
		c.logger.Debug("discarding attach for closed session", "mediaID", item.ID, "session", sess.id)
		if att.status != StatusPlayingExternalTab {
			c.surface.Detach()
		}
		if att.handle != nil {
			att.handle.Release()
		}
		return nil
	}

	c.counter.Apply(sess, item, viewer)
	c.logger.Info("playback started",
		"mediaID", item.ID, "status", att.status.String(), "views", item.ViewCount)
	return nil
}

// resolve calls the platform and applies the opaque-transport fallback: when
// the origin cannot be fetched on the viewer's behalf, the item's raw
// external URL stands in for the resolved one.
func (c *Controller) resolve(ctx context.Context, item *domain.MediaItem, viewer domain.ViewerContext) (domain.Resolution, bool, error) {
	res, err := c.client.ResolveAndCount(ctx, item.ID, viewer)
	if err == nil {
		return res, false, nil
	}
	if errors.Is(err, domain.ErrOpaqueTransport) && item.ExternalURL != "" {
		c.logger.Debug("opaque transport, falling back to raw external URL", "mediaID", item.ID)
		return domain.Resolution{Kind: domain.ResolutionExternal, URL: item.ExternalURL}, true, nil
	}
	return domain.Resolution{}, false, fmt.Errorf("resolve failed: %w", err)
}

// open performs the surface attach for the resolved source and returns the
// playing state to commit. It never touches the session itself.
func (c *Controller) open(item *domain.MediaItem, res domain.Resolution, fallback bool) (attachment, error) {
	switch res.Kind {
	case domain.ResolutionInternal:
		if res.Handle == nil {
			return attachment{}, domain.ErrNoPlayableSource
		}
		if err := c.surface.AttachBinary(res.Handle, item.Kind); err != nil {
			res.Handle.Release()
			return attachment{}, fmt.Errorf("failed to attach stream: %w", err)
		}
		return attachment{
			status: StatusPlayingInternal,
			source: SourceBinaryStream,
			handle: res.Handle,
		}, nil

	case domain.ResolutionExternal:
		return c.openExternalSource(item, res.URL, fallback)

	default:
		return attachment{}, domain.ErrNoPlayableSource
	}
}

func (c *Controller) openExternalSource(item *domain.MediaItem, rawURL string, fallback bool) (attachment, error) {
	src := source.Classify(rawURL)
	switch src.Kind {
	case source.KindDirect:
		// Direct files play natively, like platform-hosted streams.
		if err := c.surface.AttachMedia(src.URL, item.Kind); err != nil {
			return attachment{}, fmt.Errorf("failed to attach media: %w", err)
		}
		return attachment{status: StatusPlayingInternal, source: SourceBinaryStream}, nil

	case source.KindEmbedded, source.KindOpaque:
		if err := c.surface.AttachEmbed(src.URL); err != nil {
			// Only the opaque-transport fallback path may escape to a
			// separate tab; a partial success there is not an error.
			if fallback {
				if openErr := c.surface.OpenExternal(rawURL); openErr == nil {
					return attachment{status: StatusPlayingExternalTab, source: SourceOpaqueExternal}, nil
				}
			}
			return attachment{}, fmt.Errorf("failed to open embedded source: %w", err)
		}
		kind := SourceEmbeddedProvider
		if src.Kind == source.KindOpaque {
			kind = SourceOpaqueExternal
		}
		return attachment{status: StatusPlayingEmbedded, source: kind, embedURL: src.URL}, nil

	default:
		return attachment{}, domain.ErrNoPlayableSource
	}
}

// Close tears down the active session, if any. Safe to call repeatedly and
// from hosting-view teardown.
func (c *Controller) Close() {
	c.closeCurrent()
}

// Current returns the active session, nil when idle.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) setCurrent(sess *Session) {
	c.mu.Lock()
	c.current = sess
	c.mu.Unlock()
}

func (c *Controller) isCurrent(sess *Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.id == sess.id
}

func (c *Controller) closeCurrent() {
	c.mu.Lock()
	sess := c.current
	c.current = nil
	c.mu.Unlock()
	if sess != nil {
		sess.Close()
	}
}

// abandon fails the session and drops it from the controller: failed state
// is surfaced once through the returned error and never persists.
func (c *Controller) abandon(sess *Session) {
	sess.fail()
	c.mu.Lock()
	if c.current != nil && c.current.id == sess.id {
		c.current = nil
	}
	c.mu.Unlock()
}

// UserMessage converts any pipeline error into the single notification shown
// to the viewer. Raw transport details never leak past this boundary.
func UserMessage(err error) string {
	var accessErr *domain.AccessError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &accessErr):
		switch accessErr.Reason {
		case domain.DenyReadOnly:
			return "Playback is disabled in read-only mode"
		case domain.DenyVIPRequired:
			return "This title is available to VIP members only"
		case domain.DenyAgeUnknown:
			return "Add your birth date to your profile to watch age-rated titles"
		case domain.DenyAgeRestricted:
			return "This title is age-restricted"
		default:
			return "You are not allowed to play this title"
		}
	case errors.Is(err, domain.ErrAuthFailed):
		return "Your session has expired, please sign in again"
	case errors.Is(err, domain.ErrItemNotFound):
		return "This title is no longer available"
	default:
		return "Playback failed, please try again"
	}
}
