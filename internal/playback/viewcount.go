package playback

import "github.com/mmarder/screener/internal/domain"

// ViewCounter applies the view-count side effect of a successful play to the
// in-memory catalog item. The platform maintains the authoritative counter;
// this keeps the client's copy consistent without a refetch.
type ViewCounter struct{}

// Apply increments the item's view count by exactly one if and only if the
// viewer is a standard viewer and the session has not been counted yet.
// Idempotence is per session: replaying the same item is a new session and
// a new legitimate increment.
func (ViewCounter) Apply(sess *Session, item *domain.MediaItem, viewer domain.ViewerContext) bool {
	if sess.viewCounted {
		return false
	}
	if viewer.Role != domain.RoleStandard {
		return false
	}
	item.ViewCount++
	sess.viewCounted = true
	return true
}
