package domain

import (
	"fmt"
	"time"
)

// DenyReason explains why playback was refused.
type DenyReason string

const (
	DenyReadOnly      DenyReason = "read-only mode"
	DenyVIPRequired   DenyReason = "vip-required"
	DenyAgeUnknown    DenyReason = "age-unknown"
	DenyAgeRestricted DenyReason = "age-restricted"
)

// AccessDecision is the outcome of evaluating a viewer against an item's gates.
type AccessDecision struct {
	Allowed bool
	Reason  DenyReason // empty when Allowed
}

// Err converts a denying decision into an *AccessError, nil when allowed.
func (d AccessDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return &AccessError{Reason: d.Reason}
}

// AccessError is returned when a local or server-side policy check denies playback.
type AccessError struct {
	Reason DenyReason
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// Evaluate applies the playback gating rules in order, first match wins:
//
//  1. Read-only impersonation denies absolutely, ahead of every other rule.
//  2. VIP-only items deny non-VIP viewers; administrators reviewing content
//     bypass the VIP gate (rule 1 already keeps impersonating admins out).
//  3. Age-gated items require a known birth date and sufficient age.
//
// The function performs no I/O and is deterministic for identical inputs;
// the evaluation instant is passed in rather than read from the clock.
func Evaluate(viewer ViewerContext, item MediaItem, now time.Time) AccessDecision {
	if viewer.ReadOnlyImpersonation {
		return AccessDecision{Reason: DenyReadOnly}
	}
	if item.VIPOnly && !viewer.VIP && viewer.Role != RoleAdmin {
		return AccessDecision{Reason: DenyVIPRequired}
	}
	if item.MinimumAge > 0 {
		age, known := viewer.Age(now)
		if !known {
			return AccessDecision{Reason: DenyAgeUnknown}
		}
		if age < item.MinimumAge {
			return AccessDecision{Reason: DenyAgeRestricted}
		}
	}
	return AccessDecision{Allowed: true}
}
