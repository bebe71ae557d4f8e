package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested media item does not exist
	ErrItemNotFound = errors.New("media item not found")

	// ErrServerOffline indicates the platform is unreachable
	ErrServerOffline = errors.New("media platform is unreachable")

	// ErrAuthFailed indicates authentication failed
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrOpaqueTransport indicates the origin hosting the content cannot be
	// fetched on the viewer's behalf; callers fall back to the item's raw
	// external URL
	ErrOpaqueTransport = errors.New("content origin cannot be fetched")

	// ErrNoPlayableSource indicates resolution yielded neither a stream nor a URL
	ErrNoPlayableSource = errors.New("no playable source")
)
