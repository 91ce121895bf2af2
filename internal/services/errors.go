package services

import "errors"

// Sentinel errors returned by the services. Handlers translate them to HTTP
// statuses with errors.Is; everything here is recoverable at the request
// boundary.
var (
	// ErrAuthenticationRequired means no actor identity was resolved for a
	// mutating operation.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrForbidden means the actor is not the principal the operation
	// requires (e.g. acting on another recipient's notification).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means a referenced user, blog, comment or notification
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSelfReference means the actor targeted itself where disallowed
	// (follow/unfollow yourself).
	ErrSelfReference = errors.New("cannot target yourself")

	// ErrSelfEngagement means the actor engaged with its own content where
	// disallowed (liking your own blog).
	ErrSelfEngagement = errors.New("cannot engage with your own content")

	// ErrDuplicateRequest means an identical open request already exists
	// (pending follow request, repeated comment like).
	ErrDuplicateRequest = errors.New("request already exists")

	// ErrInvalidState means a state-machine transition was attempted from
	// the wrong state (e.g. accepting an already resolved follow request).
	ErrInvalidState = errors.New("invalid state for this operation")

	// ErrEmptyContent means a comment or blog body was blank.
	ErrEmptyContent = errors.New("content must not be empty")
)
