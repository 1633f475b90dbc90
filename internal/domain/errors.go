package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrProfileNotFound means the remote social profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrCompetitorNotFound means the handle is not tracked locally.
	ErrCompetitorNotFound = errors.New("competitor not tracked")
	// ErrNotConfigured marks operations skipped for missing credentials.
	ErrNotConfigured = errors.New("not configured")
)
