package store

import "errors"

var (
	// ErrNotFound reports that no row matched the lookup.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate reports a uniqueness violation, such as reusing an email.
	ErrDuplicate = errors.New("store: duplicate")
	// ErrInvalidStatus reports a transition to a status the entity does not
	// allow.
	ErrInvalidStatus = errors.New("store: invalid status")
)
