package domain

import "errors"

// ErrNotFound is returned by lookups that matched no row. The referral code
// allocator depends on it to tell a free code from a backend failure.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate")
