package domain

import "errors"

// ErrProfileNotFound is returned when no profile row exists for a user.
var ErrProfileNotFound = errors.New("user profile not found")
