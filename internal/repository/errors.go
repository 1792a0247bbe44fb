package repository

import "errors"

// ErrAlreadyClassified signals a second classification attempt for a ticket
// that already has one. Callers should return the stored record instead.
var ErrAlreadyClassified = errors.New("repository: ticket already classified")
