package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrPersistenceUnavailable covers any failure of the remote document store.
// It is never propagated back into ledger state; local mutations stand.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")
