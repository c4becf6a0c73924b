package domain

import "errors"

// ErrNotFound is returned by a substrate when nothing is stored under a key.
var ErrNotFound = errors.New("session not found")

// ErrStorageUnavailable is returned when the storage substrate cannot be used at all
// (disabled, restricted context, backend down).
var ErrStorageUnavailable = errors.New("session storage unavailable")

// ErrQuotaExceeded is returned by a substrate that refuses a write because it is full.
var ErrQuotaExceeded = errors.New("session storage quota exceeded")

// ErrCorrupt is returned when stored content cannot be decoded into a Snapshot.
var ErrCorrupt = errors.New("corrupt session snapshot")

// ErrInvalidSnapshot is returned when a snapshot cannot be saved because it would
// never load back, e.g. a step outside the workflow.
var ErrInvalidSnapshot = errors.New("invalid session snapshot")
