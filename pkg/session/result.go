package session

import "github.com/aretw0/waypoint/pkg/domain"

// Reason tells why a stored snapshot is not resumable.
type Reason int

const (
	ReasonNone        Reason = iota // valid
	ReasonMissing                   // nothing stored
	ReasonUnavailable               // substrate could not be read
	ReasonCorrupt                   // stored value does not decode to a snapshot
	ReasonVersion                   // schema version differs from domain.CurrentVersion
	ReasonExpired                   // older than the expiry
	ReasonNoProgress                // untouched first step
)

var reasonNames = [...]string{
	ReasonNone:        "none",
	ReasonMissing:     "missing",
	ReasonUnavailable: "unavailable",
	ReasonCorrupt:     "corrupt",
	ReasonVersion:     "version_mismatch",
	ReasonExpired:     "expired",
	ReasonNoProgress:  "no_progress",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Result is the outcome of validating the stored slot: Valid(snapshot) or Rejected(reason).
type Result struct {
	// Snapshot is set when the value decoded, even if it was rejected afterwards.
	Snapshot *domain.Snapshot

	Reason Reason

	// Err carries the underlying substrate or decode error, if any.
	Err error
}

// Valid reports whether the snapshot may be resumed.
func (r Result) Valid() bool {
	return r.Reason == ReasonNone
}

// Evict reports whether the stored value must be deleted.
// Nothing is evicted when the slot is empty or could not be read.
func (r Result) Evict() bool {
	switch r.Reason {
	case ReasonCorrupt, ReasonVersion, ReasonExpired, ReasonNoProgress:
		return true
	default:
		return false
	}
}
