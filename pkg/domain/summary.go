package domain

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// UnknownCustomer is shown when a snapshot carries neither a name nor an email.
const UnknownCustomer = "Unknown customer"

// Summary is the human-readable view of a stored session, used by resume prompts.
type Summary struct {
	CustomerName string `json:"customerName"`
	Step         int    `json:"step"`
	SavedAt      string `json:"savedAt"`
}

var ageMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d hours %s", DivBy: time.Hour},
}

// Summarize derives the display triple for snap as seen at now.
func Summarize(snap *Snapshot, now time.Time) Summary {
	return Summary{
		CustomerName: CustomerName(snap.FormData),
		Step:         int(snap.CurrentStep),
		SavedAt:      RelativeAge(snap.SavedAt, now),
	}
}

// CustomerName prefers "first last", then the email, then UnknownCustomer.
func CustomerName(f FormData) string {
	name := strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
	if name != "" {
		return name
	}
	if email := strings.TrimSpace(f.Email); email != "" {
		return email
	}
	return UnknownCustomer
}

// RelativeAge renders how long ago then was, e.g. "just now", "3 minutes ago", "2 hours ago".
// Times in the future (clock skew) render as "just now".
func RelativeAge(then, now time.Time) string {
	if then.After(now) {
		then = now
	}
	return humanize.CustomRelTime(then, now, "ago", "from now", ageMagnitudes)
}
