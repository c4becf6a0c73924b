/*
Package waypoint persists the progress of a multi-step workflow so an interrupted
session can be resumed where it left off.

A workflow (customer details, package and plan selection, registration,
subscription, payment, asset scan and assignment, confirmation) accumulates its
state in a domain.Snapshot. The session Store writes that snapshot to a key-value
substrate and only ever hands back snapshots that are worth resuming: written by
the current schema version, saved within the last 24 hours, and carrying real
progress. Anything else is wiped on read.

# Architecture

The core is hexagonal. pkg/domain holds the snapshot model and the display
summary, pkg/session implements the store and its keyed Manager, and pkg/ports
defines the Substrate the store writes through. Adapters provide substrates
(memory, file, redis, sqlite) and an HTTP surface; pkg/persistence/middleware
adds logging, metrics and read caching around any substrate.

Storage failures are never fatal. A save that cannot be written stores nothing,
logs a warning and returns an error wrapping domain.ErrStorageUnavailable that the
caller may ignore; a load that cannot be read is "nothing to resume".

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/waypoint/pkg/adapters/file"
		"github.com/aretw0/waypoint/pkg/domain"
		"github.com/aretw0/waypoint/pkg/session"
	)

	func main() {
		ctx := context.Background()
		store := session.NewStore(file.New(".waypoint/sessions"))

		if summary, ok := store.Summarize(ctx); ok {
			fmt.Printf("Resume %s at step %d (%s)?\n", summary.CustomerName, summary.Step, summary.SavedAt)
		}

		snap := domain.NewSnapshot()
		snap.FormData.FirstName = "Ada"
		snap.GoTo(domain.StepPlanSelect)
		_ = store.Save(ctx, *snap)
	}
*/
package waypoint
