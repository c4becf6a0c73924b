package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Store keeps one resumable snapshot in a single substrate slot.
//
// It is the only writer of savedAt and version, and the only place validation and
// expiry are decided. A Store holds no lock: two writers on one slot race under
// last-writer-wins.
type Store struct {
	sub ports.Substrate
	config
}

// NewStore creates a Store over the given substrate.
func NewStore(sub ports.Substrate, opts ...Option) *Store {
	return &Store{
		sub:    sub,
		config: newConfig(opts),
	}
}

// Key returns the slot this store owns.
func (s *Store) Key() string {
	return s.key
}

// clock returns the current time at the precision the persisted record keeps.
func (s *Store) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Save stamps savedAt and version and overwrites the slot with snap.
// A zero CurrentStep means the first step. Steps outside the workflow are
// rejected with domain.ErrInvalidSnapshot and nothing is written.
//
// When the substrate cannot be written nothing is stored, a warning is logged and
// the returned error wraps domain.ErrStorageUnavailable. The in-memory flow can
// carry on regardless.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	if snap.CurrentStep == 0 {
		snap.CurrentStep = domain.FirstStep
	}
	if snap.MaxStepReached < snap.CurrentStep {
		snap.MaxStepReached = snap.CurrentStep
	}
	if !snap.CurrentStep.Valid() || !snap.MaxStepReached.Valid() {
		err := fmt.Errorf("%w: step %d, max step %d", domain.ErrInvalidSnapshot, snap.CurrentStep, snap.MaxStepReached)
		s.hooks.save(ctx, s.key, err)
		return err
	}
	snap.SavedAt = s.clock()
	snap.Version = domain.CurrentVersion

	data, err := json.Marshal(snap)
	if err != nil {
		s.hooks.save(ctx, s.key, err)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	err = guard(func() error {
		if !s.sub.Available(ctx) {
			return domain.ErrStorageUnavailable
		}
		return s.sub.Set(ctx, s.key, string(data))
	})
	if err != nil {
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
		s.logger.Warn("Session not saved, storage unavailable",
			"key", s.key,
			"step", snap.CurrentStep.String(),
			"err", err,
		)
		s.hooks.save(ctx, s.key, err)
		return err
	}

	s.logger.Debug("Session saved", "key", s.key, "step", snap.CurrentStep.String())
	s.hooks.save(ctx, s.key, nil)
	return nil
}

// Load returns the stored snapshot if it is resumable.
// Corrupt, version-mismatched, expired and no-progress snapshots are deleted as a
// side effect and reported absent, exactly like an empty slot.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, bool) {
	result := s.load(ctx)
	if !result.Valid() {
		return nil, false
	}
	return result.Snapshot, true
}

// load validates the slot and evicts it when the result demands it.
func (s *Store) load(ctx context.Context) Result {
	result := s.Inspect(ctx)

	switch {
	case result.Evict():
		s.logger.Info("Discarding stored session",
			"key", s.key,
			"reason", result.Reason.String(),
		)
		s.remove(ctx)
		s.hooks.reject(ctx, s.key, result.Reason)
	case result.Reason == ReasonUnavailable:
		s.logger.Warn("Session not loaded, storage unavailable", "key", s.key, "err", result.Err)
	}

	s.hooks.load(ctx, s.key, result)
	return result
}

// Inspect validates the stored slot without any side effect.
// Checks run in order: presence, decoding, version, expiry, progress.
func (s *Store) Inspect(ctx context.Context) Result {
	var raw string
	err := guard(func() error {
		if !s.sub.Available(ctx) {
			return domain.ErrStorageUnavailable
		}
		var err error
		raw, err = s.sub.Get(ctx, s.key)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return Result{Reason: ReasonMissing}
	case err != nil:
		return Result{Reason: ReasonUnavailable, Err: err}
	}

	return s.validate(raw)
}

func (s *Store) validate(raw string) Result {
	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Result{Reason: ReasonCorrupt, Err: fmt.Errorf("%w: %w", domain.ErrCorrupt, err)}
	}

	if snap.Version != domain.CurrentVersion {
		return Result{Snapshot: &snap, Reason: ReasonVersion}
	}

	if !snap.CurrentStep.Valid() || !snap.MaxStepReached.Valid() || snap.SavedAt.IsZero() {
		return Result{
			Snapshot: &snap,
			Reason:   ReasonCorrupt,
			Err:      fmt.Errorf("%w: step %d, max step %d, savedAt %v", domain.ErrCorrupt, snap.CurrentStep, snap.MaxStepReached, snap.SavedAt),
		}
	}

	if s.clock().Sub(snap.SavedAt) > s.expiry {
		return Result{Snapshot: &snap, Reason: ReasonExpired}
	}

	if !snap.HasProgress() {
		return Result{Snapshot: &snap, Reason: ReasonNoProgress}
	}

	return Result{Snapshot: &snap, Reason: ReasonNone}
}

// Clear removes the slot. Safe to call when nothing is stored.
func (s *Store) Clear(ctx context.Context) {
	s.remove(ctx)
	s.hooks.clear(ctx, s.key)
}

func (s *Store) remove(ctx context.Context) {
	err := guard(func() error {
		return s.sub.Remove(ctx, s.key)
	})
	if err != nil {
		s.logger.Warn("Failed to remove stored session", "key", s.key, "err", err)
	}
}

// Exists reports whether a current-version, unexpired snapshot is stored.
// It never deletes anything, so it is safe for cheap UI probes.
func (s *Store) Exists(ctx context.Context) bool {
	result := s.Inspect(ctx)
	return result.Valid() || result.Reason == ReasonNoProgress
}

// Summarize loads the snapshot and derives its display triple.
func (s *Store) Summarize(ctx context.Context) (domain.Summary, bool) {
	snap, ok := s.Load(ctx)
	if !ok {
		return domain.Summary{}, false
	}
	return domain.Summarize(snap, s.clock()), true
}

// guard turns a panicking substrate into an unavailable one.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: substrate panic: %v", domain.ErrStorageUnavailable, r)
		}
	}()
	return fn()
}
