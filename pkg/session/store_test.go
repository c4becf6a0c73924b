package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a controllable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)}
}

func newStore(t *testing.T) (*session.Store, *memory.Store, *fakeClock) {
	t.Helper()
	sub := memory.NewStore()
	clock := newClock()
	return session.NewStore(sub, session.WithClock(clock.Now)), sub, clock
}

func ptr[T any](v T) *T { return &v }

func fullSnapshot() domain.Snapshot {
	return domain.Snapshot{
		CurrentStep:    domain.StepPayment,
		MaxStepReached: domain.StepAssetScan,
		FormData: domain.FormData{
			FirstName: "Ana",
			LastName:  "Ruiz",
			Email:     "ana@example.com",
			Phone:     "5551234567",
			City:      "Nairobi",
		},
		SelectedPackageID:    "pkg-standard",
		SelectedPlanID:       "plan-weekly",
		CreatedCustomerID:    ptr(int64(1042)),
		CreatedPartnerID:     ptr(int64(88)),
		CustomerSessionToken: ptr("tok-abc"),
		SubscriptionData: &domain.SubscriptionData{
			ID:               501,
			SubscriptionCode: "SUB-501",
			Status:           "active",
			PriceAmount:      25.5,
			Currency:         "KES",
		},
		PaymentInitiated:          true,
		PaymentReference:          "MPESA-XYZ",
		PaymentAmountPaid:         10,
		PaymentAmountExpected:     25.5,
		PaymentAmountRemaining:    15.5,
		PaymentIncomplete:         true,
		ConfirmedSubscriptionCode: nil,
		ScannedVehicleID:          ptr("VH-77"),
		AssignedBattery:           &domain.BatteryAssignment{ID: "BAT-9", ChargeLevel: 96},
		RegistrationID:            "reg-123",
	}
}

// writeRaw stores a snapshot exactly as given, bypassing Save's stamping.
func writeRaw(t *testing.T, sub *memory.Store, snap domain.Snapshot) {
	t.Helper()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, sub.Set(context.Background(), session.DefaultKey, string(data)))
}

func stored(sub *memory.Store) bool {
	_, err := sub.Get(context.Background(), session.DefaultKey)
	return err == nil
}

func TestStore_RoundTrip(t *testing.T) {
	store, _, clock := newStore(t)
	ctx := context.Background()

	in := fullSnapshot()
	require.NoError(t, store.Save(ctx, in))

	got, ok := store.Load(ctx)
	require.True(t, ok)

	want := in
	want.SavedAt = clock.Now()
	want.Version = domain.CurrentVersion
	assert.Equal(t, &want, got)
}

func TestStore_SaveRaisesHighWaterMark(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	snap := domain.Snapshot{CurrentStep: domain.StepRegistration, MaxStepReached: domain.StepPackageSelect}
	require.NoError(t, store.Save(ctx, snap))

	got, ok := store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.StepRegistration, got.MaxStepReached)
}

func TestStore_SaveIsIdempotentExceptTimestamp(t *testing.T) {
	store, _, clock := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, fullSnapshot()))
	clock.Advance(3 * time.Minute)
	require.NoError(t, store.Save(ctx, fullSnapshot()))

	got, ok := store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, clock.Now(), got.SavedAt, "savedAt reflects the later save")

	want := fullSnapshot()
	want.SavedAt = got.SavedAt
	want.Version = domain.CurrentVersion
	assert.Equal(t, &want, got)
}

func TestStore_VersionMismatchIsWiped(t *testing.T) {
	for _, version := range []int{0, domain.CurrentVersion + 1, -3} {
		store, sub, clock := newStore(t)
		ctx := context.Background()

		snap := fullSnapshot()
		snap.SavedAt = clock.Now()
		snap.Version = version
		writeRaw(t, sub, snap)

		_, ok := store.Load(ctx)
		assert.False(t, ok, "version %d", version)
		assert.False(t, store.Exists(ctx))
		assert.False(t, stored(sub), "mismatched snapshot must be deleted")
	}
}

func TestStore_Expiry(t *testing.T) {
	t.Run("older than 24h is wiped", func(t *testing.T) {
		store, _, clock := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, fullSnapshot()))
		clock.Advance(24*time.Hour + time.Millisecond)

		assert.False(t, store.Exists(ctx))
		_, ok := store.Load(ctx)
		assert.False(t, ok)
	})

	t.Run("exactly 24h is still valid", func(t *testing.T) {
		store, _, clock := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, fullSnapshot()))
		clock.Advance(24 * time.Hour)

		_, ok := store.Load(ctx)
		assert.True(t, ok)
	})

	t.Run("custom expiry", func(t *testing.T) {
		sub := memory.NewStore()
		clock := newClock()
		store := session.NewStore(sub, session.WithClock(clock.Now), session.WithExpiry(time.Hour))
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, fullSnapshot()))
		clock.Advance(61 * time.Minute)

		_, ok := store.Load(ctx)
		assert.False(t, ok)
		assert.False(t, stored(sub))
	})
}

func TestStore_ProgressSignal(t *testing.T) {
	t.Run("untouched first step is discarded", func(t *testing.T) {
		store, sub, _ := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, domain.Snapshot{
			CurrentStep: domain.StepCustomerDetails,
			FormData:    domain.FormData{FirstName: "", LastName: "", Email: "", Phone: ""},
		}))
		require.True(t, stored(sub), "the raw value is written")

		_, ok := store.Load(ctx)
		assert.False(t, ok)
		assert.False(t, stored(sub))
	})

	t.Run("a single populated field counts", func(t *testing.T) {
		store, _, _ := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, domain.Snapshot{
			CurrentStep: domain.StepCustomerDetails,
			FormData:    domain.FormData{Phone: "5551234567"},
		}))

		got, ok := store.Load(ctx)
		require.True(t, ok)
		assert.Equal(t, "5551234567", got.FormData.Phone)
	})
}

func TestStore_SaveStepBounds(t *testing.T) {
	t.Run("missing step means the first step", func(t *testing.T) {
		store, _, _ := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, domain.Snapshot{
			FormData: domain.FormData{Phone: "5551234567"},
		}))

		got, ok := store.Load(ctx)
		require.True(t, ok)
		assert.Equal(t, domain.FirstStep, got.CurrentStep)
		assert.Equal(t, domain.FirstStep, got.MaxStepReached)
		assert.Equal(t, "5551234567", got.FormData.Phone)
	})

	for name, snap := range map[string]domain.Snapshot{
		"step past the end":     {CurrentStep: domain.LastStep + 1, FormData: domain.FormData{Phone: "1"}},
		"negative step":         {CurrentStep: -1, FormData: domain.FormData{Phone: "1"}},
		"max step past the end": {CurrentStep: domain.StepPayment, MaxStepReached: domain.LastStep + 3},
	} {
		t.Run(name, func(t *testing.T) {
			store, sub, _ := newStore(t)
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, fullSnapshot()))

			err := store.Save(ctx, snap)
			assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
			assert.NotErrorIs(t, err, domain.ErrStorageUnavailable)

			got, ok := store.Load(ctx)
			require.True(t, ok, "the previous snapshot is left in place")
			assert.Equal(t, fullSnapshot().CurrentStep, got.CurrentStep)
			assert.True(t, stored(sub))
		})
	}
}

func TestStore_CorruptIsWiped(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     "{currentStep: 2",
		"wrong shape":  `{"currentStep":"payment","version":1}`,
		"invalid step": `{"currentStep":0,"maxStepReached":0,"version":1,"savedAt":1790000000000}`,
		"no savedAt":   `{"currentStep":3,"maxStepReached":3,"version":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			store, sub, _ := newStore(t)
			ctx := context.Background()
			require.NoError(t, sub.Set(ctx, session.DefaultKey, raw))

			assert.False(t, store.Exists(ctx))
			require.True(t, stored(sub), "Exists never deletes")

			_, ok := store.Load(ctx)
			assert.False(t, ok)
			assert.False(t, stored(sub))
		})
	}
}

func TestStore_Clear(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	assert.NotPanics(t, func() { store.Clear(ctx) }, "clear on empty slot")

	require.NoError(t, store.Save(ctx, fullSnapshot()))
	store.Clear(ctx)

	_, ok := store.Load(ctx)
	assert.False(t, ok)
	assert.False(t, store.Exists(ctx))
}

func TestStore_Summarize(t *testing.T) {
	store, _, clock := newStore(t)
	ctx := context.Background()

	_, ok := store.Summarize(ctx)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, domain.Snapshot{
		CurrentStep: domain.StepRegistration,
		FormData:    domain.FormData{FirstName: "Ana", LastName: "Ruiz"},
	}))
	clock.Advance(65 * time.Minute)

	summary, ok := store.Summarize(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.Summary{CustomerName: "Ana Ruiz", Step: 4, SavedAt: "1 hour ago"}, summary)
}

func TestStore_Inspect(t *testing.T) {
	store, sub, clock := newStore(t)
	ctx := context.Background()

	assert.Equal(t, session.ReasonMissing, store.Inspect(ctx).Reason)

	require.NoError(t, store.Save(ctx, fullSnapshot()))
	r := store.Inspect(ctx)
	assert.True(t, r.Valid())
	assert.False(t, r.Evict())

	clock.Advance(48 * time.Hour)
	r = store.Inspect(ctx)
	assert.Equal(t, session.ReasonExpired, r.Reason)
	assert.True(t, r.Evict())
	require.NotNil(t, r.Snapshot, "rejected snapshots are still decoded")
	assert.Equal(t, "reg-123", r.Snapshot.RegistrationID)
	assert.True(t, stored(sub), "Inspect has no side effects")
}

func TestStore_StorageUnavailable(t *testing.T) {
	store, sub, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, fullSnapshot()))
	sub.SetDisabled(true)

	err := store.Save(ctx, fullSnapshot())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, ok := store.Load(ctx)
	assert.False(t, ok)
	assert.False(t, store.Exists(ctx))
	assert.Equal(t, session.ReasonUnavailable, store.Inspect(ctx).Reason)
	assert.NotPanics(t, func() { store.Clear(ctx) })

	sub.SetDisabled(false)
	_, ok = store.Load(ctx)
	assert.True(t, ok, "an unreadable slot is not evicted")
}

func TestStore_QuotaExceeded(t *testing.T) {
	sub := memory.NewStore(memory.WithQuota(64))
	store := session.NewStore(sub)
	ctx := context.Background()

	err := store.Save(ctx, fullSnapshot())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.False(t, store.Exists(ctx))
}

// panickySubstrate simulates a storage backend that throws.
type panickySubstrate struct {
	*memory.Store
}

func (p panickySubstrate) Set(ctx context.Context, key, value string) error {
	panic("storage access denied")
}

func (p panickySubstrate) Get(ctx context.Context, key string) (string, error) {
	panic("storage access denied")
}

func TestStore_SubstratePanicIsContained(t *testing.T) {
	store := session.NewStore(panickySubstrate{memory.NewStore()})
	ctx := context.Background()

	var err error
	assert.NotPanics(t, func() { err = store.Save(ctx, fullSnapshot()) })
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	assert.NotPanics(t, func() {
		_, ok := store.Load(ctx)
		assert.False(t, ok)
	})
}

func TestStore_Hooks(t *testing.T) {
	sub := memory.NewStore()
	clock := newClock()

	var saves, clears int
	var rejected []session.Reason
	var loaded []session.Reason
	store := session.NewStore(sub,
		session.WithClock(clock.Now),
		session.WithKey("custom:slot"),
		session.WithHooks(session.Hooks{
			OnSave:   func(ctx context.Context, key string, err error) { saves++ },
			OnLoad:   func(ctx context.Context, key string, r session.Result) { loaded = append(loaded, r.Reason) },
			OnReject: func(ctx context.Context, key string, reason session.Reason) { rejected = append(rejected, reason) },
			OnClear:  func(ctx context.Context, key string) { clears++ },
		}),
	)
	ctx := context.Background()
	assert.Equal(t, "custom:slot", store.Key())

	require.NoError(t, store.Save(ctx, fullSnapshot()))
	_, _ = store.Load(ctx)
	clock.Advance(25 * time.Hour)
	_, _ = store.Load(ctx)
	_, _ = store.Load(ctx)
	store.Clear(ctx)

	assert.Equal(t, 1, saves)
	assert.Equal(t, 1, clears)
	assert.Equal(t, []session.Reason{session.ReasonExpired}, rejected)
	assert.Equal(t, []session.Reason{session.ReasonNone, session.ReasonExpired, session.ReasonMissing}, loaded)
}
