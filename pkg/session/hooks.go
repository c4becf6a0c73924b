package session

import "context"

// Hooks are optional callbacks fired by a Store after each lifecycle operation.
// They must not block; nil fields are skipped.
type Hooks struct {
	// OnSave fires after every Save; err is nil on success.
	OnSave func(ctx context.Context, key string, err error)

	// OnLoad fires after every Load with the validation outcome.
	OnLoad func(ctx context.Context, key string, result Result)

	// OnReject fires when a stored snapshot is evicted.
	OnReject func(ctx context.Context, key string, reason Reason)

	// OnClear fires after Clear.
	OnClear func(ctx context.Context, key string)
}

func (h Hooks) save(ctx context.Context, key string, err error) {
	if h.OnSave != nil {
		h.OnSave(ctx, key, err)
	}
}

func (h Hooks) load(ctx context.Context, key string, result Result) {
	if h.OnLoad != nil {
		h.OnLoad(ctx, key, result)
	}
}

func (h Hooks) reject(ctx context.Context, key string, reason Reason) {
	if h.OnReject != nil {
		h.OnReject(ctx, key, reason)
	}
}

func (h Hooks) clear(ctx context.Context, key string) {
	if h.OnClear != nil {
		h.OnClear(ctx, key)
	}
}
