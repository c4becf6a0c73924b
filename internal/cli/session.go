package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/mitchellh/mapstructure"
)

// ErrNoSession is returned when there is nothing valid to resume.
var ErrNoSession = errors.New("no resumable session")

// ShowSession prints the stored snapshot as indented JSON.
func ShowSession(ctx context.Context, w io.Writer, app *App, id string) error {
	snap, ok := app.Store(id).Load(ctx)
	if !ok {
		return ErrNoSession
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// SessionExists prints and returns whether a resumable snapshot is stored.
func SessionExists(ctx context.Context, w io.Writer, app *App, id string) bool {
	ok := app.Store(id).Exists(ctx)
	fmt.Fprintln(w, ok)
	return ok
}

// SummarizeSession prints the resume card, or its JSON form.
func SummarizeSession(ctx context.Context, w io.Writer, app *App, id string, asJSON bool) error {
	summary, ok := app.Store(id).Summarize(ctx)
	if !ok {
		if !asJSON {
			tui.PrintNoSession(w)
		}
		return ErrNoSession
	}

	if asJSON {
		return json.NewEncoder(w).Encode(summary)
	}
	tui.PrintSummary(w, id, summary)
	return nil
}

// ClearSession removes the stored snapshot.
func ClearSession(ctx context.Context, w io.Writer, app *App, id string) {
	store := app.Store(id)
	store.Clear(ctx)
	printSystemMessage(w, "Cleared session '%s'", store.Key())
}

// ListSessions prints every stored workflow id.
func ListSessions(ctx context.Context, w io.Writer, app *App) error {
	ids, err := app.Sessions.List(ctx)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Fprintln(w, "No stored sessions found.")
		return nil
	}

	fmt.Fprintln(w, "Stored Sessions:")
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

// SweepSessions evicts every stale workflow.
func SweepSessions(ctx context.Context, w io.Writer, app *App) error {
	n, err := app.Sessions.Sweep(ctx)
	if err != nil {
		return err
	}
	printSystemMessage(w, "Evicted %d stale session(s)", n)
	return nil
}

// SaveOptions describes where the snapshot to save comes from.
type SaveOptions struct {
	// File is a JSON snapshot; "-" reads stdin.
	File string
	// Set holds key=value assignments applied last. Keys use the JSON field
	// names, nested with dots (formData.firstName=Ada).
	Set []string
	// Stdin is read when File is "-".
	Stdin io.Reader
}

// SaveSession builds a snapshot and saves it.
// Without a file the currently stored snapshot, if valid, is the starting point.
func SaveSession(ctx context.Context, w io.Writer, app *App, id string, opts SaveOptions) error {
	patch, err := ParseAssignments(opts.Set)
	if err != nil {
		return err
	}

	save := func(ctx context.Context, store *session.Store) error {
		snap, err := baseSnapshot(ctx, store, opts)
		if err != nil {
			return err
		}
		if err := ApplyAssignments(snap, patch); err != nil {
			return err
		}
		if err := store.Save(ctx, *snap); err != nil {
			return err
		}
		printSystemMessage(w, "Saved session '%s' at step %d (%s)", store.Key(), snap.CurrentStep, snap.CurrentStep)
		return nil
	}

	if id == "" {
		return save(ctx, app.Store(""))
	}
	return app.Sessions.WithLock(ctx, id, save)
}

func baseSnapshot(ctx context.Context, store *session.Store, opts SaveOptions) (*domain.Snapshot, error) {
	if opts.File == "" {
		if snap, ok := store.Load(ctx); ok {
			return snap, nil
		}
		return domain.NewSnapshot(), nil
	}

	var (
		data []byte
		err  error
	)
	if opts.File == "-" {
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(opts.File)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	snap := domain.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return snap, nil
}

// ParseAssignments turns ["formData.firstName=Ada", "currentStep=3"] into a nested map.
func ParseAssignments(pairs []string) (map[string]any, error) {
	out := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (want key=value)", pair)
		}

		parts := strings.Split(key, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := map[string]any{}
				node[part] = next
				node = next
				continue
			}
			next, isMap := child.(map[string]any)
			if !isMap {
				return nil, fmt.Errorf("assignment %q conflicts with %q", pair, part)
			}
			node = next
		}

		value, err := sanitizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("assignment %q: %w", key, err)
		}

		leaf := parts[len(parts)-1]
		if _, isMap := node[leaf].(map[string]any); isMap {
			return nil, fmt.Errorf("assignment %q conflicts with a nested key", pair)
		}
		node[leaf] = value
	}
	return out, nil
}

// ApplyAssignments decodes patch onto snap. Strings are converted to the field
// types; steps accept either a number or a name such as "payment".
func ApplyAssignments(snap *domain.Snapshot, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       stepHook,
		Result:           snap,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(patch); err != nil {
		return fmt.Errorf("invalid assignment: %w", err)
	}
	return nil
}

var stepType = reflect.TypeOf(domain.WorkflowStep(0))

func stepHook(from, to reflect.Type, data any) (any, error) {
	if to != stepType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseStep(data.(string))
}
