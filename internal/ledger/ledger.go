// Package ledger keeps the newest-first run history in a single store key
// and reads the stored display name of the current runner.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"runclub/internal/core"
	applog "runclub/internal/log"
	"runclub/internal/storage"
)

// Store keys. They match the names the site has always used.
const (
	KeyRunHistory = "runHistory"
	KeyUser       = "runClubUser"
)

// DefaultDateLayout renders dates the way an en-US locale prints a short date.
const DefaultDateLayout = "1/2/2006"

// Notifier is told about every run after it has been stored.
type Notifier interface {
	RunLogged(ctx context.Context, run core.Run) error
}

// Ledger is the append-only run history.
//
// Append is a load, prepend, store sequence with no locking across
// processes: two writers sharing one store can lose an append.
type Ledger struct {
	store      storage.Store
	logger     *applog.Logger
	notifier   Notifier
	now        func() time.Time
	dateLayout string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for fallbacks and notifications.
func WithLogger(logger *applog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger.WithComponent(applog.ComponentLedger)
		}
	}
}

// WithNotifier registers the collaborator told about each appended run.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithClock overrides the time source used to date new runs.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithDateLayout sets the time layout used for a run's date.
func WithDateLayout(layout string) Option {
	return func(l *Ledger) {
		if layout != "" {
			l.dateLayout = layout
		}
	}
}

func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:      store,
		logger:     applog.Discard(),
		now:        time.Now,
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today returns the current date in the ledger's layout.
func (l *Ledger) Today() string {
	return l.now().Format(l.dateLayout)
}

// Load returns the stored runs, newest first. An absent, unreadable or
// malformed history yields an empty ledger.
func (l *Ledger) Load(ctx context.Context) []core.Run {
	runs, err := l.read(ctx, false)
	if err != nil {
		l.logger.WarnContext(ctx, "Run history unavailable, using empty ledger",
			applog.FieldOperation, applog.OpLoad, applog.FieldError, err)
		return []core.Run{}
	}
	return runs
}

// read distinguishes a store failure, which is returned, from malformed
// content, which falls back to an empty ledger. A fresh read bypasses any
// store cache.
func (l *Ledger) read(ctx context.Context, fresh bool) ([]core.Run, error) {
	get := l.store.Get
	if fresh {
		get = func(ctx context.Context, key string) (string, bool, error) {
			return storage.GetFresh(ctx, l.store, key)
		}
	}
	raw, ok, err := get(ctx, KeyRunHistory)
	if err != nil {
		return nil, fmt.Errorf("read run history: %w", err)
	}
	if !ok {
		return []core.Run{}, nil
	}
	var runs []core.Run
	if err := json.Unmarshal([]byte(raw), &runs); err != nil {
		l.logger.WarnContext(ctx, "Malformed run history, using empty ledger",
			applog.FieldKey, KeyRunHistory, applog.FieldError, err)
		return []core.Run{}, nil
	}
	if runs == nil {
		runs = []core.Run{}
	}
	return runs, nil
}

// Append dates a new run today, puts it at the front of the history and
// writes the whole history back in one store write.
func (l *Ledger) Append(ctx context.Context, distance float64, pledge string) (core.Run, error) {
	run, err := core.NewRun(l.Today(), distance, pledge)
	if err != nil {
		return core.Run{}, fmt.Errorf("new run: %w", err)
	}

	// Another process may share the store; never rewrite a cached history.
	runs, err := l.read(ctx, true)
	if err != nil {
		return core.Run{}, err
	}
	runs = append([]core.Run{run}, runs...)

	body, err := json.Marshal(runs)
	if err != nil {
		return core.Run{}, fmt.Errorf("encode run history: %w", err)
	}
	if err := l.store.Set(ctx, KeyRunHistory, string(body)); err != nil {
		return core.Run{}, fmt.Errorf("save run history: %w", err)
	}

	l.logger.InfoContext(ctx, "Run logged",
		applog.NewFields().
			WithOperation(applog.OpAppend).
			WithRun(run.Distance, run.Pledge, run.Wealth).
			ToSlice()...)

	if l.notifier != nil {
		if err := l.notifier.RunLogged(ctx, run); err != nil {
			// The run is stored; a lost notification is not worth failing the submit.
			l.logger.ErrorContext(ctx, "Failed to publish run logged event", applog.FieldError, err)
		}
	}

	return run, nil
}
