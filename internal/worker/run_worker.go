// Package worker processes run-logged events delivered by the broker.
package worker

import (
	"context"
	"sync"

	"runclub/internal/amqp"
	"runclub/internal/core"
	applog "runclub/internal/log"
)

// maxSeen bounds the message IDs remembered for redelivery detection.
const maxSeen = 1024

// RunWorker checks every run-logged message, hands the run to a sink and
// keeps a club-wide tally of what it has seen.
type RunWorker struct {
	logger *applog.Logger
	sink   func(ctx context.Context, run core.Run) error

	mu    sync.Mutex
	tally core.Summary
	seen  map[string]struct{}
	order []string
}

// NewRunWorker creates a worker. A nil sink only tallies.
func NewRunWorker(logger *applog.Logger, sink func(ctx context.Context, run core.Run) error) *RunWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &RunWorker{
		logger: logger.WithComponent(applog.ComponentAMQP),
		sink:   sink,
		tally:  core.Summarize(nil),
		seen:   make(map[string]struct{}),
	}
}

// HandleRunLogged processes a single run-logged message. Redeliveries and
// messages carrying an impossible run are logged and dropped; a sink error
// is returned so the broker redelivers.
func (w *RunWorker) HandleRunLogged(ctx context.Context, msg *amqp.RunLoggedMessage) error {
	log := w.logger.With("message_id", msg.ID)

	if w.wasSeen(msg.ID) {
		log.DebugContext(ctx, "Skipping redelivered run logged message")
		return nil
	}

	run := msg.Run()
	if err := core.ValidateDistance(run.Distance); err != nil {
		log.WarnContext(ctx, "Dropping run logged message with invalid distance",
			applog.FieldDistance, run.Distance, applog.FieldError, err)
		return nil
	}
	if run.Pledged() {
		if want := core.FormatWealth(run.Distance); run.Wealth != want {
			log.WarnContext(ctx, "Run wealth does not match its distance",
				applog.FieldWealth, run.Wealth, "expected", want)
		}
	}

	if w.sink != nil {
		if err := w.sink(ctx, run); err != nil {
			return err
		}
	}

	w.record(msg.ID, run)
	log.InfoContext(ctx, "Processed run logged message",
		applog.FieldDistance, run.Distance,
		applog.FieldPledge, run.Pledge,
		applog.FieldWealth, run.Wealth)
	return nil
}

// Tally returns the totals of the runs processed so far. The active pledge
// follows the most recently processed run.
func (w *RunWorker) Tally() core.Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tally
}

func (w *RunWorker) wasSeen(id string) bool {
	if id == "" {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[id]
	return ok
}

func (w *RunWorker) record(id string, run core.Run) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tally.Runs++
	w.tally.TotalDistance += run.Distance
	w.tally.ActivePledge = core.NoActivePledge
	if run.Pledged() {
		w.tally.TotalWealth = w.tally.TotalWealth.Add(run.WealthAmount())
		w.tally.ActivePledge = run.Pledge
	}

	if id == "" {
		return
	}
	w.seen[id] = struct{}{}
	w.order = append(w.order, id)
	if len(w.order) > maxSeen {
		delete(w.seen, w.order[0])
		w.order = w.order[1:]
	}
}
