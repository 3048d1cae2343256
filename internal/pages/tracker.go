package pages

import (
	"context"

	"runclub/internal/core"
	"runclub/internal/render"
)

// TrackerPage shows the run history and records new runs.
type TrackerPage struct {
	ledger   RunLedger
	identity NameReader
}

func NewTracker(ledger RunLedger, identity NameReader) *TrackerPage {
	return &TrackerPage{ledger: ledger, identity: identity}
}

func (p *TrackerPage) ID() ID { return Tracker }

// Load renders the full history table.
func (p *TrackerPage) Load(ctx context.Context, doc *render.Document) {
	greet(ctx, doc, p.identity)
	render.HistoryTable(doc, p.ledger.Load(ctx))
}

// Submit records a run and reflects it on an already loaded page: the
// feedback box explains the contribution and the new row goes on top of
// the table. A nil doc only records the run.
func (p *TrackerPage) Submit(ctx context.Context, doc *render.Document, distance float64, pledge string) (core.Run, error) {
	run, err := p.ledger.Append(ctx, distance, pledge)
	if err != nil {
		return core.Run{}, err
	}
	if doc != nil {
		render.TrackerFeedback(doc, run)
		render.AppendRow(doc, run.Distance, run.Pledge, run.Date)
	}
	return run, nil
}
