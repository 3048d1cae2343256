package pages

import (
	"context"

	"runclub/internal/core"
	"runclub/internal/render"
)

// DashboardPage shows the stat tiles and the recent activity feed.
type DashboardPage struct {
	runs     RunReader
	identity NameReader
}

func NewDashboard(runs RunReader, identity NameReader) *DashboardPage {
	return &DashboardPage{runs: runs, identity: identity}
}

func (p *DashboardPage) ID() ID { return Dashboard }

func (p *DashboardPage) Load(ctx context.Context, doc *render.Document) {
	greet(ctx, doc, p.identity)
	runs := p.runs.Load(ctx)
	render.Dashboard(doc, core.Summarize(runs), runs)
}
