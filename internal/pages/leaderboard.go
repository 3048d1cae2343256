package pages

import (
	"context"

	"runclub/internal/core"
	"runclub/internal/render"
)

// LeaderboardPage fills in the row reserved for the current runner.
type LeaderboardPage struct {
	runs     RunReader
	identity NameReader
}

func NewLeaderboard(runs RunReader, identity NameReader) *LeaderboardPage {
	return &LeaderboardPage{runs: runs, identity: identity}
}

func (p *LeaderboardPage) ID() ID { return Leaderboard }

func (p *LeaderboardPage) Load(ctx context.Context, doc *render.Document) {
	greet(ctx, doc, p.identity)
	if p.identity == nil {
		return
	}
	name, ok := p.identity.Name(ctx)
	if !ok {
		return
	}
	render.LeaderboardRow(doc, name, core.LeaderboardFigures(p.runs.Load(ctx)))
}
