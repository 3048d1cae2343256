package core

import "github.com/shopspring/decimal"

// Summarize aggregates a newest-first ledger snapshot in a single pass.
// Every run adds to the distance; only pledged runs add to the wealth. The
// active pledge comes from the newest run alone.
func Summarize(runs []Run) Summary {
	s := Summary{
		TotalWealth:  decimal.Zero,
		ActivePledge: NoActivePledge,
		Runs:         len(runs),
	}
	for i, r := range runs {
		s.TotalDistance += r.Distance
		if r.Pledged() {
			s.TotalWealth = s.TotalWealth.Add(r.WealthAmount())
		}
		if i == 0 && r.Pledged() {
			s.ActivePledge = r.Pledge
		}
	}
	return s
}

// LeaderboardFigures returns the totals used to annotate the current user's
// leaderboard row.
func LeaderboardFigures(runs []Run) Figures {
	return Summarize(runs).Figures()
}

// Figures returns the leaderboard subset of the summary.
func (s Summary) Figures() Figures {
	return Figures{TotalDistance: s.TotalDistance, TotalWealth: s.TotalWealth, Runs: s.Runs}
}
