package render

import (
	"golang.org/x/net/html"

	"runclub/internal/core"
)

const (
	// EmptyFeedText is the placeholder shown when there is no activity.
	EmptyFeedText = "No recent activity."

	// FeedSize is how many of the newest runs the activity feed lists.
	FeedSize = 3
)

// Dashboard fills the three stat tiles (wealth, distance, active pledge) and
// rebuilds the activity feed from the newest runs.
func Dashboard(doc *Document, summary core.Summary, runs []core.Run) {
	if stats := findAll(doc.root, withClass(ClassStatValue)); len(stats) >= 3 {
		setText(stats[0], core.FormatCurrency(summary.TotalWealth))
		setText(stats[1], core.FormatTotalKm(summary.TotalDistance))
		setText(stats[2], summary.ActivePledge)
	}

	feed := findFirst(doc.root, withClass(ClassActivityFeed))
	if feed == nil {
		return
	}
	removeChildren(feed)
	if len(runs) == 0 {
		feed.AppendChild(el("li", attrs{"class": "activity-item", "style": "justify-content:center; color:#999;"},
			text(EmptyFeedText)))
		return
	}
	recent := runs
	if len(recent) > FeedSize {
		recent = recent[:FeedSize]
	}
	for _, r := range recent {
		feed.AppendChild(feedItem(r))
	}
}

func feedItem(r core.Run) *html.Node {
	amount := "No Pledge"
	if r.Pledged() {
		amount = core.FormatSignedCurrency(r.WealthAmount()) + " " + r.Pledge
	}
	return el("li", attrs{"class": "activity-item"},
		el("div", attrs{"class": "activity-left"},
			el("span", attrs{"class": "activity-title"}, text("Run Logged ("+core.FormatDistance(r.Distance)+"km)")),
			el("span", attrs{"class": "activity-date"}, text(r.Date)),
		),
		el("span", attrs{"class": "activity-amount"}, text(amount)),
	)
}
