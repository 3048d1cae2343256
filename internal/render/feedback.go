package render

import (
	"runclub/internal/core"
)

// TrackerFeedback replaces the tracker's feedback box with a message about
// the run that was just logged.
func TrackerFeedback(doc *Document, run core.Run) {
	box := findFirst(doc.root, withID(IDTrackerFeedback))
	if box == nil {
		return
	}
	removeChildren(box)

	distance := core.FormatDistance(run.Distance) + "km"
	if !run.Pledged() {
		box.AppendChild(el("div", attrs{"class": "warning-message"},
			el("h3", nil, text("Run Logged: "+distance)),
			el("p", nil, text("Tip: Next time, select a pledge to turn your run into community support!")),
		))
		return
	}
	box.AppendChild(el("div", attrs{"class": "success-message"},
		el("h3", nil, el("span", attrs{"style": "font-size:24px"}, text("🎉")), text(" Wealth Shared!")),
		el("p", nil, text("Great job! You ran "), el("strong", nil, text(distance)), text(".")),
		el("p", nil,
			text("You raised "), el("strong", nil, text("$"+run.Wealth)),
			text(" for "), el("strong", nil, text(run.Pledge)), text("."),
		),
	))
}
