package render

import (
	"strings"

	"golang.org/x/net/html"

	"runclub/internal/core"
)

const (
	// EmptyHistoryText is the placeholder shown when no run has been logged.
	EmptyHistoryText = "No runs logged yet. Start running!"

	historyColumns    = "5"
	emptyRowClass     = "empty-row"
	badgeClass        = "ethics-badge"
	wealthCellStyle   = "color: #00a36c; font-weight: bold;"
	placeholderStyle  = "text-align:center; color:#999; padding: 20px;"
	noPledgeCellValue = "-"
)

// HistoryTable rebuilds the history table body from runs, newest first.
// An empty ledger renders a single placeholder row spanning every column.
func HistoryTable(doc *Document, runs []core.Run) {
	body := doc.historyBody()
	if body == nil {
		return
	}
	removeChildren(body)
	if len(runs) == 0 {
		body.AppendChild(placeholderRow())
		return
	}
	for _, r := range runs {
		body.AppendChild(runRow(r.Distance, r.Pledge, r.Date))
	}
}

// AppendRow puts a just-logged run at the top of the history table without
// rebuilding it, dropping the empty-state placeholder first.
func AppendRow(doc *Document, distance float64, pledge, date string) {
	body := doc.historyBody()
	if body == nil {
		return
	}
	for _, tr := range childElements(body, "tr") {
		if isPlaceholderRow(tr) {
			body.RemoveChild(tr)
		}
	}
	prependChild(body, runRow(distance, pledge, date))
}

func isPlaceholderRow(tr *html.Node) bool {
	return hasClass(tr, emptyRowClass) || strings.Contains(textContent(tr), EmptyHistoryText)
}

func placeholderRow() *html.Node {
	return el("tr", attrs{"class": emptyRowClass},
		el("td", attrs{"colspan": historyColumns, "style": placeholderStyle}, text(EmptyHistoryText)),
	)
}

// runRow is date | distance | pace placeholder | pledge badge | contribution.
func runRow(distance float64, pledge, date string) *html.Node {
	pledgeCell := el("td", nil, text(noPledgeCellValue))
	wealth := "$0.00"
	if pledge != core.PledgeNone {
		pledgeCell = el("td", nil, el("span", attrs{"class": badgeClass}, text(strings.ToUpper(pledge))))
		wealth = "+$" + core.FormatWealth(distance)
	}
	return el("tr", nil,
		el("td", nil, text(date)),
		el("td", nil, text(core.FormatDistance(distance)+" km")),
		el("td", nil, text(noPledgeCellValue)),
		pledgeCell,
		el("td", attrs{"style": wealthCellStyle}, text(wealth)),
	)
}
