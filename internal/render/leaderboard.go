package render

import "runclub/internal/core"

// LeaderboardUserRow is the zero-based index of the data row reserved for
// the current user.
const LeaderboardUserRow = 2

const highlightColor = "#00a36c"

// LeaderboardRow writes the current user's name and totals into the
// reserved leaderboard row. Nothing changes when no name is given, the
// ledger is empty, the table has fewer than three rows or the reserved row
// has fewer than five cells.
func LeaderboardRow(doc *Document, userName string, figures core.Figures) {
	if userName == "" || figures.Runs == 0 {
		return
	}
	rows := doc.tableRows()
	if len(rows) <= LeaderboardUserRow {
		return
	}
	cells := childElements(rows[LeaderboardUserRow], "td")
	if len(cells) < 5 {
		return
	}
	setText(cells[1], userName+" (You)")
	setStyle(cells[1], "font-weight", "bold")
	setStyle(cells[1], "color", highlightColor)
	setText(cells[2], core.FormatTotalKm(figures.TotalDistance))
	setText(cells[4], core.FormatCurrency(figures.TotalWealth))
}
