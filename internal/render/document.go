// Package render projects ledger records and summaries onto host pages.
//
// A page is parsed into a Document and patched in place through stable
// class and id anchors. Every renderer is a silent no-op when its anchor is
// missing from the page.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Anchors the host markup must expose.
const (
	ClassDataTable    = "data-table"
	ClassStatValue    = "stat-value"
	ClassActivityFeed = "activity-feed"
	ClassProfile      = "profile"
	IDTrackerFeedback = "tracker-feedback"
	IDUserWelcome     = "user-welcome"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the document back out as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// historyBody is the first tbody inside a .data-table.
func (d *Document) historyBody() *html.Node {
	for _, table := range findAll(d.root, withClass(ClassDataTable)) {
		if body := findFirst(table, isTag("tbody")); body != nil {
			return body
		}
	}
	return nil
}

// tableRows lists every tr under a tbody of any .data-table, in document order.
func (d *Document) tableRows() []*html.Node {
	var rows []*html.Node
	seen := map[*html.Node]bool{}
	for _, table := range findAll(d.root, withClass(ClassDataTable)) {
		for _, body := range findAll(table, isTag("tbody")) {
			for _, tr := range findAll(body, isTag("tr")) {
				if !seen[tr] {
					seen[tr] = true
					rows = append(rows, tr)
				}
			}
		}
	}
	return rows
}
