package render

import (
	"strings"

	"golang.org/x/net/html"
)

// Welcome greets the stored user in #user-welcome and in any profile span
// that reads as a welcome message, hiding them when nobody is logged in.
func Welcome(doc *Document, name string) {
	for _, n := range welcomeTargets(doc) {
		if getAttr(n, "id") != IDUserWelcome && !strings.Contains(textContent(n), "Welcome") {
			continue
		}
		if name == "" {
			setStyle(n, "display", "none")
			continue
		}
		setText(n, "Welcome, "+name)
		setStyle(n, "display", "inline")
	}
}

func welcomeTargets(doc *Document) []*html.Node {
	var out []*html.Node
	seen := map[*html.Node]bool{}
	add := func(n *html.Node) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range findAll(doc.root, withID(IDUserWelcome)) {
		add(n)
	}
	for _, profile := range findAll(doc.root, withClass(ClassProfile)) {
		for _, span := range findAll(profile, isTag("span")) {
			add(span)
		}
	}
	return out
}
