// Package pages wires the ledger, the aggregation rules and the renderers
// into the load and submit pipelines of each page. A page is chosen by an
// explicit ID, and each controller is handed exactly the collaborators it uses.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"runclub/internal/core"
	"runclub/internal/render"
)

// ID identifies a page.
type ID string

const (
	Tracker     ID = "tracker"
	Dashboard   ID = "dashboard"
	Leaderboard ID = "leaderboard"
)

// IDs lists every page in menu order.
var IDs = []ID{Tracker, Dashboard, Leaderboard}

var ErrUnknownPage = errors.New("unknown page")

// ParseID maps a name such as "dashboard" to its ID.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range IDs {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

type (
	// RunReader returns the ledger snapshot, newest first.
	RunReader interface {
		Load(ctx context.Context) []core.Run
	}

	// RunAppender records a new run.
	RunAppender interface {
		Append(ctx context.Context, distance float64, pledge string) (core.Run, error)
	}

	// RunLedger reads and records runs.
	RunLedger interface {
		RunReader
		RunAppender
	}

	// NameReader returns the current runner's display name, if any.
	NameReader interface {
		Name(ctx context.Context) (string, bool)
	}
)

// Page is the page-load pipeline of one page.
type Page interface {
	ID() ID
	Load(ctx context.Context, doc *render.Document)
}

// greet updates the welcome message present on every page.
func greet(ctx context.Context, doc *render.Document, identity NameReader) {
	if identity == nil {
		return
	}
	name, _ := identity.Name(ctx)
	render.Welcome(doc, name)
}

// Set holds the controllers available to a host.
type Set struct {
	pages map[ID]Page
}

func NewSet(pages ...Page) *Set {
	s := &Set{pages: make(map[ID]Page, len(pages))}
	for _, p := range pages {
		s.pages[p.ID()] = p
	}
	return s
}

// Get returns the controller registered for id.
func (s *Set) Get(id ID) (Page, bool) {
	p, ok := s.pages[id]
	return p, ok
}

// Load runs the page-load pipeline of id against doc.
func (s *Set) Load(ctx context.Context, id ID, doc *render.Document) error {
	p, ok := s.pages[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPage, id)
	}
	p.Load(ctx, doc)
	return nil
}
