package pages

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"runclub/internal/ledger"
	"runclub/internal/render"
	"runclub/internal/storage"
)

const trackerHTML = `<html><body>
<div class="profile"><span id="user-welcome">Welcome, Guest</span></div>
<div id="tracker-feedback"></div>
<table class="data-table"><tbody><tr><td colspan="5">loading</td></tr></tbody></table>
</body></html>`

const dashboardHTML = `<html><body>
<span class="stat-value"></span><span class="stat-value"></span><span class="stat-value"></span>
<ul class="activity-feed"></ul>
</body></html>`

const leaderboardHTML = `<html><body><table class="data-table"><tbody>
<tr><td>1</td><td>Sam</td><td>1 km</td><td>-</td><td>$1.00</td></tr>
<tr><td>2</td><td>Alex</td><td>1 km</td><td>-</td><td>$1.00</td></tr>
<tr><td>3</td><td>You</td><td>0 km</td><td>-</td><td>$0.00</td></tr>
</tbody></table></body></html>`

type fixedName string

func (n fixedName) Name(context.Context) (string, bool) { return string(n), n != "" }

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	return ledger.New(storage.NewMemory(), ledger.WithClock(clock))
}

func parse(t *testing.T, s string) *render.Document {
	t.Helper()
	doc, err := render.ParseString(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{"tracker", Tracker, false},
		{" Dashboard ", Dashboard, false},
		{"LEADERBOARD", Leaderboard, false},
		{"settings", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseID(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownPage) {
			t.Fatalf("ParseID(%q) err=%v, want ErrUnknownPage", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseID(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrackerLoadAndSubmit(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	if _, err := l.Append(ctx, 2, "none"); err != nil {
		t.Fatalf("append: %v", err)
	}
	page := NewTracker(l, fixedName("Ada"))

	doc := parse(t, trackerHTML)
	page.Load(ctx, doc)
	out := doc.String()
	if !strings.Contains(out, "Welcome, Ada") {
		t.Fatalf("welcome not rendered: %s", out)
	}
	if strings.Contains(out, "loading") || !strings.Contains(out, "2 km") {
		t.Fatalf("history not rendered: %s", out)
	}

	run, err := page.Submit(ctx, doc, 3.5, "FoodBank")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if run.Wealth != "3.50" || run.Date != "10/18/2026" {
		t.Fatalf("unexpected run %+v", run)
	}
	out = doc.String()
	if strings.Index(out, "3.5 km") > strings.Index(out, "2 km") {
		t.Fatalf("new run must be the first row: %s", out)
	}
	if !strings.Contains(out, "You raised $3.50 for FoodBank.") {
		t.Fatalf("feedback not rendered: %s", out)
	}
	if got := len(l.Load(ctx)); got != 2 {
		t.Fatalf("ledger has %d runs, want 2", got)
	}
}

func TestTrackerSubmitInvalid(t *testing.T) {
	ctx := context.Background()
	page := NewTracker(newLedger(t), nil)
	doc := parse(t, trackerHTML)
	before := doc.String()

	if _, err := page.Submit(ctx, doc, -1, "none"); err == nil {
		t.Fatal("expected error for negative distance")
	}
	if doc.String() != before {
		t.Fatal("document must not change on a rejected submit")
	}
}

func TestDashboardLoad(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	l.Append(ctx, 5, "none")
	l.Append(ctx, 3, "ReliefFund")

	doc := parse(t, dashboardHTML)
	NewDashboard(l, nil).Load(ctx, doc)
	out := doc.String()
	for _, want := range []string{"$3.00", "8.0 km", "ReliefFund", "No Pledge"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestLeaderboardLoad(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	l.Append(ctx, 4, "FoodBank")

	doc := parse(t, leaderboardHTML)
	NewLeaderboard(l, fixedName("Ada")).Load(ctx, doc)
	out := doc.String()
	if !strings.Contains(out, "Ada (You)") || !strings.Contains(out, "4.0 km") {
		t.Fatalf("user row not filled: %s", out)
	}

	anon := parse(t, leaderboardHTML)
	before := anon.String()
	NewLeaderboard(l, fixedName("")).Load(ctx, anon)
	if anon.String() != before {
		t.Fatal("leaderboard must not change without a user")
	}
}

func TestSetLoad(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	set := NewSet(NewTracker(l, nil), NewDashboard(l, nil))

	if _, ok := set.Get(Tracker); !ok {
		t.Fatal("tracker page not registered")
	}
	if err := set.Load(ctx, Dashboard, parse(t, dashboardHTML)); err != nil {
		t.Fatalf("load dashboard: %v", err)
	}
	err := set.Load(ctx, Leaderboard, parse(t, leaderboardHTML))
	if !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("err=%v, want ErrUnknownPage", err)
	}
}
