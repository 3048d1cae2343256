package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"runclub/internal/amqp"
	"runclub/internal/core"
)

func message(t *testing.T, distance float64, pledge string) *amqp.RunLoggedMessage {
	t.Helper()
	run, err := core.NewRun("11/23/2019", distance, pledge)
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	return amqp.NewRunLoggedMessage(run)
}

func TestHandleRunLoggedTallies(t *testing.T) {
	var got []core.Run
	w := NewRunWorker(nil, func(_ context.Context, r core.Run) error {
		got = append(got, r)
		return nil
	})
	ctx := context.Background()

	for _, msg := range []*amqp.RunLoggedMessage{
		message(t, 5, "FoodBank"),
		message(t, 2.5, ""),
		message(t, 3, "CleanWater"),
	} {
		if err := w.HandleRunLogged(ctx, msg); err != nil {
			t.Fatalf("HandleRunLogged() error = %v", err)
		}
	}

	tally := w.Tally()
	if tally.Runs != 3 || tally.TotalDistance != 10.5 {
		t.Errorf("tally = %+v", tally)
	}
	if got := core.FormatCurrency(tally.TotalWealth); got != "$8.00" {
		t.Errorf("wealth = %s, want $8.00", got)
	}
	if tally.ActivePledge != "CleanWater" {
		t.Errorf("active pledge = %q", tally.ActivePledge)
	}

	want := []core.Run{
		{Date: "11/23/2019", Distance: 5, Pledge: "FoodBank", Wealth: "5.00"},
		{Date: "11/23/2019", Distance: 2.5, Pledge: core.PledgeNone, Wealth: "2.50"},
		{Date: "11/23/2019", Distance: 3, Pledge: "CleanWater", Wealth: "3.00"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sink runs mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleRunLoggedSkipsRedelivery(t *testing.T) {
	calls := 0
	w := NewRunWorker(nil, func(context.Context, core.Run) error { calls++; return nil })
	msg := message(t, 4, "ReliefFund")

	for range 2 {
		if err := w.HandleRunLogged(context.Background(), msg); err != nil {
			t.Fatalf("HandleRunLogged() error = %v", err)
		}
	}
	if calls != 1 || w.Tally().Runs != 1 {
		t.Errorf("redelivery processed twice: calls=%d runs=%d", calls, w.Tally().Runs)
	}
}

func TestHandleRunLoggedDropsInvalidDistance(t *testing.T) {
	w := NewRunWorker(nil, nil)
	for _, d := range []float64{-1, math.NaN()} {
		msg := &amqp.RunLoggedMessage{ID: "bad", Distance: d, Pledge: "FoodBank", Wealth: "0.00"}
		if err := w.HandleRunLogged(context.Background(), msg); err != nil {
			t.Errorf("invalid run should be dropped, got %v", err)
		}
	}
	if w.Tally().Runs != 0 {
		t.Errorf("invalid runs were tallied")
	}
}

func TestHandleRunLoggedSinkError(t *testing.T) {
	boom := errors.New("boom")
	w := NewRunWorker(nil, func(context.Context, core.Run) error { return boom })
	msg := message(t, 1, "")

	if err := w.HandleRunLogged(context.Background(), msg); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if w.Tally().Runs != 0 {
		t.Error("failed run should not be tallied")
	}
	// A redelivery after the failure is processed.
	w.sink = nil
	if err := w.HandleRunLogged(context.Background(), msg); err != nil {
		t.Fatalf("redelivery error = %v", err)
	}
	if w.Tally().Runs != 1 {
		t.Error("redelivered run should be tallied")
	}
}

func TestRecordForgetsOldestIDs(t *testing.T) {
	w := NewRunWorker(nil, nil)
	run := core.Run{Distance: 1, Pledge: core.PledgeNone, Wealth: "1.00"}
	for i := 0; i <= maxSeen; i++ {
		w.record(fmt.Sprintf("msg-%d", i), run)
	}
	if len(w.seen) != maxSeen || len(w.order) != maxSeen {
		t.Errorf("seen=%d order=%d, want %d", len(w.seen), len(w.order), maxSeen)
	}
}
