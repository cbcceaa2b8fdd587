package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// scriptedRNG replays fixed draws. Once a script runs out, Float64 returns
// 0.999 (no random event fires) and IntN returns 0.
type scriptedRNG struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRNG) Float64() float64 {
	if r.fi < len(r.floats) {
		v := r.floats[r.fi]
		r.fi++
		return v
	}
	return 0.999
}

func (r *scriptedRNG) IntN(n int) int {
	if r.ii < len(r.ints) {
		v := r.ints[r.ii]
		r.ii++
		return v % n
	}
	return 0
}

type fakeNarrator struct {
	err   error
	calls []string
}

func (f *fakeNarrator) ActionText(role models.Role, category models.ActionCategory, actionID string, success bool) (string, error) {
	f.calls = append(f.calls, "action:"+actionID)
	return fmt.Sprintf("%s did %s (%t)", role, actionID, success), f.err
}

func (f *fakeNarrator) RandomEventText(eventID string, role models.Role) (string, error) {
	f.calls = append(f.calls, "random:"+eventID)
	return "event " + eventID, f.err
}

func (f *fakeNarrator) EndingText(event models.CrisisEvent, outcome models.Outcome, role models.Role) (string, error) {
	f.calls = append(f.calls, "ending:"+string(outcome))
	return "ending " + string(outcome), f.err
}

func (f *fakeNarrator) DailyText(day int, role models.Role) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("daily:%d", day))
	return fmt.Sprintf("day %d", day), f.err
}

func newTestSession(t *testing.T, role models.Role, event models.CrisisEvent) *Session {
	t.Helper()
	s, err := NewSession(config.DefaultRules(), nil, Options{ID: "test", Role: role, Event: event, RNG: &scriptedRNG{}})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustGet(t *testing.T, l *Ledger, role models.Role, res models.Resource) int {
	t.Helper()
	v, err := l.Get(role, res)
	if err != nil {
		t.Fatalf("Get(%s, %s): %v", role, res, err)
	}
	return v
}
