package engine

import (
	"testing"

	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

func templateIndex(t *testing.T, id string) int {
	t.Helper()
	for i, tpl := range RandomEventTemplates() {
		if tpl.ID == id {
			return i
		}
	}
	t.Fatalf("no template %q", id)
	return -1
}

func TestEventScheduleNondecreasing(t *testing.T) {
	r := NewRandomEvents(config.DefaultRules(), NewRNG(1))
	if r.Probability(1) != 0 {
		t.Errorf("day 1 probability = %v", r.Probability(1))
	}
	for day := 2; day <= 7; day++ {
		if r.Probability(day) < r.Probability(day-1) {
			t.Errorf("probability drops on day %d", day)
		}
	}
	if r.Probability(0) != 0 || r.Probability(8) != 0 {
		t.Error("probability outside the schedule should be 0")
	}
}

func TestDayOneNeverTriggers(t *testing.T) {
	rng := &scriptedRNG{floats: []float64{0}}
	r := NewRandomEvents(config.DefaultRules(), rng)
	if r.ShouldTrigger(1) {
		t.Error("event triggered on day 1")
	}
	for _, day := range []int{0, 8} {
		if r.ShouldTrigger(day) {
			t.Errorf("event triggered on day %d", day)
		}
	}
	if rng.fi != 1 {
		t.Errorf("out-of-range days consumed draws: %d used", rng.fi)
	}
}

func TestRollAppliesTemplate(t *testing.T) {
	rules := config.DefaultRules()
	ledger := NewLedger(rules)
	rng := &scriptedRNG{floats: []float64{0.1}, ints: []int{templateIndex(t, "market_crash")}}
	r := NewRandomEvents(rules, rng)

	inst, ok := r.Roll(2, models.Afternoon, models.RoleKing, ledger)
	if !ok {
		t.Fatal("no event at p=0.15 with draw 0.1")
	}
	if inst.ID != "market_crash_2_afternoon" || inst.Day != 2 || inst.Role != models.RoleKing {
		t.Errorf("instance = %+v", inst)
	}
	if v := mustGet(t, ledger, models.RoleKing, models.Treasury); v != 30 {
		t.Errorf("treasury = %d, want 30", v)
	}
	if len(inst.Applied) != 1 || inst.Applied[0].Amount != -20 {
		t.Errorf("applied = %v", inst.Applied)
	}
	if len(inst.Modifiers) != 1 || inst.Modifiers[0].Target != "economic_stability" {
		t.Errorf("modifiers = %v", inst.Modifiers)
	}
	if len(r.History()) != 1 {
		t.Errorf("history = %v", r.History())
	}

	if _, ok := r.Roll(2, models.Evening, models.RoleKing, ledger); ok {
		t.Error("event fired on draw 0.999")
	}
}

func TestRollRespectsCap(t *testing.T) {
	rules := config.DefaultRules()
	rules.MaxRandomEvents = 2
	rules.MinRandomEvents = 1
	r := NewRandomEvents(rules, &scriptedRNG{floats: []float64{0, 0, 0, 0}})
	ledger := NewLedger(rules)
	fired := 0
	for i := 0; i < 4; i++ {
		if _, ok := r.Roll(7, models.Morning, models.RoleCaptain, ledger); ok {
			fired++
		}
	}
	if fired != 2 || len(r.History()) != 2 {
		t.Errorf("fired %d events, want 2", fired)
	}
	if !r.MinimumMet() {
		t.Error("minimum not met after 2 events")
	}
}

func TestApplyRandomEvent(t *testing.T) {
	rules := config.DefaultRules()
	ledger := NewLedger(rules)

	tpl := RandomEventTemplate{ID: "levy", Effects: []models.Effect{
		scales(string(models.Treasury), -0.25),
		adds(string(models.PublicTrust), 70),
		adds("morale", 5),
	}}
	inst := ApplyRandomEvent(tpl, 3, models.Morning, models.RoleKing, ledger)
	if v := mustGet(t, ledger, models.RoleKing, models.Treasury); v != 37 {
		t.Errorf("treasury = %d, want 37 after floor(50 * -0.25)", v)
	}
	if v := mustGet(t, ledger, models.RoleKing, models.PublicTrust); v != 100 {
		t.Errorf("public trust = %d, want clamp to 100", v)
	}
	want := []models.ResourceAmount{{Resource: models.Treasury, Amount: -13}, {Resource: models.PublicTrust, Amount: 50}}
	if len(inst.Applied) != 2 || inst.Applied[0] != want[0] || inst.Applied[1] != want[1] {
		t.Errorf("applied = %v, want %v", inst.Applied, want)
	}
	if len(inst.Modifiers) != 1 || inst.Modifiers[0].Target != "morale" {
		t.Errorf("modifiers = %v", inst.Modifiers)
	}

	crash := RandomEventTemplates()[templateIndex(t, "market_crash")]
	inst = ApplyRandomEvent(crash, 4, models.Evening, models.RoleSpy, ledger)
	if len(inst.Applied) != 0 || len(inst.Modifiers) != 2 {
		t.Errorf("market crash on the spy: applied %v modifiers %v", inst.Applied, inst.Modifiers)
	}
	if v := mustGet(t, ledger, models.RoleKing, models.Treasury); v != 37 {
		t.Errorf("spy's event touched the king's treasury: %d", v)
	}
}
