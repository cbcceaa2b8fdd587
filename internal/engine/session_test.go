package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

func TestNewSessionPicksRoleAndEvent(t *testing.T) {
	s, err := NewSession(config.DefaultRules(), nil, Options{RNG: &scriptedRNG{ints: []int{1, 3}}})
	if err != nil {
		t.Fatal(err)
	}
	if s.Role() != models.RoleCaptain || s.Event() != models.CultUprising {
		t.Errorf("role %s event %s", s.Role(), s.Event())
	}
	if s.ID() == "" {
		t.Error("no session id generated")
	}
	if s.Day() != 1 || s.Slot() != models.Morning || s.Phase() != models.ActI || s.Over() {
		t.Errorf("fresh session at day %d %s", s.Day(), s.Slot())
	}

	if _, err := NewSession(config.DefaultRules(), nil, Options{Role: "jester"}); !errors.Is(err, models.ErrUnknownRole) {
		t.Errorf("bad role = %v", err)
	}
	if _, err := NewSession(config.DefaultRules(), nil, Options{Event: "meteor"}); !errors.Is(err, models.ErrUnknownEvent) {
		t.Errorf("bad event = %v", err)
	}
	bad := config.DefaultRules()
	bad.TotalDays = 0
	if _, err := NewSession(bad, nil, Options{}); !errors.Is(err, models.ErrConfigInvalid) {
		t.Errorf("bad rules = %v", err)
	}
}

func TestAcquireTaxCollection(t *testing.T) {
	s := newTestSession(t, models.RoleKing, models.FamineCascade)
	res, err := s.Acquire("king_tax_collection")
	if err != nil {
		t.Fatal(err)
	}
	bal := s.Balances()
	if bal[models.Treasury] != 70 || bal[models.PublicTrust] != 40 {
		t.Errorf("balances = %v", bal)
	}
	if res.Spent[models.PublicTrust] != 10 || len(res.Gained) != 1 || res.Gained[0].Amount != 20 {
		t.Errorf("result = %+v", res)
	}
	if s.Slot() != models.Afternoon {
		t.Errorf("slot = %s, want afternoon", s.Slot())
	}
}

func TestRejectedActionLeavesStateUnchanged(t *testing.T) {
	s := newTestSession(t, models.RoleKing, models.FamineCascade)
	s.ledger.Set(models.RoleKing, models.PublicTrust, 5)
	before := s.Snapshot()

	if _, err := s.Acquire("king_tax_collection"); !errors.Is(err, models.ErrInsufficientResource) {
		t.Fatalf("Acquire = %v, want ErrInsufficientResource", err)
	}
	if _, err := s.Acquire("king_feast"); !errors.Is(err, models.ErrActionNotFound) {
		t.Fatalf("Acquire(unknown) = %v, want ErrActionNotFound", err)
	}
	if _, err := s.Investigate("captain_military_intelligence"); !errors.Is(err, models.ErrMethodNotFound) {
		t.Fatalf("Investigate(foreign) = %v, want ErrMethodNotFound", err)
	}
	if _, err := s.Transfer(models.Treasury, models.FoodReserves, 0); !errors.Is(err, models.ErrInvalidTransfer) {
		t.Fatalf("Transfer(0) = %v, want ErrInvalidTransfer", err)
	}
	if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("rejected actions changed the session:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestPrepareOnlyAgainstPrimaryEvent(t *testing.T) {
	s := newTestSession(t, models.RoleKing, models.FamineCascade)
	if _, err := s.Prepare("king_pandemic_medical_infrastructure"); !errors.Is(err, models.ErrActionNotFound) {
		t.Errorf("Prepare(other crisis) = %v, want ErrActionNotFound", err)
	}
	if got := len(s.PreparationActions()); got != 3 {
		t.Errorf("PreparationActions = %d, want 3", got)
	}
	if _, ok := s.PreviewPreparation("king_pandemic_medical_infrastructure"); ok {
		t.Error("preview offered an action against another crisis")
	}
}

func TestPrepareScoresBeforePaying(t *testing.T) {
	s := newTestSession(t, models.RoleKing, models.FamineCascade)
	if eff, ok := s.PreviewPreparation("king_famine_emergency_food"); !ok || !approx(eff, 1) {
		t.Fatalf("preview = %v, %v", eff, ok)
	}
	res, err := s.Prepare("king_famine_emergency_food")
	if err != nil {
		t.Fatal(err)
	}
	if !approx(res.Preparation.Effectiveness, 1) || !approx(s.Progress(), 1) {
		t.Errorf("effectiveness %v progress %v", res.Preparation.Effectiveness, s.Progress())
	}
	bal := s.Balances()
	if bal[models.Treasury] != 20 || bal[models.FoodReserves] != 30 {
		t.Errorf("balances = %v", bal)
	}
}

func TestTransferDoesNotAdvance(t *testing.T) {
	s := newTestSession(t, models.RoleSpy, models.SupernaturalRift)
	res, err := s.Transfer(models.CoverIdentity, models.Intelligence, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Transfer.Credited != 8 {
		t.Errorf("credited %d, want 8", res.Transfer.Credited)
	}
	if s.Day() != 1 || s.Slot() != models.Morning {
		t.Errorf("transfer advanced the clock to day %d %s", s.Day(), s.Slot())
	}
	snap := s.Snapshot()
	if len(snap.Actions) != 1 || snap.Actions[0].Category != models.CategoryTransfer {
		t.Errorf("actions = %+v", snap.Actions)
	}
}

func TestPlaythroughReachesEpilogue(t *testing.T) {
	narrator := &fakeNarrator{}
	s, err := NewSession(config.DefaultRules(), nil, Options{Role: models.RoleCaptain, Event: models.InvasionRebellion, RNG: &scriptedRNG{}, Narrator: narrator})
	if err != nil {
		t.Fatal(err)
	}
	newDays := 0
	var last *TurnResult
	for i := 0; i < 21; i++ {
		if s.Over() {
			t.Fatalf("over after %d turns", i)
		}
		last, err = s.Wait()
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		if last.NewDay {
			newDays++
			if last.DailyText == "" {
				t.Errorf("no daily text for day %d", s.Day())
			}
		}
	}
	if !s.Over() || s.Phase() != models.PhaseEpilogue || newDays != 6 {
		t.Fatalf("day %d %s after 21 turns, %d new days", s.Day(), s.Slot(), newDays)
	}
	if last.Resolution == nil || last.Resolution.Outcome != models.KingdomFalls || last.Resolution.Text != "ending kingdom_falls" {
		t.Errorf("resolution = %+v", last.Resolution)
	}
	if _, ok := s.Resolution(); !ok {
		t.Error("Resolution not recorded")
	}
	if _, err := s.Wait(); !errors.Is(err, models.ErrGameOver) {
		t.Errorf("Wait after the end = %v", err)
	}
	if _, err := s.Acquire("captain_personal_training"); !errors.Is(err, models.ErrGameOver) {
		t.Errorf("Acquire after the end = %v", err)
	}
	if _, err := s.Transfer(models.PersonalFunds, models.Health, 5); !errors.Is(err, models.ErrGameOver) {
		t.Errorf("Transfer after the end = %v", err)
	}
}

func TestPreparedKingdomIsSaved(t *testing.T) {
	s := newTestSession(t, models.RoleKing, models.FamineCascade)
	if _, err := s.Prepare("king_famine_emergency_food"); err != nil {
		t.Fatal(err)
	}
	for !s.Over() {
		if _, err := s.Wait(); err != nil {
			t.Fatal(err)
		}
	}
	r, _ := s.Resolution()
	if r.Outcome != models.KingdomSaved || r.Preparations != 1 {
		t.Errorf("resolution = %+v", r)
	}

	s = newTestSession(t, models.RoleKing, models.FamineCascade)
	if _, err := s.Prepare("king_famine_trade_embargo"); err != nil {
		t.Fatal(err)
	}
	for !s.Over() {
		s.Wait()
	}
	if r, _ := s.Resolution(); r.Outcome != models.PartialRecovery {
		t.Errorf("low tier once = %s, want partial_recovery", r.Outcome)
	}
}

func TestNarratorFailureIsIgnored(t *testing.T) {
	narrator := &fakeNarrator{err: errors.New("offline")}
	s, err := NewSession(config.DefaultRules(), nil, Options{Role: models.RoleSpy, Event: models.CultUprising, RNG: &scriptedRNG{}, Narrator: narrator})
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Acquire("spy_network_expansion")
	if err != nil {
		t.Fatalf("narrator failure failed the action: %v", err)
	}
	if res.Narration != "" || len(narrator.calls) != 1 {
		t.Errorf("narration %q calls %v", res.Narration, narrator.calls)
	}
	if s.Balances()[models.NetworkContacts] != 70 {
		t.Errorf("balances = %v", s.Balances())
	}
}

func TestObserversReceiveSnapshots(t *testing.T) {
	s := newTestSession(t, models.RoleKing, models.CropBlight)
	var got []models.Snapshot
	s.Subscribe(func(snap models.Snapshot) { got = append(got, snap) })

	s.Wait()
	s.Transfer(models.Treasury, models.FoodReserves, 10)
	s.Acquire("king_feast")

	if len(got) != 2 {
		t.Fatalf("observer saw %d snapshots, want 2", len(got))
	}
	if got[0].Slot != models.Afternoon || got[1].Resources[models.RoleKing][models.FoodReserves] != 59 {
		t.Errorf("snapshots = %+v", got)
	}
}

func TestSeedReplaysSession(t *testing.T) {
	play := func() models.Snapshot {
		s, err := NewSession(config.DefaultRules(), nil, Options{ID: "replay", RNG: NewRNG(42)})
		if err != nil {
			t.Fatal(err)
		}
		methods := s.InvestigationMethods()
		for i := 0; !s.Over(); i++ {
			if i%2 == 0 {
				if _, err := s.Investigate(methods[i%len(methods)].ID); err == nil {
					continue
				}
			}
			if _, err := s.Wait(); err != nil {
				t.Fatal(err)
			}
		}
		return s.Snapshot()
	}
	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different sessions:\n%+v\n%+v", a, b)
	}
	if len(a.Evidence) == 0 {
		t.Error("no evidence gathered")
	}
	if len(a.RandomEvents) > 5 {
		t.Errorf("%d random events", len(a.RandomEvents))
	}
}
