package tui

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/engine"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"github.com/tatianab/kingdom-crisis/internal/store"
)

type memSlots struct {
	mu    sync.Mutex
	saves map[string]models.Snapshot
}

func newMemSlots() *memSlots {
	return &memSlots{saves: make(map[string]models.Snapshot)}
}

func (s *memSlots) Save(_ context.Context, name string, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[name] = snap
	return nil
}

func (s *memSlots) Load(_ context.Context, name string) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.saves[name]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *memSlots) List(context.Context) ([]store.SaveSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.SaveSummary
	for name, snap := range s.saves {
		out = append(out, store.SaveSummary{
			Name:      name,
			SessionID: snap.SessionID,
			Role:      snap.Role,
			Event:     snap.PrimaryEvent,
			Day:       snap.Day,
			Slot:      snap.Slot,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memSlots) get(t *testing.T, name string) models.Snapshot {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.saves[name]
	if !ok {
		t.Fatalf("slot %q was never saved", name)
	}
	return snap
}

func press(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// find runs cmd, following batches, and returns the first message of type T.
func find[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if v, ok := msg.(T); ok {
			return v
		}
	}
	t.Fatalf("command produced no %T", zero)
	return zero
}

func TestParseTransfer(t *testing.T) {
	tests := []struct {
		input    string
		src, dst models.Resource
		amount   int
		wantErr  error
	}{
		{"treasury public_trust 10", models.Treasury, models.PublicTrust, 10, nil},
		{"1 2 10", models.Treasury, models.FoodReserves, 10, nil},
		{"  Treasury   Noble-Support 5 ", models.Treasury, models.NobleSupport, 5, nil},
		{"4 1 1", models.NobleSupport, models.Treasury, 1, nil},
		{"1 5 10", "", "", 0, models.ErrUnknownResource},
		{"health 1 5", "", "", 0, models.ErrUnknownResource},
		{"1 2", "", "", 0, models.ErrInvalidTransfer},
		{"1 2 0", "", "", 0, models.ErrInvalidTransfer},
		{"1 2 ten", "", "", 0, models.ErrInvalidTransfer},
		{"", "", "", 0, models.ErrInvalidTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src, dst, amount, err := parseTransfer(models.RoleKing, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src != tt.src || dst != tt.dst || amount != tt.amount {
				t.Errorf("got %s %s %d, want %s %s %d", src, dst, amount, tt.src, tt.dst, tt.amount)
			}
		})
	}
}

func TestMenuItems(t *testing.T) {
	role, event := models.RoleSpy, models.CultUprising
	if got, want := len(menuItems(role, event, tabAcquire)), len(engine.ResourceActions(role)); got != want {
		t.Errorf("acquire items = %d, want %d", got, want)
	}
	if got, want := len(menuItems(role, event, tabInvestigate)), len(engine.InvestigationMethods(role)); got != want {
		t.Errorf("investigate items = %d, want %d", got, want)
	}

	prep := menuItems(role, event, tabPrepare)
	if len(prep) != len(engine.PreparationActions(role, event)) || len(prep) == 0 {
		t.Fatalf("prepare items = %d", len(prep))
	}
	seen := make(map[string]bool)
	for _, it := range prep {
		if it.prep == nil || it.prep.Event != event || it.prep.ID != it.id {
			t.Errorf("item %s carries preparation %+v", it.id, it.prep)
		}
		if seen[it.id] {
			t.Errorf("duplicate item %s", it.id)
		}
		seen[it.id] = true
	}
}

func TestAffordable(t *testing.T) {
	snap := models.Snapshot{
		Role:      models.RoleKing,
		Resources: map[models.Role]map[models.Resource]int{models.RoleKing: {models.Treasury: 10, models.PublicTrust: 4}},
	}
	if !affordable(snap, models.Cost{models.Treasury: 10}) {
		t.Error("exact balance should be affordable")
	}
	if affordable(snap, models.Cost{models.Treasury: 5, models.PublicTrust: 5}) {
		t.Error("public trust 4 cannot pay 5")
	}
	if !affordable(snap, nil) {
		t.Error("a free action is always affordable")
	}
}

func TestRenderTurn(t *testing.T) {
	res := &engine.TurnResult{
		Category:  models.CategoryResource,
		ActionID:  "king_tax_collection",
		Narration: "The coffers swell.",
		Spent:     models.Cost{models.PublicTrust: 10},
		Gained:    []models.ResourceAmount{{Resource: models.Treasury, Amount: 20}},
		NewDay:    true,
		DailyText: "Day 2 dawns grey.",
		RandomEvent: &models.RandomEventInstance{
			Name:    "Market Crash",
			Applied: []models.ResourceAmount{{Resource: models.Treasury, Amount: -30}},
		},
		RandomEventText: "Merchants flee the square.",
	}
	out := renderTurn(res)
	for _, want := range []string{
		"The coffers swell.",
		"Spent: Public Trust 10",
		"Gained: Treasury +20",
		"Day 2 dawns grey.",
		"Market Crash",
		"Merchants flee the square.",
		"Effects: Treasury -30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	wait := renderTurn(&engine.TurnResult{
		Category:   models.CategoryWait,
		NewDay:     true,
		Resolution: &models.Resolution{Outcome: models.KingdomFalls},
	})
	for _, want := range []string{"Time passes.", "A new day dawns.", "Kingdom Falls"} {
		if !strings.Contains(wait, want) {
			t.Errorf("wait render missing %q:\n%s", want, wait)
		}
	}
}

func TestPlayThrough(t *testing.T) {
	slots := newMemSlots()
	m := newModel(Options{Rules: config.DefaultRules(), Slots: slots, Seed: 11})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if !strings.Contains(m.View(), "KINGDOM CRISIS") {
		t.Fatalf("selection screen missing title:\n%s", m.View())
	}

	m, cmd := update(t, m, press("enter"))
	if !m.busy {
		t.Fatal("starting a game should mark the model busy")
	}
	m, _ = update(t, m, find[startedMsg](t, cmd))
	if m.screen != screenPlaying || m.snap.Role != models.RoleKing {
		t.Fatalf("screen = %v role = %s, want playing king", m.screen, m.snap.Role)
	}
	if got := slots.get(t, autosaveSlot); got.Day != 1 || got.Slot != models.Morning {
		t.Errorf("autosave at start = day %d %s", got.Day, got.Slot)
	}
	if !strings.Contains(m.View(), "RESOURCES") {
		t.Errorf("play screen missing status panel")
	}

	// The first acquire entry is tax collection.
	m, cmd = update(t, m, press("enter"))
	turn := find[turnMsg](t, cmd)
	if turn.err != nil {
		t.Fatalf("tax collection: %v", turn.err)
	}
	m, _ = update(t, m, turn)
	if got := m.snap.Balance(models.Treasury); got != 70 {
		t.Errorf("treasury = %d, want 70", got)
	}
	if got := m.snap.Balance(models.PublicTrust); got != 40 {
		t.Errorf("public trust = %d, want 40", got)
	}
	if got := slots.get(t, autosaveSlot); got.Slot != models.Afternoon {
		t.Errorf("autosave slot = %s, want afternoon", got.Slot)
	}

	m, _ = update(t, m, press("t"))
	if m.prompt != promptTransfer {
		t.Fatal("t should open the transfer prompt")
	}
	m, _ = update(t, m, press("1 3 10"))
	m, cmd = update(t, m, press("enter"))
	turn = find[turnMsg](t, cmd)
	if turn.err != nil {
		t.Fatalf("transfer: %v", turn.err)
	}
	m, _ = update(t, m, turn)
	if got := m.snap.Balance(models.Treasury); got != 60 {
		t.Errorf("treasury after transfer = %d, want 60", got)
	}
	if m.snap.Slot != models.Afternoon {
		t.Errorf("transfer moved the clock to %s", m.snap.Slot)
	}

	m, _ = update(t, m, press("t"))
	m, _ = update(t, m, press("9 1 5"))
	m, cmd = update(t, m, press("enter"))
	if cmd != nil {
		t.Error("a malformed transfer should not reach the session")
	}
	if !strings.Contains(m.status, "unknown resource") {
		t.Errorf("status = %q", m.status)
	}

	m, _ = update(t, m, press("s"))
	m, _ = update(t, m, press("mine"))
	m, cmd = update(t, m, press("enter"))
	m, _ = update(t, m, find[savedMsg](t, cmd))
	if !strings.Contains(m.status, "mine") {
		t.Errorf("status after save = %q", m.status)
	}
	if got := slots.get(t, "mine"); got.Balance(models.Treasury) != 60 {
		t.Errorf("saved treasury = %d", got.Balance(models.Treasury))
	}

	for i := 0; m.screen == screenPlaying; i++ {
		if i > 30 {
			t.Fatal("game never ended")
		}
		m, cmd = update(t, m, press("w"))
		turn = find[turnMsg](t, cmd)
		if turn.err != nil {
			t.Fatalf("wait: %v", turn.err)
		}
		m, _ = update(t, m, turn)
	}
	if m.screen != screenEnding || m.snap.Resolution == nil {
		t.Fatalf("screen = %v resolution = %v", m.screen, m.snap.Resolution)
	}
	if !strings.Contains(m.View(), m.snap.Resolution.Outcome.Title()) {
		t.Errorf("ending screen missing outcome:\n%s", m.View())
	}
	if got := slots.get(t, autosaveSlot); got.Slot != models.Epilogue {
		t.Errorf("final autosave slot = %s", got.Slot)
	}

	m, cmd = update(t, m, press("n"))
	m, _ = update(t, m, find[titleMsg](t, cmd))
	if m.screen != screenSelect {
		t.Fatalf("n should return to selection, screen = %v", m.screen)
	}
	if m.resume != nil {
		t.Error("a finished game should not be offered for resuming")
	}
}

func TestResumeSavedGame(t *testing.T) {
	s, err := engine.NewSession(config.DefaultRules(), nil, engine.Options{
		Role:  models.RoleCaptain,
		Event: models.InvasionRebellion,
		RNG:   engine.NewRNG(4),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Investigate("captain_military_intelligence"); err != nil {
		t.Fatal(err)
	}
	slots := newMemSlots()
	if err := slots.Save(context.Background(), autosaveSlot, s.Snapshot()); err != nil {
		t.Fatal(err)
	}

	m := newModel(Options{Slots: slots, Seed: 3})
	m, _ = update(t, m, find[titleMsg](t, m.Init()))
	if m.resume == nil || m.resume.Role != models.RoleCaptain {
		t.Fatalf("resume = %+v", m.resume)
	}
	if !strings.Contains(m.View(), "Saved game: Captain facing Invasion Rebellion") {
		t.Errorf("selection screen does not offer the save:\n%s", m.View())
	}

	m, cmd := update(t, m, press("c"))
	m, _ = update(t, m, find[startedMsg](t, cmd))
	if m.screen != screenPlaying {
		t.Fatalf("screen = %v", m.screen)
	}
	if m.snap.SessionID != s.ID() || m.snap.Slot != models.Afternoon || len(m.snap.Evidence) != 1 {
		t.Errorf("restored %s at %s with %d evidence", m.snap.SessionID, m.snap.Slot, len(m.snap.Evidence))
	}
}

func TestNoSavesNoResume(t *testing.T) {
	m := newModel(Options{})
	m, _ = update(t, m, find[titleMsg](t, m.Init()))
	m, cmd := update(t, m, press("c"))
	if cmd != nil || m.busy {
		t.Error("continue without a store should do nothing")
	}
}

func TestTurnErrorKeepsPlaying(t *testing.T) {
	m := newModel(Options{Seed: 2})
	m, cmd := update(t, m, press("enter"))
	m, _ = update(t, m, find[startedMsg](t, cmd))
	before := m.snap

	m, _ = update(t, m, turnMsg{err: models.Detail(models.ErrInsufficientResource, "public trust")})
	if m.screen != screenPlaying || m.busy {
		t.Fatalf("screen = %v busy = %t", m.screen, m.busy)
	}
	if !strings.Contains(m.status, "insufficient resources") {
		t.Errorf("status = %q", m.status)
	}
	if m.snap.Day != before.Day || m.snap.Slot != before.Slot {
		t.Error("a rejected action changed the displayed state")
	}
}

func TestStartFailureShowsError(t *testing.T) {
	rules := config.DefaultRules()
	rules.EventProbability = nil
	m := newModel(Options{Rules: rules})
	m, cmd := update(t, m, press("enter"))
	m, _ = update(t, m, find[startedMsg](t, cmd))
	if m.screen != screenError {
		t.Fatalf("screen = %v, want error", m.screen)
	}
	if !strings.Contains(m.View(), "invalid configuration") {
		t.Errorf("error view:\n%s", m.View())
	}
	m, cmd = update(t, m, press("n"))
	if m.screen != screenSelect || cmd == nil {
		t.Error("n should return to selection")
	}
}
