package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/kingdom-crisis/internal/engine"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"github.com/tatianab/kingdom-crisis/internal/store"
)

// autosaveSlot is overwritten after every accepted action.
const autosaveSlot = "current"

const storeTimeout = 5 * time.Second

type tab int

const (
	tabAcquire tab = iota
	tabInvestigate
	tabPrepare
)

var tabs = []tab{tabAcquire, tabInvestigate, tabPrepare}

func (t tab) String() string {
	switch t {
	case tabAcquire:
		return "Acquire"
	case tabInvestigate:
		return "Investigate"
	}
	return "Prepare"
}

// menuItem is one entry of an action tab.
type menuItem struct {
	id     string
	name   string
	detail string
	cost   models.Cost
	gain   models.Cost
	prep   *engine.PreparationAction
}

func menuItems(role models.Role, event models.CrisisEvent, t tab) []menuItem {
	var items []menuItem
	switch t {
	case tabAcquire:
		for _, a := range engine.ResourceActions(role) {
			items = append(items, menuItem{id: a.ID, name: a.Name, detail: a.Description, cost: a.Cost, gain: a.Gain})
		}
	case tabInvestigate:
		for _, m := range engine.InvestigationMethods(role) {
			items = append(items, menuItem{id: m.ID, name: m.Name, detail: m.Description, cost: m.Cost})
		}
	case tabPrepare:
		for _, a := range engine.PreparationActions(role, event) {
			items = append(items, menuItem{id: a.ID, name: a.Name, detail: a.Description, cost: a.Cost, prep: &a})
		}
	}
	return items
}

// perform returns the session call behind a menu entry.
func (it menuItem) perform(t tab) func(*engine.Session) (*engine.TurnResult, error) {
	id := it.id
	switch t {
	case tabAcquire:
		return func(s *engine.Session) (*engine.TurnResult, error) { return s.Acquire(id) }
	case tabInvestigate:
		return func(s *engine.Session) (*engine.TurnResult, error) { return s.Investigate(id) }
	}
	return func(s *engine.Session) (*engine.TurnResult, error) { return s.Prepare(id) }
}

func affordable(snap models.Snapshot, cost models.Cost) bool {
	for res, amount := range cost {
		if snap.Balance(res) < amount {
			return false
		}
	}
	return true
}

// parseTransfer reads "src dst amount". Resources are given by name or by
// their 1-based position in the status panel.
func parseTransfer(role models.Role, input string) (src, dst models.Resource, amount int, err error) {
	fields := strings.Fields(input)
	if len(fields) != 3 {
		return "", "", 0, models.Detail(models.ErrInvalidTransfer, "expected \"source target amount\", got %q", input)
	}
	if src, err = parseResource(role, fields[0]); err != nil {
		return "", "", 0, err
	}
	if dst, err = parseResource(role, fields[1]); err != nil {
		return "", "", 0, err
	}
	amount, convErr := strconv.Atoi(fields[2])
	if convErr != nil || amount <= 0 {
		return "", "", 0, models.Detail(models.ErrInvalidTransfer, "amount %q must be a positive whole number", fields[2])
	}
	return src, dst, amount, nil
}

func parseResource(role models.Role, token string) (models.Resource, error) {
	resources := role.Resources()
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > len(resources) {
			return "", models.Detail(models.ErrUnknownResource, "no resource number %d", n)
		}
		return resources[n-1], nil
	}
	name := models.Resource(strings.ToLower(strings.ReplaceAll(token, "-", "_")))
	if _, ok := role.ResourceIndex(name); !ok {
		return "", models.Detail(models.ErrUnknownResource, "%q is not one of the %s's resources", token, role.Title())
	}
	return name, nil
}

func formatGains(gained []models.ResourceAmount) string {
	parts := make([]string, 0, len(gained))
	for _, g := range gained {
		parts = append(parts, fmt.Sprintf("%s %+d", g.Resource.Title(), g.Amount))
	}
	return strings.Join(parts, ", ")
}

// renderTurn turns a result into the text appended to the log.
func renderTurn(res *engine.TurnResult) string {
	var b strings.Builder
	if res.Narration != "" {
		b.WriteString(res.Narration + "\n\n")
	}

	switch {
	case res.Transfer != nil:
		tr := res.Transfer
		fmt.Fprintf(&b, "Converted %d %s into %d %s at %d%%.\n",
			tr.Debited, tr.Source.Title(), tr.Credited, tr.Target.Title(), tr.Rate)
	case res.Investigation != nil:
		ev := res.Investigation.Evidence
		fmt.Fprintf(&b, "Evidence [%s, %s reliability]: %s\n", res.Investigation.Tier, ev.Reliability, ev.Content)
		if ev.Location != "" {
			fmt.Fprintf(&b, "Found at %s via %s.\n", ev.Location, models.Humanize(ev.SourceType))
		}
	case res.Preparation != nil:
		p := res.Preparation
		fmt.Fprintf(&b, "%s was %.0f%% effective. Preparation now %.0f%%.\n", p.Action.Name, p.Effectiveness*100, p.Total*100)
	case res.Category == models.CategoryWait:
		b.WriteString("Time passes.\n")
	}
	if res.Spent.Total() > 0 {
		fmt.Fprintf(&b, "Spent: %s\n", res.Spent)
	}
	if len(res.Gained) > 0 {
		fmt.Fprintf(&b, "Gained: %s\n", formatGains(res.Gained))
	}

	if res.NewDay {
		b.WriteString("\n")
		if res.DailyText != "" {
			b.WriteString(res.DailyText + "\n")
		} else {
			b.WriteString("A new day dawns.\n")
		}
	}
	if ev := res.RandomEvent; ev != nil {
		fmt.Fprintf(&b, "\n!! %s\n", ev.Name)
		if res.RandomEventText != "" {
			b.WriteString(res.RandomEventText + "\n")
		} else if ev.Description != "" {
			b.WriteString(ev.Description + "\n")
		}
		if len(ev.Applied) > 0 {
			fmt.Fprintf(&b, "Effects: %s\n", formatGains(ev.Applied))
		}
	}
	if r := res.Resolution; r != nil {
		fmt.Fprintf(&b, "\nThe seventh night ends. %s.\n", r.Outcome.Title())
	}
	return strings.TrimSpace(b.String())
}

type titleMsg struct {
	recent []store.OutcomeRecord
	resume *store.SaveSummary
	err    error
}

type startedMsg struct {
	session *engine.Session
	snap    models.Snapshot
	report  string
	intro   string
	saveErr error
	err     error
}

type turnMsg struct {
	res     *engine.TurnResult
	snap    models.Snapshot
	report  string
	saveErr error
	err     error
}

type savedMsg struct {
	name string
	err  error
}

func loadTitle(opts Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		var msg titleMsg
		var errs []error
		if opts.Outcomes != nil {
			recent, err := opts.Outcomes.Recent(ctx, 5)
			errs = append(errs, err)
			msg.recent = recent
		}
		if opts.Slots != nil {
			saves, err := opts.Slots.List(ctx)
			errs = append(errs, err)
			for _, s := range saves {
				if s.Name == autosaveSlot && s.Slot != models.Epilogue {
					msg.resume = &s
				}
			}
		}
		msg.err = errors.Join(errs...)
		return msg
	}
}

func (o Options) sessionOptions(rng engine.RNG) engine.Options {
	return engine.Options{RNG: rng, Narrator: o.Narrator, Logger: o.Logger}
}

func startSession(opts Options, role models.Role, rng engine.RNG) tea.Cmd {
	return func() tea.Msg {
		so := opts.sessionOptions(rng)
		so.Role = role
		s, err := engine.NewSession(opts.Rules, opts.Evidence, so)
		if err != nil {
			return startedMsg{err: err}
		}
		return started(opts, s)
	}
}

func resumeSession(opts Options, rng engine.RNG) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		snap, err := opts.Slots.Load(ctx, autosaveSlot)
		if err != nil {
			return startedMsg{err: err}
		}
		if snap == nil {
			return startedMsg{err: models.Detail(models.ErrStore, "no saved game in slot %q", autosaveSlot)}
		}
		s, err := engine.Restore(opts.Rules, opts.Evidence, *snap, opts.sessionOptions(rng))
		if err != nil {
			return startedMsg{err: err}
		}
		return started(opts, s)
	}
}

func started(opts Options, s *engine.Session) startedMsg {
	msg := startedMsg{session: s, snap: s.Snapshot(), report: s.Report(), intro: s.IntroText()}
	msg.saveErr = autosave(opts, msg.snap)
	return msg
}

// playTurn runs one session action off the update loop. The session is only
// touched here while the model waits for the resulting turnMsg.
func playTurn(opts Options, s *engine.Session, act func(*engine.Session) (*engine.TurnResult, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := act(s)
		if err != nil {
			return turnMsg{err: err}
		}
		msg := turnMsg{res: res, snap: s.Snapshot(), report: s.Report()}
		msg.saveErr = autosave(opts, msg.snap)
		if res.Resolution != nil && opts.Outcomes != nil {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			if _, err := opts.Outcomes.Record(ctx, s.ID(), s.Role(), *res.Resolution); err != nil {
				opts.Logger.Warn("record outcome for %s: %v", s.ID(), err)
			}
		}
		return msg
	}
}

func autosave(opts Options, snap models.Snapshot) error {
	if opts.Slots == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := opts.Slots.Save(ctx, autosaveSlot, snap); err != nil {
		opts.Logger.Warn("autosave %s: %v", snap.SessionID, err)
		return err
	}
	return nil
}

func saveSlot(opts Options, name string, snap models.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if opts.Slots == nil {
			return savedMsg{name: name, err: models.Detail(models.ErrStore, "no save store configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return savedMsg{name: name, err: opts.Slots.Save(ctx, name, snap)}
	}
}
