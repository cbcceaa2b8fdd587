package engine

import (
	"maps"

	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// PreparationAction invests resources against one crisis.
type PreparationAction struct {
	ID          string
	Role        models.Role
	Event       models.CrisisEvent
	Name        string
	Description string
	Tier        models.Tier
	Cost        models.Cost
	Base        float64
}

type preparationName struct{ id, name string }

type preparationLine struct {
	role               models.Role
	event              models.CrisisEvent
	primary, secondary models.Resource
	names              [3]preparationName
}

var preparationTerms = [3]struct {
	tier               models.Tier
	primary, secondary int
	base               float64
	description        string
}{
	{models.TierHigh, 30, 20, 0.8, "High cost, high effectiveness"},
	{models.TierMedium, 20, 15, 0.6, "Medium cost, medium effectiveness"},
	{models.TierLow, 10, 10, 0.4, "Low cost, low effectiveness"},
}

var preparationCatalog = func() map[models.Role][]PreparationAction {
	out := make(map[models.Role][]PreparationAction)
	for _, line := range preparationLines {
		for i, n := range line.names {
			t := preparationTerms[i]
			out[line.role] = append(out[line.role], PreparationAction{
				ID:          n.id,
				Role:        line.role,
				Event:       line.event,
				Name:        n.name,
				Description: t.description,
				Tier:        t.tier,
				Cost:        models.Cost{line.primary: t.primary, line.secondary: t.secondary},
				Base:        t.base,
			})
		}
	}
	return out
}()

// thresholds are the per-tier bars of each crisis, in percent.
var thresholds = func() map[models.CrisisEvent]map[models.Tier]int {
	out := make(map[models.CrisisEvent]map[models.Tier]int)
	for _, e := range models.CrisisEvents {
		out[e] = map[models.Tier]int{models.TierHigh: 200, models.TierMedium: 150, models.TierLow: 100}
	}
	return out
}()

// Threshold looks up the bar for an event and tier.
func Threshold(event models.CrisisEvent, tier models.Tier) (int, bool) {
	t, ok := thresholds[event][tier]
	return t, ok
}

// PreparationActions lists role's actions against event, high tier first.
func PreparationActions(role models.Role, event models.CrisisEvent) []PreparationAction {
	var out []PreparationAction
	for _, a := range preparationCatalog[role] {
		if a.Event == event {
			out = append(out, a)
		}
	}
	return out
}

func FindPreparationAction(role models.Role, id string) (PreparationAction, bool) {
	for _, a := range preparationCatalog[role] {
		if a.ID == id {
			return a, true
		}
	}
	return PreparationAction{}, false
}

// Effectiveness scores an action against the balances available before it
// is paid for: base, plus a bonus for the size of the investment, minus a
// penalty for every resource it leaves without cushion. Result is in [0,1].
func Effectiveness(action PreparationAction, balances map[models.Resource]int, rules config.Rules) float64 {
	bonus := min(rules.InvestmentBonusCap, float64(action.Cost.Total())/rules.InvestmentBonusDivisor)
	eff := action.Base + bonus
	for res, cost := range action.Cost {
		if float64(balances[res]) < rules.CushionFactor*float64(cost) {
			eff -= rules.ShortfallPenalty
		}
	}
	return max(0, min(1, eff))
}

// Preparation is the outcome of one preparation action. The caller charges
// Action.Cost.
type Preparation struct {
	Action        PreparationAction
	Effectiveness float64
	ThresholdMet  bool
	Before        float64
	Total         float64
}

// Preparer owns the per-event preparation progress of a session.
type Preparer struct {
	rules    config.Rules
	progress map[models.CrisisEvent]*models.PreparationProgress
}

func NewPreparer(rules config.Rules) *Preparer {
	return &Preparer{rules: rules, progress: make(map[models.CrisisEvent]*models.PreparationProgress)}
}

func (p *Preparer) Perform(role models.Role, actionID string, ledger *Ledger) (Preparation, error) {
	action, ok := FindPreparationAction(role, actionID)
	if !ok {
		return Preparation{}, models.Detail(models.ErrActionNotFound, "%q for %s", actionID, role.Title())
	}
	balances := ledger.Balances(role)
	if err := affordable(role, action.Cost, balances); err != nil {
		return Preparation{}, err
	}

	eff := Effectiveness(action, balances, p.rules)
	met := false
	if t, ok := Threshold(action.Event, action.Tier); ok {
		met = eff*100 >= float64(t)
	}

	prog, ok := p.progress[action.Event]
	if !ok {
		prog = models.NewPreparationProgress(action.Event)
		p.progress[action.Event] = prog
	}
	before := prog.TotalEffectiveness()
	prog.Add(action.ID, maps.Clone(action.Cost), eff)

	return Preparation{
		Action:        action,
		Effectiveness: eff,
		ThresholdMet:  met,
		Before:        before,
		Total:         prog.TotalEffectiveness(),
	}, nil
}

// Progress returns the accumulated progress for event, if any action has
// targeted it.
func (p *Preparer) Progress(event models.CrisisEvent) (*models.PreparationProgress, bool) {
	prog, ok := p.progress[event]
	return prog, ok
}

// Export deep-copies every progress record.
func (p *Preparer) Export() map[models.CrisisEvent]*models.PreparationProgress {
	out := make(map[models.CrisisEvent]*models.PreparationProgress, len(p.progress))
	for event, prog := range p.progress {
		cp := *prog
		cp.Actions = make(map[string]models.PreparationRecord, len(prog.Actions))
		for id, rec := range prog.Actions {
			rec.Cost = maps.Clone(rec.Cost)
			cp.Actions[id] = rec
		}
		cp.Order = append([]string(nil), prog.Order...)
		out[event] = &cp
	}
	return out
}

// restore replaces all progress. The records must already be validated.
func (p *Preparer) restore(progress map[models.CrisisEvent]*models.PreparationProgress) {
	p.progress = make(map[models.CrisisEvent]*models.PreparationProgress, len(progress))
	for event, prog := range progress {
		p.progress[event] = prog
	}
}
