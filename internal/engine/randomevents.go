package engine

import (
	"fmt"
	"math"

	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// RandomEventTemplate is a disruption that can strike on any advance.
type RandomEventTemplate struct {
	ID          string
	Name        string
	Description string
	Category    string
	Effects     []models.Effect
}

func adds(target string, amount int) models.Effect {
	return models.Effect{Target: target, Kind: models.EffectAbsolute, Amount: amount}
}

func scales(target string, factor float64) models.Effect {
	return models.Effect{Target: target, Kind: models.EffectRelative, Factor: factor}
}

var randomEventTemplates = []RandomEventTemplate{
	{"heavy_rain", "Heavy Rain", "Heavy rain falls across the kingdom. Visibility is reduced, and military operations are hindered.", "weather",
		[]models.Effect{scales("military_effectiveness", -0.2), scales("investigation_accuracy", -0.1)}},
	{"drought", "Drought", "A severe drought affects the kingdom. Food production decreases, and famine vulnerability increases.", "weather",
		[]models.Effect{scales("food_production", -0.3), scales("famine_vulnerability", 0.2)}},
	{"storm", "Storm", "A powerful storm sweeps across the kingdom. Trade routes are disrupted, and economic stability is affected.", "weather",
		[]models.Effect{scales("trade_disruption", 0.3), scales("economic_stability", -0.2)}},
	{"fog", "Fog", "Thick fog blankets the kingdom. Visibility is reduced, and investigation accuracy is affected.", "weather",
		[]models.Effect{scales("investigation_accuracy", -0.3), scales("military_effectiveness", -0.1)}},

	{"noble_conflict", "Noble Conflict", "Noble families are in conflict. Political stability is threatened, and noble support decreases.", "social",
		[]models.Effect{adds(string(models.NobleSupport), -15), scales("political_stability", -0.2)}},
	{"public_unrest", "Public Unrest", "Public unrest spreads across the kingdom. Social stability is threatened, and public trust decreases.", "social",
		[]models.Effect{adds(string(models.PublicTrust), -15), scales("social_stability", -0.2)}},
	{"trade_disruption", "Trade Disruption", "Trade routes are disrupted by external factors. Economic stability is affected, and resource availability decreases.", "social",
		[]models.Effect{scales("economic_stability", -0.2), scales("resource_availability", -0.1)}},
	{"religious_tension", "Religious Tension", "Religious tensions increase across the kingdom. Social cohesion is threatened, and cult vulnerability increases.", "social",
		[]models.Effect{scales("social_cohesion", -0.2), scales("cult_vulnerability", 0.2)}},

	{"market_crash", "Market Crash", "The market experiences a sudden crash. Economic stability is threatened, and treasury resources decrease.", "economic",
		[]models.Effect{adds(string(models.Treasury), -20), scales("economic_stability", -0.3)}},
	{"resource_shortage", "Resource Shortage", "A critical resource shortage affects the kingdom. Resource availability decreases, and preparation becomes more difficult.", "economic",
		[]models.Effect{scales("resource_availability", -0.2), scales("preparation_difficulty", 0.2)}},
	{"trade_windfall", "Trade Windfall", "Unexpected trade opportunities arise. Economic stability improves, and treasury resources increase.", "economic",
		[]models.Effect{adds(string(models.Treasury), 20), scales("economic_stability", 0.2)}},
	{"resource_discovery", "Resource Discovery", "New resources are discovered within the kingdom. Resource availability increases, and preparation becomes easier.", "economic",
		[]models.Effect{scales("resource_availability", 0.2), scales("preparation_difficulty", -0.1)}},

	{"troop_morale_boost", "Troop Morale Boost", "Your troops experience a morale boost. Military effectiveness improves, and troop loyalty increases.", "military",
		[]models.Effect{adds(string(models.TroopLoyalty), 15), scales("military_effectiveness", 0.2)}},
	{"equipment_malfunction", "Equipment Malfunction", "Equipment malfunctions affect your forces. Military readiness decreases, and soldier count is reduced.", "military",
		[]models.Effect{adds(string(models.SoldierCount), -10), scales("military_readiness", -0.2)}},
	{"training_success", "Training Success", "Your training programs succeed beyond expectations. Military effectiveness improves, and health increases.", "military",
		[]models.Effect{adds(string(models.Health), 15), scales("military_effectiveness", 0.2)}},
	{"security_breach", "Security Breach", "A security breach compromises your operations. Covert effectiveness decreases, and cover identity is reduced.", "military",
		[]models.Effect{adds(string(models.CoverIdentity), -10), scales("covert_effectiveness", -0.2)}},
}

// RandomEventTemplates lists every template in selection order.
func RandomEventTemplates() []RandomEventTemplate {
	return append([]RandomEventTemplate(nil), randomEventTemplates...)
}

// RandomEvents decides when disruptions strike and keeps their history.
type RandomEvents struct {
	rules     config.Rules
	rng       RNG
	templates []RandomEventTemplate
	history   []models.RandomEventInstance
}

func NewRandomEvents(rules config.Rules, rng RNG) *RandomEvents {
	return &RandomEvents{rules: rules, rng: rng, templates: randomEventTemplates}
}

// Probability is the scheduled chance for day; 0 outside the schedule.
func (r *RandomEvents) Probability(day int) float64 {
	if day < 1 || day > len(r.rules.EventProbability) {
		return 0
	}
	return r.rules.EventProbability[day-1]
}

// ShouldTrigger draws once against the day's probability.
func (r *RandomEvents) ShouldTrigger(day int) bool {
	if day < 1 || day > len(r.rules.EventProbability) {
		return false
	}
	return r.rng.Float64() < r.Probability(day)
}

// Roll runs the trigger check for an advance into (day, slot) and, when it
// fires and the cap allows, applies a uniformly chosen template to role.
func (r *RandomEvents) Roll(day int, slot models.Slot, role models.Role, ledger *Ledger) (models.RandomEventInstance, bool) {
	if !r.ShouldTrigger(day) || len(r.history) >= r.rules.MaxRandomEvents {
		return models.RandomEventInstance{}, false
	}
	tpl := r.templates[r.rng.IntN(len(r.templates))]
	inst := ApplyRandomEvent(tpl, day, slot, role, ledger)
	r.history = append(r.history, inst)
	return inst, true
}

// ApplyRandomEvent realizes tpl against role's resources. Absolute effects
// add, relative effects add floor(current × factor); both clamp. Effects on
// anything the role does not own are kept as modifiers.
func ApplyRandomEvent(tpl RandomEventTemplate, day int, slot models.Slot, role models.Role, ledger *Ledger) models.RandomEventInstance {
	inst := models.RandomEventInstance{
		ID:          fmt.Sprintf("%s_%d_%s", tpl.ID, day, slot),
		TemplateID:  tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		Category:    tpl.Category,
		Day:         day,
		Slot:        slot,
		Role:        role,
		Effects:     append([]models.Effect(nil), tpl.Effects...),
	}
	for _, e := range tpl.Effects {
		res := models.Resource(e.Target)
		cur, err := ledger.Get(role, res)
		if err != nil {
			inst.Modifiers = append(inst.Modifiers, e)
			continue
		}
		delta := e.Amount
		if e.Kind == models.EffectRelative {
			delta = int(math.Floor(float64(cur) * e.Factor))
		}
		applied, _ := ledger.Add(role, res, delta)
		inst.Applied = append(inst.Applied, models.ResourceAmount{Resource: res, Amount: applied})
	}
	return inst
}

// History returns the events so far, oldest first.
func (r *RandomEvents) History() []models.RandomEventInstance {
	return append([]models.RandomEventInstance(nil), r.history...)
}

// MinimumMet reports whether the soft minimum of events was reached.
func (r *RandomEvents) MinimumMet() bool {
	return len(r.history) >= r.rules.MinRandomEvents
}

func (r *RandomEvents) restore(history []models.RandomEventInstance) {
	r.history = append([]models.RandomEventInstance(nil), history...)
}
