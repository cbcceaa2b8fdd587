package engine

import (
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// TierForDay picks the evidence tier reachable on day: low early on, a coin
// flip between low and medium mid-week, medium or high from day 5.
func TierForDay(day int, rng RNG) models.Tier {
	switch {
	case day <= 2:
		return models.TierLow
	case day <= 4:
		return [2]models.Tier{models.TierLow, models.TierMedium}[rng.IntN(2)]
	default:
		return [2]models.Tier{models.TierMedium, models.TierHigh}[rng.IntN(2)]
	}
}

// Investigation is the outcome of a successful investigation. The caller
// charges Method.Cost.
type Investigation struct {
	Method   InvestigationMethod
	Tier     models.Tier
	Evidence models.EvidenceItem
}

// Investigator draws evidence for a session. It never touches the ledger.
type Investigator struct {
	pools *EvidencePools
	rng   RNG
}

func NewInvestigator(pools *EvidencePools, rng RNG) *Investigator {
	return &Investigator{pools: pools, rng: rng}
}

func (inv *Investigator) Investigate(role models.Role, methodID string, event models.CrisisEvent, day int, balances map[models.Resource]int) (Investigation, error) {
	method, ok := FindInvestigationMethod(role, methodID)
	if !ok {
		return Investigation{}, models.Detail(models.ErrMethodNotFound, "%q for %s", methodID, role.Title())
	}
	if err := affordable(role, method.Cost, balances); err != nil {
		return Investigation{}, err
	}

	tier := TierForDay(day, inv.rng)
	item, err := inv.pools.Draw(event, tier, inv.rng)
	if err != nil {
		return Investigation{}, err
	}
	item.Day = day
	return Investigation{Method: method, Tier: tier, Evidence: item}, nil
}
