package engine

import (
	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// Resolver turns accumulated preparation into an ending.
type Resolver struct {
	saved, partial float64
}

func NewResolver(rules config.Rules) Resolver {
	return Resolver{saved: rules.SavedThreshold, partial: rules.PartialThreshold}
}

func (r Resolver) Classify(effectiveness float64) models.Outcome {
	switch {
	case effectiveness >= r.saved:
		return models.KingdomSaved
	case effectiveness >= r.partial:
		return models.PartialRecovery
	default:
		return models.KingdomFalls
	}
}

// Resolve classifies event. A nil progress counts as no preparation.
func (r Resolver) Resolve(event models.CrisisEvent, progress *models.PreparationProgress) models.Resolution {
	eff := progress.TotalEffectiveness()
	n := 0
	if progress != nil {
		for _, rec := range progress.Actions {
			n += rec.Times
		}
	}
	return models.Resolution{
		Event:         event,
		Outcome:       r.Classify(eff),
		Effectiveness: eff,
		Preparations:  n,
	}
}
