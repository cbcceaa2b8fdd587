package config

import (
	"fmt"

	"github.com/tatianab/kingdom-crisis/internal/models"
)

// Rules are the tuning values of the simulation. One value is built at
// startup and passed to every engine constructor.
type Rules struct {
	TotalDays       int `yaml:"total_days"`
	InitialResource int `yaml:"initial_resource"`
	MinResource     int `yaml:"min_resource"`
	MaxResource     int `yaml:"max_resource"`

	// EventProbability[d-1] is the chance a random event fires on day d.
	EventProbability []float64 `yaml:"event_probability"`
	MaxRandomEvents  int       `yaml:"max_random_events"`
	// MinRandomEvents is reported, not enforced.
	MinRandomEvents int `yaml:"min_random_events"`

	InvestmentBonusCap     float64 `yaml:"investment_bonus_cap"`
	InvestmentBonusDivisor float64 `yaml:"investment_bonus_divisor"`
	CushionFactor          float64 `yaml:"cushion_factor"`
	ShortfallPenalty       float64 `yaml:"shortfall_penalty"`

	SavedThreshold   float64 `yaml:"saved_threshold"`
	PartialThreshold float64 `yaml:"partial_threshold"`
}

func DefaultRules() Rules {
	return Rules{
		TotalDays:              7,
		InitialResource:        50,
		MinResource:            0,
		MaxResource:            100,
		EventProbability:       []float64{0.0, 0.15, 0.30, 0.45, 0.60, 0.75, 0.90},
		MaxRandomEvents:        5,
		MinRandomEvents:        3,
		InvestmentBonusCap:     0.2,
		InvestmentBonusDivisor: 100,
		CushionFactor:          1.5,
		ShortfallPenalty:       0.1,
		SavedThreshold:         0.8,
		PartialThreshold:       0.5,
	}
}

// Validate collects every problem with the rules into one error.
func (r Rules) Validate() error {
	var problems []string

	if r.TotalDays < 1 {
		problems = append(problems, "total_days must be at least 1")
	}
	if r.MinResource > r.MaxResource {
		problems = append(problems, "min_resource must not exceed max_resource")
	}
	if r.InitialResource < r.MinResource || r.InitialResource > r.MaxResource {
		problems = append(problems, "initial_resource must lie within [min_resource, max_resource]")
	}
	if len(r.EventProbability) != r.TotalDays {
		problems = append(problems, fmt.Sprintf("event_probability needs %d entries, has %d", r.TotalDays, len(r.EventProbability)))
	}
	for i, p := range r.EventProbability {
		if p < 0 || p > 1 {
			problems = append(problems, fmt.Sprintf("event_probability[%d] = %v is outside [0,1]", i, p))
		}
		if i > 0 && p < r.EventProbability[i-1] {
			problems = append(problems, fmt.Sprintf("event_probability decreases at day %d", i+1))
		}
	}
	if r.MaxRandomEvents < 0 {
		problems = append(problems, "max_random_events must not be negative")
	}
	if r.MinRandomEvents < 0 || r.MinRandomEvents > r.MaxRandomEvents {
		problems = append(problems, "min_random_events must lie within [0, max_random_events]")
	}
	if r.InvestmentBonusCap < 0 || r.InvestmentBonusDivisor <= 0 {
		problems = append(problems, "investment bonus cap must be >= 0 and divisor > 0")
	}
	if r.CushionFactor < 1 || r.ShortfallPenalty < 0 {
		problems = append(problems, "cushion_factor must be >= 1 and shortfall_penalty >= 0")
	}
	if r.PartialThreshold < 0 || r.PartialThreshold > r.SavedThreshold || r.SavedThreshold > 1 {
		problems = append(problems, "thresholds must satisfy 0 <= partial <= saved <= 1")
	}

	if len(problems) > 0 {
		return models.Detail(models.ErrConfigInvalid, "%v", problems)
	}
	return nil
}
