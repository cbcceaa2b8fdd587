package engine

import "github.com/tatianab/kingdom-crisis/internal/models"

// Clock tracks the day and slot. After the evening of the final day it
// moves to the terminal epilogue and stays there.
type Clock struct {
	days int
	day  int
	slot models.Slot
}

func NewClock(days int) *Clock {
	return &Clock{days: days, day: 1, slot: models.Morning}
}

func (c *Clock) Day() int          { return c.day }
func (c *Clock) Slot() models.Slot { return c.slot }
func (c *Clock) Days() int         { return c.days }

func (c *Clock) Terminal() bool {
	return c.slot == models.Epilogue
}

func (c *Clock) Phase() models.Phase {
	if c.Terminal() {
		return models.PhaseEpilogue
	}
	return models.PhaseForDay(c.day)
}

// Advance moves one slot forward and reports whether a new day began.
func (c *Clock) Advance() (newDay bool, err error) {
	switch c.slot {
	case models.Morning:
		c.slot = models.Afternoon
	case models.Afternoon:
		c.slot = models.Evening
	case models.Evening:
		if c.day >= c.days {
			c.slot = models.Epilogue
			return false, nil
		}
		c.day++
		c.slot = models.Morning
		return true, nil
	default:
		return false, models.ErrGameOver
	}
	return false, nil
}

// Set positions the clock, as when restoring a saved session.
func (c *Clock) Set(day int, slot models.Slot) error {
	if day < 1 || day > c.days {
		return models.Detail(models.ErrInvalidSnapshot, "day %d outside 1..%d", day, c.days)
	}
	switch slot {
	case models.Morning, models.Afternoon, models.Evening:
	case models.Epilogue:
		if day != c.days {
			return models.Detail(models.ErrInvalidSnapshot, "epilogue on day %d", day)
		}
	default:
		return models.Detail(models.ErrInvalidSnapshot, "unknown slot %q", slot)
	}
	c.day = day
	c.slot = slot
	return nil
}
