package narrator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tatianab/kingdom-crisis/internal/engine"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// Static narrates from the content table. It never fails; anything missing
// from the table gets a plain default line.
type Static struct {
	content *Content

	mu  sync.Mutex
	rng engine.RNG
}

// NewStatic narrates from the built-in table. A nil rng is seeded from the
// clock.
func NewStatic(rng engine.RNG) *Static {
	return NewStaticFrom(DefaultContent(), rng)
}

func NewStaticFrom(content *Content, rng engine.RNG) *Static {
	if rng == nil {
		rng = engine.NewRNG(uint64(time.Now().UnixNano()))
	}
	return &Static{content: content, rng: rng}
}

func (s *Static) pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lines[s.rng.IntN(len(lines))]
}

// ActionText returns the dialogue for an action followed by time, role,
// category and outcome context sentences.
func (s *Static) ActionText(role models.Role, category models.ActionCategory, actionID string, success bool) (string, error) {
	var line string
	if d, ok := s.content.dialogue(role, actionID); ok {
		if success {
			line = s.pick(d.Success)
		} else {
			line = s.pick(d.Failure)
		}
		if line == "" {
			line = s.pick(d.Neutral)
		}
	}
	if line == "" {
		verb := "carries out"
		if !success {
			verb = "struggles with"
		}
		line = fmt.Sprintf("The %s %s %s.", role.Title(), verb, models.Humanize(trimRole(role, actionID)))
	}

	ctx := s.content.Contexts
	outcome := "failure"
	if success {
		outcome = "success"
	}
	parts := []string{line}
	for _, extra := range []string{
		s.pick(ctx.Time),
		s.pick(ctx.Role[role]),
		s.pick(ctx.Category[category]),
		s.pick(ctx.Outcome[outcome]),
	} {
		if extra != "" {
			parts = append(parts, extra)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// trimRole drops the role prefix from catalog ids such as "king_tax_collection".
func trimRole(role models.Role, id string) string {
	return strings.TrimPrefix(id, string(role)+"_")
}

func (s *Static) RandomEventText(eventID string, role models.Role) (string, error) {
	ev, ok := s.content.RandomEvents[eventID]
	if !ok {
		return fmt.Sprintf("%s strikes the kingdom.", models.Humanize(eventID)), nil
	}
	if msg := ev.Roles[role]; msg != "" {
		return ev.Description + "\n\n" + msg, nil
	}
	return ev.Description, nil
}

func (s *Static) EndingText(event models.CrisisEvent, outcome models.Outcome, role models.Role) (string, error) {
	e, ok := s.content.Endings[event][outcome]
	if !ok {
		return fmt.Sprintf("%s\n\nThe %s is over. Your preparations decided the kingdom's fate.", outcome.Title(), strings.ToLower(event.Title())), nil
	}
	parts := []string{e.Title, e.Description}
	if impact := e.Roles[role]; impact != "" {
		parts = append(parts, impact)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (s *Static) DailyText(day int, role models.Role) (string, error) {
	if text := s.content.Daily[day][role]; text != "" {
		return text, nil
	}
	return fmt.Sprintf("Day %d begins.", day), nil
}
