package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tatianab/kingdom-crisis/internal/models"
)

// Pattern is a caseboard reading over the gathered evidence.
type Pattern struct {
	Name  string
	Score float64
}

func hasSource(counts map[string]int, keywords ...string) bool {
	for src, n := range counts {
		if n == 0 {
			continue
		}
		for _, k := range keywords {
			if strings.Contains(src, k) {
				return true
			}
		}
	}
	return false
}

// PatternScores reads the caseboard: which kind of crisis the evidence
// points at, judged by its sources and reliability. Empty evidence yields
// no patterns.
func PatternScores(evidence []models.EvidenceItem) []Pattern {
	if len(evidence) == 0 {
		return nil
	}
	counts := make(map[string]int)
	high := 0
	for _, e := range evidence {
		counts[e.SourceType]++
		if e.Reliability == models.TierHigh {
			high++
		}
	}
	highShare := float64(high) / float64(len(evidence))

	famine := 0.0
	if hasSource(counts, "market", "price", "merchant") {
		famine += 0.3
	}
	if hasSource(counts, "official", "royal", "decree") {
		famine += 0.2
	}
	if highShare > 0.5 {
		famine += 0.2
	}

	disease := 0.0
	if hasSource(counts, "medical", "healer") {
		disease += 0.4
	}
	if hasSource(counts, "observation", "death", "casualty") {
		disease += 0.3
	}
	if hasSource(counts, "rumor") {
		disease += 0.1
	}

	conspiracy := 0.0
	if hasSource(counts, "intelligence", "intercept") {
		conspiracy += 0.4
	}
	if hasSource(counts, "official", "royal", "decree") {
		conspiracy += 0.2
	}
	if highShare > 0.7 {
		conspiracy += 0.2
	}

	patterns := []Pattern{
		{string(models.FamineCascade), famine},
		{string(models.PandemicSurge), disease},
		{"conspiracy", conspiracy},
	}
	sort.SliceStable(patterns, func(i, j int) bool { return patterns[i].Score > patterns[j].Score })
	return patterns
}

// InvestigationSummary describes the caseboard in a few lines.
func InvestigationSummary(evidence []models.EvidenceItem) string {
	if len(evidence) == 0 {
		return "No evidence gathered yet."
	}
	high := 0
	for _, e := range evidence {
		if e.Reliability == models.TierHigh {
			high++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d pieces of evidence gathered, %d highly reliable.", len(evidence), high)
	if p := PatternScores(evidence); len(p) > 0 && p[0].Score > 0.5 {
		fmt.Fprintf(&b, "\nStrongest pattern: %s (%.0f%%)", models.Humanize(p[0].Name), p[0].Score*100)
	}
	return b.String()
}

// Report is the ending summary of a finished session, or a progress report
// for one still running.
func (s *Session) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s facing %s\n", s.role.Title(), s.event.Title())
	if s.Over() {
		fmt.Fprintf(&b, "Concluded after day %d\n", s.clock.Day())
	} else {
		fmt.Fprintf(&b, "Day %d, %s (%s)\n", s.clock.Day(), s.clock.Slot(), s.clock.Phase().Title())
	}

	b.WriteString("\nResources:\n")
	bal := s.ledger.Balances(s.role)
	for _, res := range s.role.Resources() {
		fmt.Fprintf(&b, "  %-16s %3d\n", res.Title(), bal[res])
	}

	fmt.Fprintf(&b, "\nEvidence (%d):\n", len(s.evidence))
	for _, e := range s.evidence {
		fmt.Fprintf(&b, "  day %d [%s] %s (%s, %s)\n", e.Day, e.Reliability, e.Content, models.Humanize(e.SourceType), e.Location)
	}
	b.WriteString("  " + strings.ReplaceAll(InvestigationSummary(s.evidence), "\n", "\n  ") + "\n")

	prog, _ := s.preparer.Progress(s.event)
	fmt.Fprintf(&b, "\nPreparation: %.0f%%\n", prog.TotalEffectiveness()*100)
	if prog != nil {
		for _, id := range prog.Order {
			rec := prog.Actions[id]
			name := id
			if a, ok := FindPreparationAction(s.role, id); ok {
				name = a.Name
			}
			fmt.Fprintf(&b, "  %s x%d (last %.0f%%)\n", name, rec.Times, rec.Effectiveness*100)
		}
	}

	history := s.randomEvents.History()
	fmt.Fprintf(&b, "\nRandom events (%d):\n", len(history))
	for _, ev := range history {
		fmt.Fprintf(&b, "  day %d %s: %s\n", ev.Day, ev.Slot, ev.Name)
	}

	if r, ok := s.Resolution(); ok {
		fmt.Fprintf(&b, "\nOutcome: %s (%.0f%% prepared)\n", r.Outcome.Title(), r.Effectiveness*100)
		if r.Text != "" {
			b.WriteString(r.Text + "\n")
		}
	}
	return b.String()
}
