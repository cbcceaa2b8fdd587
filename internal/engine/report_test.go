package engine

import (
	"strings"
	"testing"

	"github.com/tatianab/kingdom-crisis/internal/models"
)

func TestPatternScores(t *testing.T) {
	if PatternScores(nil) != nil {
		t.Error("patterns from no evidence")
	}
	evidence := []models.EvidenceItem{
		{SourceType: "medical_report", Reliability: models.TierHigh},
		{SourceType: "observation", Reliability: models.TierMedium},
		{SourceType: "rumor", Reliability: models.TierLow},
	}
	p := PatternScores(evidence)
	if len(p) != 3 || p[0].Name != string(models.PandemicSurge) || !approx(p[0].Score, 0.8) {
		t.Fatalf("patterns = %+v", p)
	}
	for i := 1; i < len(p); i++ {
		if p[i].Score > p[i-1].Score {
			t.Errorf("patterns not sorted: %+v", p)
		}
	}
	if s := InvestigationSummary(evidence); !strings.Contains(s, "Pandemic Surge") || !strings.Contains(s, "3 pieces") {
		t.Errorf("summary = %q", s)
	}
}

func TestReport(t *testing.T) {
	s := playedSession(t)
	out := s.Report()
	for _, want := range []string{"King facing Famine Cascade", "Evidence (1)", "Agricultural Investment x1"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Outcome") {
		t.Errorf("running session reports an outcome:\n%s", out)
	}
	for !s.Over() {
		s.Wait()
	}
	if out := s.Report(); !strings.Contains(out, "Outcome:") {
		t.Errorf("finished report has no outcome:\n%s", out)
	}
}
