package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/engine"
	"github.com/tatianab/kingdom-crisis/internal/logger"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"github.com/tatianab/kingdom-crisis/internal/narrator"
	"github.com/tatianab/kingdom-crisis/internal/store"
	"google.golang.org/api/option"
)

// maxTurns bounds a game in case every offered action keeps failing.
const maxTurns = 60

type choice struct {
	id       string
	category models.ActionCategory
	label    string
}

func main() {
	games := flag.Int("games", 1, "number of games to play")
	seed := flag.Uint64("seed", 0, "base seed; game i uses seed+i (0 picks one from the clock)")
	verbose := flag.Bool("v", false, "write engine logs to stderr")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logs := logger.Discard()
	if *verbose {
		logs = logger.New(os.Stderr)
	}
	evidence := engine.LoadEvidence(cfg.EvidenceDir, logs)

	base := *seed
	if base == 0 {
		base = cfg.Seed
	}
	if base == 0 {
		base = uint64(time.Now().UnixNano())
	}

	var outcomes *store.OutcomeRepo
	if cfg.DBDialect != "" {
		db, err := store.Open(ctx, cfg.DBDialect, cfg.StoreDSN())
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer db.Close()
		outcomes = db.Outcomes()
	}

	// The player model is optional; without it a greedy strategy plays.
	var player *genai.GenerativeModel
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer client.Close()
		player = client.GenerativeModel(cfg.GeminiModel)
	}

	tally := make(map[models.Outcome]int)
	for i := 0; i < *games; i++ {
		gameSeed := base + uint64(i)
		fmt.Printf("=== Game %d (seed %d) ===\n", i+1, gameSeed)
		res, err := playGame(ctx, cfg.Rules, evidence, gameSeed, player, logs, outcomes)
		if err != nil {
			log.Fatalf("Game %d failed: %v", i+1, err)
		}
		tally[res.Outcome]++
	}

	if *games > 1 {
		fmt.Println("=== Summary ===")
		for _, o := range []models.Outcome{models.KingdomSaved, models.PartialRecovery, models.KingdomFalls} {
			fmt.Printf("%-18s %d\n", o.Title(), tally[o])
		}
	}
}

func playGame(ctx context.Context, rules config.Rules, evidence *engine.EvidenceLibrary, seed uint64, player *genai.GenerativeModel, logs *logger.Logger, outcomes *store.OutcomeRepo) (models.Resolution, error) {
	rng := engine.NewRNG(seed)
	s, err := engine.NewSession(rules, evidence, engine.Options{
		RNG:      rng,
		Narrator: narrator.NewStatic(engine.NewRNG(seed)),
		Logger:   logs,
	})
	if err != nil {
		return models.Resolution{}, err
	}
	fmt.Printf("Role: %s\nCrisis: %s\n", s.Role().Title(), s.Event().Title())
	if intro := s.IntroText(); intro != "" {
		fmt.Printf("%s\n", intro)
	}
	fmt.Println()

	for turn := 1; !s.Over() && turn <= maxTurns; turn++ {
		fmt.Printf("--- Turn %d: day %d %s ---\n", turn, s.Day(), s.Slot())

		options := offered(s)
		c := greedy(s, options)
		if player != nil {
			c = askPlayer(ctx, player, s, options, c)
		}
		fmt.Printf("Player Action: %s\n", c.label)

		res, err := perform(s, c)
		if err != nil {
			fmt.Printf("Rejected: %v; waiting instead\n", err)
			if res, err = s.Wait(); err != nil {
				return models.Resolution{}, err
			}
		}
		printTurn(res)
	}

	fmt.Println(s.Report())
	r, ok := s.Resolution()
	if !ok {
		return r, fmt.Errorf("game did not finish within %d turns", maxTurns)
	}
	if outcomes != nil {
		if _, err := outcomes.Record(ctx, s.ID(), s.Role(), r); err != nil {
			fmt.Printf("Failed to record outcome: %v\n", err)
		}
	}
	return r, nil
}

// offered lists every action the player can pay for right now, plus waiting.
func offered(s *engine.Session) []choice {
	var out []choice
	for _, a := range s.PreparationActions() {
		if s.CanAfford(a.Cost) {
			out = append(out, choice{a.ID, models.CategoryPreparation, "Prepare: " + a.Name})
		}
	}
	for _, m := range s.InvestigationMethods() {
		if s.CanAfford(m.Cost) {
			out = append(out, choice{m.ID, models.CategoryInvestigation, "Investigate: " + m.Name})
		}
	}
	for _, a := range s.ResourceActions() {
		if s.CanAfford(a.Cost) {
			out = append(out, choice{a.ID, models.CategoryResource, "Acquire: " + a.Name})
		}
	}
	return append(out, choice{"wait", models.CategoryWait, "Wait"})
}

// greedy prepares whenever it can keep a cushion, investigates once a day,
// and otherwise tops up its weakest resource.
func greedy(s *engine.Session, options []choice) choice {
	bal := s.Balances()
	rules := s.Rules()

	if s.Progress() < 1 {
		best, bestEff := choice{}, 0.0
		for _, c := range options {
			if c.category != models.CategoryPreparation {
				continue
			}
			a, _ := engine.FindPreparationAction(s.Role(), c.id)
			if !cushioned(a.Cost, bal, rules.CushionFactor) {
				continue
			}
			if eff, ok := s.PreviewPreparation(c.id); ok && eff > bestEff {
				best, bestEff = c, eff
			}
		}
		if best.id != "" {
			return best
		}
	}

	if len(s.Evidence()) < s.Day() {
		for _, c := range options {
			if c.category == models.CategoryInvestigation {
				return c
			}
		}
	}

	weakest := s.Role().Resources()[0]
	for _, res := range s.Role().Resources() {
		if bal[res] < bal[weakest] {
			weakest = res
		}
	}
	for _, c := range options {
		if c.category != models.CategoryResource {
			continue
		}
		if a, ok := engine.FindResourceAction(s.Role(), c.id); ok && a.Gain[weakest] > 0 {
			return c
		}
	}
	return options[len(options)-1]
}

func cushioned(cost models.Cost, bal map[models.Resource]int, factor float64) bool {
	for res, amount := range cost {
		if float64(bal[res]) < float64(amount)*factor {
			return false
		}
	}
	return true
}

func askPlayer(ctx context.Context, model *genai.GenerativeModel, s *engine.Session, options []choice, fallback choice) choice {
	var resources, menu strings.Builder
	bal := s.Balances()
	for _, res := range s.Role().Resources() {
		fmt.Fprintf(&resources, "%s: %d\n", res.Title(), bal[res])
	}
	for _, c := range options {
		fmt.Fprintf(&menu, "%s - %s\n", c.id, c.label)
	}

	prompt := fmt.Sprintf(`You are playing a kingdom crisis strategy game as the %s.
A crisis (%s) will strike after day %d. Preparation so far: %.0f%%.
It is day %d, %s. Evidence gathered: %d.

Resources:
%s
Available actions:
%s
Pick the action that best prepares the kingdom. Return ONLY the action id.`,
		s.Role().Title(), s.Event().Title(), s.Rules().TotalDays, s.Progress()*100,
		s.Day(), s.Slot(), len(s.Evidence()),
		resources.String(), menu.String(),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fallback
	}
	answer := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	for _, c := range options {
		if strings.Contains(answer, c.id) {
			return c
		}
	}
	return fallback
}

func perform(s *engine.Session, c choice) (*engine.TurnResult, error) {
	switch c.category {
	case models.CategoryPreparation:
		return s.Prepare(c.id)
	case models.CategoryInvestigation:
		return s.Investigate(c.id)
	case models.CategoryResource:
		return s.Acquire(c.id)
	}
	return s.Wait()
}

func printTurn(res *engine.TurnResult) {
	if res.Narration != "" {
		fmt.Printf("Narrator: %s\n", res.Narration)
	}
	if res.Spent.Total() > 0 {
		fmt.Printf("Spent: %s\n", res.Spent)
	}
	for _, g := range res.Gained {
		fmt.Printf("Gained: %s %+d\n", g.Resource.Title(), g.Amount)
	}
	if inv := res.Investigation; inv != nil {
		fmt.Printf("DISCOVERED [%s]: %s\n", inv.Tier, inv.Evidence.Content)
	}
	if p := res.Preparation; p != nil {
		fmt.Printf("Preparation: %.0f%% effective, total %.0f%%\n", p.Effectiveness*100, p.Total*100)
	}
	if res.NewDay && res.DailyText != "" {
		fmt.Printf("\n%s\n", res.DailyText)
	}
	if ev := res.RandomEvent; ev != nil {
		fmt.Printf("RANDOM EVENT: %s\n", ev.Name)
		for _, a := range ev.Applied {
			fmt.Printf("Effect: %s %+d\n", a.Resource.Title(), a.Amount)
		}
	}
	if r := res.Resolution; r != nil {
		fmt.Printf("Game Ended: %s\n", r.Outcome.Title())
	}
	fmt.Println()
}
