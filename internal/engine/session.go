package engine

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/logger"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// Narrator supplies display text. Its failures are logged and never change
// game state.
type Narrator interface {
	ActionText(role models.Role, category models.ActionCategory, actionID string, success bool) (string, error)
	RandomEventText(eventID string, role models.Role) (string, error)
	EndingText(event models.CrisisEvent, outcome models.Outcome, role models.Role) (string, error)
	DailyText(day int, role models.Role) (string, error)
}

// Options configures a new session. Zero values pick defaults: a random
// role and crisis, a time-seeded RNG, no narration, discarded logs.
type Options struct {
	ID       string
	Role     models.Role
	Event    models.CrisisEvent
	RNG      RNG
	Narrator Narrator
	Logger   *logger.Logger
}

// TurnResult is everything one player action produced.
type TurnResult struct {
	Category  models.ActionCategory
	ActionID  string
	Narration string

	Spent         models.Cost
	Gained        []models.ResourceAmount
	Transfer      *TransferResult
	Investigation *Investigation
	Preparation   *Preparation

	NewDay          bool
	DailyText       string
	RandomEvent     *models.RandomEventInstance
	RandomEventText string
	Resolution      *models.Resolution
}

// Session is one playthrough. It is not safe for concurrent use.
type Session struct {
	id    string
	rules config.Rules
	role  models.Role
	event models.CrisisEvent
	rng   RNG

	clock        *Clock
	ledger       *Ledger
	pools        *EvidencePools
	investigator *Investigator
	preparer     *Preparer
	randomEvents *RandomEvents
	resolver     Resolver

	evidence   []models.EvidenceItem
	actions    []models.ActionRecord
	resolution *models.Resolution

	narrator  Narrator
	log       *logger.Logger
	observers []func(models.Snapshot)
}

func NewSession(rules config.Rules, lib *EvidenceLibrary, opts Options) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if lib == nil {
		lib = DefaultEvidence()
	}
	rng := opts.RNG
	if rng == nil {
		rng = NewRNG(uint64(time.Now().UnixNano()))
	}

	role := opts.Role
	switch {
	case role == "":
		role = models.Roles[rng.IntN(len(models.Roles))]
	case !role.Valid():
		return nil, models.Detail(models.ErrUnknownRole, "%q", role)
	}
	event := opts.Event
	switch {
	case event == "":
		event = models.CrisisEvents[rng.IntN(len(models.CrisisEvents))]
	case !event.Valid():
		return nil, models.Detail(models.ErrUnknownEvent, "%q", event)
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	pools := lib.NewPools()
	s := &Session{
		id:           id,
		rules:        rules,
		role:         role,
		event:        event,
		rng:          rng,
		clock:        NewClock(rules.TotalDays),
		ledger:       NewLedger(rules),
		pools:        pools,
		investigator: NewInvestigator(pools, rng),
		preparer:     NewPreparer(rules),
		randomEvents: NewRandomEvents(rules, rng),
		resolver:     NewResolver(rules),
		narrator:     opts.Narrator,
		log:          logger.OrDiscard(opts.Logger),
	}
	s.log.Event("session_start", s.id, fmt.Sprintf("role=%s event=%s", role, event))
	return s, nil
}

func (s *Session) ID() string                        { return s.id }
func (s *Session) Role() models.Role                 { return s.role }
func (s *Session) Event() models.CrisisEvent         { return s.event }
func (s *Session) Day() int                          { return s.clock.Day() }
func (s *Session) Slot() models.Slot                 { return s.clock.Slot() }
func (s *Session) Phase() models.Phase               { return s.clock.Phase() }
func (s *Session) Over() bool                        { return s.clock.Terminal() }
func (s *Session) Rules() config.Rules               { return s.rules }
func (s *Session) Balances() map[models.Resource]int { return s.ledger.Balances(s.role) }

// Resolution is set once the session reaches the epilogue.
func (s *Session) Resolution() (models.Resolution, bool) {
	if s.resolution == nil {
		return models.Resolution{}, false
	}
	return *s.resolution, true
}

// Progress is the preparation total against the session's crisis.
func (s *Session) Progress() float64 {
	prog, _ := s.preparer.Progress(s.event)
	return prog.TotalEffectiveness()
}

func (s *Session) Evidence() []models.EvidenceItem {
	return append([]models.EvidenceItem(nil), s.evidence...)
}

func (s *Session) RandomEvents() []models.RandomEventInstance {
	return s.randomEvents.History()
}

func (s *Session) MinimumRandomEventsMet() bool {
	return s.randomEvents.MinimumMet()
}

func (s *Session) ResourceActions() []ResourceAction {
	return ResourceActions(s.role)
}

func (s *Session) InvestigationMethods() []InvestigationMethod {
	return InvestigationMethods(s.role)
}

// PreparationActions lists only actions against the session's crisis.
func (s *Session) PreparationActions() []PreparationAction {
	return PreparationActions(s.role, s.event)
}

// CanAfford reports whether the player could pay cost right now.
func (s *Session) CanAfford(cost models.Cost) bool {
	return s.ledger.CanAfford(s.role, cost) == nil
}

// PreviewPreparation scores a preparation action without performing it.
func (s *Session) PreviewPreparation(actionID string) (float64, bool) {
	a, ok := FindPreparationAction(s.role, actionID)
	if !ok || a.Event != s.event {
		return 0, false
	}
	return Effectiveness(a, s.ledger.Balances(s.role), s.rules), true
}

// Subscribe registers fn to receive a snapshot after every accepted action.
func (s *Session) Subscribe(fn func(models.Snapshot)) {
	s.observers = append(s.observers, fn)
}

func (s *Session) checkOpen() error {
	if s.clock.Terminal() {
		return models.ErrGameOver
	}
	return nil
}

// Acquire performs one of the role's resource acquisition actions.
func (s *Session) Acquire(actionID string) (*TurnResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	action, ok := FindResourceAction(s.role, actionID)
	if !ok {
		return nil, models.Detail(models.ErrActionNotFound, "%q for %s", actionID, s.role.Title())
	}
	if err := s.ledger.Charge(s.role, action.Cost); err != nil {
		return nil, err
	}
	gained, err := s.ledger.Credit(s.role, action.Gain)
	if err != nil {
		return nil, err
	}

	res := &TurnResult{
		Category: models.CategoryResource,
		ActionID: action.ID,
		Spent:    maps.Clone(action.Cost),
		Gained:   gained,
	}
	res.Narration = s.actionText(models.CategoryResource, action.ID, true)
	s.log.Event("acquire", string(s.role), fmt.Sprintf("%s spent=[%s] gained=%v", action.ID, action.Cost, gained))
	s.finishTurn(res, "")
	return res, nil
}

// Investigate gathers one item of evidence about the session's crisis.
func (s *Session) Investigate(methodID string) (*TurnResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	inv, err := s.investigator.Investigate(s.role, methodID, s.event, s.clock.Day(), s.ledger.Balances(s.role))
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Charge(s.role, inv.Method.Cost); err != nil {
		return nil, err
	}
	s.evidence = append(s.evidence, inv.Evidence)

	res := &TurnResult{
		Category:      models.CategoryInvestigation,
		ActionID:      inv.Method.ID,
		Spent:         maps.Clone(inv.Method.Cost),
		Investigation: &inv,
	}
	res.Narration = s.actionText(models.CategoryInvestigation, inv.Method.ID, true)
	s.log.Event("investigate", string(s.role), fmt.Sprintf("%s tier=%s evidence=%s", inv.Method.ID, inv.Tier, inv.Evidence.ID))
	s.finishTurn(res, inv.Evidence.ID)
	return res, nil
}

// Prepare invests in a preparation action against the session's crisis.
// Effectiveness is scored against the balances before payment.
func (s *Session) Prepare(actionID string) (*TurnResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if a, ok := FindPreparationAction(s.role, actionID); !ok || a.Event != s.event {
		return nil, models.Detail(models.ErrActionNotFound, "%q against %s", actionID, s.event.Title())
	}
	prep, err := s.preparer.Perform(s.role, actionID, s.ledger)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Charge(s.role, prep.Action.Cost); err != nil {
		return nil, err
	}

	res := &TurnResult{
		Category:    models.CategoryPreparation,
		ActionID:    prep.Action.ID,
		Spent:       maps.Clone(prep.Action.Cost),
		Preparation: &prep,
	}
	res.Narration = s.actionText(models.CategoryPreparation, prep.Action.ID, prep.Effectiveness >= s.rules.PartialThreshold)
	s.log.Event("prepare", string(s.role), fmt.Sprintf("%s eff=%.2f total=%.2f", prep.Action.ID, prep.Effectiveness, prep.Total))
	s.finishTurn(res, fmt.Sprintf("%.2f", prep.Effectiveness))
	return res, nil
}

// Transfer converts between two of the role's resources. It does not use up
// the time slot.
func (s *Session) Transfer(src, dst models.Resource, amount int) (*TurnResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	tr, err := s.ledger.Transfer(s.role, src, dst, amount)
	if err != nil {
		return nil, err
	}
	s.actions = append(s.actions, models.ActionRecord{
		Day:      s.clock.Day(),
		Slot:     s.clock.Slot(),
		Category: models.CategoryTransfer,
		ActionID: fmt.Sprintf("%s>%s", src, dst),
		Detail:   fmt.Sprintf("%d>%d", tr.Debited, tr.Credited),
	})
	s.log.Event("transfer", string(s.role), fmt.Sprintf("%d %s -> %d %s", tr.Debited, src, tr.Credited, dst))
	s.notify()
	return &TurnResult{Category: models.CategoryTransfer, Transfer: &tr}, nil
}

// Wait lets the slot pass.
func (s *Session) Wait() (*TurnResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	res := &TurnResult{Category: models.CategoryWait, ActionID: "wait"}
	s.finishTurn(res, "")
	return res, nil
}

func (s *Session) finishTurn(res *TurnResult, detail string) {
	s.actions = append(s.actions, models.ActionRecord{
		Day:      s.clock.Day(),
		Slot:     s.clock.Slot(),
		Category: res.Category,
		ActionID: res.ActionID,
		Detail:   detail,
	})
	s.advance(res)
	s.notify()
}

func (s *Session) advance(res *TurnResult) {
	newDay, err := s.clock.Advance()
	if err != nil {
		s.log.Error("advance: %v", err)
		return
	}
	if s.clock.Terminal() {
		s.resolve()
		r := *s.resolution
		res.Resolution = &r
		return
	}
	if newDay {
		res.NewDay = true
		res.DailyText = s.text("daily", func(n Narrator) (string, error) { return n.DailyText(s.clock.Day(), s.role) })
	}
	if inst, ok := s.randomEvents.Roll(s.clock.Day(), s.clock.Slot(), s.role, s.ledger); ok {
		res.RandomEvent = &inst
		res.RandomEventText = s.text("random event", func(n Narrator) (string, error) { return n.RandomEventText(inst.TemplateID, s.role) })
		s.log.Event("random_event", s.id, fmt.Sprintf("%s applied=%v modifiers=%d", inst.ID, inst.Applied, len(inst.Modifiers)))
	}
}

func (s *Session) resolve() {
	prog, _ := s.preparer.Progress(s.event)
	r := s.resolver.Resolve(s.event, prog)
	r.Text = s.text("ending", func(n Narrator) (string, error) { return n.EndingText(s.event, r.Outcome, s.role) })
	s.resolution = &r
	s.log.Event("resolution", s.id, fmt.Sprintf("event=%s outcome=%s eff=%.2f random_events=%d minimum_met=%t",
		r.Event, r.Outcome, r.Effectiveness, len(s.randomEvents.History()), s.randomEvents.MinimumMet()))
}

func (s *Session) actionText(category models.ActionCategory, actionID string, success bool) string {
	return s.text("action", func(n Narrator) (string, error) { return n.ActionText(s.role, category, actionID, success) })
}

func (s *Session) text(what string, fn func(Narrator) (string, error)) string {
	if s.narrator == nil {
		return ""
	}
	t, err := fn(s.narrator)
	if err != nil {
		s.log.Warn("narrator %s text: %v", what, err)
		return ""
	}
	return t
}

// IntroText is the narration for the current day.
func (s *Session) IntroText() string {
	return s.text("daily", func(n Narrator) (string, error) { return n.DailyText(s.clock.Day(), s.role) })
}

func (s *Session) notify() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}
