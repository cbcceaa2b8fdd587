package models

import (
	"fmt"
	"strings"
)

// Role is the seat the player occupies for a session.
type Role string

const (
	RoleKing    Role = "king"
	RoleCaptain Role = "captain"
	RoleSpy     Role = "spy"
)

// Roles lists every playable role in menu order.
var Roles = []Role{RoleKing, RoleCaptain, RoleSpy}

// Resource names one of the four balances a role owns.
type Resource string

const (
	Treasury     Resource = "treasury"
	FoodReserves Resource = "food_reserves"
	PublicTrust  Resource = "public_trust"
	NobleSupport Resource = "noble_support"

	PersonalFunds Resource = "personal_funds"
	Health        Resource = "health"
	TroopLoyalty  Resource = "troop_loyalty"
	SoldierCount  Resource = "soldier_count"

	CoverIdentity   Resource = "cover_identity"
	NetworkContacts Resource = "network_contacts"
	CovertFunds     Resource = "covert_funds"
	Intelligence    Resource = "intelligence"
)

var roleResources = map[Role][4]Resource{
	RoleKing:    {Treasury, FoodReserves, PublicTrust, NobleSupport},
	RoleCaptain: {PersonalFunds, Health, TroopLoyalty, SoldierCount},
	RoleSpy:     {CoverIdentity, NetworkContacts, CovertFunds, Intelligence},
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", Detail(ErrUnknownRole, "%q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleResources[r]
	return ok
}

// Resources returns the role's four resources in their fixed order.
func (r Role) Resources() [4]Resource {
	return roleResources[r]
}

// ResourceIndex reports the slot of name within the role's balances.
func (r Role) ResourceIndex(name Resource) (int, bool) {
	for i, res := range roleResources[r] {
		if res == name {
			return i, true
		}
	}
	return 0, false
}

func (r Role) Title() string {
	switch r {
	case RoleKing:
		return "King"
	case RoleCaptain:
		return "Captain"
	case RoleSpy:
		return "Spy"
	}
	return string(r)
}

// Description is the one-line premise shown when choosing a role.
func (r Role) Description() string {
	switch r {
	case RoleKing:
		return "Supreme ruler, but dreams warn that prestige is declining"
	case RoleCaptain:
		return "Experienced officer, but dreams show the army may be unprepared"
	case RoleSpy:
		return "Foreign agent living undercover, but dreams warn the secret may be exposed"
	}
	return ""
}

func (r Resource) Title() string {
	return Humanize(string(r))
}

// Humanize turns a snake_case identifier into "Title Case".
func Humanize(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Slot is the time of day within a game day.
type Slot string

const (
	Morning   Slot = "morning"
	Afternoon Slot = "afternoon"
	Evening   Slot = "evening"
	// Epilogue is the terminal slot reached after the final evening.
	Epilogue Slot = "epilogue"
)

var Slots = []Slot{Morning, Afternoon, Evening}

// Phase is the narrative act derived from the day.
type Phase string

const (
	ActI          Phase = "act_i"
	ActII         Phase = "act_ii"
	ActIII        Phase = "act_iii"
	PhaseEpilogue Phase = "epilogue"
)

func PhaseForDay(day int) Phase {
	switch {
	case day <= 2:
		return ActI
	case day <= 4:
		return ActII
	case day <= 6:
		return ActIII
	default:
		return PhaseEpilogue
	}
}

func (p Phase) Title() string {
	switch p {
	case ActI:
		return "Act I"
	case ActII:
		return "Act II"
	case ActIII:
		return "Act III"
	}
	return "Epilogue"
}

// CrisisEvent identifies the catastrophe a session revolves around.
type CrisisEvent string

const (
	FamineCascade            CrisisEvent = "famine_cascade"
	PandemicSurge            CrisisEvent = "pandemic_surge"
	InvasionRebellion        CrisisEvent = "invasion_rebellion"
	CultUprising             CrisisEvent = "cult_uprising"
	EnvironmentalCatastrophe CrisisEvent = "environmental_catastrophe"
	CropBlight               CrisisEvent = "crop_blight"
	EconomicCollapse         CrisisEvent = "economic_collapse"
	SupernaturalRift         CrisisEvent = "supernatural_rift"
)

var CrisisEvents = []CrisisEvent{
	FamineCascade,
	PandemicSurge,
	InvasionRebellion,
	CultUprising,
	EnvironmentalCatastrophe,
	CropBlight,
	EconomicCollapse,
	SupernaturalRift,
}

func ParseCrisisEvent(s string) (CrisisEvent, error) {
	e := CrisisEvent(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", Detail(ErrUnknownEvent, "%q", s)
	}
	return e, nil
}

func (e CrisisEvent) Valid() bool {
	for _, known := range CrisisEvents {
		if e == known {
			return true
		}
	}
	return false
}

func (e CrisisEvent) Title() string {
	return Humanize(string(e))
}

// Tier grades evidence pools and preparation actions.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

var Tiers = []Tier{TierLow, TierMedium, TierHigh}

func (t Tier) Valid() bool {
	return t == TierLow || t == TierMedium || t == TierHigh
}

// EvidenceItem is one clue recovered by an investigation.
type EvidenceItem struct {
	ID          string      `yaml:"id" json:"id"`
	Event       CrisisEvent `yaml:"event" json:"event"`
	Tier        Tier        `yaml:"tier" json:"tier"`
	Content     string      `yaml:"content" json:"content"`
	Reliability Tier        `yaml:"reliability" json:"reliability"`
	SourceType  string      `yaml:"source_type" json:"source_type"`
	Location    string      `yaml:"location" json:"location"`
	Day         int         `yaml:"day" json:"day"`
}

// Cost maps resources to the amount an action spends or grants.
type Cost map[Resource]int

// Total sums every entry.
func (c Cost) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// Ordered returns the entries following the role's resource order.
func (c Cost) Ordered(role Role) []ResourceAmount {
	var out []ResourceAmount
	for _, res := range role.Resources() {
		if v, ok := c[res]; ok {
			out = append(out, ResourceAmount{Resource: res, Amount: v})
		}
	}
	return out
}

func (c Cost) String() string {
	parts := make([]string, 0, len(c))
	for _, role := range Roles {
		for _, ra := range c.Ordered(role) {
			parts = append(parts, fmt.Sprintf("%s %d", ra.Resource.Title(), ra.Amount))
		}
	}
	return strings.Join(parts, ", ")
}

type ResourceAmount struct {
	Resource Resource `yaml:"resource" json:"resource"`
	Amount   int      `yaml:"amount" json:"amount"`
}

// PreparationRecord is the latest result of one preparation action.
type PreparationRecord struct {
	ActionID      string  `yaml:"action_id" json:"action_id"`
	Cost          Cost    `yaml:"cost" json:"cost"`
	Effectiveness float64 `yaml:"effectiveness" json:"effectiveness"`
	Times         int     `yaml:"times" json:"times"`
}

// PreparationProgress accumulates preparation toward a single crisis.
type PreparationProgress struct {
	Event   CrisisEvent                  `yaml:"event" json:"event"`
	Actions map[string]PreparationRecord `yaml:"actions" json:"actions"`
	Order   []string                     `yaml:"order" json:"order"`
	Sum     float64                      `yaml:"sum" json:"sum"`
}

func NewPreparationProgress(event CrisisEvent) *PreparationProgress {
	return &PreparationProgress{Event: event, Actions: make(map[string]PreparationRecord)}
}

// Add records an action result. Effectiveness is never negative, so the
// total cannot decrease. Repeating an action refreshes its record.
func (p *PreparationProgress) Add(actionID string, cost Cost, effectiveness float64) {
	if effectiveness < 0 {
		effectiveness = 0
	}
	rec, ok := p.Actions[actionID]
	if !ok {
		p.Order = append(p.Order, actionID)
	}
	rec.ActionID = actionID
	rec.Cost = cost
	rec.Effectiveness = effectiveness
	rec.Times++
	p.Actions[actionID] = rec
	p.Sum += effectiveness
}

// TotalEffectiveness is the accumulated effectiveness capped at 1.0.
func (p *PreparationProgress) TotalEffectiveness() float64 {
	if p == nil {
		return 0
	}
	if p.Sum > 1 {
		return 1
	}
	return p.Sum
}

func (p *PreparationProgress) Saturated() bool {
	return p.TotalEffectiveness() >= 1
}

// EffectKind selects how a random-event effect changes a value.
type EffectKind string

const (
	EffectAbsolute EffectKind = "absolute"
	EffectRelative EffectKind = "relative"
)

// Effect is one change a random event carries. Targets that are not one of
// the acting role's resources are kept as modifiers.
type Effect struct {
	Target string     `yaml:"target" json:"target"`
	Kind   EffectKind `yaml:"kind" json:"kind"`
	Amount int        `yaml:"amount,omitempty" json:"amount,omitempty"`
	Factor float64    `yaml:"factor,omitempty" json:"factor,omitempty"`
}

func (e Effect) String() string {
	if e.Kind == EffectAbsolute {
		return fmt.Sprintf("%s %+d", Humanize(e.Target), e.Amount)
	}
	return fmt.Sprintf("%s %+.0f%%", Humanize(e.Target), e.Factor*100)
}

// RandomEventInstance is a random event realized at a point in time.
type RandomEventInstance struct {
	ID          string           `yaml:"id" json:"id"`
	TemplateID  string           `yaml:"template_id" json:"template_id"`
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description" json:"description"`
	Category    string           `yaml:"category" json:"category"`
	Day         int              `yaml:"day" json:"day"`
	Slot        Slot             `yaml:"slot" json:"slot"`
	Role        Role             `yaml:"role" json:"role"`
	Effects     []Effect         `yaml:"effects" json:"effects"`
	Applied     []ResourceAmount `yaml:"applied,omitempty" json:"applied,omitempty"`
	Modifiers   []Effect         `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

// ActionCategory groups player actions for the log and the narrator.
type ActionCategory string

const (
	CategoryResource      ActionCategory = "resource"
	CategoryInvestigation ActionCategory = "investigation"
	CategoryPreparation   ActionCategory = "preparation"
	CategoryTransfer      ActionCategory = "transfer"
	CategoryWait          ActionCategory = "wait"
)

// ActionRecord is one accepted player action.
type ActionRecord struct {
	Day      int            `yaml:"day" json:"day"`
	Slot     Slot           `yaml:"slot" json:"slot"`
	Category ActionCategory `yaml:"category" json:"category"`
	ActionID string         `yaml:"action_id" json:"action_id"`
	Detail   string         `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// Outcome is the final classification of a session.
type Outcome string

const (
	KingdomSaved    Outcome = "kingdom_saved"
	PartialRecovery Outcome = "partial_recovery"
	KingdomFalls    Outcome = "kingdom_falls"
)

func (o Outcome) Title() string {
	return Humanize(string(o))
}

// Resolution is produced once the clock reaches the epilogue.
type Resolution struct {
	Event         CrisisEvent `yaml:"event" json:"event"`
	Outcome       Outcome     `yaml:"outcome" json:"outcome"`
	Effectiveness float64     `yaml:"effectiveness" json:"effectiveness"`
	Preparations  int         `yaml:"preparations" json:"preparations"`
	Text          string      `yaml:"text,omitempty" json:"text,omitempty"`
}
