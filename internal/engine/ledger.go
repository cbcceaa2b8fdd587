package engine

import (
	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

type resourcePair [2]models.Resource

// transferRates are the percentages of a transfer that arrive at the
// destination. Pairs are symmetric; unlisted pairs convert at 100.
var transferRates = map[models.Role]map[resourcePair]int{
	models.RoleKing: {
		{models.Treasury, models.FoodReserves}: 90,
		{models.Treasury, models.PublicTrust}:  85,
		{models.Treasury, models.NobleSupport}: 80,
	},
	models.RoleCaptain: {
		{models.PersonalFunds, models.Health}:       90,
		{models.PersonalFunds, models.TroopLoyalty}: 85,
		{models.PersonalFunds, models.SoldierCount}: 80,
	},
	models.RoleSpy: {
		{models.CoverIdentity, models.NetworkContacts}: 90,
		{models.CoverIdentity, models.CovertFunds}:     85,
		{models.CoverIdentity, models.Intelligence}:    80,
	},
}

// TransferRate returns the percentage of a src→dst transfer that survives.
func TransferRate(role models.Role, src, dst models.Resource) int {
	rates := transferRates[role]
	if r, ok := rates[resourcePair{src, dst}]; ok {
		return r
	}
	if r, ok := rates[resourcePair{dst, src}]; ok {
		return r
	}
	return 100
}

// TransferResult describes a completed conversion.
type TransferResult struct {
	Source   models.Resource `yaml:"source"`
	Target   models.Resource `yaml:"target"`
	Debited  int             `yaml:"debited"`
	Credited int             `yaml:"credited"`
	Rate     int             `yaml:"rate"`
}

// Ledger holds the four balances of every role. Values never leave
// [MinResource, MaxResource].
type Ledger struct {
	min, max int
	balances map[models.Role]*[4]int
}

func NewLedger(rules config.Rules) *Ledger {
	l := &Ledger{
		min:      rules.MinResource,
		max:      rules.MaxResource,
		balances: make(map[models.Role]*[4]int, len(models.Roles)),
	}
	for _, role := range models.Roles {
		var b [4]int
		for i := range b {
			b[i] = l.clamp(rules.InitialResource)
		}
		l.balances[role] = &b
	}
	return l
}

func (l *Ledger) clamp(v int) int {
	return max(l.min, min(l.max, v))
}

func (l *Ledger) slot(role models.Role, name models.Resource) (*int, error) {
	b, ok := l.balances[role]
	if !ok {
		return nil, models.Detail(models.ErrUnknownRole, "%q", role)
	}
	i, ok := role.ResourceIndex(name)
	if !ok {
		return nil, models.Detail(models.ErrUnknownResource, "%s has no %q", role.Title(), name)
	}
	return &b[i], nil
}

func (l *Ledger) Get(role models.Role, name models.Resource) (int, error) {
	p, err := l.slot(role, name)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// Set stores value clamped to the ledger bounds.
func (l *Ledger) Set(role models.Role, name models.Resource, value int) error {
	p, err := l.slot(role, name)
	if err != nil {
		return err
	}
	*p = l.clamp(value)
	return nil
}

// Add applies delta with clamping and returns the change that took effect.
func (l *Ledger) Add(role models.Role, name models.Resource, delta int) (int, error) {
	p, err := l.slot(role, name)
	if err != nil {
		return 0, err
	}
	before := *p
	*p = l.clamp(before + delta)
	return *p - before, nil
}

// Balances copies a role's values into a map.
func (l *Ledger) Balances(role models.Role) map[models.Resource]int {
	out := make(map[models.Resource]int, 4)
	b, ok := l.balances[role]
	if !ok {
		return out
	}
	for i, res := range role.Resources() {
		out[res] = b[i]
	}
	return out
}

// All copies every role's values.
func (l *Ledger) All() map[models.Role]map[models.Resource]int {
	out := make(map[models.Role]map[models.Resource]int, len(l.balances))
	for _, role := range models.Roles {
		out[role] = l.Balances(role)
	}
	return out
}

// CanAfford reports the first resource, in role order, that cannot cover cost.
func (l *Ledger) CanAfford(role models.Role, cost models.Cost) error {
	return affordable(role, cost, l.Balances(role))
}

func affordable(role models.Role, cost models.Cost, balances map[models.Resource]int) error {
	for res := range cost {
		if _, ok := role.ResourceIndex(res); !ok {
			return models.Detail(models.ErrUnknownResource, "%s has no %q", role.Title(), res)
		}
	}
	for _, ra := range cost.Ordered(role) {
		if have := balances[ra.Resource]; have < ra.Amount {
			return models.Detail(models.ErrInsufficientResource, "%s needs %d, have %d", ra.Resource.Title(), ra.Amount, have)
		}
	}
	return nil
}

// Charge debits every entry of cost, or nothing if any entry is unaffordable.
func (l *Ledger) Charge(role models.Role, cost models.Cost) error {
	if err := l.CanAfford(role, cost); err != nil {
		return err
	}
	for _, ra := range cost.Ordered(role) {
		if _, err := l.Add(role, ra.Resource, -ra.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Credit adds every entry of gain with clamping and returns what was applied.
func (l *Ledger) Credit(role models.Role, gain models.Cost) ([]models.ResourceAmount, error) {
	for res := range gain {
		if _, ok := role.ResourceIndex(res); !ok {
			return nil, models.Detail(models.ErrUnknownResource, "%s has no %q", role.Title(), res)
		}
	}
	var applied []models.ResourceAmount
	for _, ra := range gain.Ordered(role) {
		d, err := l.Add(role, ra.Resource, ra.Amount)
		if err != nil {
			return applied, err
		}
		applied = append(applied, models.ResourceAmount{Resource: ra.Resource, Amount: d})
	}
	return applied, nil
}

// Transfer converts amount of src into dst at the role's rate. The credit is
// floor(amount × rate) and never exceeds amount.
func (l *Ledger) Transfer(role models.Role, src, dst models.Resource, amount int) (TransferResult, error) {
	from, err := l.slot(role, src)
	if err != nil {
		return TransferResult{}, err
	}
	to, err := l.slot(role, dst)
	if err != nil {
		return TransferResult{}, err
	}
	if src == dst {
		return TransferResult{}, models.Detail(models.ErrInvalidTransfer, "source and target are both %s", src.Title())
	}
	if amount <= 0 {
		return TransferResult{}, models.Detail(models.ErrInvalidTransfer, "amount must be positive, got %d", amount)
	}
	if *from < amount {
		return TransferResult{}, models.Detail(models.ErrInsufficientResource, "%s needs %d, have %d", src.Title(), amount, *from)
	}

	rate := TransferRate(role, src, dst)
	gain := amount * rate / 100
	*from = l.clamp(*from - amount)
	*to = l.clamp(*to + gain)
	return TransferResult{Source: src, Target: dst, Debited: amount, Credited: gain, Rate: rate}, nil
}
