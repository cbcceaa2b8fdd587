package engine

import (
	"errors"
	"testing"

	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

func TestLedgerStartsAtInitial(t *testing.T) {
	l := NewLedger(config.DefaultRules())
	for _, role := range models.Roles {
		for _, res := range role.Resources() {
			if v := mustGet(t, l, role, res); v != 50 {
				t.Errorf("%s %s = %d, want 50", role, res, v)
			}
		}
	}
}

func TestLedgerSetClamps(t *testing.T) {
	l := NewLedger(config.DefaultRules())
	if err := l.Set(models.RoleKing, models.Treasury, 150); err != nil {
		t.Fatal(err)
	}
	if v := mustGet(t, l, models.RoleKing, models.Treasury); v != 100 {
		t.Errorf("treasury = %d, want 100", v)
	}
	if err := l.Set(models.RoleKing, models.Treasury, -5); err != nil {
		t.Fatal(err)
	}
	if v := mustGet(t, l, models.RoleKing, models.Treasury); v != 0 {
		t.Errorf("treasury = %d, want 0", v)
	}
	if d, _ := l.Add(models.RoleSpy, models.Intelligence, 80); d != 50 {
		t.Errorf("Add applied %d, want 50", d)
	}
}

func TestLedgerUnknownResource(t *testing.T) {
	l := NewLedger(config.DefaultRules())
	if _, err := l.Get(models.RoleKing, models.Health); !errors.Is(err, models.ErrUnknownResource) {
		t.Errorf("Get(king, health) = %v, want ErrUnknownResource", err)
	}
	if err := l.Set(models.RoleSpy, "gold", 1); !errors.Is(err, models.ErrUnknownResource) {
		t.Errorf("Set(spy, gold) = %v, want ErrUnknownResource", err)
	}
	if err := l.CanAfford(models.RoleCaptain, models.Cost{models.Treasury: 1}); !errors.Is(err, models.ErrUnknownResource) {
		t.Errorf("CanAfford with foreign resource = %v, want ErrUnknownResource", err)
	}
}

func TestTransferRates(t *testing.T) {
	tests := []struct {
		role     models.Role
		src, dst models.Resource
		amount   int
		credited int
	}{
		{models.RoleKing, models.Treasury, models.FoodReserves, 10, 9},
		{models.RoleKing, models.FoodReserves, models.Treasury, 10, 9},
		{models.RoleKing, models.Treasury, models.PublicTrust, 20, 17},
		{models.RoleKing, models.NobleSupport, models.Treasury, 10, 8},
		{models.RoleKing, models.FoodReserves, models.PublicTrust, 10, 10},
		{models.RoleCaptain, models.PersonalFunds, models.SoldierCount, 25, 20},
		{models.RoleCaptain, models.TroopLoyalty, models.PersonalFunds, 7, 5},
		{models.RoleSpy, models.CoverIdentity, models.Intelligence, 7, 5},
		{models.RoleSpy, models.NetworkContacts, models.CoverIdentity, 33, 29},
	}
	for _, tt := range tests {
		l := NewLedger(config.DefaultRules())
		res, err := l.Transfer(tt.role, tt.src, tt.dst, tt.amount)
		if err != nil {
			t.Fatalf("Transfer(%s %s->%s %d): %v", tt.role, tt.src, tt.dst, tt.amount, err)
		}
		if res.Debited != tt.amount || res.Credited != tt.credited {
			t.Errorf("Transfer(%s %s->%s %d) = -%d/+%d, want -%d/+%d",
				tt.role, tt.src, tt.dst, tt.amount, res.Debited, res.Credited, tt.amount, tt.credited)
		}
		if v := mustGet(t, l, tt.role, tt.src); v != 50-tt.amount {
			t.Errorf("%s after transfer = %d, want %d", tt.src, v, 50-tt.amount)
		}
		if v := mustGet(t, l, tt.role, tt.dst); v != 50+tt.credited {
			t.Errorf("%s after transfer = %d, want %d", tt.dst, v, 50+tt.credited)
		}
	}
}

func TestTransferRejects(t *testing.T) {
	l := NewLedger(config.DefaultRules())
	if _, err := l.Transfer(models.RoleKing, models.Treasury, models.FoodReserves, 60); !errors.Is(err, models.ErrInsufficientResource) {
		t.Errorf("overdraw = %v, want ErrInsufficientResource", err)
	}
	if _, err := l.Transfer(models.RoleKing, models.Treasury, models.Treasury, 5); !errors.Is(err, models.ErrInvalidTransfer) {
		t.Errorf("self transfer = %v, want ErrInvalidTransfer", err)
	}
	if _, err := l.Transfer(models.RoleKing, models.Treasury, models.FoodReserves, 0); !errors.Is(err, models.ErrInvalidTransfer) {
		t.Errorf("zero transfer = %v, want ErrInvalidTransfer", err)
	}
	if _, err := l.Transfer(models.RoleKing, models.Treasury, models.Health, 5); !errors.Is(err, models.ErrUnknownResource) {
		t.Errorf("foreign target = %v, want ErrUnknownResource", err)
	}
	for _, res := range models.RoleKing.Resources() {
		if v := mustGet(t, l, models.RoleKing, res); v != 50 {
			t.Errorf("rejected transfers changed %s to %d", res, v)
		}
	}
}

func TestTransferGainNeverExceedsAmount(t *testing.T) {
	for _, role := range models.Roles {
		for _, src := range role.Resources() {
			for _, dst := range role.Resources() {
				if src == dst {
					continue
				}
				for amount := 1; amount <= 50; amount++ {
					l := NewLedger(config.DefaultRules())
					res, err := l.Transfer(role, src, dst, amount)
					if err != nil {
						t.Fatalf("Transfer: %v", err)
					}
					if res.Credited > amount || res.Credited < 0 {
						t.Fatalf("%s %s->%s %d credited %d", role, src, dst, amount, res.Credited)
					}
				}
			}
		}
	}
}

func TestTransferCreditClamps(t *testing.T) {
	l := NewLedger(config.DefaultRules())
	l.Set(models.RoleKing, models.FoodReserves, 95)
	if _, err := l.Transfer(models.RoleKing, models.Treasury, models.FoodReserves, 20); err != nil {
		t.Fatal(err)
	}
	if v := mustGet(t, l, models.RoleKing, models.FoodReserves); v != 100 {
		t.Errorf("food = %d, want 100", v)
	}
}

func TestChargeIsAtomic(t *testing.T) {
	l := NewLedger(config.DefaultRules())
	err := l.Charge(models.RoleKing, models.Cost{models.Treasury: 10, models.FoodReserves: 60})
	if !errors.Is(err, models.ErrInsufficientResource) {
		t.Fatalf("Charge = %v, want ErrInsufficientResource", err)
	}
	if v := mustGet(t, l, models.RoleKing, models.Treasury); v != 50 {
		t.Errorf("treasury = %d after failed charge, want 50", v)
	}
}

func TestLedgerStaysInBounds(t *testing.T) {
	l := NewLedger(config.DefaultRules())
	rng := NewRNG(1)
	for i := 0; i < 5000; i++ {
		role := models.Roles[rng.IntN(3)]
		res := role.Resources()
		a, b := res[rng.IntN(4)], res[rng.IntN(4)]
		switch rng.IntN(3) {
		case 0:
			l.Add(role, a, rng.IntN(81)-40)
		case 1:
			l.Transfer(role, a, b, rng.IntN(60))
		case 2:
			l.Charge(role, models.Cost{a: rng.IntN(30)})
		}
	}
	for role, values := range l.All() {
		for res, v := range values {
			if v < 0 || v > 100 {
				t.Errorf("%s %s = %d out of bounds", role, res, v)
			}
		}
	}
}
