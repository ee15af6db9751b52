package game

import "testing"

func TestApplyDamage_ShieldAbsorbsFirst(t *testing.T) {
	e := Entity{MaxHP: 10, HP: 10, Shield: 5}
	shieldLost, hpLost := e.ApplyDamage(8)
	if shieldLost != 5 || hpLost != 3 {
		t.Fatalf("expected 5 shield and 3 HP lost, got %d/%d", shieldLost, hpLost)
	}
	if e.Shield != 0 || e.HP != 7 {
		t.Fatalf("expected shield 0 and HP 7, got shield=%d hp=%d", e.Shield, e.HP)
	}
}

func TestApplyDamage_HPNeverNegative(t *testing.T) {
	e := Entity{MaxHP: 5, HP: 2}
	_, hpLost := e.ApplyDamage(9)
	if hpLost != 2 {
		t.Fatalf("expected 2 HP lost, got %d", hpLost)
	}
	if e.HP != 0 {
		t.Fatalf("expected HP floored at 0, got %d", e.HP)
	}
	if e.Alive() {
		t.Fatalf("entity at 0 HP must not be alive")
	}
}

func TestHeal_CapsAtMax(t *testing.T) {
	e := Entity{MaxHP: 10, HP: 8}
	if healed := e.Heal(5); healed != 2 {
		t.Fatalf("expected overheal clamped to 2, got %d", healed)
	}
	if e.HP != 10 {
		t.Fatalf("expected HP at max, got %d", e.HP)
	}
	if healed := e.Heal(3); healed != 0 {
		t.Fatalf("expected no heal at full HP, got %d", healed)
	}
}

func TestAddShield_Uncapped(t *testing.T) {
	e := Entity{MaxHP: 10, HP: 10}
	e.AddShield(7)
	e.AddShield(7)
	if e.Shield != 14 {
		t.Fatalf("expected shield to stack to 14, got %d", e.Shield)
	}
}

func TestCardMatches(t *testing.T) {
	attack := Card{Effect: EffectAttackSmall}
	heal := Card{Effect: EffectHealSmall}
	wild := Card{Effect: EffectAttackBig, Wildcard: true}

	if !attack.Matches(Card{Effect: EffectAttackSmall}) {
		t.Fatalf("same effect must match")
	}
	if attack.Matches(heal) {
		t.Fatalf("different effects must not match")
	}
	if !wild.Matches(heal) || !heal.Matches(wild) {
		t.Fatalf("a wildcard must match any card, in either order")
	}
}

func TestEffectCategory(t *testing.T) {
	cases := map[EffectKind]EffectCategory{
		EffectAttackSmall:  CategoryAttack,
		EffectAttackMedium: CategoryAttack,
		EffectAttackBig:    CategoryAttack,
		EffectHealSmall:    CategoryHeal,
		EffectHealMedium:   CategoryHeal,
		EffectShield:       CategoryShield,
		EffectCoinSmall:    CategoryCoin,
		EffectCoinMedium:   CategoryCoin,
	}
	for kind, want := range cases {
		if got := kind.Category(); got != want {
			t.Fatalf("category for %s: expected %s, got %s", kind, want, got)
		}
	}
}
