package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davidarcila/TowerFlip/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "towerflip_config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const minimalConfig = `
effects:
  attack_small: 2
  heal_small: 2
deck:
  - effect: attack_small
  - effect: heal_small
`

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":8080" {
		t.Fatalf("expected default address, got %q", cfg.ServerAddress)
	}
	if cfg.Floors != 3 || cfg.PartyHP != 12 || cfg.RestHeal != 4 {
		t.Fatalf("unexpected run defaults: floors=%d hp=%d heal=%d", cfg.Floors, cfg.PartyHP, cfg.RestHeal)
	}
	if cfg.SettleDelay != 900*time.Millisecond || cfg.ThinkDelay != 1200*time.Millisecond {
		t.Fatalf("unexpected pacing defaults: %v / %v", cfg.SettleDelay, cfg.ThinkDelay)
	}
	if cfg.StallTimeout != 10*time.Minute {
		t.Fatalf("unexpected stall timeout: %v", cfg.StallTimeout)
	}
	if len(cfg.FallbackEnemies) != 3 {
		t.Fatalf("expected the built-in fallback triple, got %d", len(cfg.FallbackEnemies))
	}
	easy, ok := cfg.Difficulty[game.DifficultyEasy]
	if !ok || easy.MistakeChance != 0.6 || easy.ForgetChance != 0.5 || !easy.GuaranteedMiss {
		t.Fatalf("unexpected EASY defaults: %+v", easy)
	}
	hard := cfg.Difficulty[game.DifficultyHard]
	if hard.GuaranteedMiss {
		t.Fatalf("HARD must not arm the guaranteed miss by default")
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	body := `
server:
  address: ":9999"
effects:
  attack_small: 2
  coin_small: 1
deck:
  - effect: attack_small
  - effect: coin_small
    wildcard: true
difficulty:
  EASY:
    mistake_chance: 0.9
    forget_chance: 0.9
    guaranteed_miss: false
pacing:
  settle_ms: 10
run:
  floors: 5
  party_hp: 20
  rest_heal: 2
  strength_multiplier: 1.5
  stall_timeout_minutes: 3
fallback_enemies:
  - name: Rat
    hp: 4
  - name: Knight
    hp: 8
  - name: Warden
    hp: 12
  - name: Shade
    hp: 14
  - name: King
    hp: 16
`
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9999" {
		t.Fatalf("expected configured address, got %q", cfg.ServerAddress)
	}
	if cfg.Floors != 5 || cfg.PartyHP != 20 || cfg.StrengthMultiplier != 1.5 {
		t.Fatalf("unexpected run section: %+v", cfg)
	}
	if cfg.SettleDelay != 10*time.Millisecond {
		t.Fatalf("expected configured settle delay, got %v", cfg.SettleDelay)
	}
	if cfg.ThinkDelay != 1200*time.Millisecond {
		t.Fatalf("an omitted pacing key must keep its default, got %v", cfg.ThinkDelay)
	}
	if cfg.StallTimeout != 3*time.Minute {
		t.Fatalf("unexpected stall timeout: %v", cfg.StallTimeout)
	}
	if !cfg.Deck[1].Wildcard {
		t.Fatalf("deck wildcard flag must survive the load")
	}
	if cfg.Difficulty[game.DifficultyEasy].MistakeChance != 0.9 {
		t.Fatalf("configured difficulty must override the default")
	}
	if cfg.Difficulty[game.DifficultyMedium].MistakeChance != 0.3 {
		t.Fatalf("omitted tiers must keep their defaults")
	}
	if len(cfg.FallbackEnemies) != 5 {
		t.Fatalf("expected one fallback enemy per floor, got %d", len(cfg.FallbackEnemies))
	}
	if cfg.FallbackEnemies[0].MaxHP != 4 || cfg.FallbackEnemies[0].HP != 4 {
		t.Fatalf("fallback enemies must start at full HP")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty deck": `
effects:
  attack_small: 2
deck: []
`,
		"deck effect without base value": `
effects:
  attack_small: 2
deck:
  - effect: heal_small
`,
		"non-positive base value": `
effects:
  attack_small: 0
deck:
  - effect: attack_small
`,
		"fallback enemy without name": `
effects:
  attack_small: 2
deck:
  - effect: attack_small
fallback_enemies:
  - hp: 5
`,
		"negative floor count": `
effects:
  attack_small: 2
deck:
  - effect: attack_small
run:
  floors: -1
`,
		"negative strength multiplier": `
effects:
  attack_small: 2
deck:
  - effect: attack_small
run:
  strength_multiplier: -0.5
`,
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file: expected an error")
	}
}
