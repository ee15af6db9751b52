package config

import (
	"fmt"
	"os"
	"time"

	"github.com/davidarcila/TowerFlip/internal/game"
	"gopkg.in/yaml.v3"
)

// DeckEntry declares one card pair of the board composition. A wildcard
// entry emits one normal card plus one wildcard partner; a slimed entry
// marks both cards of the pair. A wildcard that pairs off with another
// pair's card can strand two unpairable leftovers on the board.
type DeckEntry struct {
	Effect   game.EffectKind `yaml:"effect"`
	Wildcard bool            `yaml:"wildcard"`
	Slimed   bool            `yaml:"slimed"`
}

// DifficultyParams tunes the opponent decision model for one tier.
type DifficultyParams struct {
	MistakeChance  float64 `yaml:"mistake_chance"`
	ForgetChance   float64 `yaml:"forget_chance"`
	GuaranteedMiss bool    `yaml:"guaranteed_miss"`
}

// Pacing holds the scheduled-continuation delays, in milliseconds in the
// file and converted to durations on load.
type Pacing struct {
	SettleMS    int `yaml:"settle_ms"`
	ThinkMS     int `yaml:"think_ms"`
	InterFlipMS int `yaml:"inter_flip_ms"`
	ReshuffleMS int `yaml:"reshuffle_ms"`
}

type rawRun struct {
	Floors             int     `yaml:"floors"`
	PartyHP            int     `yaml:"party_hp"`
	RestHeal           int     `yaml:"rest_heal"`
	StrengthMultiplier float64 `yaml:"strength_multiplier"`
	StallTimeoutMin    int     `yaml:"stall_timeout_minutes"`
}

type enemyEntry struct {
	Name     string `yaml:"name"`
	Flavor   string `yaml:"flavor"`
	HP       int    `yaml:"hp"`
	Tier     string `yaml:"tier"`
	Behavior string `yaml:"behavior"`
}

type rawConfig struct {
	Server *struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Effects         map[game.EffectKind]int              `yaml:"effects"`
	Deck            []DeckEntry                          `yaml:"deck"`
	Difficulty      map[game.Difficulty]DifficultyParams `yaml:"difficulty"`
	Pacing          Pacing                               `yaml:"pacing"`
	Run             rawRun                               `yaml:"run"`
	FallbackEnemies []enemyEntry                         `yaml:"fallback_enemies"`
	// Optional prompt template used to generate floor enemies. Use the
	// token {{floors}} where the floor count will be substituted.
	EnemyPrompt string `yaml:"enemy_prompt"`
}

// LoadedConfig is the validated runtime configuration.
type LoadedConfig struct {
	ServerAddress string

	// BaseValues maps each effect kind to its unscaled magnitude.
	BaseValues map[game.EffectKind]int
	Deck       []DeckEntry
	Difficulty map[game.Difficulty]DifficultyParams

	SettleDelay    time.Duration
	ThinkDelay     time.Duration
	InterFlipDelay time.Duration
	ReshuffleDelay time.Duration

	Floors             int
	PartyHP            int
	RestHeal           int
	StrengthMultiplier float64
	StallTimeout       time.Duration

	FallbackEnemies []game.Entity
	EnemyPrompt     string
}

// defaultDifficulty matches the tuning the game shipped with.
var defaultDifficulty = map[game.Difficulty]DifficultyParams{
	game.DifficultyEasy:   {MistakeChance: 0.6, ForgetChance: 0.5, GuaranteedMiss: true},
	game.DifficultyMedium: {MistakeChance: 0.3, ForgetChance: 0.3, GuaranteedMiss: true},
	game.DifficultyHard:   {MistakeChance: 0.1, ForgetChance: 0.1, GuaranteedMiss: false},
}

// LoadConfig reads the YAML configuration file at path, validates it and
// returns the runtime configuration.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := yaml.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.Deck) == 0 {
		return nil, fmt.Errorf("config file %s: deck is empty (provide a 'deck' array of effect pairs)", path)
	}
	if len(rc.Effects) == 0 {
		return nil, fmt.Errorf("config file %s: effects map is empty", path)
	}
	for _, d := range rc.Deck {
		base, ok := rc.Effects[d.Effect]
		if !ok {
			return nil, fmt.Errorf("config file %s: deck effect %q has no base value in 'effects'", path, d.Effect)
		}
		if base <= 0 {
			return nil, fmt.Errorf("config file %s: effect %q base value must be positive", path, d.Effect)
		}
	}

	if rc.Run.Floors < 0 {
		return nil, fmt.Errorf("config file %s: run.floors must not be negative", path)
	}
	if rc.Run.PartyHP < 0 {
		return nil, fmt.Errorf("config file %s: run.party_hp must not be negative", path)
	}
	if rc.Run.RestHeal < 0 {
		return nil, fmt.Errorf("config file %s: run.rest_heal must not be negative", path)
	}
	if rc.Run.StrengthMultiplier < 0 {
		return nil, fmt.Errorf("config file %s: run.strength_multiplier must not be negative", path)
	}

	if len(rc.FallbackEnemies) != 0 && len(rc.FallbackEnemies) != rc.Run.Floors && rc.Run.Floors != 0 {
		return nil, fmt.Errorf("config file %s: fallback_enemies must list one enemy per floor", path)
	}

	out := &LoadedConfig{
		ServerAddress: ":8080",
		BaseValues:    rc.Effects,
		Deck:          rc.Deck,
		Difficulty:    make(map[game.Difficulty]DifficultyParams, 3),

		SettleDelay:    msOrDefault(rc.Pacing.SettleMS, 900),
		ThinkDelay:     msOrDefault(rc.Pacing.ThinkMS, 1200),
		InterFlipDelay: msOrDefault(rc.Pacing.InterFlipMS, 600),
		ReshuffleDelay: msOrDefault(rc.Pacing.ReshuffleMS, 1000),

		Floors:             rc.Run.Floors,
		PartyHP:            rc.Run.PartyHP,
		RestHeal:           rc.Run.RestHeal,
		StrengthMultiplier: rc.Run.StrengthMultiplier,
		StallTimeout:       time.Duration(rc.Run.StallTimeoutMin) * time.Minute,

		EnemyPrompt: rc.EnemyPrompt,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if out.Floors == 0 {
		out.Floors = 3
	}
	if out.PartyHP == 0 {
		out.PartyHP = 12
	}
	if out.RestHeal == 0 {
		out.RestHeal = 4
	}
	if out.StrengthMultiplier == 0 {
		out.StrengthMultiplier = 1.0
	}
	if out.StallTimeout == 0 {
		out.StallTimeout = 10 * time.Minute
	}

	for tier, def := range defaultDifficulty {
		if p, ok := rc.Difficulty[tier]; ok {
			out.Difficulty[tier] = p
		} else {
			out.Difficulty[tier] = def
		}
	}

	for i, e := range rc.FallbackEnemies {
		if e.Name == "" {
			return nil, fmt.Errorf("config file %s: fallback enemy %d missing 'name'", path, i)
		}
		if e.HP <= 0 {
			return nil, fmt.Errorf("config file %s: fallback enemy %q needs positive hp", path, e.Name)
		}
		out.FallbackEnemies = append(out.FallbackEnemies, game.Entity{
			Name:     e.Name,
			Flavor:   e.Flavor,
			MaxHP:    e.HP,
			HP:       e.HP,
			Tier:     game.Difficulty(e.Tier),
			Behavior: game.BossBehavior(e.Behavior),
		})
	}
	if len(out.FallbackEnemies) == 0 {
		out.FallbackEnemies = defaultFallbackEnemies()
	}

	return out, nil
}

func msOrDefault(ms, def int) time.Duration {
	if ms <= 0 {
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

// defaultFallbackEnemies is the fixed deterministic triple used when the
// config omits fallback_enemies.
func defaultFallbackEnemies() []game.Entity {
	return []game.Entity{
		{Name: "Tower Rat", Flavor: "It has seen too many adventurers.", MaxHP: 6, HP: 6, Tier: game.DifficultyEasy, Behavior: game.BossNone},
		{Name: "Hollow Knight", Flavor: "Armor with nothing inside.", MaxHP: 10, HP: 10, Tier: game.DifficultyMedium, Behavior: game.BossNone},
		{Name: "Mirror Warden", Flavor: "It remembers every card you ever flipped.", MaxHP: 14, HP: 14, Tier: game.DifficultyHard, Behavior: game.BossNone},
	}
}
