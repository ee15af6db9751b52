package enemygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/davidarcila/TowerFlip/internal/dedupe"
	"github.com/davidarcila/TowerFlip/internal/game"
	"github.com/davidarcila/TowerFlip/internal/logging"
)

// promptTemplate can be set at application startup to customize the prompt
// used when requesting floor enemies from OpenAI. Use the token {{floors}}
// where the floor count will be substituted.
var promptTemplate string

// SetPromptTemplate sets a custom prompt template for enemy generation.
// Call from main after loading configuration.
func SetPromptTemplate(t string) {
	promptTemplate = strings.TrimSpace(t)
}

type enemySpec struct {
	Name   string `json:"name"`
	Flavor string `json:"flavor"`
	HP     int    `json:"hp"`
	Tier   string `json:"tier"`
}

// tierOrder is the fixed easy→hard progression of a run.
var tierOrder = []game.Difficulty{game.DifficultyEasy, game.DifficultyMedium, game.DifficultyHard}

var bossTags = []game.BossBehavior{game.BossNone, game.BossBurn, game.BossSlime, game.BossConfusion}

// generate is swappable so tests can count and stub the upstream call.
var generate = callOpenAI

// FetchFloorEnemies returns the enemy sequence for a run. It asks OpenAI for
// themed enemies and silently degrades to the fixed fallback triple on any
// failure or missing credential; the caller never sees an error state.
// Concurrent requests under the same key (the player identity, so a
// double-submitted run start shares one generation) are deduplicated via
// singleflight, and enemy HP is scaled by strength in both the generated
// and fallback paths.
func FetchFloorEnemies(ctx context.Context, key string, strength float64, floors int, fallback []game.Entity) []game.Entity {
	v, _, _ := dedupe.EnemyGroup.Do(key, func() (interface{}, error) {
		specs, err := generate(ctx, floors)
		if err != nil {
			logging.Error("enemy generation fell back to fixed set", err, logging.Fields{constants.LogFieldKey: key})
			return fallbackEnemies(strength, floors, fallback), nil
		}
		enemies, err := buildEnemies(specs, strength, floors)
		if err != nil {
			logging.Error("enemy generation returned malformed set", err, logging.Fields{constants.LogFieldKey: key})
			return fallbackEnemies(strength, floors, fallback), nil
		}
		return enemies, nil
	})
	enemies := v.([]game.Entity)
	out := make([]game.Entity, len(enemies))
	copy(out, enemies)
	return out
}

func scaleHP(hp int, strength float64) int {
	scaled := int(math.Round(float64(hp) * strength))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// fallbackEnemies copies the configured fixed triple, scales HP and assigns
// a random boss behavior to the final (hardest) enemy.
func fallbackEnemies(strength float64, floors int, fallback []game.Entity) []game.Entity {
	out := make([]game.Entity, 0, floors)
	for i := 0; i < floors; i++ {
		e := fallback[i%len(fallback)]
		e.MaxHP = scaleHP(e.MaxHP, strength)
		e.HP = e.MaxHP
		if e.Tier == "" {
			e.Tier = tierOrder[minInt(i, len(tierOrder)-1)]
		}
		out = append(out, e)
	}
	out[len(out)-1].Behavior = bossTags[rand.Intn(len(bossTags))]
	return out
}

func buildEnemies(specs []enemySpec, strength float64, floors int) ([]game.Entity, error) {
	if len(specs) < floors {
		return nil, fmt.Errorf("expected %d enemies, got %d", floors, len(specs))
	}
	out := make([]game.Entity, 0, floors)
	for i := 0; i < floors; i++ {
		s := specs[i]
		if strings.TrimSpace(s.Name) == "" || s.HP <= 0 {
			return nil, fmt.Errorf("enemy %d is missing a name or has non-positive hp", i)
		}
		tier := game.Difficulty(strings.ToUpper(strings.TrimSpace(s.Tier)))
		switch tier {
		case game.DifficultyEasy, game.DifficultyMedium, game.DifficultyHard:
		default:
			tier = tierOrder[minInt(i, len(tierOrder)-1)]
		}
		hp := scaleHP(s.HP, strength)
		out = append(out, game.Entity{
			Name:   strings.TrimSpace(s.Name),
			Flavor: strings.TrimSpace(s.Flavor),
			MaxHP:  hp,
			HP:     hp,
			Tier:   tier,
		})
	}
	out[len(out)-1].Behavior = bossTags[rand.Intn(len(bossTags))]
	return out, nil
}

// callOpenAI invokes the Chat Completions API to generate the enemy specs.
func callOpenAI(ctx context.Context, floors int) ([]enemySpec, error) {
	apiKey := os.Getenv(constants.EnvOpenAIAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s not set", constants.EnvOpenAIAPIKey)
	}

	prompt := promptTemplate
	if prompt == "" {
		prompt = "Invent {{floors}} tower enemies for a memory-matching dungeon crawler, ordered weakest to strongest. Return only a JSON array of objects with keys name, flavor, hp (integer 6-16) and tier (EASY, MEDIUM or HARD)."
	}
	prompt = strings.ReplaceAll(prompt, "{{floors}}", strconv.Itoa(floors))

	payload := map[string]interface{}{
		"model": constants.OpenAIChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a bestiary writer for a card battle game."},
			{"role": "user", "content": prompt},
		},
		"max_completion_tokens": 1200,
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, constants.OpenAIBaseURL+constants.OpenAIChatCompletionsPath, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+apiKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var specs []enemySpec
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &specs); err != nil {
		return nil, fmt.Errorf("openai returned malformed enemy list: %w", err)
	}
	return specs, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
