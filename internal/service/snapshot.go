package service

import (
	"github.com/davidarcila/TowerFlip/internal/engine"
	"github.com/davidarcila/TowerFlip/internal/game"
)

// CardView is the client-facing card: the effect and wildcard flag of a
// face-down card are hidden so clients cannot peek.
type CardView struct {
	ID       string          `json:"id"`
	Effect   game.EffectKind `json:"effect,omitempty"`
	Flipped  bool            `json:"flipped"`
	Matched  bool            `json:"matched"`
	Slimed   bool            `json:"slimed,omitempty"`
	Wildcard bool            `json:"wildcard,omitempty"`
}

// Snapshot is the full state a client needs to render a run.
type Snapshot struct {
	RunID     string         `json:"run_id"`
	State     game.GameState `json:"state"`
	Floor     int            `json:"floor"`
	Floors    int            `json:"floors"`
	Combo     int            `json:"combo"`
	Party     game.Entity    `json:"party"`
	Enemy     game.Entity    `json:"enemy"`
	Board     []CardView     `json:"board"`
	Selection []int          `json:"selection"`
	Events    []game.Event   `json:"events"`
	History   string         `json:"history"`
	Over      bool           `json:"over"`
}

func buildSnapshot(c *engine.Combat, floors, sinceEvent int) Snapshot {
	board := make([]CardView, len(c.Board))
	for i, card := range c.Board {
		v := CardView{ID: card.ID, Flipped: card.Flipped, Matched: card.Matched, Slimed: card.Slimed}
		if card.Flipped || card.Matched {
			v.Effect = card.Effect
			v.Wildcard = card.Wildcard
		}
		board[i] = v
	}
	return Snapshot{
		RunID:     c.RunID,
		State:     c.State,
		Floor:     c.Floor,
		Floors:    floors,
		Combo:     c.Combo,
		Party:     c.Party,
		Enemy:     c.Enemy,
		Board:     board,
		Selection: c.Selection(),
		Events:    c.Events(sinceEvent),
		History:   c.HistoryString(),
		Over:      c.Over(),
	}
}
