package engine

import "github.com/davidarcila/TowerFlip/internal/game"

// CueSink receives fire-and-forget presentation signals (sound and
// animation). The engine never consults a return value; rendering and audio
// are external collaborators.
type CueSink interface {
	PlayCue(name string)
	TriggerAnimation(side game.Side, name string)
}

// NopCues discards every cue. Used by tests and headless runs.
type NopCues struct{}

func (NopCues) PlayCue(string)                     {}
func (NopCues) TriggerAnimation(game.Side, string) {}
