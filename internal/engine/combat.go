package engine

import (
	"math"
	"strconv"

	"github.com/davidarcila/TowerFlip/internal/game"
)

// ScaledMagnitude applies the combo multiplier to a base effect value:
// floor(base * (1 + combo*0.5)). The first match of a chain (combo 0) gets
// no bonus, the second +50%, the third +100%, and so on.
func ScaledMagnitude(base, combo int) int {
	return int(math.Floor(float64(base) * (1 + float64(combo)*0.5)))
}

// applyEffect mutates the entities for one matched pair. The match is
// attributed to the side that performed the flip; combo is the pre-increment
// value at resolution time.
func (c *Combat) applyEffect(effect game.EffectKind, side game.Side, combo int) {
	actor, target := &c.Party, &c.Enemy
	actorName, targetName := "The party", c.Enemy.Name
	actorCat := game.EventPlayer
	if side == game.SideOpponent {
		actor, target = &c.Enemy, &c.Party
		actorName, targetName = c.Enemy.Name, "the party"
		actorCat = game.EventEnemy
	}

	amount := ScaledMagnitude(c.cfg.BaseValues[effect], combo)
	comboTag := ""
	if combo > 0 {
		comboTag = " (combo x" + strconv.Itoa(combo+1) + ")"
	}

	switch effect.Category() {
	case game.CategoryAttack:
		shieldLost, hpLost := target.ApplyDamage(amount)
		msg := actorName + " hits " + targetName + " for " + strconv.Itoa(amount) + " damage" + comboTag
		if shieldLost > 0 {
			msg += " — shield absorbs " + strconv.Itoa(shieldLost) + ", " + strconv.Itoa(hpLost) + " HP lost"
		}
		c.log(actorCat, msg)
		c.cues.PlayCue("attack")
		c.cues.TriggerAnimation(side, "attack")
	case game.CategoryHeal:
		healed := actor.Heal(amount)
		c.log(game.EventHeal, actorName+" recovers "+strconv.Itoa(healed)+" HP"+comboTag)
		c.cues.PlayCue("heal")
		c.cues.TriggerAnimation(side, "heal")
	case game.CategoryShield:
		actor.AddShield(amount)
		c.log(actorCat, actorName+" gains "+strconv.Itoa(amount)+" shield"+comboTag)
		c.cues.PlayCue("shield")
		c.cues.TriggerAnimation(side, "shield")
	case game.CategoryCoin:
		if side == game.SideParty {
			actor.AddCoins(amount)
			c.log(game.EventItem, "The party pockets "+strconv.Itoa(amount)+" coins"+comboTag)
		} else {
			// Enemies have no wallet; the find is narrative only.
			c.log(game.EventEnemy, c.Enemy.Name+" paws at "+strconv.Itoa(amount)+" coins it cannot spend")
		}
		c.cues.PlayCue("coin")
	}
}
