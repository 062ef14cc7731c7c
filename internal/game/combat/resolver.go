package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// AttackResult holds the outcome of a single attack action.
type AttackResult struct {
	// AttackerID is the attacking combatant's ID.
	AttackerID string
	// TargetID is the defending combatant's ID.
	TargetID string
	// Action is ActionBasic or ActionSpecial.
	Action ActionType
	// Name is the special attack's name; empty for basic attacks.
	Name string
	// Hit is false only for a special attack that lost its success roll.
	Hit bool
	// Multiplier is the affinity multiplier applied.
	Multiplier float64
	// Damage is the health the target actually lost.
	Damage int
	// SelfDamage is the health the attacker lost paying for the attack.
	SelfDamage int
	// ManaSpent is the mana the attacker paid.
	ManaSpent int
}

// scaledDamage computes round(attack * scale * multiplier), rounding half away from zero.
//
// Postcondition: Returns >= 0 for attack >= 0.
func scaledDamage(attack int, scale, multiplier float64) int {
	return int(math.Round(float64(attack) * scale * multiplier))
}

// BasicAttack deals round(AttackPower * affinity) damage to target. It always
// lands and costs nothing.
//
// Precondition: target must be non-nil.
// Postcondition: target.Health >= 0.
func (c *Combatant) BasicAttack(target *Combatant) AttackResult {
	mult := c.Def().Multiplier(target.Archetype)
	dealt := target.ApplyDamage(scaledDamage(c.AttackPower, 1, mult))
	return AttackResult{
		AttackerID: c.ID,
		TargetID:   target.ID,
		Action:     ActionBasic,
		Hit:        true,
		Multiplier: mult,
		Damage:     dealt,
	}
}

// SpecialAttack performs the archetype's special attack against target:
//   - Warrior power strike: requires Health > MinHealth; on a successful roll deals
//     round(atk * Multiplier * affinity) and costs HealthCost health.
//   - Mage fireball: requires Mana >= ManaCost, which is spent on the cast; deals
//     round(atk * Multiplier * affinity).
//   - Rogue ambush: no precondition; on a successful roll deals
//     round(atk * Multiplier * affinity); a failed roll is a silent miss.
//
// A failed precondition returns *InsufficientResourceError with no state change
// and no random draw. A lost success roll is not an error: the result has Hit false.
//
// Precondition: target and src must be non-nil.
func (c *Combatant) SpecialAttack(target *Combatant, src dice.Source) (AttackResult, error) {
	switch c.Archetype {
	case ruleset.Warrior:
		return c.powerStrike(target, src)
	case ruleset.Mage:
		return c.fireball(target, src)
	case ruleset.Rogue:
		return c.ambush(target, src)
	default:
		panic(fmt.Sprintf("combat: SpecialAttack on unknown archetype %d", c.Archetype))
	}
}

func (c *Combatant) specialResult(target *Combatant) AttackResult {
	return AttackResult{
		AttackerID: c.ID,
		TargetID:   target.ID,
		Action:     ActionSpecial,
		Name:       c.Def().Special.Name,
		Multiplier: c.Def().Multiplier(target.Archetype),
	}
}

func (c *Combatant) powerStrike(target *Combatant, src dice.Source) (AttackResult, error) {
	sp := c.Def().Special
	if c.Health <= sp.MinHealth {
		return AttackResult{}, &InsufficientResourceError{
			Resource:  ResourceHealth,
			Required:  sp.MinHealth + 1,
			Available: c.Health,
		}
	}
	res := c.specialResult(target)
	if !dice.Chance(src, sp.SuccessChance) {
		return res, nil
	}
	res.Hit = true
	res.Damage = target.ApplyDamage(scaledDamage(c.AttackPower, sp.Multiplier, res.Multiplier))
	res.SelfDamage = c.ApplyDamage(sp.HealthCost)
	return res, nil
}

func (c *Combatant) fireball(target *Combatant, src dice.Source) (AttackResult, error) {
	sp := c.Def().Special
	if err := c.SpendMana(sp.ManaCost); err != nil {
		return AttackResult{}, err
	}
	res := c.specialResult(target)
	res.ManaSpent = sp.ManaCost
	if !dice.Chance(src, sp.SuccessChance) {
		return res, nil
	}
	res.Hit = true
	res.Damage = target.ApplyDamage(scaledDamage(c.AttackPower, sp.Multiplier, res.Multiplier))
	return res, nil
}

func (c *Combatant) ambush(target *Combatant, src dice.Source) (AttackResult, error) {
	sp := c.Def().Special
	res := c.specialResult(target)
	if !dice.Chance(src, sp.SuccessChance) {
		return res, nil
	}
	res.Hit = true
	res.Damage = target.ApplyDamage(scaledDamage(c.AttackPower, sp.Multiplier, res.Multiplier))
	return res, nil
}
