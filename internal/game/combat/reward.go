package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// RewardKind identifies a post-victory reward bucket.
type RewardKind int

const (
	RewardNone RewardKind = iota
	RewardMaxHealth
	RewardAttack
	RewardCleanse
	RewardItem
)

// String returns the snake_case reward name.
func (k RewardKind) String() string {
	switch k {
	case RewardMaxHealth:
		return "max_health_potion"
	case RewardAttack:
		return "attack_buff"
	case RewardCleanse:
		return "status_cleanse"
	case RewardItem:
		return "item"
	default:
		return "none"
	}
}

// RewardBucket is one weighted outcome of the reward roll.
type RewardBucket struct {
	Kind   RewardKind
	Weight float64
	// Amount is the stat bonus for RewardMaxHealth and RewardAttack.
	Amount int
}

// RewardTable is the ordered set of buckets a reward roll selects from.
type RewardTable []RewardBucket

// DefaultRewardTable returns the standard buckets: 30% +15 max health, 20% +5
// attack, 20% cleanse, 20% archetype item, 10% nothing.
func DefaultRewardTable() RewardTable {
	return RewardTable{
		{Kind: RewardMaxHealth, Weight: 0.3, Amount: 15},
		{Kind: RewardAttack, Weight: 0.2, Amount: 5},
		{Kind: RewardCleanse, Weight: 0.2},
		{Kind: RewardItem, Weight: 0.2},
		{Kind: RewardNone, Weight: 0.1},
	}
}

// Validate checks that the table can be rolled.
func (t RewardTable) Validate() error {
	if len(t) == 0 {
		return errors.New("combat: reward table is empty")
	}
	total := 0.0
	for i, b := range t {
		if b.Weight < 0 {
			return fmt.Errorf("combat: reward bucket %d has negative weight %v", i, b.Weight)
		}
		if b.Amount < 0 {
			return fmt.Errorf("combat: reward bucket %d has negative amount %d", i, b.Amount)
		}
		total += b.Weight
	}
	if total <= 0 {
		return errors.New("combat: reward table weights sum to zero")
	}
	return nil
}

// Reward is the result of one reward roll.
type Reward struct {
	Kind   RewardKind
	Amount int
	// Item is the granted item for RewardItem, nil if none was eligible.
	Item *inventory.Item
	// Applied is false when the bucket had nothing to do (no effects to
	// cleanse, no eligible item, or RewardNone).
	Applied bool
}

// rollReward selects one bucket from table and applies it to winner.
//
// Precondition: table must pass Validate; winner and src must be non-nil.
func rollReward(winner *Combatant, table RewardTable, items *inventory.Registry, src dice.Source) Reward {
	weights := make([]float64, len(table))
	for i, b := range table {
		weights[i] = b.Weight
	}
	b := table[dice.Weighted(src, weights)]
	r := Reward{Kind: b.Kind}
	switch b.Kind {
	case RewardMaxHealth:
		winner.MaxHealth += b.Amount
		r.Amount, r.Applied = b.Amount, true
	case RewardAttack:
		winner.AttackPower += b.Amount
		r.Amount, r.Applied = b.Amount, true
	case RewardCleanse:
		r.Applied = winner.Conditions().Len() > 0
		winner.Conditions().Clear()
	case RewardItem:
		if items == nil {
			break
		}
		eligible := items.ForArchetype(winner.Archetype)
		if len(eligible) == 0 {
			break
		}
		it := eligible[dice.Pick(src, len(eligible))]
		r.Item = it
		r.Applied = winner.Equip(it)
	case RewardNone:
	}
	return r
}
