package ai

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// CombatantState captures a combatant's decision-relevant state at choice time.
type CombatantState struct {
	Name       string
	Archetype  string
	Level      int
	Health     int
	MaxHealth  int
	Mana       int
	MaxMana    int
	Attack     int
	Conditions []string
}

// SnapshotOf copies c's current state.
//
// Precondition: c must not be nil.
func SnapshotOf(c *combat.Combatant) CombatantState {
	return CombatantState{
		Name:       c.Name,
		Archetype:  c.Archetype.String(),
		Level:      c.Level,
		Health:     c.Health,
		MaxHealth:  c.MaxHealth,
		Mana:       c.Mana,
		MaxMana:    c.MaxMana,
		Attack:     c.AttackPower,
		Conditions: c.Conditions().IDs(),
	}
}

// HealthPercent returns current health as a percentage of MaxHealth; 0 if MaxHealth == 0.
func (s CombatantState) HealthPercent() float64 {
	if s.MaxHealth <= 0 {
		return 0
	}
	return float64(s.Health) / float64(s.MaxHealth) * 100
}

// toLua builds a table of s using snake_case keys; conditions become a
// 1-based array of IDs.
func (s CombatantState) toLua(newTable func() *lua.LTable) *lua.LTable {
	tbl := newTable()
	tbl.RawSetString("name", lua.LString(s.Name))
	tbl.RawSetString("archetype", lua.LString(s.Archetype))
	tbl.RawSetString("level", lua.LNumber(s.Level))
	tbl.RawSetString("health", lua.LNumber(s.Health))
	tbl.RawSetString("max_health", lua.LNumber(s.MaxHealth))
	tbl.RawSetString("health_percent", lua.LNumber(s.HealthPercent()))
	tbl.RawSetString("mana", lua.LNumber(s.Mana))
	tbl.RawSetString("max_mana", lua.LNumber(s.MaxMana))
	tbl.RawSetString("attack", lua.LNumber(s.Attack))
	conds := newTable()
	for i, id := range s.Conditions {
		conds.RawSetInt(i+1, lua.LString(id))
	}
	tbl.RawSetString("conditions", conds)
	return tbl
}
