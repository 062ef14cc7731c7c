package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

func observed(level zapcore.Level) (*ZapNotifier, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapNotifier(zap.New(core)), logs
}

func TestZapNotifier_AttackFields(t *testing.T) {
	n, logs := observed(zapcore.DebugLevel)
	n.Notify(combat.Event{
		Kind:       combat.EventAttack,
		BattleID:   "b-1",
		Turn:       3,
		Actor:      "Brakka",
		Target:     "Ilsa",
		Action:     combat.ActionSpecial,
		Name:       "power strike",
		Amount:     24,
		Remaining:  56,
		Multiplier: 0.8,
		Resource:   combat.ResourceHealth,
		Cost:       5,
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "attack", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "b-1", ctx["battle_id"])
	assert.Equal(t, int64(3), ctx["turn"])
	assert.Equal(t, "Brakka", ctx["actor"])
	assert.Equal(t, "special", ctx["action"])
	assert.Equal(t, "power strike", ctx["name"])
	assert.Equal(t, int64(24), ctx["amount"])
	assert.Equal(t, int64(56), ctx["remaining"])
	assert.Equal(t, "health", ctx["resource"])
	assert.Equal(t, int64(5), ctx["cost"])
	assert.NotContains(t, ctx, "fallback")
}

func TestZapNotifier_ConditionApplied(t *testing.T) {
	n, logs := observed(zapcore.InfoLevel)
	n.Notify(combat.Event{
		Kind:      combat.EventConditionApplied,
		Actor:     "Vex",
		Target:    "Brakka",
		Action:    combat.ActionSpecial,
		Name:      "poison",
		Remaining: 3,
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "condition_applied", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "Brakka", ctx["target"])
	assert.Equal(t, "poison", ctx["name"])
	assert.Equal(t, int64(3), ctx["remaining"])
	assert.NotContains(t, ctx, "amount")
}

func TestZapNotifier_TurnEventsAreDebug(t *testing.T) {
	n, logs := observed(zapcore.InfoLevel)
	n.Notify(combat.Event{Kind: combat.EventTurnStarted, Actor: "A"})
	n.Notify(combat.Event{Kind: combat.EventStatusTick, Actor: "A", Name: "poison", Amount: 5})
	n.Notify(combat.Event{Kind: combat.EventTurnEnded, Actor: "A"})
	assert.Equal(t, 0, logs.Len())

	n.Notify(combat.Event{Kind: combat.EventBattleEnded, Outcome: combat.PlayerWon})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "player_won", logs.All()[0].ContextMap()["outcome"])
}

func TestZapNotifier_FullBattle(t *testing.T) {
	n, logs := observed(zapcore.DebugLevel)
	tbl := ruleset.DefaultTable()
	player := combat.NewCombatant("Brakka", tbl.MustDef(ruleset.Warrior))
	enemy := combat.NewCombatant("Ilsa", tbl.MustDef(ruleset.Mage))
	m := combat.NewManager(dice.NewSeededSource(7), zap.NewNop(),
		combat.WithNotifier(n),
		combat.WithMaxTurns(500),
	)

	report, err := m.Fight(player, enemy)
	require.NoError(t, err)
	assert.NotEqual(t, combat.OutcomeNone, report.Outcome)
	assert.Equal(t, 1, logs.FilterMessage("battle_started").Len())
	assert.Equal(t, 1, logs.FilterMessage("battle_ended").Len())
	assert.Equal(t, report.Turns, logs.FilterMessage("turn_started").Len())
	for _, e := range logs.All() {
		assert.Equal(t, report.ID, e.ContextMap()["battle_id"])
	}
}

func TestNewZapNotifier_NilLoggerPanics(t *testing.T) {
	assert.Panics(t, func() { NewZapNotifier(nil) })
}
