package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// ChooseActionHook is the Lua global ScriptPolicy calls each turn as
// choose_action(actor, opponent). It returns "special" or "basic".
const ChooseActionHook = "choose_action"

// ScriptCaller is the interface required by ScriptPolicy to run Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(hook string, args ...lua.LValue) (lua.LValue, error)
	// HasHook reports whether a VM is loaded and defines hook.
	HasHook(hook string) bool
	// NewTable creates a table for hook arguments; nil if no VM is loaded.
	NewTable() *lua.LTable
}

// ScriptPolicy delegates the action choice to a Lua hook and defers to a
// fallback policy whenever the script cannot answer.
//
// Invariant: caller and fallback are non-nil.
type ScriptPolicy struct {
	caller   ScriptCaller
	fallback combat.Policy
	logger   *zap.Logger
}

// NewScriptPolicy constructs a ScriptPolicy.
//
// Precondition: caller and fallback must not be nil.
func NewScriptPolicy(caller ScriptCaller, fallback combat.Policy, logger *zap.Logger) *ScriptPolicy {
	if caller == nil {
		panic("ai.NewScriptPolicy: caller must not be nil")
	}
	if fallback == nil {
		panic("ai.NewScriptPolicy: fallback must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptPolicy{caller: caller, fallback: fallback, logger: logger}
}

// ChooseAction calls choose_action with snapshots of both combatants.
//
// Postcondition: Returns ActionSpecial or ActionBasic when the hook answers
// "special" or "basic"; otherwise (no VM, missing hook, Lua error, any other
// value) returns the fallback policy's choice.
func (p *ScriptPolicy) ChooseAction(actor, opponent *combat.Combatant, src dice.Source) combat.ActionType {
	if !p.caller.HasHook(ChooseActionHook) {
		return p.fallback.ChooseAction(actor, opponent, src)
	}
	ret, err := p.caller.CallHook(ChooseActionHook,
		SnapshotOf(actor).toLua(p.caller.NewTable),
		SnapshotOf(opponent).toLua(p.caller.NewTable),
	)
	if err != nil {
		p.logger.Warn("choose_action failed; using fallback policy",
			zap.String("actor", actor.Name),
			zap.Error(err),
		)
		return p.fallback.ChooseAction(actor, opponent, src)
	}
	switch ret {
	case lua.LString("special"):
		return combat.ActionSpecial
	case lua.LString("basic"):
		return combat.ActionBasic
	case lua.LNil:
		return p.fallback.ChooseAction(actor, opponent, src)
	default:
		p.logger.Warn("choose_action returned unknown value; using fallback policy",
			zap.String("actor", actor.Name),
			zap.String("value", ret.String()),
		)
		return p.fallback.ChooseAction(actor, opponent, src)
	}
}
