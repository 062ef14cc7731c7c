package ai_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func loadPolicyScript(t *testing.T, src string) *scripting.Manager {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.lua"), []byte(src), 0644))
	mgr := scripting.NewManager(testutil.NewScriptedSource(), zap.NewNop(), 0)
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Load(dir))
	return mgr
}

func TestScriptPolicy_SeesSnapshots(t *testing.T) {
	mgr := loadPolicyScript(t, `
		function choose_action(actor, opponent)
			if actor.archetype == "mage" and actor.mana >= 20 and opponent.health_percent < 50 then
				return "special"
			end
			if #actor.conditions > 0 and actor.conditions[1] == "poison" then
				return "special"
			end
			return "basic"
		end
	`)
	p := ai.NewScriptPolicy(mgr, combat.Fixed(combat.ActionUnknown), nil)
	mage := newCombatant("M", ruleset.Mage)
	warrior := newCombatant("W", ruleset.Warrior)

	assert.Equal(t, combat.ActionBasic, p.ChooseAction(mage, warrior, nil))
	warrior.ApplyDamage(60)
	assert.Equal(t, combat.ActionSpecial, p.ChooseAction(mage, warrior, nil))

	poison, _ := condition.DefaultRegistry().Get(condition.Poison)
	require.NoError(t, warrior.Conditions().Apply(poison, 2))
	assert.Equal(t, combat.ActionSpecial, p.ChooseAction(warrior, mage, nil))
}

func TestScriptPolicy_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"missing hook", `-- nothing`},
		{"nil return", `function choose_action() return nil end`},
		{"unknown value", `function choose_action() return "dodge" end`},
		{"runtime error", `function choose_action() error("boom") end`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mgr := loadPolicyScript(t, tc.script)
			p := ai.NewScriptPolicy(mgr, combat.Fixed(combat.ActionSpecial), nil)
			got := p.ChooseAction(newCombatant("R", ruleset.Rogue), newCombatant("M", ruleset.Mage), nil)
			assert.Equal(t, combat.ActionSpecial, got)
		})
	}
}

func TestScriptPolicy_ScriptRandomnessUsesSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.lua"), []byte(`
		function choose_action(actor, opponent)
			if engine.chance(0.5) then return "special" end
			return "basic"
		end
	`), 0644))
	src := testutil.NewScriptedSource().Floats(0.1, 0.9)
	mgr := scripting.NewManager(src, zap.NewNop(), 0)
	defer mgr.Close()
	require.NoError(t, mgr.Load(dir))

	p := ai.NewScriptPolicy(mgr, combat.Fixed(combat.ActionBasic), nil)
	r, m := newCombatant("R", ruleset.Rogue), newCombatant("M", ruleset.Mage)
	assert.Equal(t, combat.ActionSpecial, p.ChooseAction(r, m, src))
	assert.Equal(t, combat.ActionBasic, p.ChooseAction(r, m, src))
	assert.Equal(t, 0, src.Remaining())
}

func TestScriptPolicy_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mgr := loadPolicyScript(t, `function choose_action() return 7 end`)
	p := ai.NewScriptPolicy(mgr, combat.Fixed(combat.ActionBasic), zap.New(core))
	p.ChooseAction(newCombatant("R", ruleset.Rogue), newCombatant("M", ruleset.Mage), nil)
	assert.Equal(t, 1, logs.FilterMessageSnippet("unknown value").Len())
}

// stubCaller is a ScriptCaller with canned responses.
type stubCaller struct {
	ret    lua.LValue
	err    error
	loaded bool
	calls  int
	tables int
}

func (s *stubCaller) HasHook(string) bool { return s.loaded }

func (s *stubCaller) CallHook(string, ...lua.LValue) (lua.LValue, error) {
	s.calls++
	return s.ret, s.err
}

func (s *stubCaller) NewTable() *lua.LTable {
	s.tables++
	if !s.loaded {
		return nil
	}
	L := lua.NewState()
	defer L.Close()
	return L.NewTable()
}

func TestScriptPolicy_NoVMSkipsCall(t *testing.T) {
	caller := &stubCaller{}
	p := ai.NewScriptPolicy(caller, combat.Fixed(combat.ActionBasic), nil)
	for range 3 {
		assert.Equal(t, combat.ActionBasic, p.ChooseAction(newCombatant("R", ruleset.Rogue), newCombatant("M", ruleset.Mage), nil))
	}
	assert.Equal(t, 0, caller.calls)
	assert.Equal(t, 0, caller.tables, "no argument tables are built without a hook")
}

func TestScriptPolicy_CallerError(t *testing.T) {
	caller := &stubCaller{loaded: true, ret: lua.LNil, err: errors.New("vm gone")}
	p := ai.NewScriptPolicy(caller, combat.Fixed(combat.ActionSpecial), nil)
	assert.Equal(t, combat.ActionSpecial, p.ChooseAction(newCombatant("R", ruleset.Rogue), newCombatant("M", ruleset.Mage), nil))
	assert.Equal(t, 1, caller.calls)
}

func TestNewScriptPolicy_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { ai.NewScriptPolicy(nil, combat.Fixed(combat.ActionBasic), nil) })
	assert.Panics(t, func() { ai.NewScriptPolicy(&stubCaller{}, nil, nil) })
}

func TestScriptPolicy_ShippedPolicy(t *testing.T) {
	mgr := scripting.NewManager(testutil.NewScriptedSource(), zap.NewNop(), 0)
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Load("../../../content/scripts/policy"))
	p := ai.NewScriptPolicy(mgr, combat.Fixed(combat.ActionUnknown), nil)

	mage := newCombatant("M", ruleset.Mage)
	warrior := newCombatant("W", ruleset.Warrior)
	// Healthy opponents defer to the fallback policy.
	assert.Equal(t, combat.ActionUnknown, p.ChooseAction(mage, warrior, nil))

	warrior.ApplyDamage(80)
	assert.Equal(t, combat.ActionSpecial, p.ChooseAction(mage, warrior, nil))

	mage.Mana = 10
	assert.Equal(t, combat.ActionBasic, p.ChooseAction(mage, warrior, nil))

	assert.Equal(t, combat.ActionBasic, p.ChooseAction(warrior, mage, nil))
}
