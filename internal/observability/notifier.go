package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// ZapNotifier writes every battle event as one structured log line.
// Per-turn bookkeeping is logged at debug; attacks, rewards and outcomes at info.
type ZapNotifier struct {
	logger *zap.Logger
}

// NewZapNotifier creates a ZapNotifier.
//
// Precondition: logger must be non-nil.
func NewZapNotifier(logger *zap.Logger) *ZapNotifier {
	if logger == nil {
		panic("observability: NewZapNotifier called with nil logger")
	}
	return &ZapNotifier{logger: logger}
}

// Notify logs e.
func (n *ZapNotifier) Notify(e combat.Event) {
	level := eventLevel(e.Kind)
	if ce := n.logger.Check(level, e.Kind.String()); ce != nil {
		ce.Write(eventFields(e)...)
	}
}

func eventLevel(k combat.EventKind) zapcore.Level {
	switch k {
	case combat.EventTurnStarted, combat.EventTurnEnded, combat.EventRegen,
		combat.EventStatusTick, combat.EventEffectExpired:
		return zapcore.DebugLevel
	case combat.EventUnknown:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// eventFields renders the populated fields of e; zero values are omitted.
func eventFields(e combat.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event", e.Kind.String()),
		zap.String("battle_id", e.BattleID),
		zap.Int("turn", e.Turn),
	}
	if e.Actor != "" {
		fields = append(fields, zap.String("actor", e.Actor))
	}
	if e.Target != "" {
		fields = append(fields, zap.String("target", e.Target))
	}
	switch e.Kind {
	case combat.EventAttack, combat.EventSpecialMiss, combat.EventInsufficientResource, combat.EventConditionApplied:
		fields = append(fields, zap.String("action", e.Action.String()))
	}
	if e.Name != "" {
		fields = append(fields, zap.String("name", e.Name))
	}
	if e.Amount != 0 {
		fields = append(fields, zap.Int("amount", e.Amount))
	}
	switch e.Kind {
	case combat.EventAttack, combat.EventSpecialMiss, combat.EventStatusTick,
		combat.EventInsufficientResource, combat.EventRegen, combat.EventConditionApplied:
		fields = append(fields, zap.Int("remaining", e.Remaining))
	}
	if e.Multiplier != 0 {
		fields = append(fields, zap.Float64("multiplier", e.Multiplier))
	}
	if e.Fallback {
		fields = append(fields, zap.Bool("fallback", true))
	}
	if e.Resource != combat.ResourceNone {
		fields = append(fields, zap.String("resource", e.Resource.String()), zap.Int("cost", e.Cost))
	}
	if e.Kind == combat.EventBattleEnded {
		fields = append(fields, zap.String("outcome", e.Outcome.String()))
	}
	if e.Level != 0 {
		fields = append(fields, zap.Int("level", e.Level))
	}
	return fields
}
