package session

import (
	"context"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// BattleRecord is the persisted artifact of one finished encounter.
type BattleRecord struct {
	ID              string
	Encounter       int
	PlayerName      string
	PlayerArchetype ruleset.Archetype
	// PlayerLevel is the player's level after the battle settled.
	PlayerLevel    int
	EnemyName      string
	EnemyArchetype ruleset.Archetype
	EnemyLevel     int
	Outcome        combat.Outcome
	Turns          int
	FirstActor     combat.Side
	// Reward is the item ID or reward kind granted; empty when the player did not win.
	Reward        string
	RewardApplied bool
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Recorder persists battle records.
type Recorder interface {
	SaveBattle(ctx context.Context, rec BattleRecord) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, rec BattleRecord) error

// SaveBattle calls f.
func (f RecorderFunc) SaveBattle(ctx context.Context, rec BattleRecord) error { return f(ctx, rec) }

// Summary totals a session.
type Summary struct {
	Fought     int
	Wins       int
	Losses     int
	FinalLevel int
	// Unrecorded counts battles the Recorder failed to save.
	Unrecorded int
	Records    []BattleRecord
}

// Survived reports whether every fought battle was won.
func (s Summary) Survived() bool { return s.Fought > 0 && s.Wins == s.Fought }

func (s *Summary) add(rec BattleRecord) {
	s.Fought++
	switch rec.Outcome {
	case combat.PlayerWon:
		s.Wins++
	case combat.EnemyWon:
		s.Losses++
	}
	s.FinalLevel = rec.PlayerLevel
	s.Records = append(s.Records, rec)
}

func rewardName(r *combat.Reward) string {
	if r == nil {
		return ""
	}
	if r.Item != nil {
		return r.Item.ID
	}
	return r.Kind.String()
}
