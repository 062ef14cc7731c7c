// Package session runs a series of encounters for one player combatant.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

var enemyTitles = []string{"Feral", "Hollow", "Ashen", "Iron", "Grim", "Pale"}

// Session owns the player combatant for a run of encounters against generated enemies.
type Session struct {
	player     *combat.Combatant
	battles    *combat.Manager
	archetypes *ruleset.Table
	src        dice.Source
	recorder   Recorder
	logger     *zap.Logger
	now        func() time.Time
	encounter  int
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder persists every finished battle.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a Session.
//
// Precondition: player, battles, archetypes and src must be non-nil; logger may be nil.
func New(player *combat.Combatant, battles *combat.Manager, archetypes *ruleset.Table, src dice.Source, logger *zap.Logger, opts ...Option) *Session {
	if player == nil || battles == nil || archetypes == nil || src == nil {
		panic("session: New requires player, battles, archetypes and src")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		player:     player,
		battles:    battles,
		archetypes: archetypes,
		src:        src,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Player returns the session's player combatant.
func (s *Session) Player() *combat.Combatant { return s.player }

// NewEnemy generates the opponent for the given encounter number: a uniformly
// drawn archetype leveled to match the player.
//
// Precondition: encounter >= 1.
// Postcondition: The enemy's Level equals the player's Level.
func (s *Session) NewEnemy(encounter int) *combat.Combatant {
	defs := s.archetypes.All()
	def := defs[dice.Pick(s.src, len(defs))]
	title := enemyTitles[(encounter-1)%len(enemyTitles)]
	enemy := combat.NewCombatant(fmt.Sprintf("%s %s", title, def.Archetype.Title()), def)
	for enemy.Level < s.player.Level {
		enemy.LevelUp()
	}
	return enemy
}

// Run fights up to n encounters in sequence.
//
// The run stops early when the player loses, when a battle hits the turn
// limit, or when ctx is cancelled between encounters. A Recorder failure is
// logged and counted in Summary.Unrecorded without stopping the run.
//
// Precondition: n >= 1.
// Postcondition: The summary covers every battle fought; an encounter whose
// battle never started is neither counted nor recorded. The error is ctx.Err()
// on cancellation, or wraps combat.ErrTurnLimit or the failure that prevented
// the battle.
func (s *Session) Run(ctx context.Context, n int) (Summary, error) {
	summary := Summary{FinalLevel: s.player.Level}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		s.encounter++
		rec, err := s.fight(s.encounter)
		if rec != nil {
			summary.add(*rec)
			s.record(ctx, *rec, &summary)
		}
		if err != nil {
			return summary, fmt.Errorf("encounter %d: %w", s.encounter, err)
		}
		if rec.Outcome != combat.PlayerWon {
			break
		}
	}
	s.logger.Info("session finished",
		zap.String("player", s.player.Name),
		zap.Int("fought", summary.Fought),
		zap.Int("wins", summary.Wins),
		zap.Int("level", summary.FinalLevel),
	)
	return summary, nil
}

func (s *Session) record(ctx context.Context, rec BattleRecord, summary *Summary) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveBattle(ctx, rec); err != nil {
		summary.Unrecorded++
		s.logger.Warn("recording battle failed", zap.String("battle_id", rec.ID), zap.Error(err))
	}
}

// fight runs one encounter. The record is nil when the battle never started.
func (s *Session) fight(encounter int) (*BattleRecord, error) {
	enemy := s.NewEnemy(encounter)
	rec := BattleRecord{
		Encounter:       encounter,
		PlayerName:      s.player.Name,
		PlayerArchetype: s.player.Archetype,
		EnemyName:       enemy.Name,
		EnemyArchetype:  enemy.Archetype,
		EnemyLevel:      enemy.Level,
		StartedAt:       s.now(),
	}
	s.logger.Info("encounter starting",
		zap.Int("encounter", encounter),
		zap.String("enemy", enemy.Name),
		zap.Int("enemy_level", enemy.Level),
	)
	report, err := s.battles.Fight(s.player, enemy)
	if report == nil {
		return nil, fmt.Errorf("fighting %s: %w", enemy.Name, err)
	}
	rec.ID = report.ID
	rec.FinishedAt = s.now()
	rec.PlayerLevel = s.player.Level
	rec.Outcome = report.Outcome
	rec.Turns = report.Turns
	rec.FirstActor = report.FirstActor
	rec.Reward = rewardName(report.Reward)
	rec.RewardApplied = report.Reward != nil && report.Reward.Applied
	if err != nil && !errors.Is(err, combat.ErrTurnLimit) {
		return &rec, fmt.Errorf("fighting %s: %w", enemy.Name, err)
	}
	return &rec, err
}
