package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// ErrBattleNotFound is returned when a battle lookup yields no results.
var ErrBattleNotFound = errors.New("battle not found")

// ErrBattleExists is returned when a battle with the same ID was already saved.
var ErrBattleExists = errors.New("battle already exists")

const battleColumns = `id::text, encounter, player_name, player_archetype, player_level,
	enemy_name, enemy_archetype, enemy_level, outcome, turns, first_actor,
	reward, reward_applied, started_at, finished_at`

// BattleRepository stores finished battles. It satisfies session.Recorder.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// SaveBattle inserts rec.
//
// Precondition: rec.ID must be a UUID.
// Postcondition: Returns ErrBattleExists if rec.ID is already stored.
func (r *BattleRepository) SaveBattle(ctx context.Context, rec session.BattleRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO battles (id, encounter, player_name, player_archetype, player_level,
			enemy_name, enemy_archetype, enemy_level, outcome, turns, first_actor,
			reward, reward_applied, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.Encounter, rec.PlayerName, rec.PlayerArchetype.String(), rec.PlayerLevel,
		rec.EnemyName, rec.EnemyArchetype.String(), rec.EnemyLevel, rec.Outcome.String(), rec.Turns,
		rec.FirstActor.String(), rec.Reward, rec.RewardApplied, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrBattleExists
		}
		return fmt.Errorf("inserting battle %s: %w", rec.ID, err)
	}
	return nil
}

// GetBattle loads one battle by ID.
//
// Postcondition: Returns ErrBattleNotFound if no battle has the given ID.
func (r *BattleRepository) GetBattle(ctx context.Context, id string) (session.BattleRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+battleColumns+` FROM battles WHERE id = $1`, id)
	rec, err := scanBattle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.BattleRecord{}, ErrBattleNotFound
		}
		return session.BattleRecord{}, fmt.Errorf("querying battle %s: %w", id, err)
	}
	return rec, nil
}

// ListRecent returns up to limit battles, most recently finished first.
//
// Precondition: limit must be > 0.
func (r *BattleRepository) ListRecent(ctx context.Context, limit int) ([]session.BattleRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0, got %d", limit)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+battleColumns+` FROM battles ORDER BY finished_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	var out []session.BattleRecord
	for rows.Next() {
		rec, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning battle: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battles: %w", err)
	}
	return out, nil
}

func scanBattle(row pgx.Row) (session.BattleRecord, error) {
	var (
		rec                   session.BattleRecord
		playerArch, enemyArch string
		outcome, firstActor   string
	)
	err := row.Scan(
		&rec.ID, &rec.Encounter, &rec.PlayerName, &playerArch, &rec.PlayerLevel,
		&rec.EnemyName, &enemyArch, &rec.EnemyLevel, &outcome, &rec.Turns, &firstActor,
		&rec.Reward, &rec.RewardApplied, &rec.StartedAt, &rec.FinishedAt,
	)
	if err != nil {
		return session.BattleRecord{}, err
	}
	if rec.PlayerArchetype, err = ruleset.ParseArchetype(playerArch); err != nil {
		return session.BattleRecord{}, err
	}
	if rec.EnemyArchetype, err = ruleset.ParseArchetype(enemyArch); err != nil {
		return session.BattleRecord{}, err
	}
	if rec.Outcome, err = combat.ParseOutcome(outcome); err != nil {
		return session.BattleRecord{}, err
	}
	rec.FirstActor = combat.SidePlayer
	if firstActor == combat.SideEnemy.String() {
		rec.FirstActor = combat.SideEnemy
	}
	return rec, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
