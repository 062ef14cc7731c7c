// Package postgres persists battle history in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/config"
)

const (
	// applicationName tags arena sessions in pg_stat_activity.
	applicationName = "skirmish-arena"
	connectTimeout  = 5 * time.Second
)

// Pool owns the connections battle history is written through.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the battle history database.
//
// Precondition: cfg must have passed config validation with Enabled set.
// Postcondition: Returns a Pool whose database answered a ping within
// five seconds, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	p := &Pool{pool: pool}
	if err := p.Ping(ctx, connectTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return p, nil
}

// Ping checks that the database answers within timeout.
func (p *Pool) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Battles returns a repository backed by this pool.
func (p *Pool) Battles() *BattleRepository {
	return NewBattleRepository(p.pool)
}

// Close releases all connections. The Pool is unusable afterwards.
func (p *Pool) Close() {
	p.pool.Close()
}
