// Package main provides the arena binary: a player combatant fights a series
// of generated enemies until it loses or the encounter count is reached.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and SKIRMISH_ environment")
	encounters := flag.Int("encounters", 0, "number of encounters (0 = battle.encounters from config)")
	name := flag.String("name", "Hero", "player combatant name")
	archetypeName := flag.String("archetype", "warrior", "player archetype: warrior, mage, or rogue")
	interactive := flag.Bool("interactive", false, "choose the player's actions from stdin")
	seed := flag.Uint64("seed", 0, "random seed (0 = battle.seed from config, else fresh)")
	history := flag.Int("history", 0, "after the session, list this many recent battles from the database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed == 0 {
		*seed = cfg.Battle.Seed
	}
	if *seed == 0 {
		if *seed, err = dice.NewSeed(); err != nil {
			logger.Fatal("drawing seed", zap.Error(err))
		}
	}
	src := dice.NewLoggedSource(dice.NewSeededSource(*seed), logger)
	if *encounters <= 0 {
		*encounters = cfg.Battle.Encounters
	}

	archetypes, items, conditions, err := loadContent(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	archetype, err := ruleset.ParseArchetype(*archetypeName)
	if err != nil || !archetype.Valid() {
		logger.Fatal("invalid archetype", zap.String("archetype", *archetypeName))
	}
	player := combat.NewCombatant(*name, archetypes.MustDef(archetype))

	var scripts ai.ScriptCaller
	if cfg.Scripting.PolicyDir != "" {
		limit := cfg.Scripting.InstructionLimit
		if limit == 0 {
			limit = scripting.DefaultInstructionLimit
		}
		mgr := scripting.NewManager(src, logger, limit)
		defer mgr.Close()
		if err := mgr.Load(cfg.Scripting.PolicyDir); err != nil {
			logger.Fatal("loading policy scripts", zap.Error(err))
		}
		scripts = mgr
	}
	var console combat.Policy
	if *interactive {
		console = newConsolePolicy(os.Stdin, os.Stdout)
	}
	playerPolicy, enemyPolicy := newPolicies(cfg.Battle, scripts, console, logger)

	notifier := combat.Tee(
		observability.NewZapNotifier(logger),
		consoleRenderer{out: os.Stdout},
		session.NewPaced(cfg.Battle.TurnDelay),
	)
	battles := combat.NewManager(src, logger,
		combat.WithNotifier(notifier),
		combat.WithConditions(conditions),
		combat.WithItems(items),
		combat.WithPolicies(playerPolicy, enemyPolicy),
		combat.WithMaxTurns(cfg.Battle.MaxTurns),
	)

	var opts []session.Option
	var repo *postgres.BattleRepository
	if cfg.Database.Enabled {
		dbStart := time.Now()
		if cfg.Database.AutoMigrate {
			res, err := postgres.Migrate(cfg.Database.DSN(), cfg.Database.Migrations, postgres.Up, 0)
			if err != nil {
				logger.Fatal("migrating database", zap.Error(err))
			}
			logger.Info("schema ready", zap.Uint("version", res.Version), zap.Bool("changed", res.Changed))
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		repo = pool.Battles()
		opts = append(opts, session.WithRecorder(repo))
	}

	logger.Info("starting arena",
		zap.String("player", player.Name),
		zap.String("archetype", archetype.String()),
		zap.Int("encounters", *encounters),
		zap.Uint64("seed", *seed),
		zap.Duration("startup", time.Since(start)),
	)

	sess := session.New(player, battles, archetypes, src, logger, opts...)
	summary, err := sess.Run(ctx, *encounters)
	printSummary(summary, sess.Player(), *seed)
	if repo != nil && *history > 0 {
		// The run context may already be cancelled by a signal.
		recent, herr := repo.ListRecent(context.Background(), *history)
		if herr != nil {
			logger.Warn("listing battle history", zap.Error(herr))
		} else {
			printHistory(recent)
		}
	}
	if err != nil {
		logger.Error("session ended early", zap.Error(err))
		os.Exit(1)
	}
}

// newPolicies builds both sides' action policies. scripts, when non-nil,
// drives the enemy only; console, when non-nil, drives the player. Otherwise
// each side uses the configured archetype policy.
func newPolicies(cfg config.BattleConfig, scripts ai.ScriptCaller, console combat.Policy, logger *zap.Logger) (player, enemy combat.Policy) {
	base := ai.NewArchetypePolicy(cfg.SpecialChance, cfg.ArchetypeChances())
	player, enemy = base, base
	if console != nil {
		player = console
	}
	if scripts != nil {
		enemy = ai.NewScriptPolicy(scripts, base, logger)
	}
	return player, enemy
}

func loadContent(cfg config.ContentConfig) (*ruleset.Table, *inventory.Registry, *condition.Registry, error) {
	archetypes := ruleset.DefaultTable()
	if cfg.Archetypes != "" {
		t, err := ruleset.LoadArchetypes(cfg.Archetypes)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("archetypes: %w", err)
		}
		archetypes = t
	}

	items := inventory.DefaultRegistry()
	if cfg.Items != "" {
		loaded, err := inventory.LoadItems(cfg.Items)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("items: %w", err)
		}
		if items, err = inventory.NewRegistryFrom(loaded); err != nil {
			return nil, nil, nil, fmt.Errorf("items: %w", err)
		}
	}

	conditions := condition.DefaultRegistry()
	if cfg.Conditions != "" {
		r, err := condition.LoadDirectory(cfg.Conditions)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("conditions: %w", err)
		}
		conditions = r
	}
	if err := archetypes.CheckConditions(conditions); err != nil {
		return nil, nil, nil, fmt.Errorf("archetypes: %w", err)
	}
	return archetypes, items, conditions, nil
}

func printSummary(s session.Summary, player *combat.Combatant, seed uint64) {
	fmt.Fprintf(os.Stdout, "\nfought %d, won %d, lost %d, final level %d (seed %d)\n",
		s.Fought, s.Wins, s.Losses, s.FinalLevel, seed)
	fmt.Fprintf(os.Stdout, "  %s the %s: %d max hp, attack %d", player.Name, player.Archetype, player.MaxHealth, player.AttackPower)
	if player.HasMana() {
		fmt.Fprintf(os.Stdout, ", %d max mana", player.MaxMana)
	}
	for _, it := range player.Equipment {
		fmt.Fprintf(os.Stdout, ", %s", it.Name)
	}
	fmt.Fprintln(os.Stdout)
	for _, rec := range s.Records {
		reward := rec.Reward
		if reward == "" {
			reward = "-"
		}
		fmt.Fprintf(os.Stdout, "  #%d %-14s L%d  %-10s %3d turns  reward %s\n",
			rec.Encounter, rec.EnemyName, rec.EnemyLevel, rec.Outcome, rec.Turns, reward)
	}
	if s.Unrecorded > 0 {
		fmt.Fprintf(os.Stdout, "  %d battles were not recorded\n", s.Unrecorded)
	}
}

func printHistory(recs []session.BattleRecord) {
	fmt.Fprintf(os.Stdout, "\nrecent battles:\n")
	for _, rec := range recs {
		fmt.Fprintf(os.Stdout, "  %s  %s (%s L%d) vs %s  %s in %d turns\n",
			rec.FinishedAt.Local().Format(time.DateTime), rec.PlayerName, rec.PlayerArchetype,
			rec.PlayerLevel, rec.EnemyName, rec.Outcome, rec.Turns)
	}
}
