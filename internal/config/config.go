// Package config provides Viper-based configuration loading for the arena.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// DatabaseConfig holds PostgreSQL connection settings for battle history.
type DatabaseConfig struct {
	// Enabled turns battle persistence on; the remaining fields are validated only when true.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// AutoMigrate applies pending migrations from Migrations before the arena starts.
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	Migrations  string `mapstructure:"migrations"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a file path, or "stdout"/"stderr". Interactive runs log to a
	// file so the prompt stays readable.
	Output string `mapstructure:"output"`
}

// BattleConfig holds battle loop settings.
type BattleConfig struct {
	// SpecialChance is the probability an automated combatant attempts its special attack.
	SpecialChance float64 `mapstructure:"special_chance"`
	// SpecialChances overrides SpecialChance per archetype name.
	SpecialChances map[string]float64 `mapstructure:"special_chances"`
	// MaxTurns aborts a battle after this many turns; 0 means unlimited.
	MaxTurns int `mapstructure:"max_turns"`
	// TurnDelay pauses after each turn for presentation; 0 disables pacing.
	TurnDelay time.Duration `mapstructure:"turn_delay"`
	// Seed makes every draw reproducible; 0 draws a fresh seed at startup.
	Seed uint64 `mapstructure:"seed"`
	// Encounters is the number of battles in a session.
	Encounters int `mapstructure:"encounters"`
}

// ArchetypeChances parses SpecialChances into archetype keys.
//
// Precondition: SpecialChances must have passed Validate.
func (b BattleConfig) ArchetypeChances() map[ruleset.Archetype]float64 {
	out := make(map[ruleset.Archetype]float64, len(b.SpecialChances))
	for name, p := range b.SpecialChances {
		if a, err := ruleset.ParseArchetype(name); err == nil {
			out[a] = p
		}
	}
	return out
}

// ContentConfig holds paths to static game data. Empty paths select the built-in defaults.
type ContentConfig struct {
	// Archetypes is a YAML file of archetype definitions.
	Archetypes string `mapstructure:"archetypes"`
	// Items is a directory of item YAML files.
	Items string `mapstructure:"items"`
	// Conditions is a directory of condition YAML files.
	Conditions string `mapstructure:"conditions"`
}

// ScriptingConfig holds Lua policy settings.
type ScriptingConfig struct {
	// PolicyDir is a directory of Lua files defining choose_action; empty disables scripting.
	PolicyDir string `mapstructure:"policy_dir"`
	// InstructionLimit caps opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Battle    BattleConfig    `mapstructure:"battle"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if d.AutoMigrate && d.Migrations == "" {
		errs = append(errs, "database.migrations must be set when database.auto_migrate is true")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.SpecialChance < 0 || b.SpecialChance > 1 {
		errs = append(errs, fmt.Sprintf("battle.special_chance must be within [0, 1], got %v", b.SpecialChance))
	}
	for name, p := range b.SpecialChances {
		if _, err := ruleset.ParseArchetype(name); err != nil {
			errs = append(errs, fmt.Sprintf("battle.special_chances: unknown archetype %q", name))
			continue
		}
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Sprintf("battle.special_chances.%s must be within [0, 1], got %v", name, p))
		}
	}
	if b.MaxTurns < 0 {
		errs = append(errs, fmt.Sprintf("battle.max_turns must be >= 0, got %d", b.MaxTurns))
	}
	if b.TurnDelay < 0 {
		errs = append(errs, "battle.turn_delay must not be negative")
	}
	if b.Encounters < 1 {
		errs = append(errs, fmt.Sprintf("battle.encounters must be >= 1, got %d", b.Encounters))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "skirmish")
	v.SetDefault("database.password", "skirmish")
	v.SetDefault("database.name", "skirmish")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.migrations", "migrations")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("battle.special_chance", 0.3)
	v.SetDefault("battle.max_turns", 1000)
	v.SetDefault("battle.turn_delay", "0s")
	v.SetDefault("battle.seed", 0)
	v.SetDefault("battle.encounters", 3)

	v.SetDefault("content.archetypes", "")
	v.SetDefault("content.items", "")
	v.SetDefault("content.conditions", "")

	v.SetDefault("scripting.policy_dir", "")
	v.SetDefault("scripting.instruction_limit", 0)
}
