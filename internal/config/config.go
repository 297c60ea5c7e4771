// Package config provides YAML-based game configuration loading and
// difficulty presets for SortPack.
package config

import (
	"time"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

// SortPackConfig contains all configuration for a SortPack session.
// Every field can be overridden by the SORTPACK_* environment variable
// named in its env tag.
type SortPackConfig struct {
	Timing   TimingConfig   `yaml:"timing"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Boosters BoosterConfig  `yaml:"boosters"`
	Board    BoardConfig    `yaml:"board"`
	Levels   LevelsConfig   `yaml:"levels"`
	Log      LogConfig      `yaml:"log"`
	Catalog  map[int]string `yaml:"catalog,omitempty"`
}

// TimingConfig defines engine delays and the level countdown.
type TimingConfig struct {
	Settle       time.Duration `yaml:"settle"        env:"SORTPACK_SETTLE"`
	Clear        time.Duration `yaml:"clear"         env:"SORTPACK_CLEAR_EFFECT"`
	Replace      time.Duration `yaml:"replace"       env:"SORTPACK_REPLACE_EFFECT"`
	Remove       time.Duration `yaml:"remove"        env:"SORTPACK_REMOVE_EFFECT"`
	TimerEnabled bool          `yaml:"timer_enabled" env:"SORTPACK_TIMER_ENABLED"`
	TimeLimit    int           `yaml:"time_limit"    env:"SORTPACK_TIME_LIMIT"` // seconds; 0 keeps the level's own limit
}

// ScoringConfig defines points awarded by the engine.
type ScoringConfig struct {
	Match          int `yaml:"match"           env:"SORTPACK_MATCH_SCORE"`
	Merge          int `yaml:"merge"           env:"SORTPACK_MERGE_SCORE"`
	StarMultiplier int `yaml:"star_multiplier" env:"SORTPACK_STAR_MULTIPLIER"`
}

// BoosterConfig defines booster stock and durations.
type BoosterConfig struct {
	InitialCount int           `yaml:"initial_count" env:"SORTPACK_BOOSTERS"`
	FreeTime     time.Duration `yaml:"free_time"     env:"SORTPACK_FREE_TIME"`
	DoubleStar   time.Duration `yaml:"double_star"   env:"SORTPACK_DOUBLE_STAR"`
	Progress     time.Duration `yaml:"progress"      env:"SORTPACK_BOOSTER_PROGRESS"`
}

// BoardConfig defines refill behaviour and the random board shape.
type BoardConfig struct {
	RefillMode string `yaml:"refill_mode" env:"SORTPACK_REFILL_MODE"` // "cascade" or "respawn"
	Seed       int64  `yaml:"seed"        env:"SORTPACK_SEED"`        // 0 picks a time-based seed
	RandomRows int    `yaml:"random_rows" env:"SORTPACK_RANDOM_ROWS"`
	RandomCols int    `yaml:"random_cols" env:"SORTPACK_RANDOM_COLS"`
}

// LevelsConfig points at the level files.
type LevelsConfig struct {
	Dir string `yaml:"dir" env:"SORTPACK_LEVELS_DIR"` // empty uses the built-in levels
}

// LogConfig defines log output.
type LogConfig struct {
	Level string `yaml:"level" env:"SORTPACK_LOG_LEVEL"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// SessionConfig converts the file configuration into engine parameters.
// Zero values keep the engine defaults.
func (c SortPackConfig) SessionConfig() core.Config {
	cfg := core.DefaultConfig()
	if c.Timing.Settle > 0 {
		cfg.SettleDelay = c.Timing.Settle
	}
	if c.Timing.Clear > 0 {
		cfg.Effects.Clear = c.Timing.Clear
	}
	if c.Timing.Replace > 0 {
		cfg.Effects.Replace = c.Timing.Replace
	}
	if c.Timing.Remove > 0 {
		cfg.Effects.Remove = c.Timing.Remove
	}
	cfg.TimerEnabled = c.Timing.TimerEnabled
	if c.Scoring.Match > 0 {
		cfg.MatchScore = c.Scoring.Match
	}
	if c.Scoring.Merge > 0 {
		cfg.Boosters.MergeBaseScore = c.Scoring.Merge
	}
	if c.Scoring.StarMultiplier > 0 {
		cfg.Boosters.StarMultiplier = c.Scoring.StarMultiplier
	}
	if c.Boosters.InitialCount >= 0 {
		cfg.Boosters.InitialCount = c.Boosters.InitialCount
	}
	if c.Boosters.FreeTime > 0 {
		cfg.Boosters.FreeTimeDuration = c.Boosters.FreeTime
	}
	if c.Boosters.DoubleStar > 0 {
		cfg.Boosters.DoubleStarDuration = c.Boosters.DoubleStar
	}
	if c.Boosters.Progress > 0 {
		cfg.Boosters.ProgressInterval = c.Boosters.Progress
	}
	if mode, ok := core.ParseRefillMode(c.Board.RefillMode); ok {
		cfg.RefillMode = mode
	}
	cfg.Seed = c.Board.Seed
	if len(c.Catalog) > 0 {
		overrides := make(map[core.ItemID]core.ItemType, len(c.Catalog))
		for id, name := range c.Catalog {
			overrides[core.ItemID(id)] = core.ItemType(name)
		}
		cfg.Catalog = cfg.Catalog.Merge(overrides)
	}
	return cfg
}

// GenParams returns the random board shape.
func (c SortPackConfig) GenParams(catalog *core.Catalog) core.GenParams {
	p := core.DefaultGenParams()
	if c.Board.RandomRows > 0 {
		p.Rows = c.Board.RandomRows
	}
	if c.Board.RandomCols > 0 {
		p.Cols = c.Board.RandomCols
	}
	if catalog != nil {
		p.Catalog = catalog
	}
	return p
}

// ApplyTimeLimit overrides a level's countdown when the config sets one.
func (c SortPackConfig) ApplyTimeLimit(l *core.Level) *core.Level {
	if c.Timing.TimeLimit <= 0 || l == nil {
		return l
	}
	out := l.Clone()
	out.TimeLimit = c.Timing.TimeLimit
	return out
}
