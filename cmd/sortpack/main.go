// sortpack is a terminal item-sorting puzzle: move items between cells
// until every cell holds three of a kind, across layered levels.
//
// Usage:
//
//	sortpack play [level]       - Play the campaign, optionally from a level
//	sortpack menu               - Pick a game and level interactively
//	sortpack levels [dir]       - List levels
//	sortpack levels validate    - Check level files
//	sortpack levels generate    - Print a random level as YAML
//	sortpack scores             - Show high scores and recent runs
//	sortpack serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 30)
//	--seed <value>     - Set RNG seed for reproducible boards
//	--db <path>        - Set database path (default: ~/.sortpack/sortpack.db)
//	--player <name>    - Player name for runs and boosters
//	--config <path>    - Custom config YAML
//	--levels <dir>     - Level directory instead of the built-in levels
//	--preset <name>    - Difficulty preset: easy, normal, hard, fixed
//	--log-level <lvl>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sortpack/internal/config"
	"github.com/vovakirdan/sortpack/internal/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack"
	gamecore "github.com/vovakirdan/sortpack/internal/games/sortpack/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack/levels"
	"github.com/vovakirdan/sortpack/internal/metrics"
	"github.com/vovakirdan/sortpack/internal/platform/tui"
	"github.com/vovakirdan/sortpack/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagPlayer   string
	flagConfig   string
	flagLevels   string
	flagPreset   string
	flagLogLevel string
)

// Set up by the root command before any subcommand runs.
var (
	appConfig config.SortPackConfig
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sortpack",
	Short: "SortPack - sort items into cells in your terminal",
	Long: `SortPack is a terminal puzzle. Each cell holds a few items; move
items between cells until a cell is full of one kind, which clears it and
reveals the layer underneath. Clear the board before the timer runs out.

Available commands:
  play     - Play the campaign or random boards
  menu     - Interactive game and level picker
  levels   - List, validate or generate levels
  scores   - View high scores and recent runs
  serve    - Start SSH server for remote play

Examples:
  sortpack play
  sortpack play 3 --preset easy
  sortpack play --random --seed 42
  sortpack levels validate ./levels
  sortpack serve --addr :2222 --metrics-addr :9090`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath(), "Path to the database")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player name for runs and boosters")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Level directory (default: config levels.dir or built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return tui.DefaultPlayer
}

// setup loads configuration, builds the logger and hands both to the game.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadSortPack(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}
	config.ApplySortPackPreset(&cfg, preset)
	appConfig = cfg

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sortpack",
		Level:           lvl,
	})

	return configureGames(nil)
}

// configureGames shares config, levels and metrics with every game the
// registry creates.
func configureGames(rec *metrics.Recorder) error {
	list, err := loadLevels(levelDir())
	if err != nil {
		return err
	}
	sortpack.Configure(sortpack.Options{
		Config:  appConfig,
		Levels:  list,
		Logger:  logger.WithPrefix("engine"),
		Metrics: rec,
	})
	return nil
}

// levelDir is the level directory from flags or config, empty for built-in.
func levelDir() string {
	if flagLevels != "" {
		return flagLevels
	}
	return appConfig.Levels.Dir
}

func levelLoader(dir string) *levels.Loader {
	if dir == "" {
		return levels.Builtin()
	}
	return levels.NewLoader(dir)
}

func loadLevels(dir string) ([]*gamecore.Level, error) {
	list, err := levelLoader(dir).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	if len(list) == 0 && dir != "" {
		logger.Warn("no levels found, using built-in levels", "dir", dir)
		return nil, nil
	}
	return list, nil
}

// runtimeConfig builds the platform config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Player:   flagPlayer,
	}
}

// openStore opens the database, or returns nil with a warning so play can
// continue without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
