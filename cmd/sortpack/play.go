package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sortpack/internal/platform/tui"
	"github.com/vovakirdan/sortpack/internal/registry"
)

var flagRandom bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the campaign or a random board",
	Long: `Start playing SortPack.

Controls:
  Arrows/WASD  - Move the cursor
  Space/Enter  - Pick up the top item, drop it on another cell
  Esc/B        - Release the held item (menu when paused or over)
  U            - Unlock a locked cell
  1-4          - Boosters: Free Time, Double Star, Auto Merge, Random Swap
  P            - Pause
  R            - Restart the level
  N            - Next level after a win
  Q/Ctrl+C     - Quit

Examples:
  sortpack play
  sortpack play 4
  sortpack play --random --seed 7
  sortpack play --preset hard --levels ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagRandom, "random", false, "Play generated boards instead of the campaign")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := "sortpack"
	if flagRandom {
		gameID = "sortpack_random"
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil || n <= 0 {
			return fmt.Errorf("invalid level %q", args[0])
		}
		ls, ok := game.(registry.LevelSelector)
		if !ok || flagRandom {
			return fmt.Errorf("random boards have no levels")
		}
		ls.SetStartLevel(n)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	_, err = tui.Run(game, store, runtimeConfig())
	return err
}
