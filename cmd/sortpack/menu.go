package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sortpack/internal/platform/tui"
	"github.com/vovakirdan/sortpack/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game and level picker",
	Long: `Start SortPack in interactive menu mode.

Pick the campaign or random boards, then start from the first level,
continue after your best cleared level, or choose any level. Leaving a
game (Esc when paused or over) returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scores
  Esc          - Back
  Q            - Quit

Examples:
  sortpack menu
  sortpack menu --player ann --preset easy`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		if res.Quit {
			return nil
		}

		if res.WantsScoreboard {
			back, sbErr := tui.RunScoreboard(store, cfg.Player, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				return sbErr
			}
			if !back {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			logger.Error("cannot create game", "game", res.GameID, "error", err)
			continue
		}
		if ls, ok := game.(registry.LevelSelector); ok && res.StartLevel > 0 {
			ls.SetStartLevel(res.StartLevel)
		}

		back, err := tui.Run(game, store, cfg)
		if err != nil {
			return err
		}
		if !back {
			return nil
		}
	}
}
