package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sortpack/internal/registry"
	"github.com/vovakirdan/sortpack/internal/storage"
)

var (
	flagScoresLevel int
	flagScoresLimit int
	flagScoresRun   string
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores and recent runs",
	Long: `Display the top scores for a game (default: sortpack) and the
player's most recent level runs.

Examples:
  sortpack scores
  sortpack scores sortpack_random
  sortpack scores --level 3 --player ann
  sortpack scores --run 5f0c...
  sortpack scores sortpack_random --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLevel, "level", 0, "Only show runs of this level")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().StringVar(&flagScoresRun, "run", "", "Show a single run by its id")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the high scores of the game")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := "sortpack"
	if len(args) == 1 {
		gameID = args[0]
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w (run 'sortpack --help' for the games)", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresRun != "" {
		return printRun(store, flagScoresRun)
	}
	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared high scores for %s.\n", game.Title())
		return nil
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n\n", game.Title())
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
	} else {
		fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
		fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
		for i, entry := range scores {
			fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	if stats, err := store.GetAllGamesStats(); err == nil {
		if gs, ok := stats[gameID]; ok {
			fmt.Printf("\n  %d games, average %.0f, last played %s\n",
				gs.GamesCount, gs.AvgScore, gs.LastPlayed.Format("2006-01-02 15:04"))
		}
	}

	return printRuns(store)
}

// printRuns lists the player's latest runs, optionally for one level.
func printRuns(store *storage.Store) error {
	// fetch extra rows when filtering so the limit applies after it
	fetch := flagScoresLimit
	if flagScoresLevel > 0 {
		fetch *= 10
	}
	runs, err := store.RecentRuns(flagPlayer, fetch)
	if err != nil {
		return err
	}

	fmt.Printf("\nRecent runs - %s\n\n", flagPlayer)
	shown := 0
	for _, r := range runs {
		if flagScoresLevel > 0 && r.Level != flagScoresLevel {
			continue
		}
		if shown == 0 {
			fmt.Printf("  %-5s  %-7s  %-8s  %-5s  %-5s  %s\n", "Level", "Result", "Score", "Moves", "Time", "Date")
			fmt.Printf("  %-5s  %-7s  %-8s  %-5s  %-5s  %s\n", "-----", "------", "-----", "-----", "----", "----")
		}
		result := "lost"
		if r.Won {
			result = "cleared"
		}
		fmt.Printf("  %-5d  %-7s  %-8d  %-5d  %-5s  %s\n",
			r.Level, result, r.Score, r.Moves,
			clock(r.Duration),
			r.CreatedAt.Format("2006-01-02 15:04"))
		shown++
		if shown == flagScoresLimit {
			break
		}
	}
	if shown == 0 {
		fmt.Println("No runs yet.")
		return nil
	}

	if best, err := store.BestLevel(flagPlayer); err == nil && best > 0 {
		fmt.Printf("\nBest level cleared: %d\n", best)
	}
	return nil
}

// printRun shows one stored run.
func printRun(store *storage.Store, id string) error {
	r, err := store.RunByID(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no run with id %q", id)
	}

	result := "lost"
	if r.Won {
		result = "cleared"
	}
	fmt.Printf("Run %s\n\n", r.RunID)
	fmt.Printf("  Player   %s\n", r.Player)
	fmt.Printf("  Level    %d (%s)\n", r.Level, r.LevelID)
	fmt.Printf("  Result   %s\n", result)
	fmt.Printf("  Score    %d\n", r.Score)
	fmt.Printf("  Moves    %d\n", r.Moves)
	fmt.Printf("  Matches  %d\n", r.Matches)
	fmt.Printf("  Time     %s\n", clock(r.Duration))
	fmt.Printf("  Date     %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
