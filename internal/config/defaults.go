package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/sortpack.yaml
var defaultSortPackYAML []byte

// DefaultSortPackConfig returns the default SortPack configuration.
func DefaultSortPackConfig() SortPackConfig {
	return SortPackConfig{
		Timing: TimingConfig{
			Settle:       300 * time.Millisecond,
			Clear:        250 * time.Millisecond,
			Replace:      400 * time.Millisecond,
			Remove:       350 * time.Millisecond,
			TimerEnabled: true,
		},
		Scoring: ScoringConfig{
			Match:          100,
			Merge:          100,
			StarMultiplier: 2,
		},
		Boosters: BoosterConfig{
			InitialCount: 3,
			FreeTime:     5 * time.Second,
			DoubleStar:   10 * time.Second,
			Progress:     100 * time.Millisecond,
		},
		Board: BoardConfig{
			RefillMode: "cascade",
			RandomRows: 3,
			RandomCols: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
