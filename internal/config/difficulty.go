package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty preset %q (want easy, normal, hard or fixed)", s)
	}
}

// IsFixedPreset returns true if the preset disables the countdown.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplySortPackPreset modifies the config based on a difficulty preset.
func ApplySortPackPreset(cfg *SortPackConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Timing.TimerEnabled = true
		cfg.Timing.TimeLimit = scaleLimit(cfg.Timing.TimeLimit, 1.5)
		cfg.Boosters.InitialCount += 2
		cfg.Boosters.FreeTime += 5 * time.Second
	case DifficultyHard:
		cfg.Timing.TimerEnabled = true
		cfg.Timing.TimeLimit = scaleLimit(cfg.Timing.TimeLimit, 0.7)
		cfg.Boosters.InitialCount = max(cfg.Boosters.InitialCount-2, 1)
		cfg.Board.RefillMode = string(core.RefillRespawn)
	case DifficultyFixed:
		cfg.Timing.TimerEnabled = false
	}
}

// scaleLimit scales a countdown. A zero limit is taken as the default
// level limit.
func scaleLimit(seconds int, factor float64) int {
	if seconds <= 0 {
		seconds = core.DefaultTimeLimit
	}
	return int(float64(seconds) * factor)
}
