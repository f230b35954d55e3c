// Package battery holds the pure battery economy: reward magnitudes per
// difficulty and clamping to the 0..100 range.
package battery

import (
	"strings"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

const (
	Min = 0
	Max = 100
)

// RewardFor is the magnitude of a challenge reward or penalty. Unknown
// difficulties are priced as medium.
func RewardFor(d bossflight.Difficulty) int {
	switch d {
	case bossflight.DifficultyEasy:
		return 20
	case bossflight.DifficultyHard:
		return 10
	default:
		return 15
	}
}

func Clamp(v int) int {
	return max(Min, min(Max, v))
}

func ApplyDelta(current, delta int) int {
	return Clamp(current + delta)
}

// ResolveDifficulty picks the difficulty used for reward lookup: the level
// last reported by the server, else the one the session was started with,
// else medium.
func ResolveDifficulty(serverLevel, startLevel string) bossflight.Difficulty {
	for _, s := range []string{serverLevel, startLevel} {
		if d := bossflight.Difficulty(strings.ToLower(strings.TrimSpace(s))); d.Valid() {
			return d
		}
	}
	return bossflight.DifficultyMedium
}

type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandOf buckets a level for display on the end screen.
func BandOf(level int) Band {
	switch {
	case level > 50:
		return BandHigh
	case level > 20:
		return BandMedium
	default:
		return BandLow
	}
}
