package gift

const (
	// WarmthBonus is credited once per task when it first becomes done.
	WarmthBonus = 5
	MinWarmth   = 0
	MaxWarmth   = 9999
)

// MoodForWarmth maps a warmth score to the plush mood.
func MoodForWarmth(warmth int) Mood {
	switch {
	case warmth >= 120:
		return MoodSpark
	case warmth >= 60:
		return MoodHappy
	case warmth >= 20:
		return MoodCalm
	default:
		return MoodSleepy
	}
}

// ClampWarmth bounds w to [MinWarmth, MaxWarmth].
func ClampWarmth(w int) int {
	if w < MinWarmth {
		return MinWarmth
	}
	if w > MaxWarmth {
		return MaxWarmth
	}
	return w
}

// addWarmth returns current+delta clamped. delta is bounded first so the sum
// cannot overflow.
func addWarmth(current, delta int) int {
	if delta > MaxWarmth {
		delta = MaxWarmth
	}
	if delta < -MaxWarmth {
		delta = -MaxWarmth
	}
	return ClampWarmth(ClampWarmth(current) + delta)
}
