package gift

import "sort"

// GoalProgress is derived from a recurring master task; it is never stored.
type GoalProgress struct {
	CompletedDays   int     `json:"completedDays"`
	TotalDays       int     `json:"totalDays"`
	ProgressPercent float64 `json:"progressPercent"`
	CurrentStreak   int     `json:"currentStreak"`
	IsCompleted     bool    `json:"isCompleted"`
	IsActive        bool    `json:"isActive"`
	Mood            Mood    `json:"mood"`
}

// CompletedDays counts history entries marked completed.
func CompletedDays(history []Completion) int {
	n := 0
	for _, c := range history {
		if c.Completed {
			n++
		}
	}
	return n
}

// CurrentStreak is the length of the run of completed entries starting from
// the most recent date.
func CurrentStreak(history []Completion) int {
	sorted := append([]Completion{}, history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	streak := 0
	for _, c := range sorted {
		if !c.Completed {
			break
		}
		streak++
	}
	return streak
}

// GoalMood maps goal progress (0-100) to a mood.
func GoalMood(percent float64) Mood {
	switch {
	case percent >= 80:
		return MoodSpark
	case percent >= 50:
		return MoodHappy
	case percent >= 20:
		return MoodCalm
	default:
		return MoodSleepy
	}
}

// ProgressOf derives goal progress for t. Tasks without a goal report zero
// total days.
func ProgressOf(t Task) GoalProgress {
	p := GoalProgress{
		CompletedDays: CompletedDays(t.CompletionHistory),
		CurrentStreak: CurrentStreak(t.CompletionHistory),
	}
	if t.RecurringGoal != nil {
		p.TotalDays = t.RecurringGoal.TotalDays
	}
	if p.TotalDays > 0 {
		p.ProgressPercent = 100 * float64(p.CompletedDays) / float64(p.TotalDays)
		p.IsCompleted = p.CompletedDays >= p.TotalDays
	}
	p.IsActive = !p.IsCompleted && p.CompletedDays > 0
	p.Mood = GoalMood(p.ProgressPercent)
	return p
}

// upsertCompletion marks day completed in history, replacing an existing
// entry for that day or appending a new one. Duplicate entries for day are
// collapsed.
func upsertCompletion(history []Completion, day string) []Completion {
	out := make([]Completion, 0, len(history)+1)
	found := false
	for _, c := range history {
		if c.Date != day {
			out = append(out, c)
			continue
		}
		if found {
			continue
		}
		c.Completed = true
		out = append(out, c)
		found = true
	}
	if !found {
		out = append(out, Completion{Date: day, Completed: true})
	}
	return out
}

// dedupeHistory keeps the first entry per date, preserving order.
func dedupeHistory(history []Completion) []Completion {
	seen := make(map[string]bool, len(history))
	out := make([]Completion, 0, len(history))
	for _, c := range history {
		if seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		out = append(out, c)
	}
	return out
}
