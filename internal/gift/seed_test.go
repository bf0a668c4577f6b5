package gift_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/JamesPrial/gift-tracker/internal/daykey"
	"github.com/JamesPrial/gift-tracker/internal/gift"
)

func Test_DemoSeeder_Shape(t *testing.T) {
	t.Parallel()
	st := gift.NewDemoSeeder(rand.NewPCG(1, 2)).InitialState(baseTime)
	today := daykey.Key(baseTime)

	if st.Warmth != 30 || st.Streak != 3 || st.PlushMood != gift.MoodCalm {
		t.Errorf("warmth/streak/mood = %d/%d/%q", st.Warmth, st.Streak, st.PlushMood)
	}
	if st.LastActiveDayKey != today {
		t.Errorf("LastActiveDayKey = %q, want %q", st.LastActiveDayKey, today)
	}
	if len(st.TasksByDay) != 8 {
		t.Errorf("day buckets = %d, want 8", len(st.TasksByDay))
	}
	if len(st.AIVideos) != 6 {
		t.Errorf("videos = %d, want 6", len(st.AIVideos))
	}
	if len(st.Friends) == 0 {
		t.Error("demo friends missing")
	}
	if st.Moments == nil {
		t.Error("Moments should be an empty list, not nil")
	}

	recurring, daily := 0, 0
	for _, task := range st.TasksByDay[today] {
		if task.IsRecurring() {
			recurring++
			p := gift.ProgressOf(task)
			if len(task.CompletionHistory) != 15 || p.TotalDays == 0 {
				t.Errorf("goal %q history=%d total=%d", task.Title, len(task.CompletionHistory), p.TotalDays)
			}
			if task.RecurringGoal.Reward == nil {
				t.Errorf("goal %q has no reward", task.Title)
			}
			if first := task.CompletionHistory[0].Date; first != task.RecurringGoal.StartDate {
				t.Errorf("goal %q history starts %q, goal starts %q", task.Title, first, task.RecurringGoal.StartDate)
			}
		} else {
			daily++
		}
	}
	if recurring != 6 || daily != 5 {
		t.Errorf("today has %d goals and %d daily tasks, want 6 and 5", recurring, daily)
	}

	for i := 1; i <= 7; i++ {
		key := daykey.Key(baseTime.AddDate(0, 0, -i))
		n := len(st.TasksByDay[key])
		if n < 3 || n > 7 {
			t.Errorf("day %s has %d tasks, want 3..7", key, n)
		}
	}
}

func Test_DemoSeeder_FriendLastActive(t *testing.T) {
	t.Parallel()
	st := gift.NewDemoSeeder(rand.NewPCG(1, 2)).InitialState(baseTime)

	want := map[string]time.Duration{
		"Emma Chen":     2 * time.Hour,
		"Mia Rodriguez": 24 * time.Hour,
		"David Park":    72 * time.Hour,
	}
	seen := 0
	for _, f := range st.Friends {
		d, ok := want[f.Name]
		if !ok {
			continue
		}
		seen++
		if got := baseTime.UnixMilli() - f.LastActive; got != d.Milliseconds() {
			t.Errorf("%s last active %dms ago, want %dms", f.Name, got, d.Milliseconds())
		}
	}
	if seen != len(want) {
		t.Errorf("found %d of %d friends", seen, len(want))
	}
}

func Test_DemoSeeder_Deterministic(t *testing.T) {
	t.Parallel()
	a := gift.NewDemoSeeder(rand.NewPCG(7, 7)).InitialState(baseTime)
	b := gift.NewDemoSeeder(rand.NewPCG(7, 7)).InitialState(baseTime)

	for day, tasks := range a.TasksByDay {
		other := b.TasksByDay[day]
		if len(other) != len(tasks) {
			t.Fatalf("day %s: %d vs %d tasks", day, len(tasks), len(other))
		}
		for i := range tasks {
			if tasks[i].Title != other[i].Title || tasks[i].Status != other[i].Status {
				t.Errorf("day %s task %d differs: %q/%s vs %q/%s",
					day, i, tasks[i].Title, tasks[i].Status, other[i].Title, other[i].Status)
			}
		}
	}
}

func Test_BlankSeeder_Shape(t *testing.T) {
	t.Parallel()
	st := gift.BlankSeeder{}.InitialState(baseTime)

	if st.Warmth != 0 || st.Streak != 0 || st.PlushMood != gift.MoodSleepy {
		t.Errorf("warmth/streak/mood = %d/%d/%q", st.Warmth, st.Streak, st.PlushMood)
	}
	tasks := st.TasksByDay[daykey.Key(baseTime)]
	if len(tasks) != 5 {
		t.Fatalf("today has %d tasks, want 5", len(tasks))
	}
	seen := map[string]bool{}
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
		if task.Note == "" || task.Status != gift.StatusPending {
			t.Errorf("default task %+v", task)
		}
	}
}
