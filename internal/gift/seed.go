package gift

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/JamesPrial/gift-tracker/internal/daykey"
)

// Seeder produces first-run state and the task set for each new day.
type Seeder interface {
	// InitialState builds the document used on first run and by ResetAll.
	InitialState(now time.Time) State
	// DailyTasks builds the bucket for a day that has none yet.
	DailyTasks(now time.Time) []Task
}

// DefaultDailyTasks returns the five wellbeing tasks created each new day.
func DefaultDailyTasks(now time.Time) []Task {
	ms := now.UnixMilli()
	tasks := make([]Task, 0, len(dailyTemplates))
	for _, tpl := range dailyTemplates {
		tasks = append(tasks, Task{
			ID:        NewID("task"),
			Title:     tpl.title,
			Note:      tpl.note,
			Status:    StatusPending,
			Type:      TypeSingle,
			CreatedAt: ms,
			UpdatedAt: ms,
		})
	}
	return tasks
}

// BlankSeeder starts from zero: today's default tasks and nothing else.
type BlankSeeder struct{}

// InitialState returns zero warmth and streak with today's default tasks.
func (BlankSeeder) InitialState(now time.Time) State {
	return State{
		Warmth:           0,
		Streak:           0,
		LastActiveDayKey: daykey.Key(now),
		PlushMood:        MoodForWarmth(0),
		TasksByDay:       map[string][]Task{daykey.Key(now): DefaultDailyTasks(now)},
		Moments:          []Moment{},
		AIVideos:         []AIVideo{},
		Friends:          []Friend{},
	}
}

// DailyTasks returns DefaultDailyTasks.
func (BlankSeeder) DailyTasks(now time.Time) []Task {
	return DefaultDailyTasks(now)
}

// DemoSeeder builds a populated showcase document: a week of history, six
// recurring goals in progress, archived videos and demo friends.
type DemoSeeder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewDemoSeeder returns a DemoSeeder drawing from src. A nil src seeds from
// the current time.
func NewDemoSeeder(src rand.Source) *DemoSeeder {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)
	}
	return &DemoSeeder{rnd: rand.New(src)}
}

// DailyTasks returns DefaultDailyTasks.
func (d *DemoSeeder) DailyTasks(now time.Time) []Task {
	return DefaultDailyTasks(now)
}

// InitialState builds the populated demo document. Safe for concurrent use.
func (d *DemoSeeder) InitialState(now time.Time) State {
	d.mu.Lock()
	defer d.mu.Unlock()

	today := daykey.Key(now)
	tasksByDay := make(map[string][]Task, 8)

	for i := 7; i >= 1; i-- {
		date := now.AddDate(0, 0, -i)
		tasksByDay[daykey.Key(date)] = d.pastDay(i, date)
	}
	tasksByDay[today] = append(d.recurringGoals(now), DefaultDailyTasks(now)...)

	return State{
		Warmth:           30,
		Streak:           3,
		LastActiveDayKey: today,
		PlushMood:        MoodCalm,
		TasksByDay:       tasksByDay,
		Moments:          []Moment{},
		AIVideos:         demoVideoList(now),
		Friends:          demoFriendList(now),
	}
}

// pastDay generates a day i days ago. Days cycle through three patterns:
// high achievement, normal and relaxed.
func (d *DemoSeeder) pastDay(i int, date time.Time) []Task {
	var numTasks int
	var successRate float64
	switch i % 3 {
	case 0:
		numTasks, successRate = 5+d.rnd.IntN(3), 0.9
	case 1:
		numTasks, successRate = 4+d.rnd.IntN(2), 0.7
	default:
		numTasks, successRate = 3+d.rnd.IntN(2), 0.5
	}

	ms := date.UnixMilli()
	tasks := make([]Task, 0, numTasks)
	for j := 0; j < numTasks; j++ {
		tpl := historyTemplates[d.rnd.IntN(len(historyTemplates))]

		status := StatusPending
		switch r := d.rnd.Float64(); {
		case r < successRate:
			status = StatusDone
		case r < successRate+0.2:
			status = StatusRest
		}

		tasks = append(tasks, Task{
			ID:        NewID("task"),
			Title:     tpl.title,
			Note:      tpl.note,
			Status:    status,
			Type:      TypeSingle,
			CreatedAt: ms,
			UpdatedAt: ms,
		})
	}
	return tasks
}

// recurringGoals returns the demo masters, each started 15 days ago with a
// randomized history up to yesterday.
func (d *DemoSeeder) recurringGoals(now time.Time) []Task {
	start := now.AddDate(0, 0, -15)
	startKey := daykey.Key(start)
	ms := now.UnixMilli()

	tasks := make([]Task, 0, len(demoGoals))
	for _, g := range demoGoals {
		history := make([]Completion, 0, 15)
		for i := 0; i < 15; i++ {
			history = append(history, Completion{
				Date:      daykey.Key(start.AddDate(0, 0, i)),
				Completed: d.rnd.Float64() < g.rate,
			})
		}
		reward := g.reward
		tasks = append(tasks, Task{
			ID:     NewID("task"),
			Title:  g.title,
			Note:   g.note,
			Status: StatusPending,
			Type:   TypeRecurring,
			RecurringGoal: &RecurringGoal{
				TotalDays: g.totalDays,
				StartDate: startKey,
				Reward:    &reward,
			},
			CompletionHistory: history,
			CreatedAt:         ms,
			UpdatedAt:         ms,
		})
	}
	return tasks
}

func videoFromTemplate(v videoTemplate, now time.Time) AIVideo {
	at := now.Add(-v.age).UnixMilli()
	return AIVideo{
		ID:             NewID("video"),
		Title:          v.title,
		Description:    v.description,
		ThumbnailURL:   unsplash(v.photo, 400, 300),
		TasksSnapshot:  v.tasks,
		WarmthSnapshot: v.warmth,
		GeneratedAt:    at,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func demoVideoList(now time.Time) []AIVideo {
	videos := make([]AIVideo, 0, len(demoVideos))
	for _, v := range demoVideos {
		videos = append(videos, videoFromTemplate(v, now))
	}
	return videos
}

func demoFriendList(now time.Time) []Friend {
	ms := now.UnixMilli()
	friends := make([]Friend, 0, len(demoFriends))
	for _, f := range demoFriends {
		videos := make([]AIVideo, 0, len(f.videos))
		for _, v := range f.videos {
			videos = append(videos, videoFromTemplate(v, now))
		}
		friends = append(friends, Friend{
			ID:           NewID("friend"),
			Name:         f.name,
			AvatarURL:    unsplash(f.avatar, 200, 200) + "&crop=face",
			Warmth:       f.warmth,
			Streak:       f.streak,
			LastActive:   now.Add(-f.lastActive).UnixMilli(),
			RecentVideos: videos,
			CreatedAt:    ms,
			UpdatedAt:    ms,
		})
	}
	return friends
}
