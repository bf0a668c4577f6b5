package gift_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JamesPrial/gift-tracker/internal/daykey"
	"github.com/JamesPrial/gift-tracker/internal/gift"
	"github.com/JamesPrial/gift-tracker/internal/storage"
)

// baseTime is a fixed local noon so day arithmetic never crosses midnight.
var baseTime = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)

// stateSeeder seeds a fixed warmth and streak with today's default tasks.
type stateSeeder struct {
	warmth int
	streak int
}

func (s stateSeeder) InitialState(now time.Time) gift.State {
	st := gift.BlankSeeder{}.InitialState(now)
	st.Warmth = s.warmth
	st.Streak = s.streak
	st.PlushMood = gift.MoodForWarmth(s.warmth)
	st.Friends = []gift.Friend{
		{ID: "friend_a", Name: "Ada", Warmth: 10, RecentVideos: []gift.AIVideo{}},
		{ID: "friend_b", Name: "Bo", Warmth: 20, RecentVideos: []gift.AIVideo{}},
	}
	return st
}

func (stateSeeder) DailyTasks(now time.Time) []gift.Task {
	return gift.DefaultDailyTasks(now)
}

// flakyBackend fails the next failSets calls to Set.
type flakyBackend struct {
	storage.StorageBackend

	mu       sync.Mutex
	failSets int
	sets     int
}

var errInjected = errors.New("injected storage failure")

func (f *flakyBackend) Set(key string, value []byte) error {
	f.mu.Lock()
	f.sets++
	if f.failSets > 0 {
		f.failSets--
		f.mu.Unlock()
		return errInjected
	}
	f.mu.Unlock()
	return f.StorageBackend.Set(key, value)
}

func (f *flakyBackend) failNext(n int) {
	f.mu.Lock()
	f.failSets = n
	f.mu.Unlock()
}

type testEnv struct {
	engine  *gift.Engine
	store   *gift.Store
	backend *flakyBackend
	clock   *daykey.FixedClock
}

// newTestEngine opens an engine over an in-memory backend at baseTime.
func newTestEngine(t *testing.T, seeder gift.Seeder) *testEnv {
	t.Helper()
	backend := &flakyBackend{StorageBackend: storage.NewMemoryBackend()}
	clock := &daykey.FixedClock{T: baseTime}
	store := gift.NewStore(backend, nil)

	e, err := gift.Open(store, gift.WithClock(clock), gift.WithSeeder(seeder))
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	return &testEnv{engine: e, store: store, backend: backend, clock: clock}
}

// persisted decodes the document currently held by the backend.
func (env *testEnv) persisted(t *testing.T) gift.State {
	t.Helper()
	raw, err := env.backend.Get(gift.StateKey)
	if err != nil {
		t.Fatalf("backend.Get() unexpected error: %v", err)
	}
	var st gift.State
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatalf("persisted document is not valid JSON: %v", err)
	}
	return st
}

// firstPending returns the id of the first pending task for today.
func firstPending(t *testing.T, e *gift.Engine) string {
	t.Helper()
	for _, task := range e.TodayTasks() {
		if task.Status == gift.StatusPending && !task.IsRecurring() {
			return task.ID
		}
	}
	t.Fatal("no pending task today")
	return ""
}

func findTask(tasks []gift.Task, id string) (gift.Task, bool) {
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
	}
	return gift.Task{}, false
}
