package gift

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/daykey"
)

// Engine owns the state document and funnels every mutation through a
// single lock: an operation reads the state, mutates it and persists it
// before the next operation observes it.
//
// Day rollover runs on every access. When a persist fails the mutation is
// kept in memory, the engine is marked dirty and the next successful
// persist writes it out.
type Engine struct {
	mu     sync.Mutex
	store  *Store
	clock  daykey.Clock
	seeder Seeder
	logger *zap.Logger
	rnd    *rand.Rand

	state State
	index map[string]string // task id -> day key
	dirty bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. Defaults to daykey.SystemClock.
func WithClock(c daykey.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSeeder sets the first-run and new-day seeder. Defaults to BlankSeeder.
func WithSeeder(s Seeder) Option {
	return func(e *Engine) { e.seeder = s }
}

// WithLogger sets the engine logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRand sets the source for cosmetic choices such as video titles.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

// Open loads the state from store, seeding and persisting a fresh document
// on first run, and applies any pending day rollover.
func Open(store *Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:  store,
		clock:  daykey.SystemClock{},
		seeder: BlankSeeder{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x2545f4914f6cdd1d))
	}

	state, created, err := store.Load(func() State {
		return e.seeder.InitialState(e.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	e.state = state
	e.reindex()
	e.rollover()

	if created {
		e.logger.Info("seeded new state document", zap.String("day", e.state.LastActiveDayKey))
	}
	if created || e.dirty {
		if err := e.persist(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// rollover applies the day transition if today differs from the last active
// day. Callers hold e.mu.
func (e *Engine) rollover() {
	now := e.clock.Now()
	today := daykey.Key(now)
	yesterday := daykey.Key(now.AddDate(0, 0, -1))

	prevStreak := e.state.Streak
	changed := Rollover(&e.state, today, yesterday, func() []Task {
		return e.seeder.DailyTasks(now)
	})
	if !changed {
		return
	}

	e.dirty = true
	e.indexDay(today)
	e.logger.Info("day rollover",
		zap.String("day", today),
		zap.Int("previous_streak", prevStreak),
		zap.Int("streak", e.state.Streak),
	)
}

// persist writes the whole document. Callers hold e.mu.
func (e *Engine) persist() error {
	if err := e.store.Save(e.state); err != nil {
		e.dirty = true
		e.logger.Error("failed to persist state", zap.Error(err))
		return err
	}
	e.dirty = false
	return nil
}

// commit persists when the operation changed state or earlier changes are
// still unsaved.
func (e *Engine) commit(applied bool) error {
	if !applied && !e.dirty {
		return nil
	}
	if applied {
		e.dirty = true
	}
	return e.persist()
}

func (e *Engine) reindex() {
	e.index = make(map[string]string)
	for day := range e.state.TasksByDay {
		e.indexDay(day)
	}
}

func (e *Engine) indexDay(day string) {
	for _, t := range e.state.TasksByDay[day] {
		e.index[t.ID] = day
	}
}

// locate finds a task in any bucket. The index is consulted first and
// repaired by a full scan if it is stale.
func (e *Engine) locate(id string) (day string, i int, ok bool) {
	if day, ok := e.index[id]; ok {
		if i := indexOf(e.state.TasksByDay[day], id); i >= 0 {
			return day, i, true
		}
	}
	for day, tasks := range e.state.TasksByDay {
		if i := indexOf(tasks, id); i >= 0 {
			e.index[id] = day
			return day, i, true
		}
	}
	delete(e.index, id)
	return "", -1, false
}

func indexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) today() (time.Time, string) {
	now := e.clock.Now()
	return now, daykey.Key(now)
}

// prepend inserts t at the front of day's bucket.
func (e *Engine) prepend(day string, t Task) {
	if e.state.TasksByDay == nil {
		e.state.TasksByDay = make(map[string][]Task)
	}
	e.state.TasksByDay[day] = append([]Task{t}, e.state.TasksByDay[day]...)
	e.index[t.ID] = day
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()
	return e.state.Clone()
}

// TodayKey returns the current day key.
func (e *Engine) TodayKey() string {
	_, today := e.today()
	return today
}

// TodayTasks returns today's bucket, newest first.
func (e *Engine) TodayTasks() []Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()
	_, today := e.today()
	tasks := make([]Task, 0, len(e.state.TasksByDay[today]))
	for _, t := range e.state.TasksByDay[today] {
		tasks = append(tasks, t.Clone())
	}
	return tasks
}

// AllTasks returns every task across every day, newest day first. Tasks
// within a day keep their bucket order.
func (e *Engine) AllTasks() []Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	all := make([]Task, 0, len(e.index))
	for _, day := range e.sortedDays() {
		for _, t := range e.state.TasksByDay[day] {
			all = append(all, t.Clone())
		}
	}
	return all
}

// Task returns the task with id from any day, and the day it lives in.
func (e *Engine) Task(id string) (Task, string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()
	day, i, ok := e.locate(id)
	if !ok {
		return Task{}, "", false
	}
	return e.state.TasksByDay[day][i].Clone(), day, true
}

// Friends returns the read-only friend list.
func (e *Engine) Friends() []Friend {
	e.mu.Lock()
	defer e.mu.Unlock()
	friends := make([]Friend, len(e.state.Friends))
	for i, f := range e.state.Friends {
		friends[i] = f.clone()
	}
	return friends
}

// Refresh applies any pending rollover and persists unsaved changes.
func (e *Engine) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()
	return e.commit(false)
}

// Dirty reports whether in-memory changes have not been persisted.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Stats summarizes the document for dashboards.
type Stats struct {
	TotalTasks   int    `json:"totalTasks"`
	DoneTasks    int    `json:"doneTasks"`
	RestTasks    int    `json:"restTasks"`
	PendingTasks int    `json:"pendingTasks"`
	ActiveDays   int    `json:"activeDays"`
	Goals        int    `json:"goals"`
	Moments      int    `json:"moments"`
	Videos       int    `json:"videos"`
	Warmth       int    `json:"warmth"`
	Streak       int    `json:"streak"`
	Mood         Mood   `json:"mood"`
	Today        string `json:"today"`
}

// Stats counts tasks by status. A day is active when it has a done task.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	_, today := e.today()
	st := Stats{
		Moments: len(e.state.Moments),
		Videos:  len(e.state.AIVideos),
		Warmth:  e.state.Warmth,
		Streak:  e.state.Streak,
		Mood:    e.state.PlushMood,
		Today:   today,
	}
	for _, tasks := range e.state.TasksByDay {
		active := false
		for _, t := range tasks {
			st.TotalTasks++
			if t.IsRecurring() {
				st.Goals++
			}
			switch t.Status {
			case StatusDone:
				st.DoneTasks++
				active = true
			case StatusRest:
				st.RestTasks++
			default:
				st.PendingTasks++
			}
		}
		if active {
			st.ActiveDays++
		}
	}
	return st
}

// sortedDays returns the bucket keys, newest first.
func (e *Engine) sortedDays() []string {
	days := make([]string, 0, len(e.state.TasksByDay))
	for day := range e.state.TasksByDay {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days
}
