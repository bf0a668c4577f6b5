package gift

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/daykey"
)

// GoalInput describes a new recurring goal.
type GoalInput struct {
	Note      string
	TotalDays int
	// StartDate defaults to today.
	StartDate         string
	Reward            *Reward
	WitnessIDs        []string
	CompletionHistory []Completion
	// DailyNote is the note on today's linked task. Defaults to a short
	// encouragement naming the goal length.
	DailyNote string
}

// GoalView pairs a recurring master with its derived progress.
type GoalView struct {
	Task     Task         `json:"task"`
	Day      string       `json:"day"`
	Progress GoalProgress `json:"progress"`
}

// StartRecurringGoal creates a recurring master in today's bucket and,
// unless today is already recorded as completed, a linked daily task for
// today. Both are written in one persist. An empty title is ignored.
func (e *Engine) StartRecurringGoal(title string, in GoalInput) (masterID, dailyID string, err error) {
	title = strings.TrimSpace(title)
	if title == "" {
		e.logger.Debug("ignoring goal with empty title", zap.String("op", "start_goal"))
		return "", "", nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	now, today := e.today()
	ms := now.UnixMilli()

	start := in.StartDate
	if start == "" {
		start = today
	}
	master, err := e.newTask(title, TaskOptions{
		Note: in.Note,
		Type: TypeRecurring,
		RecurringGoal: &RecurringGoal{
			TotalDays:  in.TotalDays,
			StartDate:  start,
			Reward:     in.Reward,
			WitnessIDs: in.WitnessIDs,
		},
		CompletionHistory: in.CompletionHistory,
	}, ms)
	if err != nil {
		return "", "", err
	}
	e.prepend(today, master)

	doneToday := false
	for _, c := range master.CompletionHistory {
		if c.Date == today && c.Completed {
			doneToday = true
		}
	}
	if !doneToday {
		note := in.DailyNote
		if note == "" {
			note = fmt.Sprintf("Part of your %d-day challenge! Keep going! 💪", in.TotalDays)
		}
		daily, err := e.newTask(title, TaskOptions{Note: note, LinkedRecurringTaskID: master.ID}, ms)
		if err != nil {
			return "", "", err
		}
		e.prepend(today, daily)
		dailyID = daily.ID
	}

	e.logger.Info("recurring goal started",
		zap.String("op", "start_goal"),
		zap.String("task_id", master.ID),
		zap.Int("total_days", in.TotalDays),
		zap.String("start_date", start),
	)
	return master.ID, dailyID, e.commit(true)
}

// Progress derives goal progress for a recurring master. ok is false when
// taskID is unknown or not recurring.
func (e *Engine) Progress(taskID string) (GoalProgress, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	day, i, ok := e.locate(taskID)
	if !ok || !e.state.TasksByDay[day][i].IsRecurring() {
		return GoalProgress{}, false
	}
	return ProgressOf(e.state.TasksByDay[day][i]), true
}

// RecurringGoals lists every recurring master, newest day first.
func (e *Engine) RecurringGoals() []GoalView {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	var goals []GoalView
	for _, day := range e.sortedDays() {
		for _, t := range e.state.TasksByDay[day] {
			if !t.IsRecurring() {
				continue
			}
			goals = append(goals, GoalView{Task: t.Clone(), Day: day, Progress: ProgressOf(t)})
		}
	}
	return goals
}

// Witnesses returns the friends named in a goal's witness list. Unknown
// friend ids are skipped.
func (e *Engine) Witnesses(taskID string) []Friend {
	e.mu.Lock()
	defer e.mu.Unlock()

	day, i, ok := e.locate(taskID)
	if !ok {
		return nil
	}
	goal := e.state.TasksByDay[day][i].RecurringGoal
	if goal == nil {
		return nil
	}

	byID := make(map[string]Friend, len(e.state.Friends))
	for _, f := range e.state.Friends {
		byID[f.ID] = f
	}
	var out []Friend
	for _, id := range goal.WitnessIDs {
		if f, ok := byID[id]; ok {
			out = append(out, f.clone())
		}
	}
	return out
}

// ValidateDay reports ErrInvalidDayKey for malformed keys.
func ValidateDay(key string) error {
	if !daykey.Valid(key) {
		return fmt.Errorf("%w: %q", ErrInvalidDayKey, key)
	}
	return nil
}
