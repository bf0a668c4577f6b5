package gift

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/daykey"
)

// TaskOptions are the optional fields of AddTask.
type TaskOptions struct {
	Note              string
	Type              TaskType
	RecurringGoal     *RecurringGoal
	CompletionHistory []Completion
	// LinkedRecurringTaskID must name an existing recurring master.
	LinkedRecurringTaskID string
}

// TaskPatch holds the fields UpdateTask merges. Nil fields are left alone.
type TaskPatch struct {
	Title  *string
	Note   *string
	Status *TaskStatus
	// Reward and WitnessIDs apply to recurring masters only.
	Reward     *Reward
	WitnessIDs *[]string
}

// Reflection is the optional text and photo recorded with a completion.
type Reflection struct {
	Text         string
	PhotoDataURL string
}

// DefaultReflectionText is used when a reflection carries only a photo.
const DefaultReflectionText = "Completed a task! 🎉"

// AddTask prepends a pending task to today's bucket and returns its id.
// A title that is empty after trimming is ignored: the returned id is empty
// and err is nil.
func (e *Engine) AddTask(title string, opts TaskOptions) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		e.logger.Debug("ignoring task with empty title", zap.String("op", "add_task"))
		return "", nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	now, today := e.today()
	task, err := e.newTask(title, opts, now.UnixMilli())
	if err != nil {
		return "", err
	}
	e.prepend(today, task)

	e.logger.Debug("task added",
		zap.String("op", "add_task"),
		zap.String("task_id", task.ID),
		zap.String("day", today),
		zap.String("type", string(task.Type)),
	)
	return task.ID, e.commit(true)
}

// newTask validates opts and builds a pending task. Callers hold e.mu.
func (e *Engine) newTask(title string, opts TaskOptions, ms int64) (Task, error) {
	typ := opts.Type
	if typ == "" {
		typ = TypeSingle
	}

	task := Task{
		ID:        NewID("task"),
		Title:     title,
		Note:      strings.TrimSpace(opts.Note),
		Status:    StatusPending,
		Type:      typ,
		CreatedAt: ms,
		UpdatedAt: ms,
	}

	switch typ {
	case TypeSingle:
		if opts.RecurringGoal != nil || len(opts.CompletionHistory) > 0 {
			return Task{}, fmt.Errorf("%w: goal fields given for a single task", ErrInvalidRecurringGoal)
		}
	case TypeRecurring:
		g := opts.RecurringGoal
		if g == nil || g.TotalDays <= 0 || !daykey.Valid(g.StartDate) {
			return Task{}, ErrInvalidRecurringGoal
		}
		for _, c := range opts.CompletionHistory {
			if !daykey.Valid(c.Date) {
				return Task{}, fmt.Errorf("%w: completion date %q", ErrInvalidDayKey, c.Date)
			}
		}
		goal := Task{RecurringGoal: g}.Clone().RecurringGoal
		task.RecurringGoal = goal
		task.CompletionHistory = dedupeHistory(opts.CompletionHistory)
	default:
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidTaskType, typ)
	}

	if link := opts.LinkedRecurringTaskID; link != "" {
		day, i, ok := e.locate(link)
		if !ok || !e.state.TasksByDay[day][i].IsRecurring() {
			return Task{}, fmt.Errorf("%w: %s", ErrUnknownRecurringGoal, link)
		}
		task.LinkedRecurringTaskID = link
	}
	return task, nil
}

// UpdateTask merges patch into the task with taskID, searching every day.
// It reports whether the task was found. A done task keeps its status so
// its warmth credit cannot be earned twice.
func (e *Engine) UpdateTask(taskID string, patch TaskPatch) (bool, error) {
	if patch.Status != nil && *patch.Status != StatusPending && *patch.Status != StatusRest {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	applied := e.update(taskID, patch)
	return applied, e.commit(applied)
}

// update applies patch. Callers hold e.mu.
func (e *Engine) update(taskID string, patch TaskPatch) bool {
	day, i, ok := e.locate(taskID)
	if !ok {
		e.logger.Warn("task not found", zap.String("op", "update_task"), zap.String("task_id", taskID))
		return false
	}
	t := &e.state.TasksByDay[day][i]

	if patch.Title != nil {
		if title := strings.TrimSpace(*patch.Title); title != "" {
			t.Title = title
		} else {
			e.logger.Debug("ignoring empty title in update", zap.String("task_id", taskID))
		}
	}
	if patch.Note != nil {
		t.Note = strings.TrimSpace(*patch.Note)
	}
	if patch.Status != nil {
		if t.Status == StatusDone {
			e.logger.Info("keeping done status",
				zap.String("op", "update_task"),
				zap.String("task_id", taskID),
				zap.String("requested", string(*patch.Status)),
			)
		} else {
			t.Status = *patch.Status
		}
	}
	if t.IsRecurring() && t.RecurringGoal != nil {
		if patch.Reward != nil {
			r := *patch.Reward
			t.RecurringGoal.Reward = &r
		}
		if patch.WitnessIDs != nil {
			t.RecurringGoal.WitnessIDs = append([]string{}, (*patch.WitnessIDs)...)
		}
	}

	t.UpdatedAt = e.clock.Now().UnixMilli()
	return true
}

// MarkTaskDone completes a task in today's bucket. The first transition into
// done credits WarmthBonus; a linked recurring master gets today's entry
// marked completed on every call.
func (e *Engine) MarkTaskDone(taskID string) (bool, error) {
	return e.CompleteTask(taskID, Reflection{})
}

// CompleteTask is MarkTaskDone plus an optional reflection. When the
// reflection has text or a photo it is saved as a Moment linked to the task
// and attached to the recurring master's entry for today.
func (e *Engine) CompleteTask(taskID string, r Reflection) (bool, error) {
	r.Text = strings.TrimSpace(r.Text)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	now, today := e.today()
	ms := now.UnixMilli()

	bucket := e.state.TasksByDay[today]
	i := indexOf(bucket, taskID)
	if i < 0 {
		e.logger.Warn("task not found in today's bucket",
			zap.String("op", "mark_done"),
			zap.String("task_id", taskID),
			zap.String("day", today),
		)
		return false, e.commit(false)
	}

	t := &bucket[i]
	prev := t.Status
	t.Status = StatusDone
	t.UpdatedAt = ms

	if prev != StatusDone {
		e.state.Warmth = addWarmth(e.state.Warmth, WarmthBonus)
	}
	e.state.PlushMood = MoodForWarmth(e.state.Warmth)

	if t.LinkedRecurringTaskID != "" {
		e.recordGoalDay(t.LinkedRecurringTaskID, today, ms, r)
	}

	if r.Text != "" || r.PhotoDataURL != "" {
		text := r.Text
		if text == "" {
			text = DefaultReflectionText
		}
		e.state.Moments = append([]Moment{{
			ID:           NewID("moment"),
			Text:         text,
			PhotoDataURL: r.PhotoDataURL,
			LinkedTaskID: taskID,
			CreatedAt:    ms,
			UpdatedAt:    ms,
		}}, e.state.Moments...)
	}

	e.logger.Debug("task done",
		zap.String("op", "mark_done"),
		zap.String("task_id", taskID),
		zap.Bool("credited", prev != StatusDone),
		zap.Int("warmth", e.state.Warmth),
	)
	return true, e.commit(true)
}

// recordGoalDay marks day completed on the recurring master. A missing or
// non-recurring master is logged and skipped. Callers hold e.mu.
func (e *Engine) recordGoalDay(masterID, day string, ms int64, r Reflection) {
	mday, i, ok := e.locate(masterID)
	if !ok || !e.state.TasksByDay[mday][i].IsRecurring() {
		e.logger.Warn("linked recurring goal missing",
			zap.String("task_id", masterID),
			zap.String("day", day),
		)
		return
	}

	master := &e.state.TasksByDay[mday][i]
	master.CompletionHistory = upsertCompletion(master.CompletionHistory, day)
	if r.Text != "" || r.PhotoDataURL != "" {
		for j := range master.CompletionHistory {
			c := &master.CompletionHistory[j]
			if c.Date != day {
				continue
			}
			if r.Text != "" {
				c.Note = r.Text
			}
			if r.PhotoDataURL != "" {
				c.PhotoDataURL = r.PhotoDataURL
			}
		}
	}
	master.UpdatedAt = ms
}

// MarkTaskRest sets a task to rest. Done tasks are left alone and reported
// as not applied.
func (e *Engine) MarkTaskRest(taskID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	if day, i, ok := e.locate(taskID); ok && e.state.TasksByDay[day][i].Status == StatusDone {
		e.logger.Info("not resting a done task", zap.String("op", "mark_rest"), zap.String("task_id", taskID))
		return false, e.commit(false)
	}

	rest := StatusRest
	applied := e.update(taskID, TaskPatch{Status: &rest})
	return applied, e.commit(applied)
}

// DeleteTask removes a task from today's bucket. References to it from
// other tasks are left in place.
func (e *Engine) DeleteTask(taskID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	_, today := e.today()
	bucket := e.state.TasksByDay[today]
	i := indexOf(bucket, taskID)
	if i < 0 {
		e.logger.Warn("task not found in today's bucket",
			zap.String("op", "delete_task"),
			zap.String("task_id", taskID),
			zap.String("day", today),
		)
		return false, e.commit(false)
	}

	e.state.TasksByDay[today] = append(bucket[:i:i], bucket[i+1:]...)
	delete(e.index, taskID)
	return true, e.commit(true)
}

// AddWarmth adjusts warmth by amount, clamped to [MinWarmth, MaxWarmth],
// and returns the new value.
func (e *Engine) AddWarmth(amount int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	e.state.Warmth = addWarmth(e.state.Warmth, amount)
	e.state.PlushMood = MoodForWarmth(e.state.Warmth)
	return e.state.Warmth, e.commit(true)
}

// ResetAll replaces the document with a freshly seeded one.
func (e *Engine) ResetAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = e.seeder.InitialState(e.clock.Now())
	e.reindex()
	e.logger.Info("state reset", zap.String("day", e.state.LastActiveDayKey))
	return e.commit(true)
}
