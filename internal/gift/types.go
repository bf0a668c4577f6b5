// Package gift implements the habit-and-reward tracking engine: the persisted
// state document, its derived metrics, day rollover and the task, goal,
// moment and video operations.
package gift

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusDone    TaskStatus = "done"
	StatusRest    TaskStatus = "rest"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusRest:
		return true
	}
	return false
}

// TaskType distinguishes one-off tasks from recurring goal masters.
type TaskType string

const (
	TypeSingle    TaskType = "single"
	TypeRecurring TaskType = "recurring"
)

// Mood is the plush companion's mood, derived from warmth.
type Mood string

const (
	MoodSleepy Mood = "sleepy"
	MoodCalm   Mood = "calm"
	MoodHappy  Mood = "happy"
	MoodSpark  Mood = "spark"
)

// Reward is earned when a recurring goal completes.
type Reward struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// RecurringGoal describes a multi-day challenge carried by a master task.
type RecurringGoal struct {
	TotalDays  int      `json:"totalDays"`
	StartDate  string   `json:"startDate"`
	Reward     *Reward  `json:"reward,omitempty"`
	WitnessIDs []string `json:"witnessIds,omitempty"`
}

// Completion is one tracked day of a recurring goal.
type Completion struct {
	Date         string `json:"date"`
	Completed    bool   `json:"completed"`
	Note         string `json:"note,omitempty"`
	PhotoDataURL string `json:"photoDataUrl,omitempty"`
}

// Task lives in exactly one day bucket of State.TasksByDay.
type Task struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Note   string     `json:"note,omitempty"`
	Status TaskStatus `json:"status"`
	Type   TaskType   `json:"type,omitempty"`

	RecurringGoal     *RecurringGoal `json:"recurringGoal,omitempty"`
	CompletionHistory []Completion   `json:"completionHistory,omitempty"`

	// LinkedRecurringTaskID points a daily task at the recurring master it
	// stands in for today.
	LinkedRecurringTaskID string `json:"linkedRecurringTaskId,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// IsRecurring reports whether t is a recurring goal master.
func (t Task) IsRecurring() bool {
	return t.Type == TypeRecurring
}

// Moment is a saved note or photo, optionally tied to a task.
type Moment struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	PhotoDataURL string `json:"photoDataUrl,omitempty"`
	LinkedTaskID string `json:"linkedTaskId,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
}

// AIVideo is an immutable progress summary.
type AIVideo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ThumbnailURL   string `json:"thumbnailUrl"`
	VideoURL       string `json:"videoUrl,omitempty"`
	TasksSnapshot  int    `json:"tasksSnapshot"`
	WarmthSnapshot int    `json:"warmthSnapshot"`
	GeneratedAt    int64  `json:"generatedAt"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
}

// Friend is a read-only demo companion with their recent videos.
type Friend struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Warmth       int       `json:"warmth"`
	Streak       int       `json:"streak"`
	LastActive   int64     `json:"lastActive"`
	RecentVideos []AIVideo `json:"recentVideos"`
	CreatedAt    int64     `json:"createdAt"`
	UpdatedAt    int64     `json:"updatedAt"`
}

// State is the single persisted document.
//
// TasksByDay buckets are ordered newest first; Moments and AIVideos are also
// newest first.
type State struct {
	Warmth           int               `json:"warmth"`
	Streak           int               `json:"streak"`
	LastActiveDayKey string            `json:"lastActiveDayKey"`
	PlushMood        Mood              `json:"plushMood"`
	TasksByDay       map[string][]Task `json:"tasksByDay"`
	Moments          []Moment          `json:"moments"`
	AIVideos         []AIVideo         `json:"aiVideos"`
	Friends          []Friend          `json:"friends"`
}

// AllTasks flattens every bucket. Cross-day order is unspecified.
func (s State) AllTasks() []Task {
	n := 0
	for _, tasks := range s.TasksByDay {
		n += len(tasks)
	}
	all := make([]Task, 0, n)
	for _, tasks := range s.TasksByDay {
		for _, t := range tasks {
			all = append(all, t.Clone())
		}
	}
	return all
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	if t.RecurringGoal != nil {
		g := *t.RecurringGoal
		if g.Reward != nil {
			r := *g.Reward
			g.Reward = &r
		}
		if g.WitnessIDs != nil {
			g.WitnessIDs = append([]string{}, g.WitnessIDs...)
		}
		c.RecurringGoal = &g
	}
	if t.CompletionHistory != nil {
		c.CompletionHistory = append([]Completion{}, t.CompletionHistory...)
	}
	return c
}

func (f Friend) clone() Friend {
	c := f
	if f.RecentVideos != nil {
		c.RecentVideos = append([]AIVideo{}, f.RecentVideos...)
	}
	return c
}

// Clone returns a deep copy of s. Nil slices and maps stay nil.
func (s State) Clone() State {
	c := s
	if s.TasksByDay != nil {
		c.TasksByDay = make(map[string][]Task, len(s.TasksByDay))
		for day, tasks := range s.TasksByDay {
			if tasks == nil {
				c.TasksByDay[day] = nil
				continue
			}
			cp := make([]Task, len(tasks))
			for i, t := range tasks {
				cp[i] = t.Clone()
			}
			c.TasksByDay[day] = cp
		}
	}
	if s.Moments != nil {
		c.Moments = append([]Moment{}, s.Moments...)
	}
	if s.AIVideos != nil {
		c.AIVideos = append([]AIVideo{}, s.AIVideos...)
	}
	if s.Friends != nil {
		c.Friends = make([]Friend, len(s.Friends))
		for i, f := range s.Friends {
			c.Friends[i] = f.clone()
		}
	}
	return c
}
