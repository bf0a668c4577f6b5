package gift

// Rollover advances s to today. It is a no-op when s.LastActiveDayKey is
// already today, otherwise it:
//
//   - increments the streak if yesterday's bucket has a done task and
//     resets it to zero otherwise
//   - creates today's bucket from dailyTasks if it does not exist
//   - records today as the last active day and recomputes the mood
//
// It reports whether s changed.
func Rollover(s *State, today, yesterday string, dailyTasks func() []Task) bool {
	if s.LastActiveDayKey == today {
		return false
	}

	hadDoneYesterday := false
	for _, t := range s.TasksByDay[yesterday] {
		if t.Status == StatusDone {
			hadDoneYesterday = true
			break
		}
	}

	if hadDoneYesterday {
		s.Streak++
	} else {
		s.Streak = 0
	}

	if s.TasksByDay == nil {
		s.TasksByDay = make(map[string][]Task)
	}
	if _, ok := s.TasksByDay[today]; !ok {
		tasks := dailyTasks()
		if tasks == nil {
			tasks = []Task{}
		}
		s.TasksByDay[today] = tasks
	}

	s.LastActiveDayKey = today
	s.PlushMood = MoodForWarmth(s.Warmth)
	return true
}
