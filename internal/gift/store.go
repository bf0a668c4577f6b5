package gift

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/storage"
)

// StateKey is the single key the state document is stored under.
const StateKey = "gift_app_state_v2"

// Store loads and saves the state document through a storage backend. Every
// read and write moves the whole document.
type Store struct {
	backend storage.StorageBackend
	logger  *zap.Logger
}

// NewStore wraps backend. A nil logger is replaced by a no-op logger.
func NewStore(backend storage.StorageBackend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Backend returns the underlying storage backend.
func (s *Store) Backend() storage.StorageBackend {
	return s.backend
}

// retry runs fn, and once more if the first attempt fails.
func (s *Store) retry(op string, fn func() error) error {
	err := fn()
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		return err
	}
	s.logger.Warn("storage operation failed, retrying", zap.String("op", op), zap.Error(err))
	return fn()
}

// Load reads the document. When none exists it returns fresh() and created
// is true. Older documents are migrated before they are returned.
func (s *Store) Load(fresh func() State) (state State, created bool, err error) {
	var raw []byte
	err = s.retry("load", func() error {
		var getErr error
		raw, getErr = s.backend.Get(StateKey)
		return getErr
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fresh(), true, nil
	}
	if err != nil {
		return State{}, false, &StorageError{Op: "load", Err: err}
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, false, &StorageError{Op: "decode", Err: err}
	}

	if migrate(&state, func() []Friend { return fresh().Friends }) {
		s.logger.Info("migrated state document", zap.String("key", StateKey))
	}
	return state, false, nil
}

// Save overwrites the stored document with state.
func (s *Store) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}
	if err := s.retry("save", func() error { return s.backend.Set(StateKey, data) }); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Delete removes the stored document. A later Load seeds a fresh one.
func (s *Store) Delete() error {
	if err := s.retry("delete", func() error { return s.backend.Remove(StateKey) }); err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// Purge clears every key in the backend's namespace. Unlike Load it does not
// need a readable document, so it also recovers a corrupt store.
func (s *Store) Purge() error {
	if err := s.retry("purge", s.backend.Clear); err != nil {
		return &StorageError{Op: "purge", Err: err}
	}
	return nil
}

// migrate backfills fields that older documents lack. It reports whether
// anything changed.
func migrate(s *State, seedFriends func() []Friend) bool {
	changed := false
	if s.AIVideos == nil {
		s.AIVideos = []AIVideo{}
		changed = true
	}
	if s.Friends == nil {
		s.Friends = seedFriends()
		if s.Friends == nil {
			s.Friends = []Friend{}
		}
		changed = true
	}
	if s.Moments == nil {
		s.Moments = []Moment{}
		changed = true
	}
	if s.TasksByDay == nil {
		s.TasksByDay = map[string][]Task{}
		changed = true
	}
	for day, tasks := range s.TasksByDay {
		if tasks == nil {
			s.TasksByDay[day] = []Task{}
			changed = true
			continue
		}
		for i := range tasks {
			t := &tasks[i]
			if t.Type == "" {
				t.Type = TypeSingle
				changed = true
			}
			if t.IsRecurring() && t.CompletionHistory == nil {
				t.CompletionHistory = []Completion{}
				changed = true
			}
		}
	}
	for i := range s.Friends {
		if s.Friends[i].RecentVideos == nil {
			s.Friends[i].RecentVideos = []AIVideo{}
			changed = true
		}
	}
	if s.PlushMood == "" {
		s.PlushMood = MoodForWarmth(s.Warmth)
		changed = true
	}
	return changed
}
