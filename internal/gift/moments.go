package gift

import (
	"strings"

	"go.uber.org/zap"
)

// MomentInput holds the fields of a new moment. Text or a photo is required.
type MomentInput struct {
	Text         string
	PhotoDataURL string
	LinkedTaskID string
}

// AddMoment prepends a moment and returns its id. A moment with neither
// text nor photo is ignored.
func (e *Engine) AddMoment(in MomentInput) (string, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && in.PhotoDataURL == "" {
		e.logger.Debug("ignoring empty moment", zap.String("op", "add_moment"))
		return "", nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	ms := e.clock.Now().UnixMilli()
	m := Moment{
		ID:           NewID("moment"),
		Text:         text,
		PhotoDataURL: in.PhotoDataURL,
		LinkedTaskID: in.LinkedTaskID,
		CreatedAt:    ms,
		UpdatedAt:    ms,
	}
	e.state.Moments = append([]Moment{m}, e.state.Moments...)
	return m.ID, e.commit(true)
}

// DeleteMoment removes the moment with id. Unknown ids report false.
func (e *Engine) DeleteMoment(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	for i, m := range e.state.Moments {
		if m.ID == id {
			e.state.Moments = append(e.state.Moments[:i:i], e.state.Moments[i+1:]...)
			return true, e.commit(true)
		}
	}
	e.logger.Warn("moment not found", zap.String("op", "delete_moment"), zap.String("moment_id", id))
	return false, e.commit(false)
}
