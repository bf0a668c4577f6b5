package gift

import (
	"fmt"

	"go.uber.org/zap"
)

// GenerateAIVideo snapshots the number of done tasks across all days and the
// current warmth into a new video at the front of the list. Title,
// description and thumbnail are picked from a fixed rotation.
func (e *Engine) GenerateAIVideo() (AIVideo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	completed := 0
	for _, tasks := range e.state.TasksByDay {
		for _, t := range tasks {
			if t.Status == StatusDone {
				completed++
			}
		}
	}

	ms := e.clock.Now().UnixMilli()
	describe := videoDescriptions[e.rnd.IntN(len(videoDescriptions))]
	v := AIVideo{
		ID:             NewID("video"),
		Title:          videoTitles[e.rnd.IntN(len(videoTitles))],
		Description:    describe(completed, e.state.Warmth, e.state.Streak),
		ThumbnailURL:   fmt.Sprintf("https://images.unsplash.com/photo-%d?w=400&h=300&fit=crop", 1500000000000+e.rnd.Int64N(100000000)),
		TasksSnapshot:  completed,
		WarmthSnapshot: e.state.Warmth,
		GeneratedAt:    ms,
		CreatedAt:      ms,
		UpdatedAt:      ms,
	}
	e.state.AIVideos = append([]AIVideo{v}, e.state.AIVideos...)

	e.logger.Info("video generated",
		zap.String("video_id", v.ID),
		zap.Int("tasks_snapshot", completed),
		zap.Int("warmth_snapshot", v.WarmthSnapshot),
	)
	return v, e.commit(true)
}

// DeleteAIVideo removes the video with id. Unknown ids report false.
func (e *Engine) DeleteAIVideo(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	for i, v := range e.state.AIVideos {
		if v.ID == id {
			e.state.AIVideos = append(e.state.AIVideos[:i:i], e.state.AIVideos[i+1:]...)
			return true, e.commit(true)
		}
	}
	e.logger.Warn("video not found", zap.String("op", "delete_video"), zap.String("video_id", id))
	return false, e.commit(false)
}
