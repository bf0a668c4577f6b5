package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/gift"
)

type handler struct {
	engine *gift.Engine
	logger *zap.Logger
}

// writeError maps engine errors onto statuses. Storage faults are 503: the
// change is held in memory and will be retried on the next write.
func (h *handler) writeError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	switch {
	case gift.IsStorageError(err):
		fail(ctx, http.StatusServiceUnavailable, codeStorageFault, err.Error())
	case errors.Is(err, gift.ErrInvalidRecurringGoal),
		errors.Is(err, gift.ErrUnknownRecurringGoal),
		errors.Is(err, gift.ErrInvalidDayKey),
		errors.Is(err, gift.ErrInvalidTaskType),
		errors.Is(err, gift.ErrInvalidStatus),
		errors.Is(err, errBadPhoto):
		fail(ctx, http.StatusBadRequest, codeBadRequest, err.Error())
	default:
		fail(ctx, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func badRequest(ctx *gin.Context, msg string) {
	fail(ctx, http.StatusBadRequest, codeBadRequest, msg)
}

func notFound(ctx *gin.Context, what string) {
	fail(ctx, http.StatusNotFound, codeNotFound, what+" not found")
}

func (h *handler) getState(ctx *gin.Context) {
	success(ctx, h.engine.Snapshot())
}

func (h *handler) getStats(ctx *gin.Context) {
	success(ctx, h.engine.Stats())
}

func (h *handler) listFriends(ctx *gin.Context) {
	success(ctx, h.engine.Friends())
}

func (h *handler) listTasks(ctx *gin.Context) {
	success(ctx, h.engine.AllTasks())
}

func (h *handler) todayTasks(ctx *gin.Context) {
	success(ctx, gin.H{"day": h.engine.TodayKey(), "tasks": h.engine.TodayTasks()})
}

type taskView struct {
	Task     gift.Task          `json:"task"`
	Day      string             `json:"day"`
	Progress *gift.GoalProgress `json:"progress,omitempty"`
}

func (h *handler) getTask(ctx *gin.Context) {
	id := ctx.Param("id")
	task, day, ok := h.engine.Task(id)
	if !ok {
		notFound(ctx, "task")
		return
	}
	view := taskView{Task: task, Day: day}
	if p, ok := h.engine.Progress(id); ok {
		view.Progress = &p
	}
	success(ctx, view)
}

type addTaskRequest struct {
	Title                 string `json:"title"`
	Note                  string `json:"note"`
	LinkedRecurringTaskID string `json:"linkedRecurringTaskId"`

	Type              gift.TaskType       `json:"type"`
	RecurringGoal     *gift.RecurringGoal `json:"recurringGoal"`
	CompletionHistory []gift.Completion   `json:"completionHistory"`
}

func (h *handler) addTask(ctx *gin.Context) {
	var req addTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body")
		return
	}
	title := cleanText(req.Title)
	if title == "" {
		badRequest(ctx, "title is required")
		return
	}

	if g := req.RecurringGoal; g != nil && g.Reward != nil {
		g.Reward.Title = cleanText(g.Reward.Title)
		g.Reward.Description = cleanText(g.Reward.Description)
	}
	for i := range req.CompletionHistory {
		c := &req.CompletionHistory[i]
		if err := checkPhoto(c.PhotoDataURL); err != nil {
			h.writeError(ctx, err)
			return
		}
		c.Note = cleanText(c.Note)
	}

	id, err := h.engine.AddTask(title, gift.TaskOptions{
		Note:                  cleanText(req.Note),
		Type:                  req.Type,
		RecurringGoal:         req.RecurringGoal,
		CompletionHistory:     req.CompletionHistory,
		LinkedRecurringTaskID: req.LinkedRecurringTaskID,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	task, day, _ := h.engine.Task(id)
	created(ctx, taskView{Task: task, Day: day})
}

type updateTaskRequest struct {
	Title      *string      `json:"title"`
	Note       *string      `json:"note"`
	Status     *string      `json:"status"`
	Reward     *gift.Reward `json:"reward"`
	WitnessIDs *[]string    `json:"witnessIds"`
}

func (h *handler) updateTask(ctx *gin.Context) {
	id := ctx.Param("id")
	var req updateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body")
		return
	}

	patch := gift.TaskPatch{
		Title:      cleanTextPtr(req.Title),
		Note:       cleanTextPtr(req.Note),
		Reward:     req.Reward,
		WitnessIDs: req.WitnessIDs,
	}
	if req.Status != nil {
		st := gift.TaskStatus(*req.Status)
		patch.Status = &st
	}

	applied, err := h.engine.UpdateTask(id, patch)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !applied {
		notFound(ctx, "task")
		return
	}
	task, day, _ := h.engine.Task(id)
	success(ctx, taskView{Task: task, Day: day})
}

type completeRequest struct {
	Text         string `json:"text"`
	PhotoDataURL string `json:"photoDataUrl"`
}

func (h *handler) completeTask(ctx *gin.Context) {
	id := ctx.Param("id")
	var req completeRequest
	// The body is optional.
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(ctx, "invalid request body")
		return
	}
	if err := checkPhoto(req.PhotoDataURL); err != nil {
		h.writeError(ctx, err)
		return
	}

	applied, err := h.engine.CompleteTask(id, gift.Reflection{
		Text:         cleanText(req.Text),
		PhotoDataURL: req.PhotoDataURL,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !applied {
		h.notInToday(ctx, id)
		return
	}
	success(ctx, gin.H{"taskId": id, "warmth": h.engine.Snapshot().Warmth})
}

// notInToday distinguishes unknown ids from tasks on earlier days.
func (h *handler) notInToday(ctx *gin.Context, id string) {
	if _, day, ok := h.engine.Task(id); ok {
		fail(ctx, http.StatusConflict, codeConflict, "task belongs to "+day+", not today")
		return
	}
	notFound(ctx, "task")
}

func (h *handler) restTask(ctx *gin.Context) {
	id := ctx.Param("id")
	applied, err := h.engine.MarkTaskRest(id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !applied {
		if _, _, ok := h.engine.Task(id); ok {
			fail(ctx, http.StatusConflict, codeConflict, "task is already done")
			return
		}
		notFound(ctx, "task")
		return
	}
	task, day, _ := h.engine.Task(id)
	success(ctx, taskView{Task: task, Day: day})
}

func (h *handler) deleteTask(ctx *gin.Context) {
	id := ctx.Param("id")
	applied, err := h.engine.DeleteTask(id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !applied {
		h.notInToday(ctx, id)
		return
	}
	success(ctx, gin.H{"taskId": id})
}

func (h *handler) listGoals(ctx *gin.Context) {
	goals := h.engine.RecurringGoals()
	if goals == nil {
		goals = []gift.GoalView{}
	}
	success(ctx, goals)
}

type goalDetail struct {
	gift.GoalView
	Witnesses []gift.Friend `json:"witnesses"`
}

func (h *handler) getGoal(ctx *gin.Context) {
	id := ctx.Param("id")
	progress, ok := h.engine.Progress(id)
	if !ok {
		notFound(ctx, "goal")
		return
	}
	task, day, _ := h.engine.Task(id)
	witnesses := h.engine.Witnesses(id)
	if witnesses == nil {
		witnesses = []gift.Friend{}
	}
	success(ctx, goalDetail{
		GoalView:  gift.GoalView{Task: task, Day: day, Progress: progress},
		Witnesses: witnesses,
	})
}

type startGoalRequest struct {
	Title      string       `json:"title"`
	Note       string       `json:"note"`
	TotalDays  int          `json:"totalDays"`
	StartDate  string       `json:"startDate"`
	Reward     *gift.Reward `json:"reward"`
	WitnessIDs []string     `json:"witnessIds"`
	DailyNote  string       `json:"dailyNote"`

	CompletionHistory []gift.Completion `json:"completionHistory"`
}

func (h *handler) startGoal(ctx *gin.Context) {
	var req startGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body")
		return
	}
	title := cleanText(req.Title)
	if title == "" {
		badRequest(ctx, "title is required")
		return
	}
	if req.StartDate != "" {
		if err := gift.ValidateDay(req.StartDate); err != nil {
			h.writeError(ctx, err)
			return
		}
	}
	if req.Reward != nil {
		req.Reward.Title = cleanText(req.Reward.Title)
		req.Reward.Description = cleanText(req.Reward.Description)
	}
	for i := range req.CompletionHistory {
		c := &req.CompletionHistory[i]
		if err := checkPhoto(c.PhotoDataURL); err != nil {
			h.writeError(ctx, err)
			return
		}
		c.Note = cleanText(c.Note)
	}

	masterID, dailyID, err := h.engine.StartRecurringGoal(title, gift.GoalInput{
		Note:       cleanText(req.Note),
		TotalDays:  req.TotalDays,
		StartDate:  req.StartDate,
		Reward:     req.Reward,
		WitnessIDs: req.WitnessIDs,
		DailyNote:  cleanText(req.DailyNote),

		CompletionHistory: req.CompletionHistory,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	created(ctx, gin.H{"goalId": masterID, "dailyTaskId": dailyID})
}

type addMomentRequest struct {
	Text         string `json:"text"`
	PhotoDataURL string `json:"photoDataUrl"`
	LinkedTaskID string `json:"linkedTaskId"`
}

func (h *handler) addMoment(ctx *gin.Context) {
	var req addMomentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body")
		return
	}
	if err := checkPhoto(req.PhotoDataURL); err != nil {
		h.writeError(ctx, err)
		return
	}
	text := cleanText(req.Text)
	if text == "" && req.PhotoDataURL == "" {
		badRequest(ctx, "text or photoDataUrl is required")
		return
	}

	id, err := h.engine.AddMoment(gift.MomentInput{
		Text:         text,
		PhotoDataURL: req.PhotoDataURL,
		LinkedTaskID: req.LinkedTaskID,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	created(ctx, gin.H{"momentId": id})
}

func (h *handler) deleteMoment(ctx *gin.Context) {
	id := ctx.Param("id")
	applied, err := h.engine.DeleteMoment(id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !applied {
		notFound(ctx, "moment")
		return
	}
	success(ctx, gin.H{"momentId": id})
}

func (h *handler) generateVideo(ctx *gin.Context) {
	video, err := h.engine.GenerateAIVideo()
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	created(ctx, video)
}

func (h *handler) deleteVideo(ctx *gin.Context) {
	id := ctx.Param("id")
	applied, err := h.engine.DeleteAIVideo(id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !applied {
		notFound(ctx, "video")
		return
	}
	success(ctx, gin.H{"videoId": id})
}

type warmthRequest struct {
	Amount int `json:"amount"`
}

func (h *handler) addWarmth(ctx *gin.Context) {
	var req warmthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body")
		return
	}
	warmth, err := h.engine.AddWarmth(req.Amount)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	success(ctx, gin.H{"warmth": warmth, "mood": gift.MoodForWarmth(warmth)})
}

func (h *handler) reset(ctx *gin.Context) {
	if err := h.engine.ResetAll(); err != nil {
		h.writeError(ctx, err)
		return
	}
	h.logger.Info("state reset via api", zap.String("ip", ctx.ClientIP()))
	success(ctx, h.engine.Snapshot())
}
