package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/gift"
)

// Handlers binds MCP tool calls to a gift engine. Handler failures are
// reported as tool errors; the Go error return is reserved for protocol
// problems and is always nil here.
type Handlers struct {
	engine *gift.Engine
	logger *zap.Logger
}

// NewHandlers returns Handlers for engine. A nil logger is replaced by a
// no-op logger.
func NewHandlers(engine *gift.Engine, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{engine: engine, logger: logger}
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// engineError turns an engine error into a tool error. Storage errors note
// that the change is still held in memory.
func (h *Handlers) engineError(tool string, err error) *mcp.CallToolResult {
	h.logger.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
	if gift.IsStorageError(err) {
		return mcp.NewToolResultError(fmt.Sprintf("Change applied in memory but could not be saved: %v", err))
	}
	return mcp.NewToolResultError(err.Error())
}

func requireID(request mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	id, err := request.RequireString(name)
	if err != nil || strings.TrimSpace(id) == "" {
		return "", mcp.NewToolResultError("Missing required parameter: " + name)
	}
	return strings.TrimSpace(id), nil
}

// intArg reads a whole number. JSON numbers arrive as float64.
func intArg(args map[string]any, name string) (int, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, true, fmt.Errorf("parameter %s must be a number", name)
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, true, fmt.Errorf("parameter %s must be a whole number", name)
	}
	return int(f), true, nil
}

func stringSliceArg(args map[string]any, name string) (*[]string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %s must be an array of strings", name)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("invalid %s entry at index %d", name, i)
		}
		out = append(out, s)
	}
	return &out, nil
}

func rewardArg(args map[string]any) (*gift.Reward, error) {
	raw, ok := args["reward"]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameter reward must be an object")
	}
	r := &gift.Reward{}
	r.Title, _ = obj["title"].(string)
	r.Description, _ = obj["description"].(string)
	r.ImageURL, _ = obj["imageUrl"].(string)
	if strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("reward.title is required")
	}
	return r, nil
}

// completionsArg reads an optional array of {date, completed, note} objects.
func completionsArg(args map[string]any, key string) ([]gift.Completion, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %s must be an array", key)
	}
	out := make([]gift.Completion, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parameter %s must contain objects", key)
		}
		date, _ := obj["date"].(string)
		if err := gift.ValidateDay(date); err != nil {
			return nil, fmt.Errorf("invalid %s date %q: want YYYY-MM-DD", key, date)
		}
		c := gift.Completion{Date: date}
		c.Completed, _ = obj["completed"].(bool)
		c.Note, _ = obj["note"].(string)
		out = append(out, c)
	}
	return out, nil
}

// HandleGetState returns the whole document.
func (h *Handlers) HandleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.engine.Snapshot())
}

// HandleListTasks returns today's tasks or every task.
func (h *Handlers) HandleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch scope := request.GetString("scope", "today"); scope {
	case "today":
		return jsonResult(map[string]any{
			"day":   h.engine.TodayKey(),
			"tasks": h.engine.TodayTasks(),
		})
	case "all":
		return jsonResult(h.engine.AllTasks())
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Invalid scope: %s (want 'today' or 'all')", scope)), nil
	}
}

// HandleAddTask adds a task to today's bucket.
func (h *Handlers) HandleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil || strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}

	id, err := h.engine.AddTask(title, gift.TaskOptions{
		Note:                  request.GetString("note", ""),
		LinkedRecurringTaskID: request.GetString("linked_goal_id", ""),
	})
	if err != nil {
		return h.engineError("add_task", err), nil
	}
	task, day, _ := h.engine.Task(id)
	return jsonResult(map[string]any{"day": day, "task": task})
}

// HandleUpdateTask merges the given fields into a task.
func (h *Handlers) HandleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(request, "task_id")
	if res != nil {
		return res, nil
	}
	args := request.GetArguments()

	var patch gift.TaskPatch
	if v, ok := args["title"].(string); ok {
		patch.Title = &v
	}
	if v, ok := args["note"].(string); ok {
		patch.Note = &v
	}
	if v, ok := args["status"].(string); ok && v != "" {
		st := gift.TaskStatus(v)
		patch.Status = &st
	}
	reward, err := rewardArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	patch.Reward = reward
	witnesses, err := stringSliceArg(args, "witness_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	patch.WitnessIDs = witnesses

	applied, err := h.engine.UpdateTask(id, patch)
	if err != nil {
		return h.engineError("update_task", err), nil
	}
	if !applied {
		return mcp.NewToolResultError("Task not found: " + id), nil
	}
	task, day, _ := h.engine.Task(id)
	return jsonResult(map[string]any{"day": day, "task": task})
}

// HandleCompleteTask marks one of today's tasks done.
func (h *Handlers) HandleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(request, "task_id")
	if res != nil {
		return res, nil
	}
	photo := request.GetString("photo_data_url", "")
	if photo != "" && !strings.HasPrefix(photo, "data:image/") {
		return mcp.NewToolResultError("photo_data_url must be a data:image/ URL"), nil
	}

	applied, err := h.engine.CompleteTask(id, gift.Reflection{
		Text:         request.GetString("text", ""),
		PhotoDataURL: photo,
	})
	if err != nil {
		return h.engineError("complete_task", err), nil
	}
	if !applied {
		return h.notInToday(id), nil
	}
	st := h.engine.Snapshot()
	return mcp.NewToolResultText(fmt.Sprintf("Task %s done. Warmth: %d (%s).", id, st.Warmth, st.PlushMood)), nil
}

func (h *Handlers) notInToday(id string) *mcp.CallToolResult {
	if _, day, ok := h.engine.Task(id); ok {
		return mcp.NewToolResultError(fmt.Sprintf("Task %s belongs to %s; only today's tasks can be changed this way.", id, day))
	}
	return mcp.NewToolResultError("Task not found: " + id)
}

// HandleRestTask marks a task as a rest day.
func (h *Handlers) HandleRestTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(request, "task_id")
	if res != nil {
		return res, nil
	}
	applied, err := h.engine.MarkTaskRest(id)
	if err != nil {
		return h.engineError("rest_task", err), nil
	}
	if !applied {
		if _, _, ok := h.engine.Task(id); ok {
			return mcp.NewToolResultError("Task is already done: " + id), nil
		}
		return mcp.NewToolResultError("Task not found: " + id), nil
	}
	return mcp.NewToolResultText("Task " + id + " is resting."), nil
}

// HandleDeleteTask removes one of today's tasks.
func (h *Handlers) HandleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(request, "task_id")
	if res != nil {
		return res, nil
	}
	applied, err := h.engine.DeleteTask(id)
	if err != nil {
		return h.engineError("delete_task", err), nil
	}
	if !applied {
		return h.notInToday(id), nil
	}
	return mcp.NewToolResultText("Task " + id + " deleted."), nil
}

// HandleStartGoal creates a recurring goal and today's linked task.
func (h *Handlers) HandleStartGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil || strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}
	args := request.GetArguments()

	days, ok, err := intArg(args, "total_days")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: total_days"), nil
	}
	if days < 1 {
		return mcp.NewToolResultError("total_days must be at least 1"), nil
	}

	start := request.GetString("start_date", "")
	if start != "" {
		if err := gift.ValidateDay(start); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid start_date %q: want YYYY-MM-DD", start)), nil
		}
	}
	reward, err := rewardArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	witnesses, err := stringSliceArg(args, "witness_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	history, err := completionsArg(args, "completion_history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := gift.GoalInput{
		Note:              request.GetString("note", ""),
		TotalDays:         days,
		StartDate:         start,
		Reward:            reward,
		CompletionHistory: history,
	}
	if witnesses != nil {
		in.WitnessIDs = *witnesses
	}

	masterID, dailyID, err := h.engine.StartRecurringGoal(title, in)
	if err != nil {
		return h.engineError("start_goal", err), nil
	}
	return jsonResult(map[string]string{"goalId": masterID, "dailyTaskId": dailyID})
}

// HandleGoalProgress reports progress for one goal or all of them.
func (h *Handlers) HandleGoalProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(request.GetString("goal_id", ""))
	if id == "" {
		goals := h.engine.RecurringGoals()
		if goals == nil {
			goals = []gift.GoalView{}
		}
		return jsonResult(goals)
	}

	progress, ok := h.engine.Progress(id)
	if !ok {
		return mcp.NewToolResultError("Recurring goal not found: " + id), nil
	}
	task, day, _ := h.engine.Task(id)
	return jsonResult(map[string]any{
		"task":      task,
		"day":       day,
		"progress":  progress,
		"witnesses": h.engine.Witnesses(id),
	})
}

// HandleAddMoment saves a moment.
func (h *Handlers) HandleAddMoment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(request.GetString("text", ""))
	photo := request.GetString("photo_data_url", "")
	if text == "" && photo == "" {
		return mcp.NewToolResultError("A moment needs text or photo_data_url"), nil
	}
	if photo != "" && !strings.HasPrefix(photo, "data:image/") {
		return mcp.NewToolResultError("photo_data_url must be a data:image/ URL"), nil
	}

	id, err := h.engine.AddMoment(gift.MomentInput{
		Text:         text,
		PhotoDataURL: photo,
		LinkedTaskID: request.GetString("linked_task_id", ""),
	})
	if err != nil {
		return h.engineError("add_moment", err), nil
	}
	return mcp.NewToolResultText("Moment saved: " + id), nil
}

// HandleDeleteMoment removes a moment.
func (h *Handlers) HandleDeleteMoment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(request, "moment_id")
	if res != nil {
		return res, nil
	}
	applied, err := h.engine.DeleteMoment(id)
	if err != nil {
		return h.engineError("delete_moment", err), nil
	}
	if !applied {
		return mcp.NewToolResultError("Moment not found: " + id), nil
	}
	return mcp.NewToolResultText("Moment " + id + " deleted."), nil
}

// HandleGenerateVideo creates a mock recap video.
func (h *Handlers) HandleGenerateVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, err := h.engine.GenerateAIVideo()
	if err != nil {
		return h.engineError("generate_video", err), nil
	}
	return jsonResult(video)
}

// HandleDeleteVideo removes an AI video.
func (h *Handlers) HandleDeleteVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(request, "video_id")
	if res != nil {
		return res, nil
	}
	applied, err := h.engine.DeleteAIVideo(id)
	if err != nil {
		return h.engineError("delete_video", err), nil
	}
	if !applied {
		return mcp.NewToolResultError("Video not found: " + id), nil
	}
	return mcp.NewToolResultText("Video " + id + " deleted."), nil
}

// HandleAddWarmth adjusts warmth.
func (h *Handlers) HandleAddWarmth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	amount, ok, err := intArg(request.GetArguments(), "amount")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("Missing required parameter: amount"), nil
	}
	warmth, err := h.engine.AddWarmth(amount)
	if err != nil {
		return h.engineError("add_warmth", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Warmth: %d (%s).", warmth, gift.MoodForWarmth(warmth))), nil
}

// HandleResetAll reseeds the document.
func (h *Handlers) HandleResetAll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if confirm, _ := request.GetArguments()["confirm"].(bool); !confirm {
		return mcp.NewToolResultError("reset_all requires confirm=true"), nil
	}
	if err := h.engine.ResetAll(); err != nil {
		return h.engineError("reset_all", err), nil
	}
	h.logger.Info("state reset via mcp")
	return mcp.NewToolResultText("All data reset."), nil
}
