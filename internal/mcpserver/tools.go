// Package mcpserver exposes the gift engine as MCP tools over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// getStateTool returns a tool definition for reading the whole document.
func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Return the full app state as JSON: warmth, streak, plush mood, tasks by day, moments, AI videos and friends."),
	)
}

func listTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks. Scope 'today' (default) returns today's bucket; 'all' returns every task, newest day first."),
		mcp.WithString("scope",
			mcp.Description("Either 'today' or 'all'"),
			mcp.Enum("today", "all")),
	)
}

func addTaskTool() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription("Add a pending task to today's list."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title")),
		mcp.WithString("note",
			mcp.Description("Optional note shown under the title")),
		mcp.WithString("linked_goal_id",
			mcp.Description("Id of a recurring goal this task counts toward")),
	)
}

func updateTaskTool() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription("Edit a task on any day. Status may be set to 'pending' or 'rest'; use complete_task to finish a task."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Id of the task to edit")),
		mcp.WithString("title",
			mcp.Description("New title; blank values are ignored")),
		mcp.WithString("note",
			mcp.Description("New note")),
		mcp.WithString("status",
			mcp.Description("New status: 'pending' or 'rest'")),
		mcp.WithObject("reward",
			mcp.Description("Goal reward {title, description, imageUrl}; recurring goals only")),
		mcp.WithArray("witness_ids",
			mcp.Description("Friend ids witnessing the goal; recurring goals only")),
	)
}

// completeTaskTool returns a tool definition for marking a task done. The
// reflection fields become a moment.
func completeTaskTool() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription("Mark one of today's tasks done. The first completion adds warmth. An optional reflection is saved as a moment."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Id of the task to complete")),
		mcp.WithString("text",
			mcp.Description("Reflection text")),
		mcp.WithString("photo_data_url",
			mcp.Description("Reflection photo as a data:image/ URL")),
	)
}

func restTaskTool() mcp.Tool {
	return mcp.NewTool("rest_task",
		mcp.WithDescription("Mark a task as a rest day. Done tasks cannot be rested."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Id of the task to rest")),
	)
}

func deleteTaskTool() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete one of today's tasks."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Id of the task to delete")),
	)
}

func startGoalTool() mcp.Tool {
	return mcp.NewTool("start_goal",
		mcp.WithDescription("Start a recurring goal spanning total_days and add today's linked task."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Goal title")),
		mcp.WithNumber("total_days",
			mcp.Required(),
			mcp.Description("Number of days in the challenge, at least 1")),
		mcp.WithString("start_date",
			mcp.Description("First day as YYYY-MM-DD; defaults to today")),
		mcp.WithString("note",
			mcp.Description("Note on the goal")),
		mcp.WithObject("reward",
			mcp.Description("Reward {title, description, imageUrl} earned on completion")),
		mcp.WithArray("witness_ids",
			mcp.Description("Friend ids who witness the goal")),
		mcp.WithArray("completion_history",
			mcp.Description("Days already recorded, as [{date, completed, note}] with date YYYY-MM-DD")),
	)
}

func goalProgressTool() mcp.Tool {
	return mcp.NewTool("goal_progress",
		mcp.WithDescription("Report progress for one recurring goal, or for every goal when goal_id is omitted."),
		mcp.WithString("goal_id",
			mcp.Description("Id of a recurring goal")),
	)
}

func addMomentTool() mcp.Tool {
	return mcp.NewTool("add_moment",
		mcp.WithDescription("Save a moment. Needs text or a photo."),
		mcp.WithString("text",
			mcp.Description("Moment text")),
		mcp.WithString("photo_data_url",
			mcp.Description("Photo as a data:image/ URL")),
		mcp.WithString("linked_task_id",
			mcp.Description("Task the moment belongs to")),
	)
}

func deleteMomentTool() mcp.Tool {
	return mcp.NewTool("delete_moment",
		mcp.WithDescription("Delete a moment by id."),
		mcp.WithString("moment_id",
			mcp.Required(),
			mcp.Description("Id of the moment")),
	)
}

func generateVideoTool() mcp.Tool {
	return mcp.NewTool("generate_video",
		mcp.WithDescription("Generate a mock AI recap video from current progress."),
	)
}

func deleteVideoTool() mcp.Tool {
	return mcp.NewTool("delete_video",
		mcp.WithDescription("Delete an AI video by id."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("Id of the video")),
	)
}

func addWarmthTool() mcp.Tool {
	return mcp.NewTool("add_warmth",
		mcp.WithDescription("Adjust warmth by amount (may be negative). The result is clamped and the plush mood recomputed."),
		mcp.WithNumber("amount",
			mcp.Required(),
			mcp.Description("Whole number to add")),
	)
}

func resetAllTool() mcp.Tool {
	return mcp.NewTool("reset_all",
		mcp.WithDescription("Discard all data and reseed the document. Requires confirm=true."),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true")),
	)
}
