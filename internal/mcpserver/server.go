package mcpserver

import (
	"errors"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/gift"
)

const (
	serverName    = "gift-tracker"
	serverVersion = "1.0.0"
)

// NewServer creates an MCP server with every gift tool registered against
// engine.
func NewServer(engine *gift.Engine, logger *zap.Logger) (*server.MCPServer, error) {
	if engine == nil {
		return nil, errors.New("mcpserver: nil engine")
	}
	h := NewHandlers(engine, logger)

	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	// Reads
	s.AddTool(getStateTool(), h.HandleGetState)
	s.AddTool(listTasksTool(), h.HandleListTasks)
	s.AddTool(goalProgressTool(), h.HandleGoalProgress)

	// Tasks
	s.AddTool(addTaskTool(), h.HandleAddTask)
	s.AddTool(updateTaskTool(), h.HandleUpdateTask)
	s.AddTool(completeTaskTool(), h.HandleCompleteTask)
	s.AddTool(restTaskTool(), h.HandleRestTask)
	s.AddTool(deleteTaskTool(), h.HandleDeleteTask)
	s.AddTool(startGoalTool(), h.HandleStartGoal)

	// Moments, videos, warmth
	s.AddTool(addMomentTool(), h.HandleAddMoment)
	s.AddTool(deleteMomentTool(), h.HandleDeleteMoment)
	s.AddTool(generateVideoTool(), h.HandleGenerateVideo)
	s.AddTool(deleteVideoTool(), h.HandleDeleteVideo)
	s.AddTool(addWarmthTool(), h.HandleAddWarmth)
	s.AddTool(resetAllTool(), h.HandleResetAll)

	return s, nil
}
