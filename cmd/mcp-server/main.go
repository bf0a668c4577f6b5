// Package main runs the gift tracker as an MCP server over stdio.
//
// Tools cover tasks, recurring goals, moments, AI videos and warmth. Logs go
// to stderr (and GIFT_LOG_FILE when set) since stdout carries JSON-RPC.
//
// Environment variables:
//   - GIFT_DATA_DIR: Optional. Directory for file-based state (default ~/.gift).
//   - GIFT_STORAGE_BACKEND: Optional. json (default), sqlite, postgres, redis or memory.
//   - GIFT_SEED: Optional. demo (default) or blank first-run data.
//   - GIFT_LOG_LEVEL, GIFT_LOG_FILE: Optional. Logging.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/app"
	"github.com/JamesPrial/gift-tracker/internal/config"
	"github.com/JamesPrial/gift-tracker/internal/mcpserver"
)

// serve is swapped in tests so run can be exercised without stdio.
var serve = func(srv *server.MCPServer, logger *zap.Logger) error {
	return server.ServeStdio(srv, server.WithErrorLogger(zap.NewStdLog(logger)))
}

var openApp = func(cfg config.Config) (*app.App, error) {
	return app.Open(cfg)
}

func run(stderr io.Writer) (code int) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "[mcp-server] config error: %v\n", err)
		return 1
	}
	cfg.Log.Console = stderr

	a, err := openApp(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "[mcp-server] startup failed: %v\n", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Error("failed to save state on shutdown", zap.Error(err))
			code = 1
		}
	}()

	srv, err := mcpserver.NewServer(a.Engine, a.Logger)
	if err != nil {
		a.Logger.Error("failed to create MCP server", zap.Error(err))
		return 1
	}

	a.Logger.Info("mcp server starting", zap.String("today", a.Engine.TodayKey()))
	if err := serve(srv, a.Logger); err != nil {
		a.Logger.Error("server error", zap.Error(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Stderr))
}
