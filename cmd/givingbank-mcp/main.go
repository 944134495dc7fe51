package main

import (
	"log"

	"givingbank/internal/app"
	"givingbank/internal/config"
	"givingbank/internal/logging"
	mcptools "givingbank/internal/mcp"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadOffline()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	rt, err := app.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer rt.Close()

	s := server.NewMCPServer(
		"givingbank",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	mcptools.RegisterTools(s, mcptools.Deps{
		Profiles: rt.Profiles,
		Drafts:   rt.Drafts,
		MinAge:   cfg.MinAge,
	})

	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
