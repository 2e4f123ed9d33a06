package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/conf"
	"github.com/chatpulse/digestbot/internal/mcp"
	"github.com/chatpulse/digestbot/mcpserver"
)

// This MCP server talks to a running digestbot over its HTTP API.
// stdout carries the protocol, so logs go to stderr.

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}
	cfg := conf.LoadMCPFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	server := mcpserver.NewServer(mcp.NewHandler(mcp.NewClient(cfg.APIURL)))
	log.Infof("digestbot MCP server using API at %s", cfg.APIURL)

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
