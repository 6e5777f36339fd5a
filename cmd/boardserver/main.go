// Command boardserver hosts one Memory Scramble board over WebSocket.
// It is a thin reference front-end: every gameplay decision is made by
// the board package, and this package's only job is wiring a real
// transport to it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"memoryscramble/board"
	"memoryscramble/boardlog"
	"memoryscramble/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log := slog.New(boardlog.NewCompactHandler(os.Stdout, slog.LevelInfo))
		log.Info("no .env file found; using environment variables", "tag", "main")
	}

	cfg := config.Load()
	logger := slog.New(boardlog.NewCompactHandler(os.Stdout, slog.LevelInfo))
	logger.Info("configuration loaded", "tag", "main",
		"boardFile", cfg.BoardFile, "wsPort", cfg.WSPort, "flipTimeoutMs", cfg.FlipTimeoutMS)

	events := make(chan board.Event, 256)
	b, err := board.ParseFromFile(cfg.BoardFile, board.WithEvents(events))
	if err != nil {
		logger.Error("failed to load board file", "tag", "main", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("board loaded", "tag", "main", "rows", b.NumRows(), "cols", b.NumCols())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(b, cfg, logger)
	go hub.runEvents(ctx, events)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.WSPort)
	logger.Info("listening", "tag", "main", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("server stopped", "tag", "main", "error", err.Error())
		os.Exit(1)
	}
}
