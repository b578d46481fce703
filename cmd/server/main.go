// Package main is the entry point for the bookmarks API server.
//
// The main package is kept minimal — its job is to:
//  1. Read configuration (env vars, with an optional .env file)
//  2. Create the logger
//  3. Start the application
//
// All actual logic lives in internal/ packages, which keeps the app
// testable and its components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/bookmarks/internal/server"
)

func main() {
	// A .env file is a development convenience; in production the variables
	// come from the real environment, so a missing file is not an error.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/bookmarks.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Ensure the data directory exists before SQLite tries to create the file.
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string. Generate one with:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// Unlike PORT and DB_PATH there is no usable default — a guessable
	// secret would let anyone mint valid tokens — so the server refuses to
	// start without it.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	jwtExpiry := 15 * time.Minute
	if envExpiry := os.Getenv("JWT_EXPIRY"); envExpiry != "" {
		d, err := time.ParseDuration(envExpiry)
		if err != nil {
			logger.Error("invalid JWT_EXPIRY value (want a Go duration like 15m)",
				slog.String("value", envExpiry))
			os.Exit(1)
		}
		jwtExpiry = d
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
		JWTExpiry: jwtExpiry,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
