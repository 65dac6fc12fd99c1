package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abrezinsky/padelpools/internal/app"
	"github.com/abrezinsky/padelpools/internal/config"
	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/pkg/roster"
)

var (
	version = "dev"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	logLevel := flag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	baseURL := flag.String("baseurl", cfg.BaseURL, "Public URL used in pool sheet QR codes")
	rosterURL := flag.String("roster", cfg.RosterURL, "Registration service URL for roster import")
	httpLog := flag.Bool("httplog", cfg.HTTPLog, "Log every HTTP request")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `padelpools - Americano Social pool engine

Usage:
  padelpools [options]

Options:
  -port int        HTTP server port (default 8082, env PADEL_PORT)
  -db string       SQLite database path (default "padel.db", env PADEL_DB_PATH)
  -loglevel str    Log level: debug, info, warn, error (env PADEL_LOG_LEVEL)
  -baseurl str     Public URL for QR codes (env PADEL_BASE_URL, LAN address if unset)
  -roster str      Registration service URL (env PADEL_ROSTER_URL)
  -httplog         Log every HTTP request (env PADEL_HTTP_LOG)
  -nokeyboard      Disable keyboard shortcuts
  -version         Show version and exit
  -help            Show this help message

Keyboard Shortcuts (when stdin is a terminal):
  h                Toggle HTTP request logging
  l                Cycle log level (debug, info, warn, error)
  q                Quit server
  ?                Show keyboard help

Examples:
  padelpools                                   # Run on port 8082 with padel.db
  padelpools -port 8080 -db /data/club.db      # Custom port and database
  padelpools -roster https://entries.example   # Enable roster import

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("padelpools %s\n", version)
		os.Exit(0)
	}

	cfg.Port = *port
	cfg.DBPath = *dbPath
	cfg.LogLevel = *logLevel
	cfg.BaseURL = *baseURL
	cfg.RosterURL = *rosterURL
	cfg.HTTPLog = *httpLog

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.HTTPLog {
		appLog.EnableHTTPLogging()
	}

	rosterClient := roster.NewHTTPClient(cfg.RosterURL, appLog)
	if token := os.Getenv("PADEL_ROSTER_TOKEN"); token != "" {
		rosterClient.SetToken(token)
	}

	a, err := app.New(appLog, cfg, rosterClient)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	restoreTerminal := func() {}
	if !*noKeyboard {
		restoreTerminal = startConsole(appLog, stop)
	}

	runErr := a.Run(ctx, cfg.Addr())
	stop()
	restoreTerminal()

	if err := a.Close(); err != nil {
		appLog.Warn("Failed to close database", "error", err)
	}
	if runErr != nil {
		appLog.Error("Server stopped", "error", runErr)
		os.Exit(1)
	}
}
