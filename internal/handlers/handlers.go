package handlers

import (
	"context"

	"github.com/abrezinsky/padelpools/internal/services"
	"github.com/abrezinsky/padelpools/internal/websocket"
)

// HealthChecker reports whether the storage backend is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Pools       services.PoolServicer
	Players     services.PlayerServicer
	Tournaments services.TournamentServicer
	Hub         *websocket.Hub
	Health      HealthChecker
	Log         HTTPLogger
	CORSOrigins []string
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	pools services.PoolServicer,
	players services.PlayerServicer,
	tournaments services.TournamentServicer,
	hub *websocket.Hub,
	health HealthChecker,
	log HTTPLogger,
	corsOrigins []string,
) *Handlers {
	return &Handlers{
		Pools:       pools,
		Players:     players,
		Tournaments: tournaments,
		Hub:         hub,
		Health:      health,
		Log:         log,
		CORSOrigins: corsOrigins,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without a websocket hub or health check
func NewForTesting(
	pools services.PoolServicer,
	players services.PlayerServicer,
	tournaments services.TournamentServicer,
) *Handlers {
	return &Handlers{
		Pools:       pools,
		Players:     players,
		Tournaments: tournaments,
		Log:         NoopHTTPLogger{},
	}
}
