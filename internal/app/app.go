package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/padelpools/internal/config"
	"github.com/abrezinsky/padelpools/internal/handlers"
	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/internal/repository"
	"github.com/abrezinsky/padelpools/internal/services"
	"github.com/abrezinsky/padelpools/internal/websocket"
	"github.com/abrezinsky/padelpools/pkg/roster"
)

const shutdownTimeout = 10 * time.Second

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	pools    *services.PoolService
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, rosterClient roster.Client) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	poolService := services.NewPoolService(log, repo)
	poolService.SetBaseURL(cfg.BaseURL)
	playerService := services.NewPlayerService(log, repo, rosterClient)
	tournamentService := services.NewTournamentService(log, repo)

	// Live standings hub; the pool service pushes results into it
	hub := websocket.New(log, poolService)
	hub.Start()
	poolService.SetBroadcaster(hub)

	h := handlers.New(
		poolService,
		playerService,
		tournamentService,
		hub,
		repo,
		log,
		cfg.CORSOrigins,
	)

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
		pools:    poolService,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases the database
func (a *App) Close() error {
	return a.repo.Close()
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context, addr string) error {
	if a.cfg.BaseURL == "" {
		a.setDefaultBaseURL(addr, getPreferredIP(realNetworkProvider{}))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", "addr", addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// setDefaultBaseURL points pool sheet QR codes at the detected LAN address
// when no base URL is configured
func (a *App) setDefaultBaseURL(addr, host string) string {
	port := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		port = addr[i+1:]
	}
	baseURL := fmt.Sprintf("http://%s:%s", host, port)
	a.pools.SetBaseURL(baseURL)
	a.log.Info("Default base URL set", "url", baseURL)
	return baseURL
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access, preferring
// private ranges. Falls back to localhost.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
