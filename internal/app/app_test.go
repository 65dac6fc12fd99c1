package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abrezinsky/padelpools/internal/config"
	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/pkg/roster"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DBPath = ":memory:"
	cfg.BaseURL = "http://padel.local"
	return cfg
}

func createTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New(logger.Nop(), testConfig(), roster.NewMockClient())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNew_InitializesApp(t *testing.T) {
	app := createTestApp(t)

	if app.handlers == nil {
		t.Error("expected handlers to be initialized")
	}
	if app.repo == nil {
		t.Error("expected repo to be initialized")
	}
	if app.handlers.Hub == nil {
		t.Error("expected websocket hub to be wired")
	}
}

func TestNew_FailsWithBadDBPath(t *testing.T) {
	cfg := testConfig()
	cfg.DBPath = "/nonexistent/path/db.sqlite"

	if _, err := New(logger.Nop(), cfg, roster.NewMockClient()); err == nil {
		t.Error("expected error for invalid db path")
	}
}

func TestNew_FailsWithInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0

	if _, err := New(logger.Nop(), cfg, roster.NewMockClient()); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestApp_Router_ServesRequests(t *testing.T) {
	app := createTestApp(t)
	server := httptest.NewServer(app.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for /healthz, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/tournaments")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for /api/tournaments, got %d", resp.StatusCode)
	}
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	app := createTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestSetDefaultBaseURL(t *testing.T) {
	app := createTestApp(t)

	got := app.setDefaultBaseURL(":8082", "192.168.1.100")
	if got != "http://192.168.1.100:8082" {
		t.Errorf("unexpected base URL %q", got)
	}
}

// mockInterface implements networkInterface for testing
type mockInterface struct {
	flags net.Flags
	addrs []net.Addr
	err   error
}

func (m mockInterface) Flags() net.Flags {
	return m.flags
}

func (m mockInterface) Addrs() ([]net.Addr, error) {
	return m.addrs, m.err
}

type mockNetworkProvider struct {
	interfaces []networkInterface
	err        error
}

func (m mockNetworkProvider) Interfaces() ([]networkInterface, error) {
	return m.interfaces, m.err
}

func ipNet(s string) *net.IPNet {
	return &net.IPNet{IP: net.ParseIP(s), Mask: net.CIDRMask(24, 32)}
}

func TestGetPreferredIP(t *testing.T) {
	tests := []struct {
		name     string
		provider mockNetworkProvider
		want     string
	}{
		{
			name:     "network error",
			provider: mockNetworkProvider{err: net.ErrClosed},
			want:     "localhost",
		},
		{
			name: "addrs error",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, err: net.ErrClosed},
			}},
			want: "localhost",
		},
		{
			name: "interface down",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{addrs: []net.Addr{ipNet("192.168.1.10")}},
			}},
			want: "localhost",
		},
		{
			name: "ip addr",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("10.0.0.7")}}},
			}},
			want: "10.0.0.7",
		},
		{
			name: "private preferred over public",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("8.8.8.8"), ipNet("172.20.0.4")}},
			}},
			want: "172.20.0.4",
		},
		{
			name: "public fallback",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("8.8.8.8")}},
			}},
			want: "8.8.8.8",
		},
		{
			name: "loopback and ipv6 skipped",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{
					ipNet("127.0.0.1"),
					&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
					ipNet("192.168.1.50"),
				}},
			}},
			want: "192.168.1.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getPreferredIP(tt.provider); got != tt.want {
				t.Errorf("getPreferredIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetPreferredIP_Real(t *testing.T) {
	ip := getPreferredIP(realNetworkProvider{})
	if ip == "" {
		t.Fatal("expected non-empty IP")
	}
	if ip != "localhost" && net.ParseIP(ip).To4() == nil {
		t.Errorf("expected IPv4 address, got %q", ip)
	}
	if strings.Contains(ip, ":") {
		t.Errorf("unexpected IPv6 address %q", ip)
	}
}
