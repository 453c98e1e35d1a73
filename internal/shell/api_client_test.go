package shell

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opshell/internal/domain"
	"opshell/internal/registry"
	"opshell/internal/store"
	"opshell/internal/theme"

	"go.uber.org/zap"
)

func TestFetchConfig_StatusMapping(t *testing.T) {
	status := http.StatusForbidden
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	hookCalls := 0
	client := NewAPIClient(srv.URL, zap.NewNop())
	client.OnUnauthorized(func() { hookCalls++ })

	// 403: structured error, hook untouched
	_, err := client.FetchConfig(context.Background(), "t1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected APIError 403, got %v", err)
	}
	if hookCalls != 0 {
		t.Fatal("403 must not fire the unauthorized hook")
	}

	// 5xx: structured error, hook untouched
	status = http.StatusBadGateway
	_, err = client.FetchConfig(context.Background(), "t1")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected APIError 502, got %v", err)
	}
	if hookCalls != 0 {
		t.Fatal("5xx must not fire the unauthorized hook")
	}

	// 401: structured error and the hook fires
	status = http.StatusUnauthorized
	_, err = client.FetchConfig(context.Background(), "t1")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected APIError 401, got %v", err)
	}
	if hookCalls == 0 {
		t.Fatal("401 must fire the unauthorized hook")
	}
}

func TestFetchConfig_SuccessDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tenants/t1/config" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tenant_id":"t1","tenant_name":"Tenant One","enabled_modules":["inventario"],"theme":{"primary":"#16a34a"}}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, zap.NewNop())
	cfg, err := client.FetchConfig(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TenantID != "t1" || len(cfg.EnabledModules) != 1 || cfg.Theme.Primary != "#16a34a" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNetworkShell_UnauthorizedClearsTokenAndGate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx := context.Background()
	sessions := store.NewSessionStore(store.NewMemoryKV())
	if err := sessions.SetToken(ctx, "sid-1", "tok-1"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	provider := &fakeProvider{}
	s, gate, _ := NewNetworkShell(srv.URL, sessions, "sid-1", provider,
		theme.NewMemoryStyleContext(), registry.Default(), "", zap.NewNop())
	defer s.Close()
	gate.SetAuthenticated(&domain.Identity{Subject: "auth0|123", TenantClaim: "t1"})

	s.OnIdentityChanged(ctx, gate.Identity())

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := sessions.Token(ctx, "sid-1"); err == store.ErrMiss {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the cached token to be cleared")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if gate.State() != AuthUnauthenticated {
		t.Fatalf("expected gate unauthenticated after 401, got %s", gate.State())
	}
}
