package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/config"
)

func TestRouterWiring(t *testing.T) {
	a, err := newApp(context.Background(), config.Default(), zap.NewNop(), false)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.Close()
	h := router(a, zap.NewNop())

	tests := []struct {
		method string
		path   string
		actor  string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", "", http.StatusOK},
		{http.MethodGet, "/api/v1/calendars", "", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/calendars?include_shared=true", "alice", "", http.StatusOK},
		{http.MethodPost, "/api/v1/events", "alice", `{"title":"Kickoff","start":"2025-01-06T09:00:00Z"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/availability/check", "alice", `{"start":"2025-01-06T09:30:00Z","end":"2025-01-06T10:30:00Z"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/invitations", "alice", "", http.StatusOK},
		{http.MethodGet, "/api/v1/reminders/due", "alice", "", http.StatusOK},
		{http.MethodGet, "/api/v1/notifications/unread-count", "alice", "", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		if tt.actor != "" {
			req.Header.Set("X-User-ID", tt.actor)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestNewAppRejectsUnknownPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.EventPolicy = "lenient"
	if _, err := newApp(context.Background(), cfg, zap.NewNop(), false); err == nil {
		t.Fatal("expected an error for an unknown policy")
	}
}
