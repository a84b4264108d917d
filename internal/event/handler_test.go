package event

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fkhayef/calendar/pkg/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta *struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
		Total  int `json:"total"`
	} `json:"meta"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	f := newFixture(t)
	srv := httptest.NewServer(middleware.ActorMiddleware(NewHandler(f.events).Routes()))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, actor, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(middleware.ActorHeader, actor)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, env
}

func TestHandlerEventLifecycle(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, http.MethodPost, srv.URL+"/", "alice",
		`{"title":"Design review","start":"2025-01-06T10:00:00Z","end":"2025-01-06T11:00:00Z","attendees":["bob"]}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	var e Event
	if err := json.Unmarshal(env.Data, &e); err != nil {
		t.Fatalf("decode event: %v", err)
	}

	status, _ = call(t, http.MethodPut, srv.URL+"/"+e.ID+"?mode=single", "alice", `{"start":"2025-01-06T12:00:00Z"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("inverted update status = %d", status)
	}

	status, _ = call(t, http.MethodPut, srv.URL+"/"+e.ID+"?mode=everything", "alice", `{"title":"x"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid mode status = %d", status)
	}

	status, _ = call(t, http.MethodGet, srv.URL+"/"+e.ID, "bob", "")
	if status != http.StatusOK {
		t.Fatalf("attendee get status = %d", status)
	}

	status, env = call(t, http.MethodGet, srv.URL+"/?from=2025-01-06T00:00:00Z&limit=10", "bob", "")
	if status != http.StatusOK || env.Meta == nil || env.Meta.Total != 1 || env.Meta.Limit != 10 {
		t.Fatalf("query status = %d meta = %+v", status, env.Meta)
	}

	status, _ = call(t, http.MethodGet, srv.URL+"/?from=yesterday", "bob", "")
	if status != http.StatusBadRequest {
		t.Fatalf("bad from status = %d", status)
	}

	status, _ = call(t, http.MethodDelete, srv.URL+"/"+e.ID, "bob", "")
	if status != http.StatusForbidden {
		t.Fatalf("attendee delete status = %d", status)
	}

	status, _ = call(t, http.MethodDelete, srv.URL+"/"+e.ID, "alice", "")
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}

	status, env = call(t, http.MethodGet, srv.URL+"/"+e.ID, "alice", "")
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("get after delete status = %d", status)
	}
}

func TestHandlerCreateRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed", body: `{`, want: http.StatusBadRequest},
		{name: "no title", body: `{"title":""}`, want: http.StatusBadRequest},
		{name: "inverted", body: `{"title":"x","start":"2025-01-06T10:00:00Z","end":"2025-01-06T09:00:00Z"}`, want: http.StatusUnprocessableEntity},
		{name: "unknown calendar", body: `{"title":"x","calendar_id":"nope"}`, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, http.MethodPost, srv.URL+"/", "alice", tt.body)
			if status != tt.want {
				t.Fatalf("status = %d, want %d", status, tt.want)
			}
		})
	}
}
