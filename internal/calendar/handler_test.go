package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fkhayef/calendar/pkg/middleware"
)

type stubExporter struct{}

func (stubExporter) Export(_ context.Context, cal *Calendar, w io.Writer) error {
	_, err := io.WriteString(w, "BEGIN:VCALENDAR\r\nX-WR-CALNAME:"+cal.Name+"\r\nEND:VCALENDAR\r\n")
	return err
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc, _ := newTestService(t)
	h := NewHandler(svc, stubExporter{})
	srv := httptest.NewServer(middleware.ActorMiddleware(h.Routes()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, actor, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandlerLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/", "alice", `{"name":"Work"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created struct {
		Data Calendar `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = do(t, http.MethodGet, srv.URL+"/"+created.Data.ID, "bob", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("private calendar should be hidden from bob, status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, srv.URL+"/"+created.Data.ID, "bob", `{"name":"Hijack"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("update by stranger status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/"+created.Data.ID+"/export.ics", "alice", "")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") {
		t.Fatalf("export status = %d, content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp = do(t, http.MethodDelete, srv.URL+"/"+created.Data.ID, "alice", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/"+created.Data.ID, "alice", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestHandlerRequiresActor(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/", "alice", `{"name":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, srv.URL+"/", "alice", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
