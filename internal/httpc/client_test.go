package httpc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Action(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"action":"turn","queued":[]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Action(context.Background(), "turn", -3, 150)
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/action" {
		t.Errorf("request: got %s %s", gotMethod, gotPath)
	}
	if gotQuery != "cmd=turn&p1=-3&p2=150" {
		t.Errorf("query: got %q", gotQuery)
	}
	if !strings.Contains(string(out), `"turn"`) {
		t.Errorf("body: %s", out)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"robot: unknown command: fly"}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	_, err := c.Action(context.Background(), "fly", 0, 0)
	if !errors.Is(err, ErrServer) || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("got %v", err)
	}
}

func TestClient_StatusAndStop(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"ready":true}`))
	}))
	defer srv.Close()

	c, _ := New(strings.TrimPrefix(srv.URL, "http://"), nil)
	if _, err := c.Status(context.Background()); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	want := []string{"GET /api/status", "POST /api/stop"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths: got %v, want %v", paths, want)
	}
}
