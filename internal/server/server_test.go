package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/termmap/pkg/cache"
	"github.com/matzehuels/termmap/pkg/httputil"
	"github.com/matzehuels/termmap/pkg/macro"
	"github.com/matzehuels/termmap/pkg/pipeline"
	"github.com/matzehuels/termmap/pkg/session"
)

type testServer struct {
	*httptest.Server
	sessions *session.MemoryStore
	macros   *macro.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	c, err := cache.NewMemoryCache(64)
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner, err := pipeline.NewRunner(c, nil, logger).WithMemo(64)
	if err != nil {
		t.Fatal(err)
	}
	sessions := session.NewMemoryStore()
	macros := macro.NewMemoryStore()
	srv := New(Config{
		Runner:         runner,
		Macros:         macros,
		Sessions:       sessions,
		Logger:         logger,
		Defaults:       pipeline.Options{MaxVertices: 50, MaxEdges: 200},
		HighlightDelay: time.Millisecond,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return &testServer{Server: ts, sessions: sessions, macros: macros}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func (ts *testServer) build(t *testing.T, path, body string) buildResponse {
	t.Helper()
	resp, data := ts.do(t, http.MethodPost, path, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s = %d: %s", path, resp.StatusCode, data)
	}
	var out buildResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func errorCode(t *testing.T, data []byte) string {
	t.Helper()
	var body httputil.ErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode error body %s: %v", data, err)
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var got healthResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.Build.Version == "" {
		t.Errorf("health = %+v", got)
	}
}

func TestBuildMap(t *testing.T) {
	ts := newTestServer(t)
	out := ts.build(t, "/api/map", `{"term": "(\\x. x) y", "formats": ["json", "dot"]}`)

	if out.RunID == "" || out.SessionID == "" {
		t.Errorf("run_id = %q, session_id = %q", out.RunID, out.SessionID)
	}
	if len(out.Layout.Redexes) != 1 || out.Layout.Redexes[0].ID != "beta-0" {
		t.Errorf("redexes = %+v, want one beta-0", out.Layout.Redexes)
	}
	if !strings.HasPrefix(out.Artifacts["dot"], "digraph G {") {
		t.Errorf("dot artifact = %.40q", out.Artifacts["dot"])
	}
	if ts.sessions.Len() != 1 {
		t.Errorf("stored %d sessions, want 1", ts.sessions.Len())
	}

	again := ts.build(t, "/api/map", `{"term": "(\\x. x) y"}`)
	if !again.CacheHit {
		t.Error("second build should hit the layout cache")
	}
	if again.SessionID == out.SessionID {
		t.Error("every build should get its own session")
	}
}

func TestBuildReduction(t *testing.T) {
	ts := newTestServer(t)
	out := ts.build(t, "/api/reduction", `{"term": "(\\x. x) a ((\\y. y) b)"}`)
	if n := len(out.Layout.Nodes()); n != 4 {
		t.Errorf("reduction graph has %d vertices, want 4", n)
	}
	if out.Truncated {
		t.Error("small graph should not be truncated")
	}

	// The request asks for more than the server allows.
	out = ts.build(t, "/api/reduction", `{"term": "(\\x. x x x) (\\x. x x x)", "max_vertices": 100000}`)
	if !out.Truncated {
		t.Error("diverging term should be truncated")
	}
	if n := len(out.Layout.Nodes()); n > 50 {
		t.Errorf("reduction graph has %d vertices, want at most the server cap 50", n)
	}
}

func TestBuildErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"parse", `{"term": "\\x x"}`, 400, "PARSE_ERROR"},
		{"empty term", `{"term": ""}`, 400, "INVALID_INPUT"},
		{"bad format", `{"term": "x", "formats": ["gif"]}`, 400, "INVALID_FORMAT"},
		{"unknown field", `{"term": "x", "colour": "red"}`, 400, "INVALID_INPUT"},
		{"no body", ``, 400, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := ts.do(t, http.MethodPost, "/api/map", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if code := errorCode(t, data); code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestMacros(t *testing.T) {
	ts := newTestServer(t)

	resp, data := ts.do(t, http.MethodPut, "/api/macros/twice", `{"source": "\\f x. f (f x)"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT = %d: %s", resp.StatusCode, data)
	}

	resp, data = ts.do(t, http.MethodGet, "/api/macros/twice", "")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(data, []byte(`"name":"twice"`)) {
		t.Errorf("GET twice = %d: %s", resp.StatusCode, data)
	}

	resp, data = ts.do(t, http.MethodGet, "/api/macros/K", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET builtin K = %d: %s", resp.StatusCode, data)
	}

	var list macroList
	_, data = ts.do(t, http.MethodGet, "/api/macros", "")
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Macros) != 1 || len(list.Builtins) == 0 {
		t.Errorf("list = %d stored, %d builtins", len(list.Macros), len(list.Builtins))
	}

	// Builds resolve stored macros.
	out := ts.build(t, "/api/map", `{"term": "twice I y"}`)
	if len(out.Layout.Redexes) == 0 {
		t.Error("twice I y should contain redexes")
	}

	resp, data = ts.do(t, http.MethodPut, "/api/macros/1bad", `{"source": "x"}`)
	if resp.StatusCode != 400 || errorCode(t, data) != "INVALID_MACRO" {
		t.Errorf("PUT 1bad = %d: %s", resp.StatusCode, data)
	}

	resp, _ = ts.do(t, http.MethodDelete, "/api/macros/twice", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", resp.StatusCode)
	}
	resp, data = ts.do(t, http.MethodGet, "/api/macros/twice", "")
	if resp.StatusCode != 404 || errorCode(t, data) != "MACRO_NOT_FOUND" {
		t.Errorf("GET deleted = %d: %s", resp.StatusCode, data)
	}
}

func dialHighlight(t *testing.T, ts *testServer, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/highlight?session=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readOutbound(t *testing.T, conn *websocket.Conn) highlightWSOutbound {
	t.Helper()
	var out highlightWSOutbound
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	return out
}

func TestHighlightWS(t *testing.T) {
	ts := newTestServer(t)
	built := ts.build(t, "/api/map", `{"term": "(\\x. x) ((\\y. y) z)"}`)
	conn := dialHighlight(t, ts, built.SessionID)

	if out := readOutbound(t, conn); out.Type != msgSubscribed || out.SessionID != built.SessionID {
		t.Fatalf("first message = %+v, want subscribed", out)
	}

	send := func(in highlightWSInbound) {
		t.Helper()
		if err := conn.WriteJSON(in); err != nil {
			t.Fatal(err)
		}
	}

	send(highlightWSInbound{Type: msgHighlight, Redex: "beta-1"})
	out := readOutbound(t, conn)
	if out.Type != msgApplied || out.Redex != "beta-1" || !out.Active || len(out.Elements) == 0 {
		t.Fatalf("highlight = %+v", out)
	}
	first := out.Colour

	// Moving to another redex clears the first before showing the second.
	send(highlightWSInbound{Type: msgHighlight, Redex: "beta-0"})
	out = readOutbound(t, conn)
	if out.Redex != "beta-1" || out.Active {
		t.Fatalf("expected beta-1 cleared, got %+v", out)
	}
	out = readOutbound(t, conn)
	if out.Redex != "beta-0" || !out.Active || out.Colour == first {
		t.Fatalf("expected beta-0 in a new colour, got %+v", out)
	}

	send(highlightWSInbound{Type: msgHighlight, Redex: "beta-9"})
	if out := readOutbound(t, conn); out.Type != msgError || out.Code != "NOT_FOUND" {
		t.Errorf("unknown redex = %+v, want NOT_FOUND error", out)
	}

	send(highlightWSInbound{Type: msgPing})
	if out := readOutbound(t, conn); out.Type != msgPong {
		t.Errorf("ping = %+v, want pong", out)
	}

	send(highlightWSInbound{Type: "shout"})
	if out := readOutbound(t, conn); out.Type != msgError || out.Code != "INVALID_INPUT" {
		t.Errorf("bad type = %+v, want INVALID_INPUT error", out)
	}
}

func TestHighlightWSRejectsUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"missing", "", http.StatusBadRequest},
		{"unknown", "?session=00000000-0000-0000-0000-000000000000", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/highlight" + tt.query
			_, resp, err := websocket.DefaultDialer.Dial(url, nil)
			if err == nil {
				t.Fatal("dial should fail")
			}
			if resp == nil || resp.StatusCode != tt.wantStatus {
				t.Errorf("response = %v, want status %d", resp, tt.wantStatus)
			}
		})
	}
}
