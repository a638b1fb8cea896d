package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retheme/internal/logger"
)

func TestShouldRebuild(t *testing.T) {
	cfg := Config{
		Dir:         "trading-flows",
		FlowsFile:   "flows.yaml",
		TemplateDir: "templates/dark",
	}
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("trading-flows", "bear-call-spread-flow.html.bak"), true},
		{filepath.Join("trading-flows", "bear-call-spread-flow.html"), false},
		{filepath.Join("trading-flows", ".bear-call-spread-flow.html.123.tmp"), false},
		{filepath.Join("trading-flows", "style.css"), false},
		{"flows.yaml", true},
		{"other.yaml", false},
		{filepath.Join("templates", "dark", "flow.html"), true},
		{filepath.Join("templates", "dark", "notes.txt"), false},
		{filepath.Join("templates", "dark", ".flow.html.swp"), false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRebuild(cfg, tt.path))
		})
	}
}

func TestLiveReloadWrapperInjectsScript(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html><body><p>page</p></body></html>")
	})
	rec := httptest.NewRecorder()
	liveReloadWrapper(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `new WebSocket("ws://"`)
	assert.True(t, strings.HasSuffix(body, "</script>\n</body></html>"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
}

func TestLiveReloadWrapperPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.html" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "body{}</body>")
	})
	h := liveReloadWrapper(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/styles.css", nil))
	assert.Equal(t, "body{}</body>", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "WebSocket")
}

func TestHubBroadcast(t *testing.T) {
	hub := newHub(logger.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 10*time.Millisecond)
	hub.broadcastMessage([]byte("reload"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))

	conn.Close()
	require.Eventually(t, func() bool { return hub.count() == 0 }, time.Second, 10*time.Millisecond)
}
