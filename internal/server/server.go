// internal/server/server.go
package server

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"retheme/internal/builder"
	"retheme/internal/logger"
)

// Config describes what the preview server serves and watches.
type Config struct {
	Port int
	// Dir is the flow directory. It is served as the site root and watched
	// for changed backups.
	Dir string
	// FlowsFile and TemplateDir are watched when set.
	FlowsFile   string
	TemplateDir string
}

// Run converts once, then serves cfg.Dir with live reload and reconverts
// whenever a backup, the flow table or a template changes.
func Run(cfg Config, rebuild func() error, log logger.Logger) error {
	if err := rebuild(); err != nil {
		return fmt.Errorf("initial conversion failed: %w", err)
	}

	hub := newHub(log)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if watchedDirs[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			log.Error("could not watch directory", logger.String("dir", dir), logger.Error(err))
			return
		}
		log.Info("watching directory", logger.String("dir", dir))
		watchedDirs[dir] = true
	}

	addWatch(cfg.Dir)
	if cfg.TemplateDir != "" {
		addWatch(cfg.TemplateDir)
	}
	if cfg.FlowsFile != "" {
		// Watch the parent so editors that save by rename are still seen.
		if _, err := os.Stat(cfg.FlowsFile); err == nil {
			addWatch(filepath.Dir(cfg.FlowsFile))
		}
	}

	go watchForChanges(watcher, hub, cfg, rebuild, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	mux.Handle("/", liveReloadWrapper(http.FileServer(http.Dir(cfg.Dir))))

	addr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("Serving %s on http://localhost%s/index.html\n", cfg.Dir, addr)
	fmt.Println("Press Ctrl+C to stop")
	return http.ListenAndServe(addr, mux)
}

// shouldRebuild reports whether a change to path can alter the converted
// pages. Generated pages and temp files are ignored so a conversion does not
// trigger itself.
func shouldRebuild(cfg Config, path string) bool {
	path = filepath.Clean(path)
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") {
		return false
	}
	if cfg.TemplateDir != "" && filepath.Dir(path) == filepath.Clean(cfg.TemplateDir) {
		return strings.HasSuffix(base, ".html")
	}
	if cfg.FlowsFile != "" && path == filepath.Clean(cfg.FlowsFile) {
		return true
	}
	if filepath.Dir(path) == filepath.Clean(cfg.Dir) {
		return strings.HasSuffix(base, builder.BackupSuffix)
	}
	return false
}

func watchForChanges(watcher *fsnotify.Watcher, hub *Hub, cfg Config, rebuild func() error, log logger.Logger) {
	var lastBuildTime time.Time
	const debounceDuration = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !shouldRebuild(cfg, event.Name) || time.Since(lastBuildTime) <= debounceDuration {
				continue
			}
			time.Sleep(100 * time.Millisecond)

			log.Info("change detected, reconverting", logger.String("path", event.Name))
			if err := rebuild(); err != nil {
				log.Error("reconversion failed", logger.Error(err))
			} else {
				log.Info("pages reconverted, triggering reload")
				hub.broadcastMessage([]byte("reload"))
			}
			lastBuildTime = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", logger.Error(err))
		}
	}
}

func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter(w)
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		body := iw.body.Bytes()
		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(body)
			return
		}

		injected := bytes.Replace(body, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injected)))
		w.WriteHeader(iw.statusCode)
		w.Write(injected)
	})
}

type interceptingWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter(w http.ResponseWriter) *interceptingWriter {
	return &interceptingWriter{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		header:         make(http.Header),
		statusCode:     http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header {
	return iw.header
}

func (iw *interceptingWriter) Write(b []byte) (int, error) {
	return iw.body.Write(b)
}

func (iw *interceptingWriter) WriteHeader(statusCode int) {
	iw.statusCode = statusCode
}

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function(error) {
      console.error("Live reload connection error. Please restart 'retheme serve'.");
    };
  })();
</script>
`
