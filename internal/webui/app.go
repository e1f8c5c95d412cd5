// Package webui is the telemetry dashboard: an HTTP server with a
// websocket hub that streams FlightData snapshots from a running
// session.Session to connected browsers. Like internal/recorder, this is
// a collaborator — it polls the session through its public API and never
// reaches into session-internal state.
package webui

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tellogo/internal/recorder"
	"tellogo/internal/session"
	"tellogo/internal/util"
)

// Credentials gates access to the dashboard behind a single shared
// username/password, set from config rather than hardcoded.
type Credentials struct {
	Username string
	Password string
}

// App is the dashboard web server.
type App struct {
	Tmpl   *template.Template
	Mux    *http.ServeMux
	Server *http.Server

	sess  *session.Session
	rec   *recorder.Recorder // optional; nil if recording is disabled
	creds Credentials
	hub   *hub
}

// NewApp builds the dashboard app around an already-running session. rec
// may be nil if the deployment has recording disabled.
func NewApp(sess *session.Session, rec *recorder.Recorder, creds Credentials, broadcastHz int) (*App, error) {
	cwd, _ := os.Getwd()
	tmplPath := filepath.Join(cwd, "web", "templates", "*.html")

	tmpl := template.New("").Funcs(template.FuncMap{
		"year": func() int { return time.Now().Year() },
	})
	tmpl, err := tmpl.ParseGlob(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("webui: load templates: %w", err)
	}

	if broadcastHz <= 0 {
		broadcastHz = 4
	}

	a := &App{
		Tmpl:  tmpl,
		Mux:   http.NewServeMux(),
		sess:  sess,
		rec:   rec,
		creds: creds,
		hub:   newHub(sess, broadcastHz),
	}
	a.registerRoutes()
	go a.hub.run()
	return a, nil
}

// Start launches the dashboard HTTP server and blocks until it's stopped.
func (a *App) Start(addr string) error {
	if addr == "" {
		util.Info("[dashboard] not started (empty address)")
		return nil
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	a.Server = &http.Server{Addr: addr, Handler: a.Mux}
	util.Info("[dashboard] listening at http://%s", addr)

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webui: serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts the HTTP server and the broadcast hub down.
func (a *App) Stop() {
	if a == nil {
		return
	}
	a.hub.stop()
	if a.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.Server.Shutdown(ctx); err != nil {
			util.Error("[dashboard] shutdown: %v", err)
		}
	}
}
