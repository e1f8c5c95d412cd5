package webui

import "net/http"

func (a *App) registerRoutes() {
	a.Mux.HandleFunc("/login", a.handleLogin)
	a.Mux.HandleFunc("/logout", a.handleLogout)

	a.Mux.HandleFunc("/", AuthMiddleware(a.creds, a.handleDashboard))
	a.Mux.HandleFunc("/ws", AuthMiddleware(a.creds, a.hub.serveWS))
	a.Mux.HandleFunc("/api/latest", AuthMiddleware(a.creds, a.handleLatest))
	a.Mux.HandleFunc("/api/control", AuthMiddleware(a.creds, a.handleControl))

	fs := http.FileServer(http.Dir("web/static"))
	a.Mux.Handle("/static/", http.StripPrefix("/static/", fs))
}
