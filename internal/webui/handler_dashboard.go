package webui

import "net/http"

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	flightData, hasFlightData := a.sess.FlightData()
	data := map[string]any{
		"Title":         "Tello Dashboard",
		"Connected":     a.sess.IsConnected(),
		"HasFlightData": hasFlightData,
		"FlightData":    flightData,
	}
	if err := a.Tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
