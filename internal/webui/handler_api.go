package webui

import (
	"encoding/json"
	"io"
	"net/http"

	"tellogo/internal/util"
)

// handleLatest returns the most recently recorded snapshot, falling back
// to the session's live cache if no recorder is configured or the
// recorder holds no snapshot yet.
func (a *App) handleLatest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if a.rec != nil {
		if snap, ok := a.rec.Latest(); ok {
			if err := json.NewEncoder(w).Encode(snap); err != nil {
				util.Error("[dashboard] encode latest: %v", err)
			}
			return
		}
	}

	fd, ok := a.sess.FlightData()
	if !ok {
		http.Error(w, "no telemetry data", http.StatusNotFound)
		return
	}
	if err := json.NewEncoder(w).Encode(fd); err != nil {
		util.Error("[dashboard] encode flight data: %v", err)
	}
}

// controlRequest is the minimal joystick/command envelope accepted from
// the dashboard's control panel.
type controlRequest struct {
	Command string  `json:"command"` // "takeoff", "land", "hover", "joystick"
	RightX  float64 `json:"right_x"`
	RightY  float64 `json:"right_y"`
	LeftX   float64 `json:"left_x"`
	LeftY   float64 `json:"left_y"`
}

func (a *App) handleControl(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read control command", http.StatusBadRequest)
		return
	}

	var req controlRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "malformed control command", http.StatusBadRequest)
		return
	}

	switch req.Command {
	case "takeoff":
		a.sess.TakeOffAsync()
	case "land":
		a.sess.LandAsync()
	case "hover":
		a.sess.Hover()
	case "joystick":
		a.sess.SetJoysticksState(req.RightX, req.RightY, req.LeftX, req.LeftY)
	default:
		http.Error(w, "unknown command", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
