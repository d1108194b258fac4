package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/torbrinch/ha-gpsd-client/internal/sensor"
)

type StatusSnapshot struct {
	Service string            `json:"service"`
	NowUTC  string            `json:"now_utc"`
	Sensors []sensor.Snapshot `json:"sensors"`
}

// Handler serves the status API and, when hub is non-nil, the websocket feed.
func Handler(svc *sensor.Service, hub *Hub) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := StatusSnapshot{
			Service: "gpsd-sensor",
			NowUTC:  time.Now().UTC().Format(time.RFC3339Nano),
			Sensors: svc.Snapshots(),
		}
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			http.Error(w, "marshal failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		_, _ = w.Write([]byte("\n"))
	})

	if hub != nil {
		mux.HandleFunc("/ws", hub.handleWS)
	}
	return mux
}
