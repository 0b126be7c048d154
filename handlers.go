package subwaysign

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/subwaysign/subwaysign/alerts"
	"github.com/subwaysign/subwaysign/arrivals"
	"github.com/subwaysign/subwaysign/catalog"
	"github.com/subwaysign/subwaysign/gtfsrt"
)

// App wires the station directory, feed client and pipelines behind the
// HTTP surface. Everything here is read-only after startup.
type App struct {
	Catalog  *catalog.Repository
	Feeds    *gtfsrt.Client
	FeedURLs []string
	Arrivals *arrivals.Resolver
	Alerts   *alerts.Service
}

func (a *App) handleStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Catalog.Stations())
}

func (a *App) handleArrivals(w http.ResponseWriter, r *http.Request) {
	stationID := mux.Vars(r)["id"]
	if _, ok := a.Catalog.Station(stationID); !ok {
		writeError(w, http.StatusNotFound, "Station not found")
		return
	}

	results := a.Feeds.FetchAll(r.Context(), a.FeedURLs)
	for _, res := range results {
		if !res.OK() {
			log.Printf("feed %s contributed nothing: %v", res.URL, res.Err)
		}
	}

	list := a.Arrivals.Resolve(stationID, results, time.Now().Unix())
	writeJSON(w, http.StatusOK, list)
}

func (a *App) handleAlerts(w http.ResponseWriter, r *http.Request) {
	list, err := a.Alerts.GetAlerts(r.Context())
	if err != nil {
		log.Printf("alerts fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch service alerts")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *App) handleAlertsForRoute(w http.ResponseWriter, r *http.Request) {
	list, err := a.Alerts.GetAlertsForRoute(r.Context(), mux.Vars(r)["routeId"])
	if err != nil {
		log.Printf("alerts fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch service alerts")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type healthResponse struct {
	Status   string `json:"status"`
	Stations int    `json:"stations"`
	Time     string `json:"time"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Stations: len(a.Catalog.Stations()),
		Time:     time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
