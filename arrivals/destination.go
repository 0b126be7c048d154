package arrivals

import (
	"encoding/json"
	"fmt"

	"github.com/subwaysign/subwaysign/gtfsrt"

	_ "embed"
)

//go:embed data/terminals.json
var terminalsJSON []byte

type terminalPair struct {
	Uptown   string `json:"uptown"`
	Downtown string `json:"downtown"`
}

type terminals struct {
	Routes   map[string]terminalPair `json:"routes"`
	Shuttles []string                `json:"shuttles"`

	shuttleSet map[string]bool
}

func loadTerminals() (*terminals, error) {
	t := &terminals{}
	if err := json.Unmarshal(terminalsJSON, t); err != nil {
		return nil, fmt.Errorf("terminals asset: %w", err)
	}
	t.shuttleSet = make(map[string]bool, len(t.Shuttles))
	for _, route := range t.Shuttles {
		t.shuttleSet[route] = true
	}
	return t, nil
}

func (t *terminals) lookup(routeID, direction string) (string, bool) {
	pair, ok := t.Routes[routeID]
	if !ok {
		return "", false
	}
	if direction == DirectionUptown {
		return pair.Uptown, true
	}
	return pair.Downtown, true
}

// destinationResolver is one step of the layered destination fallback. It
// returns false to pass the trip to the next step.
type destinationResolver func(trip gtfsrt.TripUpdate, direction string) (string, bool)

// destinationFor resolves the rider-facing destination by trying, in order:
// the shuttle terminal table (shuttle termini alternate by direction, so the
// trip terminus is ignored for them), the trip's own terminus looked up in
// the station directory, the per-route terminal table, and finally the
// direction label itself.
func (r *Resolver) destinationFor(trip gtfsrt.TripUpdate, direction string) string {
	chain := []destinationResolver{
		r.shuttleTerminal,
		r.tripTerminus,
		r.routeTerminal,
	}
	for _, resolve := range chain {
		if destination, ok := resolve(trip, direction); ok {
			return destination
		}
	}
	return direction
}

func (r *Resolver) shuttleTerminal(trip gtfsrt.TripUpdate, direction string) (string, bool) {
	if !r.terms.shuttleSet[trip.RouteID] {
		return "", false
	}
	return r.terms.lookup(trip.RouteID, direction)
}

// tripTerminus names the destination after the last stop in the trip's
// sequence, with the direction suffix stripped for the directory lookup.
func (r *Resolver) tripTerminus(trip gtfsrt.TripUpdate, _ string) (string, bool) {
	last := trip.StopTimeUpdates[len(trip.StopTimeUpdates)-1]
	if len(last.StopID) < 2 {
		return "", false
	}
	return r.names.StationName(last.StopID[:len(last.StopID)-1])
}

func (r *Resolver) routeTerminal(trip gtfsrt.TripUpdate, direction string) (string, bool) {
	return r.terms.lookup(trip.RouteID, direction)
}
