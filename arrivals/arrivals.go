// Package arrivals turns decoded trip updates into the time-ordered arrival
// list for one station.
package arrivals

import (
	"sort"
	"time"

	"github.com/subwaysign/subwaysign/gtfsrt"
	"github.com/subwaysign/subwaysign/stops"
)

// Rider-facing direction labels, derived from the feed stop-id suffix.
const (
	DirectionUptown   = "Uptown"
	DirectionDowntown = "Downtown"
)

// StatusOnTime is the only per-trip status the realtime feeds can support;
// delay signals live in the separate alerts feed.
const StatusOnTime = "On Time"

// stalenessGraceSeconds tolerates clock and feed skew: an update whose
// effective time is older than this is treated as already departed.
const stalenessGraceSeconds = 60

// Arrival is one resolved upcoming train.
type Arrival struct {
	RouteID     string `json:"routeId"`
	Destination string `json:"destination"`
	ArrivalTime string `json:"arrivalTime"`
	Direction   string `json:"direction"`
	Status      string `json:"status"`
}

// StationNames looks up the display name for a catalog station id. The
// station directory satisfies this.
type StationNames interface {
	StationName(id string) (string, bool)
}

// Resolver scans decoded feeds for a station's upcoming trains.
type Resolver struct {
	stops *stops.Resolver
	names StationNames
	terms *terminals
}

// NewResolver builds the pipeline from the stop-identity resolver and the
// station directory. It fails only if the embedded terminal table is bad.
func NewResolver(stopResolver *stops.Resolver, names StationNames) (*Resolver, error) {
	terms, err := loadTerminals()
	if err != nil {
		return nil, err
	}
	return &Resolver{stops: stopResolver, names: names, terms: terms}, nil
}

// Resolve scans every feed's trip updates for stops matching the station's
// query set and emits the matching arrivals sorted ascending by time. Failed
// feeds simply contribute nothing. An empty result is a normal quiet-track
// outcome, not an error.
func (r *Resolver) Resolve(stationID string, results []gtfsrt.FeedResult, now int64) []Arrival {
	querySet := r.stops.StopIDsToQuery(stationID)

	type timed struct {
		arrival Arrival
		epoch   int64
	}
	var matched []timed

	for _, res := range results {
		if !res.OK() || res.Feed == nil {
			continue
		}
		for _, trip := range res.Feed.TripUpdates {
			for _, update := range trip.StopTimeUpdates {
				if !stops.MatchesStation(update.StopID, querySet) {
					continue
				}
				direction := directionFor(update.StopID)
				epoch, ok := effectiveTime(update)
				if !ok || epoch <= now-stalenessGraceSeconds {
					continue
				}
				matched = append(matched, timed{
					arrival: Arrival{
						RouteID:     trip.RouteID,
						Destination: r.destinationFor(trip, direction),
						ArrivalTime: time.Unix(epoch, 0).UTC().Format(time.RFC3339),
						Direction:   direction,
						Status:      StatusOnTime,
					},
					epoch: epoch,
				})
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].epoch < matched[j].epoch })

	arrivals := make([]Arrival, len(matched))
	for i, m := range matched {
		arrivals[i] = m.arrival
	}
	return arrivals
}

// directionFor derives the rider-facing direction from the stop id's
// trailing character. Only 'N' means Uptown; everything else is Downtown.
func directionFor(stopID string) string {
	if len(stopID) > 0 && stopID[len(stopID)-1] == 'N' {
		return DirectionUptown
	}
	return DirectionDowntown
}

// effectiveTime prefers the arrival instant, falling back to departure.
func effectiveTime(update gtfsrt.StopTimeUpdate) (int64, bool) {
	if update.Arrival != nil {
		return *update.Arrival, true
	}
	if update.Departure != nil {
		return *update.Departure, true
	}
	return 0, false
}
