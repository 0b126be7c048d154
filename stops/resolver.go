// Package stops resolves a requested station id to the set of platform ids
// that must be matched against feed stop ids. Some physical complexes span
// platforms with unrelated catalog ids (a numbered-line platform next to a
// lettered-line one); the combined-stations table joins them.
package stops

import (
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"
)

//go:embed data/combined_stations.json
var combinedStationsJSON []byte

// Resolver expands station ids through the combined-stations table.
type Resolver struct {
	combined map[string][]string
}

// NewResolver loads the combined-stations table and verifies it is
// symmetric: every forward mapping must have a reverse entry, so that
// requesting either member of a complex surfaces the union of its trains.
func NewResolver() (*Resolver, error) {
	var combined map[string][]string
	if err := json.Unmarshal(combinedStationsJSON, &combined); err != nil {
		return nil, fmt.Errorf("combined stations asset: %w", err)
	}
	for id, siblings := range combined {
		for _, sib := range siblings {
			if !contains(combined[sib], id) {
				return nil, fmt.Errorf("combined stations table is not symmetric: %s -> %s has no reverse entry", id, sib)
			}
		}
	}
	return &Resolver{combined: combined}, nil
}

// StopIDsToQuery returns the station id plus every sibling platform id at
// the same complex.
func (r *Resolver) StopIDsToQuery(stationID string) []string {
	return append([]string{stationID}, r.combined[stationID]...)
}

// MatchesStation reports whether a feed stop id belongs to the query set.
// Feed stop ids carry a one-character trailing direction suffix the catalog
// ids lack, hence prefix match rather than equality.
func MatchesStation(feedStopID string, querySet []string) bool {
	for _, id := range querySet {
		if strings.HasPrefix(feedStopID, id) {
			return true
		}
	}
	return false
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
