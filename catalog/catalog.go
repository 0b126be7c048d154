// Package catalog holds the read-only station directory. It is initialized
// once at startup and injected wherever station lookups are needed; there is
// no write path after Load returns.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	_ "embed"
)

// DefaultStationsURL is the public station dataset the directory is built from.
const DefaultStationsURL = "https://raw.githubusercontent.com/jonthornton/MTAPI/master/data/stations.json"

//go:embed data/line_mappings.json
var lineMappingsJSON []byte

//go:embed data/name_overrides.json
var nameOverridesJSON []byte

//go:embed data/split_stations.json
var splitStationsJSON []byte

//go:embed data/fallback_stations.json
var fallbackStationsJSON []byte

// Repository is the immutable station directory.
type Repository struct {
	stations map[string]Station
	ordered  []Station
}

type remoteStation struct {
	Name     string    `json:"name"`
	Location []float64 `json:"location"`
}

type splitEntry struct {
	ID    string `json:"id"`
	Lines string `json:"lines"`
	Name  string `json:"name"`
}

type fallbackStation struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Lines string  `json:"lines"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type assets struct {
	lineMappings  map[string]string
	nameOverrides map[string]string
	splitStations map[string][]splitEntry
	fallback      []fallbackStation
}

// Load fetches the remote station dataset and overlays the embedded line
// mappings, display-name overrides and split-platform records. A fetch or
// decode failure falls back to the embedded minimal station list so the
// server can still come up without the upstream dataset.
func Load(ctx context.Context, client *http.Client, url string) (*Repository, error) {
	a, err := loadAssets()
	if err != nil {
		return nil, err
	}

	remote, err := fetchStations(ctx, client, url)
	if err != nil {
		log.Printf("station dataset fetch failed, using fallback list: %v", err)
		return fromFallback(a), nil
	}

	r := &Repository{stations: make(map[string]Station, len(remote))}
	for id, rs := range remote {
		name := rs.Name
		if override, ok := a.nameOverrides[id]; ok {
			name = override
		}
		var lat, lng *float64
		if len(rs.Location) >= 2 {
			lat, lng = ptr(rs.Location[0]), ptr(rs.Location[1])
		}
		r.stations[id] = Station{
			ID:    id,
			Name:  name,
			Lines: linesFor(id, a.lineMappings),
			Lat:   lat,
			Lng:   lng,
		}

		// Sibling platforms at the same complex carry their own ids and
		// line sets but share the location.
		for _, split := range a.splitStations[rs.Name] {
			if _, exists := r.stations[split.ID]; exists {
				continue
			}
			splitName := rs.Name
			if split.Name != "" {
				splitName = split.Name
			}
			r.stations[split.ID] = Station{
				ID:    split.ID,
				Name:  splitName,
				Lines: strings.Fields(split.Lines),
				Lat:   lat,
				Lng:   lng,
			}
		}
	}
	r.buildOrdered()
	log.Printf("station directory initialized with %d stations", len(r.stations))
	return r, nil
}

// Stations returns every station sorted by display name.
func (r *Repository) Stations() []Station {
	return r.ordered
}

// Station looks up one station by catalog id.
func (r *Repository) Station(id string) (Station, bool) {
	s, ok := r.stations[id]
	return s, ok
}

// StationName returns the display name for a catalog id.
func (r *Repository) StationName(id string) (string, bool) {
	s, ok := r.stations[id]
	if !ok {
		return "", false
	}
	return s.Name, true
}

func loadAssets() (*assets, error) {
	a := &assets{}
	if err := json.Unmarshal(lineMappingsJSON, &a.lineMappings); err != nil {
		return nil, fmt.Errorf("line mappings asset: %w", err)
	}
	if err := json.Unmarshal(nameOverridesJSON, &a.nameOverrides); err != nil {
		return nil, fmt.Errorf("name overrides asset: %w", err)
	}
	if err := json.Unmarshal(splitStationsJSON, &a.splitStations); err != nil {
		return nil, fmt.Errorf("split stations asset: %w", err)
	}
	if err := json.Unmarshal(fallbackStationsJSON, &a.fallback); err != nil {
		return nil, fmt.Errorf("fallback stations asset: %w", err)
	}
	return a, nil
}

func fetchStations(ctx context.Context, client *http.Client, url string) (map[string]remoteStation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	var remote map[string]remoteStation
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return nil, fmt.Errorf("decoding station dataset: %w", err)
	}
	return remote, nil
}

func fromFallback(a *assets) *Repository {
	r := &Repository{stations: make(map[string]Station, len(a.fallback))}
	for _, fs := range a.fallback {
		r.stations[fs.ID] = Station{
			ID:    fs.ID,
			Name:  fs.Name,
			Lines: strings.Fields(fs.Lines),
			Lat:   ptr(fs.Lat),
			Lng:   ptr(fs.Lng),
		}
	}
	r.buildOrdered()
	return r
}

// linesFor resolves the daytime routes for a station id: the curated mapping
// first, then a prefix heuristic for lettered divisions, then the numeric id
// ranges of the IRT lines.
func linesFor(id string, table map[string]string) []string {
	if s, ok := table[id]; ok {
		return strings.Fields(s)
	}
	switch {
	case strings.HasPrefix(id, "A"), strings.HasPrefix(id, "H"):
		return []string{"A"}
	case strings.HasPrefix(id, "B"):
		return []string{"B", "D"}
	case strings.HasPrefix(id, "D"):
		return []string{"B", "D", "F", "M"}
	case strings.HasPrefix(id, "F"):
		return []string{"F"}
	case strings.HasPrefix(id, "G"):
		return []string{"G"}
	case strings.HasPrefix(id, "J"):
		return []string{"J", "Z"}
	case strings.HasPrefix(id, "L"):
		return []string{"L"}
	case strings.HasPrefix(id, "M"):
		return []string{"M"}
	case strings.HasPrefix(id, "N"):
		return []string{"N"}
	case strings.HasPrefix(id, "Q"):
		return []string{"N", "Q"}
	case strings.HasPrefix(id, "R"):
		return []string{"N", "R", "W"}
	case strings.HasPrefix(id, "S"):
		return []string{"S"}
	}
	if n, err := strconv.Atoi(id); err == nil {
		switch {
		case n >= 100 && n < 200:
			return []string{"1"}
		case n >= 200 && n < 300:
			return []string{"2", "3"}
		case n >= 400 && n < 500:
			return []string{"4"}
		case n >= 500 && n < 600:
			return []string{"5"}
		case n >= 600 && n < 700:
			return []string{"6"}
		case n >= 700 && n < 800:
			return []string{"7"}
		case n >= 900 && n < 1000:
			return []string{"S"}
		}
	}
	return nil
}

func (r *Repository) buildOrdered() {
	r.ordered = make([]Station, 0, len(r.stations))
	for _, s := range r.stations {
		r.ordered = append(r.ordered, s)
	}
	sort.Slice(r.ordered, func(i, j int) bool {
		if r.ordered[i].Name != r.ordered[j].Name {
			return r.ordered[i].Name < r.ordered[j].Name
		}
		return r.ordered[i].ID < r.ordered[j].ID
	})
}

func ptr(f float64) *float64 { return &f }
