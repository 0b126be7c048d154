package arrivals_test

import (
	"errors"
	"testing"
	"time"

	"github.com/subwaysign/subwaysign/arrivals"
	"github.com/subwaysign/subwaysign/gtfsrt"
	"github.com/subwaysign/subwaysign/stops"
)

type fakeNames map[string]string

func (f fakeNames) StationName(id string) (string, bool) {
	name, ok := f[id]
	return name, ok
}

func newResolver(t *testing.T, names fakeNames) *arrivals.Resolver {
	t.Helper()
	stopResolver, err := stops.NewResolver()
	if err != nil {
		t.Fatalf("stops.NewResolver: %v", err)
	}
	r, err := arrivals.NewResolver(stopResolver, names)
	if err != nil {
		t.Fatalf("arrivals.NewResolver: %v", err)
	}
	return r
}

func trip(routeID string, updates ...gtfsrt.StopTimeUpdate) gtfsrt.TripUpdate {
	return gtfsrt.TripUpdate{RouteID: routeID, StopTimeUpdates: updates}
}

func at(stopID string, epoch int64) gtfsrt.StopTimeUpdate {
	return gtfsrt.StopTimeUpdate{StopID: stopID, Arrival: &epoch}
}

func okFeed(url string, trips ...gtfsrt.TripUpdate) gtfsrt.FeedResult {
	return gtfsrt.FeedResult{URL: url, Feed: &gtfsrt.Feed{TripUpdates: trips}}
}

func TestStalenessBoundary(t *testing.T) {
	r := newResolver(t, fakeNames{})
	now := time.Now().Unix()

	tests := []struct {
		name  string
		epoch int64
		want  int
	}{
		{"61s past is stale", now - 61, 0},
		{"60s past is stale", now - 60, 0},
		{"59s past survives", now - 59, 1},
		{"future survives", now + 120, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := []gtfsrt.FeedResult{okFeed("feed", trip("1", at("127N", tt.epoch)))}
			got := r.Resolve("127", results, now)
			if len(got) != tt.want {
				t.Errorf("Resolve returned %d arrivals, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDirectionDerivation(t *testing.T) {
	r := newResolver(t, fakeNames{})
	now := time.Now().Unix()

	tests := []struct {
		stopID string
		want   string
	}{
		{"120N", "Uptown"},
		{"120S", "Downtown"},
		{"120X", "Downtown"},
	}

	for _, tt := range tests {
		t.Run(tt.stopID, func(t *testing.T) {
			results := []gtfsrt.FeedResult{okFeed("feed", trip("1", at(tt.stopID, now+60)))}
			got := r.Resolve("120", results, now)
			if len(got) != 1 {
				t.Fatalf("Resolve returned %d arrivals, want 1", len(got))
			}
			if got[0].Direction != tt.want {
				t.Errorf("direction for %q = %q, want %q", tt.stopID, got[0].Direction, tt.want)
			}
		})
	}
}

func TestMissingTimesSkipped(t *testing.T) {
	r := newResolver(t, fakeNames{})
	now := time.Now().Unix()
	departure := now + 90

	results := []gtfsrt.FeedResult{okFeed("feed",
		trip("1", gtfsrt.StopTimeUpdate{StopID: "127N"}),
		trip("2", gtfsrt.StopTimeUpdate{StopID: "127N", Departure: &departure}),
	)}
	got := r.Resolve("127", results, now)
	if len(got) != 1 {
		t.Fatalf("Resolve returned %d arrivals, want 1 (departure-only update)", len(got))
	}
	if got[0].RouteID != "2" {
		t.Errorf("routeId = %q, want %q", got[0].RouteID, "2")
	}
}

func TestPerFeedIsolation(t *testing.T) {
	r := newResolver(t, fakeNames{})
	now := time.Now().Unix()

	results := []gtfsrt.FeedResult{
		okFeed("feed-a", trip("1", at("127N", now+60))),
		{URL: "feed-b", Err: errors.New("HTTP 500 from feed-b")},
		okFeed("feed-c", trip("N", at("R16S", now+120))),
	}

	got := r.Resolve("127", results, now)
	if len(got) != 2 {
		t.Fatalf("Resolve returned %d arrivals, want the union of the 2 healthy feeds", len(got))
	}
	for _, a := range got {
		if a.RouteID != "1" && a.RouteID != "N" {
			t.Errorf("unexpected arrival from failed feed: %+v", a)
		}
	}
}

func TestGlobalOrdering(t *testing.T) {
	r := newResolver(t, fakeNames{})
	now := time.Now().Unix()

	results := []gtfsrt.FeedResult{
		okFeed("feed-a",
			trip("1", at("127N", now+300)),
			trip("2", at("127S", now+30)),
		),
		okFeed("feed-b", trip("N", at("R16N", now+150))),
	}

	got := r.Resolve("127", results, now)
	if len(got) != 3 {
		t.Fatalf("Resolve returned %d arrivals, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ArrivalTime > got[i].ArrivalTime {
			t.Errorf("arrivals out of order: %q before %q", got[i-1].ArrivalTime, got[i].ArrivalTime)
		}
	}
}

func TestCombinedStationSymmetry(t *testing.T) {
	r := newResolver(t, fakeNames{})
	now := time.Now().Unix()

	results := []gtfsrt.FeedResult{okFeed("feed",
		trip("1", at("140N", now+60)),
		trip("R", at("R27S", now+90)),
	)}

	for _, stationID := range []string{"140", "R27"} {
		got := r.Resolve(stationID, results, now)
		if len(got) != 2 {
			t.Errorf("Resolve(%q) returned %d arrivals, want both platforms of the complex", stationID, len(got))
		}
	}
}

func TestDestinationResolution(t *testing.T) {
	names := fakeNames{
		"101": "Van Cortlandt Park-242 St",
		"901": "Grand Central - 42 St",
	}
	r := newResolver(t, names)
	now := time.Now().Unix()

	tests := []struct {
		name string
		trip gtfsrt.TripUpdate
		want string
	}{
		{
			name: "terminus lookup wins",
			trip: trip("1", at("127N", now+120), at("101N", now+1800)),
			want: "Van Cortlandt Park-242 St",
		},
		{
			name: "unknown terminus falls back to route terminal",
			trip: trip("1", at("127S", now+120), at("ZZZS", now+1800)),
			want: "South Ferry",
		},
		{
			name: "unknown route falls back to direction",
			trip: trip("99", at("127S", now+120), at("ZZZS", now+1800)),
			want: "Downtown",
		},
		{
			name: "shuttle ignores terminus lookup",
			trip: trip("GS", at("902N", now+120), at("901N", now+300)),
			want: "Times Sq-42 St",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve("127", []gtfsrt.FeedResult{okFeed("feed", tt.trip)}, now)
			if len(got) != 1 {
				t.Fatalf("Resolve returned %d arrivals, want 1", len(got))
			}
			if got[0].Destination != tt.want {
				t.Errorf("destination = %q, want %q", got[0].Destination, tt.want)
			}
		})
	}
}

func TestTimesSquareScenario(t *testing.T) {
	r := newResolver(t, fakeNames{"101": "Van Cortlandt Park-242 St"})
	now := time.Now().Unix()

	results := []gtfsrt.FeedResult{okFeed("feed",
		trip("1", at("127N", now+120), at("101N", now+1800)),
	)}

	got := r.Resolve("127", results, now)
	if len(got) != 1 {
		t.Fatalf("Resolve returned %d arrivals, want 1", len(got))
	}
	want := arrivals.Arrival{
		RouteID:     "1",
		Destination: "Van Cortlandt Park-242 St",
		ArrivalTime: time.Unix(now+120, 0).UTC().Format(time.RFC3339),
		Direction:   "Uptown",
		Status:      "On Time",
	}
	if got[0] != want {
		t.Errorf("arrival = %+v, want %+v", got[0], want)
	}
}

func TestEmptyFeedsYieldEmptyList(t *testing.T) {
	r := newResolver(t, fakeNames{})
	got := r.Resolve("127", nil, time.Now().Unix())
	if got == nil {
		t.Fatal("Resolve returned nil, want empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("Resolve returned %d arrivals, want 0", len(got))
	}
}
