package gtfsrt

// StopTimeUpdate is one stop-level prediction inside a trip update. Either
// time may be absent; the feed's stop ids carry a trailing direction suffix.
type StopTimeUpdate struct {
	StopID    string
	Arrival   *int64
	Departure *int64
}

// TripUpdate is one train's real-time progress report. StopTimeUpdates are
// ordered by the trip's physical stop sequence; the last element is the
// trip's terminus.
type TripUpdate struct {
	RouteID         string
	StopTimeUpdates []StopTimeUpdate
}

// AlertEntity is one decoded service-alert entity with the route ids named
// in its informed entities.
type AlertEntity struct {
	ID          string
	RouteIDs    []string
	Header      string
	Description string
	Start       int64
	End         int64
}

// Feed is the decoded form of one GTFS-RT FeedMessage.
type Feed struct {
	TripUpdates []TripUpdate
	Alerts      []AlertEntity
}

// FeedResult is the outcome of fetching one feed URL. A failed fetch keeps
// its error here instead of propagating, so one bad feed never affects the
// others and callers can still observe the failure.
type FeedResult struct {
	URL  string
	Feed *Feed
	Err  error
}

// OK reports whether the feed was fetched and decoded successfully.
func (r FeedResult) OK() bool { return r.Err == nil }
