package gtfsrt

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// DecodeFeed unmarshals a binary GTFS-RT FeedMessage payload and reshapes it
// into trip updates and alert entities. Trip updates without stop time
// updates are skipped. Decoding never mutates its input.
func DecodeFeed(data []byte) (*Feed, error) {
	fm := &gtfsrtpb.FeedMessage{}
	if err := proto.Unmarshal(data, fm); err != nil {
		return nil, fmt.Errorf("decoding feed message: %w", err)
	}

	feed := &Feed{}
	for _, e := range fm.Entity {
		if tu := e.TripUpdate; tu != nil && len(tu.StopTimeUpdate) > 0 {
			trip := TripUpdate{
				RouteID:         tu.GetTrip().GetRouteId(),
				StopTimeUpdates: make([]StopTimeUpdate, 0, len(tu.StopTimeUpdate)),
			}
			for _, stu := range tu.StopTimeUpdate {
				if stu.StopId == nil {
					continue
				}
				update := StopTimeUpdate{StopID: *stu.StopId}
				if stu.Arrival != nil && stu.Arrival.Time != nil {
					update.Arrival = stu.Arrival.Time
				}
				if stu.Departure != nil && stu.Departure.Time != nil {
					update.Departure = stu.Departure.Time
				}
				trip.StopTimeUpdates = append(trip.StopTimeUpdates, update)
			}
			if len(trip.StopTimeUpdates) > 0 {
				feed.TripUpdates = append(feed.TripUpdates, trip)
			}
		}

		if a := e.Alert; a != nil {
			alert := AlertEntity{
				ID:          e.GetId(),
				Header:      translatedStringToText(a.HeaderText),
				Description: translatedStringToText(a.DescriptionText),
			}
			if len(a.ActivePeriod) > 0 {
				ap := a.ActivePeriod[0]
				if ap.Start != nil {
					alert.Start = int64(*ap.Start)
				}
				if ap.End != nil {
					alert.End = int64(*ap.End)
				}
			}
			seen := map[string]bool{}
			for _, ie := range a.InformedEntity {
				if ie.RouteId == nil || seen[*ie.RouteId] {
					continue
				}
				seen[*ie.RouteId] = true
				alert.RouteIDs = append(alert.RouteIDs, *ie.RouteId)
			}
			feed.Alerts = append(feed.Alerts, alert)
		}
	}
	return feed, nil
}

// translatedStringToText flattens a TranslatedString, preferring the English
// (or untagged) translation and falling back to the first one present.
func translatedStringToText(ts *gtfsrtpb.TranslatedString) string {
	if ts == nil {
		return ""
	}
	for _, t := range ts.GetTranslation() {
		if t.GetLanguage() == "en" || t.GetLanguage() == "" {
			return t.GetText()
		}
	}
	if len(ts.GetTranslation()) > 0 {
		return ts.GetTranslation()[0].GetText()
	}
	return ""
}
