// Package alerts classifies the subway service-alerts feed into a small
// severity taxonomy and fans each alert out to one record per affected route.
package alerts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/subwaysign/subwaysign/gtfsrt"
)

// ServiceAlert is one alert record scoped to a single route. An upstream
// entity naming K subway routes expands into K of these.
type ServiceAlert struct {
	ID                string `json:"id"`
	RouteID           string `json:"routeId"`
	AlertType         string `json:"alertType"`
	HeaderText        string `json:"headerText"`
	DescriptionText   string `json:"descriptionText"`
	ActivePeriodStart string `json:"activePeriodStart,omitempty"`
	ActivePeriodEnd   string `json:"activePeriodEnd,omitempty"`
	Severity          int    `json:"severity"`
}

// FeedFetcher is the slice of the feed client the alert pipeline needs.
type FeedFetcher interface {
	FetchOne(ctx context.Context, url string) (*gtfsrt.Feed, error)
}

// Service fetches and classifies the single alerts feed. Unlike the arrivals
// feeds there is no partial-result concept here: a failed fetch is an error.
type Service struct {
	fetcher FeedFetcher
	feedURL string
}

// NewService creates the alert pipeline over the given alerts feed URL.
func NewService(fetcher FeedFetcher, feedURL string) *Service {
	return &Service{fetcher: fetcher, feedURL: feedURL}
}

// GetAlerts returns every in-scope alert, one record per affected subway
// route, sorted most disruptive first.
func (s *Service) GetAlerts(ctx context.Context) ([]ServiceAlert, error) {
	return s.get(ctx, "")
}

// GetAlertsForRoute returns the alerts affecting one route. A trailing X is
// stripped for matching so express and local variants share alerts.
func (s *Service) GetAlertsForRoute(ctx context.Context, routeID string) ([]ServiceAlert, error) {
	return s.get(ctx, routeID)
}

func (s *Service) get(ctx context.Context, routeFilter string) ([]ServiceAlert, error) {
	feed, err := s.fetcher.FetchOne(ctx, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("alerts feed: %w", err)
	}

	out := []ServiceAlert{}
	for _, entity := range feed.Alerts {
		if entity.Header == "" && entity.Description == "" {
			continue
		}
		routes := subwayRoutes(entity.RouteIDs)
		if len(routes) == 0 {
			continue
		}
		if routeFilter != "" {
			routes = matchingRoutes(routes, routeFilter)
			if len(routes) == 0 {
				continue
			}
		}

		alertType := Classify(entity.Header)
		for _, routeID := range routes {
			alert := ServiceAlert{
				ID:              entity.ID + "-" + routeID,
				RouteID:         routeID,
				AlertType:       alertType,
				HeaderText:      entity.Header,
				DescriptionText: entity.Description,
				Severity:        severities[alertType],
			}
			if entity.Start > 0 {
				alert.ActivePeriodStart = time.Unix(entity.Start, 0).UTC().Format(time.RFC3339)
			}
			if entity.End > 0 {
				alert.ActivePeriodEnd = time.Unix(entity.End, 0).UTC().Format(time.RFC3339)
			}
			out = append(out, alert)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	return out, nil
}

// matchingRoutes keeps the routes equal to the requested id or its local
// variant (trailing X stripped).
func matchingRoutes(routes []string, requested string) []string {
	local := strings.TrimSuffix(requested, "X")
	var matched []string
	for _, r := range routes {
		if r == requested || r == local {
			matched = append(matched, r)
		}
	}
	return matched
}
