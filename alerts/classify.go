package alerts

import (
	"regexp"
	"strings"
)

// Alert taxonomy. AlertTypeGeneric is the default when no header phrase
// matches.
const (
	AlertTypeDelays        = "Delays"
	AlertTypeSevereDelays  = "SevereDelays"
	AlertTypeSuspended     = "Suspended"
	AlertTypePlannedWork   = "PlannedWork"
	AlertTypeServiceChange = "ServiceChange"
	AlertTypeSlowSpeeds    = "SlowSpeeds"
	AlertTypeGeneric       = "ServiceAlert"
)

// Fixed severity per type, used only for sort order (most disruptive first).
// The integers mirror the values the display has always used; they are
// tunable constants, not a model of true MTA severity.
var severities = map[string]int{
	AlertTypeSuspended:     39,
	AlertTypeSevereDelays:  35,
	AlertTypeDelays:        22,
	AlertTypeServiceChange: 20,
	AlertTypeSlowSpeeds:    16,
	AlertTypePlannedWork:   15,
	AlertTypeGeneric:       10,
}

// subwayRouteID matches the subway route grammar: one or two characters
// from {1-7, A-Z}, optionally suffixed with X for express variants.
var subwayRouteID = regexp.MustCompile(`^[1-7A-Z]{1,2}X?$`)

// shuttle and railway codes outside the grammar that still count as subway.
var allowedRouteIDs = map[string]bool{
	"FS":  true,
	"GS":  true,
	"H":   true,
	"SI":  true,
	"SIR": true,
}

// subwayRoutes filters informed-entity route ids down to subway-scoped ones.
func subwayRoutes(routeIDs []string) []string {
	var routes []string
	for _, id := range routeIDs {
		if subwayRouteID.MatchString(id) || allowedRouteIDs[id] {
			routes = append(routes, id)
		}
	}
	return routes
}

// Classify maps a free-text alert header onto the taxonomy. Matching is
// case-insensitive substring search; the first phrase in precedence order
// wins, so "severe delays" never downgrades to plain Delays.
func Classify(header string) string {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "severe delay"),
		strings.Contains(h, "severely delayed"),
		strings.Contains(h, "delay") && strings.Contains(h, "severely"):
		return AlertTypeSevereDelays
	case strings.Contains(h, "delay"):
		return AlertTypeDelays
	case strings.Contains(h, "suspend"):
		return AlertTypeSuspended
	case strings.Contains(h, "planned work"):
		return AlertTypePlannedWork
	case strings.Contains(h, "service change"):
		return AlertTypeServiceChange
	case strings.Contains(h, "slow"):
		return AlertTypeSlowSpeeds
	default:
		return AlertTypeGeneric
	}
}
