package config

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// FeedsConfig names the upstream GTFS-Realtime endpoints: one trip-update
// feed per route-family partition plus the single service-alerts feed.
type FeedsConfig struct {
	TripUpdateURLs   []string `yaml:"tripUpdateURLs" validate:"min=1,dive,url"`
	ServiceAlertsURL string   `yaml:"serviceAlertsURL" validate:"required,url"`
	TimeoutMS        int      `yaml:"timeoutMS" validate:"gte=0"`
}

// CatalogConfig points at the static station dataset the directory is
// initialized from. Empty means the built-in default URL.
type CatalogConfig struct {
	StationsURL string `yaml:"stationsURL" validate:"omitempty,url"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	Feeds   FeedsConfig   `yaml:"feeds" validate:"required"`
	Catalog CatalogConfig `yaml:"catalog"`

	// APIKey comes from the MTA_API_KEY environment variable, never from
	// the YAML file. Absence is fine; the feeds tolerate anonymous access.
	APIKey string `yaml:"-"`
}
