package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subwaysign/subwaysign"
	"github.com/subwaysign/subwaysign/alerts"
	"github.com/subwaysign/subwaysign/arrivals"
	"github.com/subwaysign/subwaysign/catalog"
	"github.com/subwaysign/subwaysign/config"
	"github.com/subwaysign/subwaysign/gtfsrt"
	"github.com/subwaysign/subwaysign/stops"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	subwaysign.InitLogging()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stationsURL := cfg.Catalog.StationsURL
	if stationsURL == "" {
		stationsURL = catalog.DefaultStationsURL
	}
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	directory, err := catalog.Load(initCtx, &http.Client{Timeout: 15 * time.Second}, stationsURL)
	if err != nil {
		return err
	}

	stopResolver, err := stops.NewResolver()
	if err != nil {
		return err
	}
	arrivalResolver, err := arrivals.NewResolver(stopResolver, directory)
	if err != nil {
		return err
	}

	feedClient := gtfsrt.NewClient(time.Duration(cfg.Feeds.TimeoutMS)*time.Millisecond, cfg.APIKey)
	app := &subwaysign.App{
		Catalog:  directory,
		Feeds:    feedClient,
		FeedURLs: cfg.Feeds.TripUpdateURLs,
		Arrivals: arrivalResolver,
		Alerts:   alerts.NewService(feedClient, cfg.Feeds.ServiceAlertsURL),
	}

	return subwaysign.Serve(ctx, subwaysign.NewServer(cfg.Server.Port, app))
}
