// Package subwaysign exposes the arrival and alert pipelines as a JSON API
// for the subway arrival display client.
package subwaysign

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/unrolled/logger"
)

// NewServer builds the HTTP server around the app's routes. The display
// client polls these endpoints every 30 seconds.
func NewServer(port int, app *App) *http.Server {
	router := mux.NewRouter()
	router.Use(logger.New().Handler)
	router.Use(recoverMiddleware)
	router.Use(corsMiddleware)

	router.HandleFunc("/api/health", app.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/stations", app.handleStations).Methods(http.MethodGet)
	router.HandleFunc("/api/stations/{id}/arrivals", app.handleArrivals).Methods(http.MethodGet)
	router.HandleFunc("/api/alerts", app.handleAlerts).Methods(http.MethodGet)
	router.HandleFunc("/api/alerts/{routeId}", app.handleAlertsForRoute).Methods(http.MethodGet)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Serve runs the server until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	log.Printf("server listening on %s", server.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Printf("server shut down successfully")
		return nil
	}
}

// recoverMiddleware turns an unexpected pipeline panic into a generic 500
// without leaking internals; the detail goes to the server log only.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s: %v", r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "Failed to fetch real-time data")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware lets the browser client call the API from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
