// Command mockprovider runs fake upstream providers for local end-to-end
// runs. Each search endpoint answers in a different payload shape; the
// flight endpoint sits behind a client-credentials token.
package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dharmasatrya/tripease/internal/logger"
)

func main() {
	port := getEnv("PORT", "9001")
	failureRate := getEnvFloat("FAILURE_RATE", 0.1)
	log := logger.New(getEnv("APP_ENV", "development"))

	tokens := newTokenIssuer(
		getEnv("MOCK_CLIENT_ID", "dev-client"),
		getEnv("MOCK_CLIENT_SECRET", "dev-secret"),
		30*time.Minute,
	)

	mux := newMux(tokens, failureRate)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write healthz response", "error", err)
		}
	})

	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("mock providers listening", "addr", addr, "failure_rate", failureRate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down mock providers")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
}

func newMux(tokens *tokenIssuer, failureRate float64) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", tokens.ServeToken)
	mux.Handle("GET /hotels", flaky(failureRate, http.HandlerFunc(hotels)))
	mux.Handle("GET /buses", flaky(failureRate, http.HandlerFunc(buses)))
	mux.Handle("GET /trains", flaky(failureRate, http.HandlerFunc(trains)))
	mux.Handle("GET /destinations", flaky(failureRate, http.HandlerFunc(destinations)))
	mux.Handle("GET /places", flaky(failureRate, http.HandlerFunc(places)))
	mux.Handle("GET /flights", tokens.Require(flaky(failureRate, http.HandlerFunc(flights))))
	return mux
}

// flaky adds 50-150ms of latency and fails a share of requests with 503.
func flaky(failureRate float64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delay := time.Duration(50+rand.Intn(100)) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}

		if rand.Float64() < failureRate {
			http.Error(w, `{"error":"service temporarily unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 || f > 1 {
		return defaultValue
	}
	return f
}
