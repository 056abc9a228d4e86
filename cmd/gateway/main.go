// cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/config"
	"github.com/tamzrod/modbus-gateway/internal/poller"
	"github.com/tamzrod/modbus-gateway/internal/status"
	"github.com/tamzrod/modbus-gateway/internal/writer"
)

const defaultConfigPath = "/etc/tedge/plugins/modbus/modbus.yaml"

func main() {
	cfgPath := flag.String("config", defaultConfigPath, "path to the gateway configuration")
	check := flag.Bool("check", false, "compile the register table, print the acquisition plan and exit")
	flag.Parse()

	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		boot.Fatal().Err(err).Str("path", *cfgPath).Msg("config load failed")
	}

	if err := config.Validate(cfg); err != nil {
		boot.Fatal().Err(err).Str("path", *cfgPath).Msg("config validation failed")
	}

	log, err := newLogger(cfg.Logging, os.Stdout)
	if err != nil {
		boot.Fatal().Err(err).Msg("logger setup failed")
	}

	// --------------------
	// Compile register table
	// --------------------

	groups, err := compile(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Registers.File).Msg("register table rejected")
	}

	if *check {
		if err := printPlan(os.Stdout, cfg.Device, groups); err != nil {
			log.Fatal().Err(err).Msg("print plan failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, groups, log); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
	log.Info().Msg("gateway stopped")
}

// run wires publisher, status tracker and poller, then blocks until ctx is done.
func run(ctx context.Context, cfg *config.Config, groups []poller.Group, log zerolog.Logger) error {
	// ---- writer ----
	plan, err := writer.BuildPlan(cfg)
	if err != nil {
		return err
	}

	pub, closePub, err := writer.BuildPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePub()

	w, err := writer.New(plan, pub, component(log, "writer"))
	if err != nil {
		return err
	}

	// ---- status ----
	tracker := status.NewTracker(nil)

	if cfg.Metrics.Listen != "" {
		srv := metricsServer(cfg.Metrics.Listen, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("listen", cfg.Metrics.Listen).Msg("metrics listener failed")
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		log.Info().Str("listen", cfg.Metrics.Listen).Msg("serving metrics")
	}

	// ---- poller ----
	p, closePoller, err := poller.Build(cfg, groups, component(log, "poller"), w, tracker)
	if err != nil {
		return err
	}
	defer closePoller()

	log.Info().
		Str("device", cfg.Device).
		Str("endpoint", cfg.Modbus.Endpoint).
		Str("broker", cfg.MQTT.Broker).
		Int("groups", len(groups)).
		Msg("gateway started")

	p.Run(ctx)
	return nil
}

func metricsServer(addr string, tracker *status.Tracker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", tracker.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
