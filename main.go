package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Uranury/sensor-output/api"
	"github.com/Uranury/sensor-output/config"
	"github.com/Uranury/sensor-output/output"
	"github.com/Uranury/sensor-output/sensors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	// stdout carries the sample only
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	sensor := sensors.NewClimateSensor()

	if cfg.HTTPAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(cfg.HTTPAddr, sensor, cfg.Measurement, logger)
		if err := serve(ctx, srv, logger); err != nil {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
		return
	}

	enc := output.Encoder{Format: cfg.Format, Measurement: cfg.Measurement, Sensor: sensor.Name()}
	if err := run(os.Stdout, sensor, enc); err != nil {
		logger.Error("sample failed", "sensor", sensor.Name(), "err", err)
		os.Exit(1)
	}
}

// run takes one reading and writes it to w.
func run(w io.Writer, sensor sensors.Sensor, enc output.Encoder) error {
	data, err := sensor.Read()
	if err != nil {
		return err
	}
	return enc.Write(w, data)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *api.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
