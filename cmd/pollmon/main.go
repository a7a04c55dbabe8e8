// go-nci
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-nci.
//
// go-nci is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-nci is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-nci; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// pollmon watches an NCI controller's polling-loop telemetry, either live
// from a serial port or replayed from a hex dump, and prints the decoded
// events.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/ZaparooProject/go-nci/internal/config"
	"github.com/ZaparooProject/go-nci/internal/metrics"
	"github.com/ZaparooProject/go-nci/monitor"
	"github.com/ZaparooProject/go-nci/transport/uart"
)

func main() {
	if run() != 0 {
		os.Exit(1)
	}
}

func run() int {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	portFlag := flag.String("port", "", "Serial port of the NCI controller")
	baudFlag := flag.Int("baud", 0, "Serial baud rate")
	replayFlag := flag.String("replay", "", "Replay polling frames from a hex dump file instead of live capture")
	metricsFlag := flag.String("metrics", "", "Expose prometheus metrics on this address")
	verboseFlag := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if *portFlag != "" {
		cfg.Port.Device = *portFlag
	}
	if *baudFlag > 0 {
		cfg.Port.Baud = *baudFlag
	}
	if *metricsFlag != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = *metricsFlag
	}
	if *verboseFlag {
		cfg.Logging.Level = "debug"
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	listener := nci.PollingListenerFunc(func(event nci.PollingEvent) {
		attrs := make([]any, 0, 4)
		if event.HasType {
			attrs = append(attrs, slog.String("type", event.Type.String()))
		}
		if event.HasGain {
			attrs = append(attrs, slog.Int("gain", int(event.Gain)))
		}
		if event.HasTimestamp {
			attrs = append(attrs, slog.Uint64("timestamp", uint64(event.Timestamp)))
		}
		if event.Payload != nil {
			attrs = append(attrs, slog.String("payload", hex.EncodeToString(event.Payload)))
		}
		logger.Info("polling loop event", attrs...)
	})

	if *replayFlag != "" {
		return replay(logger, listener, *replayFlag)
	}

	if cfg.Port.Device == "" {
		fmt.Fprintln(os.Stderr, "No serial port given; use -port, a config file, or -replay")
		return 1
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	var pipelineMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		pipelineMetrics = metrics.New()
		go serveMetrics(logger, cfg.Metrics.Address)
	}

	link, err := uart.New(cfg.Port.Device, uart.WithBaudRate(cfg.Port.Baud))
	if err != nil {
		logger.Error("failed to open link", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("watching polling loop telemetry",
		slog.String("port", cfg.Port.Device),
		slog.Int("baud", cfg.Port.Baud))

	m := monitor.New(link, listener, &monitor.Config{
		Logger:  logger,
		Metrics: pipelineMetrics,
	})
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			logger.Warn("close failed", slog.String("error", closeErr.Error()))
		}
	}()

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("monitor stopped", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// replay feeds raw polling frames from a hex dump file, one frame per
// line, straight into the decoder. Blank lines and #-comments are
// skipped.
func replay(logger *slog.Logger, listener nci.PollingListener, path string) int {
	file, err := os.Open(path)
	if err != nil {
		logger.Error("failed to open replay file", slog.String("error", err.Error()))
		return 1
	}
	defer func() { _ = file.Close() }()

	decoder := nci.NewPollingFrameDecoder(listener, nci.WithLogger(logger))

	lineNo := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		buf, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		if err != nil {
			logger.Warn("skipping bad hex line",
				slog.Int("line", lineNo),
				slog.String("error", err.Error()))
			continue
		}
		if !decoder.Notify(buf) {
			logger.Debug("frame below minimum size", slog.Int("line", lineNo))
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("replay read failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func serveMetrics(logger *slog.Logger, address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", slog.String("error", err.Error()))
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
