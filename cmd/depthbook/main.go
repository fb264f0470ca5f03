package main

import (
	"flag"
	"time"

	"github.com/BullionBear/depthbook/internal/config"
	"github.com/BullionBear/depthbook/internal/httpapi"
	"github.com/BullionBear/depthbook/internal/natsbridge"
	"github.com/BullionBear/depthbook/internal/supervisor"
	"github.com/BullionBear/depthbook/pkg/logger"
	"github.com/BullionBear/depthbook/pkg/shutdown"
)

func main() {
	configPath := flag.String("c", "config.json", "path to the JSON config file")
	dev := flag.Bool("dev", false, "enable human-friendly console logging")
	flag.Parse()

	logger.InitLogger(*dev)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load configuration")
	}

	cutA, err := cfg.CutoverATime()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid cutover_a")
	}
	cutB, err := cfg.CutoverBTime()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid cutover_b")
	}

	sd := shutdown.NewShutdown(logger.Log)

	cutoffs := supervisor.Cutoffs{CutA: cutA, CutB: cutB, Overlap: cfg.OverlapDuration()}

	books, err := supervisor.GenerateOrderBooks(sd.Context(), cfg.Symbols, cfg.ChanCap, cfg.ParkCap, cutoffs, cfg.SnapshotDepth)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to start order book reconstruction")
	}
	logger.Log.Info().Strs("symbols", cfg.Symbols).Msg("order books seeded and running")

	if cfg.NATS != nil {
		publisher, closeNATS, err := natsbridge.Connect(cfg.NATS.URL)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		sd.HookShutdownCallback("nats", closeNATS, 5*time.Second)

		bridge := natsbridge.New(cfg.NATS.Subject, publisher)
		for symbol, reader := range books {
			go bridge.Run(sd.Context(), symbol, reader)
		}
		logger.Log.Info().Str("subject_prefix", cfg.NATS.Subject).Msg("NATS republish bridge started")
	}

	if cfg.HTTP != nil {
		server := httpapi.New(books)
		go func() {
			if err := server.Run(cfg.HTTP.Addr); err != nil {
				logger.Log.Error().Err(err).Msg("http server exited")
			}
		}()
		logger.Log.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP API listening")
	}

	sd.WaitForShutdown()
}
