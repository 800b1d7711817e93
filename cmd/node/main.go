package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/helixdex/helix/params"
	"github.com/helixdex/helix/pkg/api"
	"github.com/helixdex/helix/pkg/app/spot"
	"github.com/helixdex/helix/pkg/engine"
	"github.com/helixdex/helix/pkg/events"
	"github.com/helixdex/helix/pkg/ledger"
	"github.com/helixdex/helix/pkg/storage"
	"github.com/helixdex/helix/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	// Setup logging (write to both console and file)
	logger, err := util.NewLoggerWithFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.LogFile)

	// ---- Storage ----
	balances, err := ledger.OpenStore(filepath.Join(cfg.Storage.DataDir, "balances"), logger)
	if err != nil {
		sugar.Fatalw("balance_store_open_failed", "err", err)
	}
	defer balances.Close()

	journal, err := storage.OpenJournal(filepath.Join(cfg.Storage.DataDir, "journal"), logger)
	if err != nil {
		sugar.Fatalw("journal_open_failed", "err", err)
	}
	defer journal.Close()
	sugar.Infow("journal_opened", "seq", journal.Seq())

	// ---- Event sinks ----
	sinks := events.MultiSink{events.NewLogSink(logger), journal}

	var kafkaSink *events.KafkaSink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink = events.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		sugar.Infow("kafka_sink_enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	// ---- App + API ----
	// The hub is registered as a sink so WebSocket subscribers see every
	// engine event, but it is created by the API server. Wire it through a
	// MultiSink slot filled in below.
	app := spot.New(balances, &sinks, logger)

	apiServer := api.NewServer(app, logger, cfg.Server.CORSOrigins)
	sinks = append(sinks, apiServer.Hub())

	// ---- Bootstrap market ----
	// A fresh node starts with one tradable market from config.
	if len(app.Markets()) == 0 {
		m, err := app.CreateMarket(cfg.Bootstrap.Base, cfg.Bootstrap.Quote, engine.MarketParams{
			LotSize:    cfg.Bootstrap.LotSize,
			TickSize:   cfg.Bootstrap.TickSize,
			MinSize:    cfg.Bootstrap.MinSize,
			FeeRateBps: cfg.Bootstrap.FeeRateBps,
		})
		if err != nil {
			sugar.Fatalw("bootstrap_market_failed", "err", err)
		}
		sugar.Infow("bootstrap_market_created",
			"market_id", m.ID,
			"base", m.Base,
			"quote", m.Quote)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		sugar.Infow("api_server_starting", "addr", cfg.Server.ListenAddr)
		if err := apiServer.Start(cfg.Server.ListenAddr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("node_shutting_down")
}
