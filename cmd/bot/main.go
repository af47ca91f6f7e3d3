package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"SwingTrader/internal/broker"
	"SwingTrader/internal/config"
	"SwingTrader/internal/notifier"
	"SwingTrader/internal/scheduler"
	"SwingTrader/internal/store"
	"SwingTrader/internal/trader"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SwingTrader starting...")

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	gw := broker.NewAlpacaGateway(cfg.Broker.KeyID, cfg.Broker.SecretKey, cfg.Broker.BaseURL)

	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using noop: %v", err)
			st = store.NewNoop()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoop()
	}

	var nt notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		nt = tn
	} else {
		log.Println("[WARN] Telegram not configured, notifications disabled")
		nt = notifier.NewNoop()
	}

	tr, err := trader.New(gw, st, nt, cfg.Strategy.Variant, cfg.Strategy.Params)
	if err != nil {
		log.Fatalf("[FATAL] init trader: %v", err)
	}
	log.Printf("[INFO] strategy: %s", cfg.Strategy.Variant)

	// Seed the watchlist from config.
	for _, ticker := range cfg.Watchlist {
		if err := tr.Watchlist().Add(ticker); err != nil {
			log.Printf("[WARN] seed watchlist %s: %v", ticker, err)
		}
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, tr, nt)
	if err := sched.RegisterAll(cfg.Schedule.StrategyCron, cfg.Schedule.SnapshotCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing strategy now")
		go sched.RunStrategyNow()
	}

	log.Println("[INFO] SwingTrader is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SwingTrader stopped")
}
