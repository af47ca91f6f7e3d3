package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"SwingTrader/internal/notifier"
	"SwingTrader/internal/trader"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Trader   *trader.Trader
	Notifier notifier.Notifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, tr *trader.Trader, nt notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Trader:   tr,
		Notifier: nt,
		Ctx:      ctx,
	}
}

// RegisterAll registers the strategy run and daily snapshot tasks.
func (s *Scheduler) RegisterAll(strategyCron, snapshotCron string) error {
	if _, err := s.Cron.AddFunc(strategyCron, s.strategyTask); err != nil {
		return fmt.Errorf("register strategy task: %w", err)
	}
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunStrategyNow executes the strategy task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunStrategyNow() {
	s.strategyTask()
}

func (s *Scheduler) strategyTask() {
	log.Println("[INFO] running strategy task")
	if err := s.Trader.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] strategy run: %v", err)
		s.trySend(fmt.Sprintf("❌ Strategy run failed: %v", err))
	}
}

func (s *Scheduler) snapshotTask() {
	log.Println("[INFO] running daily snapshot")
	if err := s.Trader.Snapshot(s.Ctx); err != nil {
		log.Printf("[ERROR] daily snapshot: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		s.strategyTask()
		return ""
	case "/watchlist":
		items, err := s.Trader.Watchlist().Active()
		if err != nil {
			return fmt.Sprintf("watchlist error: %v", err)
		}
		if len(items) == 0 {
			return "Watchlist is empty"
		}
		var b strings.Builder
		b.WriteString("🗂 <b>Watchlist</b>\n\n")
		for _, item := range items {
			perf, err := s.Trader.Watchlist().Performance(item.Ticker)
			if err != nil {
				b.WriteString(fmt.Sprintf("• %s\n", item.Ticker))
				continue
			}
			b.WriteString(fmt.Sprintf("• %s: %s (score %.0f, %d trades)\n",
				item.Ticker, perf.Status, perf.Score, perf.CompletedTrades))
		}
		return b.String()
	case "/snapshot":
		s.snapshotTask()
		return ""
	default:
		return "Available commands:\n• /run\n• /watchlist\n• /snapshot"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
