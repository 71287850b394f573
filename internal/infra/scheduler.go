package infra

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"futfolio/internal/domain"
	"futfolio/internal/service"
)

// CacheWarmer keeps the default market queries hot so the landing page
// never pays the cold-fetch cost after an entry expires.
type CacheWarmer struct {
	trending *service.TrendingService
	cron     *cron.Cron
	log      *zap.Logger
}

// NewCacheWarmer creates a new CacheWarmer
func NewCacheWarmer(trending *service.TrendingService, log *zap.Logger) *CacheWarmer {
	return &CacheWarmer{
		trending: trending,
		cron:     cron.New(),
		log:      log,
	}
}

// Start schedules a warm-up run every five minutes, matching the trending
// cache TTL, and runs one immediately.
func (w *CacheWarmer) Start() error {
	if _, err := w.cron.AddFunc("*/5 * * * *", w.warm); err != nil {
		return err
	}
	w.cron.Start()
	go w.warm()
	return nil
}

// Stop halts the schedule and waits for a running warm-up to finish.
func (w *CacheWarmer) Stop() {
	<-w.cron.Stop().Done()
}

func (w *CacheWarmer) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	if _, err := w.trending.GetTrendingCards(ctx, domain.Window24h, domain.DirectionAll, 10); err != nil {
		w.log.Warn("trending cache warm failed", zap.Error(err))
		return
	}
	if _, err := w.trending.GetMarketMovers(ctx, 10); err != nil {
		w.log.Warn("movers cache warm failed", zap.Error(err))
		return
	}

	w.log.Debug("market caches warmed", zap.Duration("elapsed", time.Since(start)))
}
