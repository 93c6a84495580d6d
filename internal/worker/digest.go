package worker

import (
	"context"
	"time"

	"github.com/rudrakh/tiffin/internal/logger"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/notify"
	"go.uber.org/zap"
)

// ReportService computes the profit stats the digest is built from
type ReportService interface {
	ProfitStats(ctx context.Context, filter models.OrderFilter) (*models.ProfitStats, error)
}

// Notifier dispatches the rendered digest
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Digest periodically recomputes today's profit stats and sends them to
// staff. A failed run is logged and skipped; the next tick tries again.
type Digest struct {
	reports  ReportService
	notifier Notifier
	loc      *time.Location
	interval time.Duration
}

// NewDigest creates new Digest worker instance
func NewDigest(reports ReportService, notifier Notifier, loc *time.Location, interval time.Duration) *Digest {
	return &Digest{
		reports:  reports,
		notifier: notifier,
		loc:      loc,
		interval: interval,
	}
}

// Run sends a digest on every tick until ctx is cancelled
func (d *Digest) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("digest worker is done")
			return
		case <-ticker.C:
			if err := d.send(ctx); err != nil {
				logger.Log.Error("digest dispatch failed", zap.Error(err))
			}
		}
	}
}

func (d *Digest) send(ctx context.Context) error {
	now := time.Now().In(d.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, d.loc)

	stats, err := d.reports.ProfitStats(ctx, models.OrderFilter{From: midnight, To: now})
	if err != nil {
		return err
	}

	return d.notifier.Send(ctx, notify.FormatDigest(now.Format("2006-01-02"), stats))
}
