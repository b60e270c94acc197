package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/favstats/zwemsterdam/internal/config"
	"github.com/favstats/zwemsterdam/internal/logger"
	"github.com/favstats/zwemsterdam/internal/scraper"
	"github.com/favstats/zwemsterdam/internal/session"
)

// Pipeline runs the source adapters and assembles the canonical dataset.
type Pipeline struct {
	cfg      *config.Config
	adapters []scraper.Adapter
	cached   []session.Session

	Now func() time.Time
}

// New creates a pipeline with the standard adapter set for the configured
// source URLs. The Optisport contribution comes from its cache via
// SetCachedSessions, not from a live adapter.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		adapters: []scraper.Adapter{
			scraper.NewMunicipal(cfg.Sources.Municipal),
			scraper.NewMarnix(cfg.Sources.Marnix),
			scraper.NewSportfondsen(cfg.Sources.Sportfondsen, "Sportfondsenbad Amsterdam-Oost"),
			scraper.NewDuranbad(cfg.Sources.Duranbad),
		},
		Now: time.Now,
	}
}

// NewWithAdapters creates a pipeline over an explicit adapter set.
func NewWithAdapters(cfg *config.Config, adapters []scraper.Adapter) *Pipeline {
	return &Pipeline{cfg: cfg, adapters: adapters, Now: time.Now}
}

// SetCachedSessions adds pre-fetched sessions (the Optisport cache) to the
// run as one more source contribution.
func (p *Pipeline) SetCachedSessions(sessions []session.Session) {
	p.cached = sessions
}

// Run executes all adapters concurrently, merges their output and returns
// the finished dataset with its metadata. Failed adapters are logged and
// contribute nothing; Run itself never fails.
func (p *Pipeline) Run(ctx context.Context) ([]session.Session, *Metadata) {
	runStart := p.Now()

	var (
		mu        sync.Mutex
		collected []session.Session
		wg        sync.WaitGroup
	)

	for _, adapter := range p.adapters {
		wg.Add(1)
		go func(a scraper.Adapter) {
			defer wg.Done()
			// A panicking adapter is a failed source, not a failed run.
			defer func() {
				if r := recover(); r != nil {
					logger.Error("source panicked", logger.Fields{"source": a.Name()},
						fmt.Errorf("%v", r))
				}
			}()

			fetchStart := time.Now()
			sessions, err := a.Fetch(ctx)
			logger.RecordTiming(a.Name()+".fetch", time.Since(fetchStart))
			if err != nil {
				// Partial results delivered before the failure still count.
				logger.Error("source failed", logger.Fields{
					"source":  a.Name(),
					"fetched": len(sessions),
				}, err)
			}

			mu.Lock()
			collected = append(collected, sessions...)
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	collected = append(collected, p.cached...)
	merged := session.Aggregate(collected)
	p.finalize(merged)

	logger.Info("pipeline run complete", logger.Fields{
		"collected": len(collected),
		"exported":  len(merged),
	})
	logger.RecordTiming("pipeline.run", time.Since(runStart))

	return merged, buildMetadata(p.cfg, merged, p.Now())
}

// finalize orders the dataset deterministically, assigns export ids and
// attaches each pool's website.
func (p *Pipeline) finalize(sessions []session.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Pool != b.Pool {
			return a.Pool < b.Pool
		}
		if session.WeekdayIndex(a.Weekday) != session.WeekdayIndex(b.Weekday) {
			return session.WeekdayIndex(a.Weekday) < session.WeekdayIndex(b.Weekday)
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Activity < b.Activity
	})

	warned := make(map[string]bool)
	for i := range sessions {
		sessions[i].ID = i + 1
		sessions[i].Website = p.cfg.Website(sessions[i].Pool)
		if sessions[i].Website == "" && !warned[sessions[i].Pool] {
			warned[sessions[i].Pool] = true
			logger.Warn("pool has no configured website", logger.Fields{
				"pool": sessions[i].Pool,
			})
		}
	}
}
