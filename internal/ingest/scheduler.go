package ingest

import (
	"context"
	"log"
	"time"

	"github.com/lakmal/heveatrack/internal/satellite"
	"github.com/lakmal/heveatrack/internal/store"
)

// Scheduler periodically refreshes every block's health metrics from the
// satellite analyzer.
type Scheduler struct {
	store    *store.Store
	analyzer satellite.Analyzer
	interval time.Duration
}

func NewScheduler(st *store.Store, analyzer satellite.Analyzer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{store: st, analyzer: analyzer, interval: interval}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.AnalyzeAll()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: shutting down")
			return
		case <-ticker.C:
			s.AnalyzeAll()
		}
	}
}

// AnalyzeAll runs one analysis pass over every block. Individual block
// failures are logged and skipped so one bad block never stalls the rest.
func (s *Scheduler) AnalyzeAll() {
	blocks, err := s.store.ListBlocks(nil)
	if err != nil {
		log.Printf("scheduler: list blocks: %v", err)
		return
	}

	analyzed := 0
	for _, b := range blocks {
		if _, err := AnalyzeBlock(s.store, s.analyzer, b.ID); err != nil {
			log.Printf("scheduler: %v", err)
			continue
		}
		analyzed++
	}
	log.Printf("scheduler: analyzed %d/%d blocks", analyzed, len(blocks))
}
