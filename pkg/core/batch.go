/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: batch.go
Description: Batch driver for the Akaylee Templater. Dispatches independent generation
units over a fixed-size worker pool with a per-unit timeout, recycles the pool at fixed
batch boundaries to bound resource growth from external engine invocations, and
aggregates per-failure-kind statistics. A single unit's failure never aborts the batch.
*/

package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/store"
	"github.com/sirupsen/logrus"
)

// maxErrorSamples bounds how many per-unit errors the stats retain.
const maxErrorSamples = 25

// OverMatchedEntry records one template whose match ratio exceeded 1.0.
type OverMatchedEntry struct {
	Command      string  `json:"command"`
	Ratio        float64 `json:"ratio"`
	OracleRows   int     `json:"oracle_rows"`
	TemplateRows int     `json:"template_rows"`
}

// ErrorSample is one retained unit failure for diagnostics.
type ErrorSample struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Error   string `json:"error"`
}

// BatchStats aggregates one batch run. Processing always completes and
// reports counts per failure kind; it never raises for a single unit.
type BatchStats struct {
	Total            int                `json:"total"`
	Success          int                `json:"success"`
	FailedGeneration int                `json:"failed_generation"`
	FailedValidation int                `json:"failed_validation"`
	NoPatterns       int                `json:"no_patterns"`
	Timeouts         int                `json:"timeouts"`
	Exported         int                `json:"exported"`
	ExportErrors     int                `json:"export_errors"`
	MatchRatios      []float64          `json:"match_ratios"`
	OverMatched      []OverMatchedEntry `json:"over_matched"`
	Errors           []ErrorSample      `json:"errors"`
	Elapsed          time.Duration      `json:"elapsed"`
}

// RatioSummary returns min, average and max of the collected match ratios.
func (s *BatchStats) RatioSummary() (min, avg, max float64) {
	if len(s.MatchRatios) == 0 {
		return 0, 0, 0
	}
	min, max = s.MatchRatios[0], s.MatchRatios[0]
	sum := 0.0
	for _, r := range s.MatchRatios {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
		sum += r
	}
	return min, sum / float64(len(s.MatchRatios)), max
}

// BatchDriver runs many generation units through a recycled worker pool.
type BatchDriver struct {
	generator *Generator
	logger    *logrus.Logger
}

// NewBatchDriver creates a batch driver around a generator.
func NewBatchDriver(generator *Generator, logger *logrus.Logger) *BatchDriver {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchDriver{generator: generator, logger: logger}
}

// Run processes the units per the batch configuration and returns aggregate
// statistics. Units are dispatched in batches of cfg.BatchSize; the worker
// pool is torn down and rebuilt at every batch boundary, and a batch's
// results are collected only after every dispatched unit has returned,
// failed, or timed out.
func (d *BatchDriver) Run(ctx context.Context, units []*Unit, cfg interfaces.BatchConfig) (*BatchStats, error) {
	start := time.Now()

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Limit > 0 && len(units) > cfg.Limit {
		units = units[:cfg.Limit]
	}
	for _, unit := range units {
		if unit.ID == "" {
			unit.ID = uuid.New().String()
		}
	}

	stats := &BatchStats{Total: len(units)}
	genCfg := interfaces.GenerationConfig{
		MinCols:  cfg.MinCols,
		Validate: cfg.Validate,
		Timeout:  cfg.Timeout,
	}

	for batchStart := 0; batchStart < len(units); batchStart += cfg.BatchSize {
		end := batchStart + cfg.BatchSize
		if end > len(units) {
			end = len(units)
		}
		batch := units[batchStart:end]

		// Fresh pool per batch: no worker state survives a batch boundary.
		results := d.runBatch(ctx, batch, cfg.Workers, cfg.Timeout, genCfg)
		for _, result := range results {
			d.record(stats, result, cfg)
		}

		d.logger.WithFields(logrus.Fields{
			"processed": end,
			"total":     len(units),
		}).Info("Batch boundary reached, pool recycled")
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// runBatch dispatches one batch over a fresh worker pool and blocks until
// every unit has produced a result or timed out.
func (d *BatchDriver) runBatch(ctx context.Context, batch []*Unit, workers int, timeout time.Duration, genCfg interfaces.GenerationConfig) []*interfaces.GenerationResult {
	jobs := make(chan *Unit)
	results := make([]*interfaces.GenerationResult, 0, len(batch))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range jobs {
				result := d.runUnit(ctx, unit, timeout, genCfg)
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}
		}()
	}

	for _, unit := range batch {
		jobs <- unit
	}
	close(jobs)
	wg.Wait()

	return results
}

// runUnit executes one unit under its timeout. A unit exceeding the
// deadline is recorded as a distinct Timeout failure and its in-flight
// engine call is abandoned rather than awaited further.
func (d *BatchDriver) runUnit(ctx context.Context, unit *Unit, timeout time.Duration, genCfg interfaces.GenerationConfig) *interfaces.GenerationResult {
	unitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan *interfaces.GenerationResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &interfaces.GenerationResult{
					ID:      unit.ID,
					Command: unit.Command,
					Source:  unit.Source,
					Status:  interfaces.StatusFailedGeneration,
					Error:   fmt.Sprintf("unit panicked: %v", r),
				}
			}
		}()
		done <- d.generator.Generate(unitCtx, unit, genCfg)
	}()

	select {
	case result := <-done:
		return result
	case <-unitCtx.Done():
		return &interfaces.GenerationResult{
			ID:      unit.ID,
			Command: unit.Command,
			Source:  unit.Source,
			Status:  interfaces.StatusTimeout,
			Error:   fmt.Sprintf("timeout (>%s)", timeout),
		}
	}
}

// record folds one unit result into the batch stats, handling export.
func (d *BatchDriver) record(stats *BatchStats, result *interfaces.GenerationResult, cfg interfaces.BatchConfig) {
	switch result.Status {
	case interfaces.StatusSuccess:
		stats.Success++
		if result.MatchRatio != nil {
			stats.MatchRatios = append(stats.MatchRatios, *result.MatchRatio)
			if result.OverMatched {
				stats.OverMatched = append(stats.OverMatched, OverMatchedEntry{
					Command:      result.Command,
					Ratio:        *result.MatchRatio,
					OracleRows:   result.OracleRows,
					TemplateRows: result.TemplateRows,
				})
				if cfg.ExportDir != "" {
					if err := store.ExportFailure(cfg.ExportDir, store.OverMatchedDir, result); err != nil {
						stats.ExportErrors++
					}
				}
			}
		}
		if cfg.ExportDir != "" && result.Template != "" {
			ratio := 0.0
			if result.MatchRatio != nil {
				ratio = *result.MatchRatio
			}
			if ratio >= cfg.MinRatio {
				if err := store.ExportResult(cfg.ExportDir, result); err != nil {
					stats.ExportErrors++
					d.logger.WithField("command", result.Command).Warnf("Export failed: %v", err)
				} else {
					stats.Exported++
				}
			}
		}
	case interfaces.StatusNoPatterns:
		stats.NoPatterns++
	case interfaces.StatusFailedValidation:
		stats.FailedValidation++
		d.sampleError(stats, result)
		if cfg.ExportDir != "" && result.Template != "" {
			if err := store.ExportFailure(cfg.ExportDir, store.FailedValidationDir, result); err != nil {
				stats.ExportErrors++
			}
		}
	case interfaces.StatusTimeout:
		stats.Timeouts++
		d.sampleError(stats, result)
	default:
		stats.FailedGeneration++
		d.sampleError(stats, result)
	}
}

func (d *BatchDriver) sampleError(stats *BatchStats, result *interfaces.GenerationResult) {
	if result.Error == "" || len(stats.Errors) >= maxErrorSamples {
		return
	}
	stats.Errors = append(stats.Errors, ErrorSample{
		ID:      result.ID,
		Command: result.Command,
		Error:   result.Error,
	})
}
