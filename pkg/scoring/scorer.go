/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scorer.go
Description: Auto-match scorer for the Akaylee Templater. Executes every template in a
filtered corpus against an unknown raw sample and computes a deterministic 0-100 quality
score from record count, field richness, population rate, and consistency, returning the
corpus ranked by score together with the best template and its flattened records.
*/

package scoring

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/validation"
	"github.com/sirupsen/logrus"
)

// ScoreBreakdown holds the four sub-scores for one (template, sample) pair.
// Ephemeral: computed per match attempt and never persisted.
type ScoreBreakdown struct {
	RecordScore      float64 `json:"record_score"`      // 0-30
	FieldScore       float64 `json:"field_score"`       // 0-30
	PopulationScore  float64 `json:"population_score"`  // 0-25
	ConsistencyScore float64 `json:"consistency_score"` // 0-15
	Total            float64 `json:"total"`             // Sum, 0-100
}

// RankedTemplate is one corpus entry with its score for a match attempt.
type RankedTemplate struct {
	Command   string          `json:"command"`
	Score     float64         `json:"score"`
	Records   int             `json:"records"`
	Breakdown *ScoreBreakdown `json:"breakdown"`
}

// MatchResult is the outcome of ranking a corpus against one sample.
type MatchResult struct {
	Best        *interfaces.Template    `json:"best"`         // Highest score, first seen on ties
	BestScore   float64                 `json:"best_score"`   // Score of the best template
	BestRecords []interfaces.FlatRecord `json:"best_records"` // Flattened records of the best template
	Ranked      []RankedTemplate        `json:"ranked"`       // Non-zero scores, descending
	Tried       int                     `json:"tried"`        // Templates executed
}

// Scorer ranks a read-only template corpus against unknown raw samples.
type Scorer struct {
	engine interfaces.TemplateEngine
	store  interfaces.TemplateStore
	logger *logrus.Logger
}

// NewScorer creates a scorer over the given engine and store.
func NewScorer(engine interfaces.TemplateEngine, store interfaces.TemplateStore, logger *logrus.Logger) *Scorer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scorer{engine: engine, store: store, logger: logger}
}

// Match executes every template matching the filter against the sample and
// returns the corpus ranked by descending score. Templates whose execution
// raises are skipped; a template yielding zero records scores exactly 0 and
// never enters the ranking.
func (s *Scorer) Match(ctx context.Context, sample string, filter string) (*MatchResult, error) {
	templates, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	result := &MatchResult{}
	for _, template := range templates {
		result.Tried++

		execResult, err := s.engine.Execute(ctx, template.Content, sample)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"command": template.Command,
				"error":   truncate(err.Error(), 80),
			}).Debug("Template failed to parse sample")
			continue
		}

		records := validation.Flatten(execResult)
		breakdown := Score(records, template.Command)

		if breakdown.Total > 0 {
			result.Ranked = append(result.Ranked, RankedTemplate{
				Command:   template.Command,
				Score:     breakdown.Total,
				Records:   len(records),
				Breakdown: breakdown,
			})
		}

		// Strict comparison keeps the first-seen template on ties.
		if breakdown.Total > result.BestScore {
			result.BestScore = breakdown.Total
			result.Best = template
			result.BestRecords = records
		}
	}

	sort.SliceStable(result.Ranked, func(i, j int) bool {
		return result.Ranked[i].Score > result.Ranked[j].Score
	})
	return result, nil
}

// Score computes the deterministic 0-100 quality score for a flattened
// record set produced by the template registered under command.
func Score(records []interfaces.FlatRecord, command string) *ScoreBreakdown {
	breakdown := &ScoreBreakdown{}
	if len(records) == 0 {
		return breakdown
	}

	numRecords := len(records)
	numFields := len(records[0])
	isVersionKind := strings.Contains(strings.ToLower(command), "version")

	// Record count (0-30). Version-like categories expect exactly one
	// record; everything else follows a diminishing-returns curve.
	if isVersionKind {
		if numRecords == 1 {
			breakdown.RecordScore = 30.0
		} else {
			breakdown.RecordScore = 15.0 - float64(numRecords-1)*5.0
			if breakdown.RecordScore < 0 {
				breakdown.RecordScore = 0
			}
		}
	} else {
		switch {
		case numRecords >= 10:
			breakdown.RecordScore = 30.0
		case numRecords >= 3:
			breakdown.RecordScore = 20.0 + float64(numRecords-3)*(10.0/7.0)
		default:
			breakdown.RecordScore = float64(numRecords) * 10.0
		}
	}

	// Field richness (0-30), from the first record's field count.
	switch {
	case numFields >= 10:
		breakdown.FieldScore = 30.0
	case numFields >= 6:
		breakdown.FieldScore = 20.0 + float64(numFields-6)*2.5
	case numFields >= 3:
		breakdown.FieldScore = 10.0 + float64(numFields-3)*(10.0/3.0)
	default:
		breakdown.FieldScore = float64(numFields) * 5.0
	}

	// Population rate (0-25): populated cells over total cells.
	totalCells := numRecords * numFields
	populated := 0
	for _, record := range records {
		for _, value := range record {
			if isPopulated(value) {
				populated++
			}
		}
	}
	if totalCells > 0 {
		breakdown.PopulationScore = float64(populated) / float64(totalCells) * 25.0
	}

	// Consistency (0-15): fields populated in all records or in none.
	// A single-record result is perfectly consistent.
	if numRecords > 1 {
		fillCounts := make(map[string]int, numFields)
		for key := range records[0] {
			fillCounts[key] = 0
		}
		for _, record := range records {
			for key, value := range record {
				if _, tracked := fillCounts[key]; tracked && isPopulated(value) {
					fillCounts[key]++
				}
			}
		}
		consistent := 0
		for _, count := range fillCounts {
			if count == 0 || count == numRecords {
				consistent++
			}
		}
		if numFields > 0 {
			breakdown.ConsistencyScore = float64(consistent) / float64(numFields) * 15.0
		}
	} else {
		breakdown.ConsistencyScore = 15.0
	}

	breakdown.Total = breakdown.RecordScore + breakdown.FieldScore +
		breakdown.PopulationScore + breakdown.ConsistencyScore
	return breakdown
}

func isPopulated(value interface{}) bool {
	if value == nil {
		return false
	}
	return strings.TrimSpace(fmt.Sprint(value)) != ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
