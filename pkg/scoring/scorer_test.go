/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scorer_test.go
Description: Tests for the auto-match scorer. Pins the exact scoring curves, the
zero-record short-circuit, the version-kind special case, and the first-seen tie-break
when ranking a corpus.
*/

package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a fixed in-memory corpus for match tests.
type memStore struct {
	templates []*interfaces.Template
}

func (s *memStore) Get(ctx context.Context, command string) (*interfaces.Template, error) {
	for _, t := range s.templates {
		if t.Command == command {
			return t, nil
		}
	}
	return nil, nil
}

func (s *memStore) List(ctx context.Context, filter string) ([]*interfaces.Template, error) {
	return s.templates, nil
}

func (s *memStore) Upsert(ctx context.Context, template *interfaces.Template) error { return nil }
func (s *memStore) Delete(ctx context.Context, command string) error                { return nil }
func (s *memStore) Count(ctx context.Context) (int, error)                          { return len(s.templates), nil }
func (s *memStore) Close() error                                                    { return nil }

// execFunc adapts a closure to the TemplateEngine interface locally.
type execFunc func(template string) (*interfaces.TemplateResult, error)

func (f execFunc) Execute(ctx context.Context, template string, sample string) (*interfaces.TemplateResult, error) {
	return f(template)
}

func records(n, fields int) []interfaces.FlatRecord {
	out := make([]interfaces.FlatRecord, n)
	for i := range out {
		record := make(interfaces.FlatRecord, fields)
		for f := 0; f < fields; f++ {
			record[fmt.Sprintf("field_%d", f)] = fmt.Sprintf("v%d", i)
		}
		out[i] = record
	}
	return out
}

func TestScoreZeroRecordsIsZero(t *testing.T) {
	breakdown := Score(nil, "show_interfaces")
	assert.Zero(t, breakdown.Total)
	assert.Zero(t, breakdown.RecordScore)
}

func TestScorePerfectResult(t *testing.T) {
	// 10+ records, 10+ fields, fully populated, fully consistent.
	breakdown := Score(records(10, 10), "show_interfaces")
	assert.InDelta(t, 30.0, breakdown.RecordScore, 1e-9)
	assert.InDelta(t, 30.0, breakdown.FieldScore, 1e-9)
	assert.InDelta(t, 25.0, breakdown.PopulationScore, 1e-9)
	assert.InDelta(t, 15.0, breakdown.ConsistencyScore, 1e-9)
	assert.InDelta(t, 100.0, breakdown.Total, 1e-9)
}

func TestScoreRecordCurve(t *testing.T) {
	assert.InDelta(t, 10.0, Score(records(1, 1), "cmd").RecordScore, 1e-9)
	assert.InDelta(t, 20.0, Score(records(2, 1), "cmd").RecordScore, 1e-9)
	assert.InDelta(t, 20.0, Score(records(3, 1), "cmd").RecordScore, 1e-9)
	assert.InDelta(t, 20.0+4*(10.0/7.0), Score(records(7, 1), "cmd").RecordScore, 1e-9)
	assert.InDelta(t, 30.0, Score(records(10, 1), "cmd").RecordScore, 1e-9)
	assert.InDelta(t, 30.0, Score(records(50, 1), "cmd").RecordScore, 1e-9)
}

func TestScoreFieldCurve(t *testing.T) {
	assert.InDelta(t, 5.0, Score(records(1, 1), "cmd").FieldScore, 1e-9)
	assert.InDelta(t, 10.0, Score(records(1, 3), "cmd").FieldScore, 1e-9)
	assert.InDelta(t, 10.0+2*(10.0/3.0), Score(records(1, 5), "cmd").FieldScore, 1e-9)
	assert.InDelta(t, 20.0, Score(records(1, 6), "cmd").FieldScore, 1e-9)
	assert.InDelta(t, 27.5, Score(records(1, 9), "cmd").FieldScore, 1e-9)
	assert.InDelta(t, 30.0, Score(records(1, 12), "cmd").FieldScore, 1e-9)
}

func TestScoreCurvesAreMonotonic(t *testing.T) {
	for n := 2; n <= 12; n++ {
		prev := Score(records(n-1, 5), "cmd")
		curr := Score(records(n, 5), "cmd")
		assert.GreaterOrEqual(t, curr.RecordScore, prev.RecordScore, "records %d", n)
	}
	for f := 2; f <= 12; f++ {
		prev := Score(records(5, f-1), "cmd")
		curr := Score(records(5, f), "cmd")
		assert.GreaterOrEqual(t, curr.FieldScore, prev.FieldScore, "fields %d", f)
	}
}

func TestScoreVersionKindExpectsSingleRecord(t *testing.T) {
	assert.InDelta(t, 30.0, Score(records(1, 5), "show_version").RecordScore, 1e-9)
	assert.InDelta(t, 10.0, Score(records(2, 5), "show_version").RecordScore, 1e-9)
	assert.InDelta(t, 5.0, Score(records(3, 5), "show_version").RecordScore, 1e-9)
	// Never negative, even for badly over-split results.
	assert.Zero(t, Score(records(20, 5), "show_version").RecordScore)
}

func TestScorePopulationRate(t *testing.T) {
	recs := []interfaces.FlatRecord{
		{"a": "x", "b": ""},
		{"a": "y", "b": "  "},
	}
	breakdown := Score(recs, "cmd")
	// 2 of 4 cells populated.
	assert.InDelta(t, 12.5, breakdown.PopulationScore, 1e-9)
}

func TestScoreConsistency(t *testing.T) {
	// "a" filled everywhere, "b" nowhere: both consistent. "c" half-filled.
	recs := []interfaces.FlatRecord{
		{"a": "x", "b": "", "c": "1"},
		{"a": "y", "b": "", "c": ""},
	}
	breakdown := Score(recs, "cmd")
	assert.InDelta(t, 2.0/3.0*15.0, breakdown.ConsistencyScore, 1e-9)

	// A single record is perfectly consistent by definition.
	single := Score(records(1, 4), "cmd")
	assert.InDelta(t, 15.0, single.ConsistencyScore, 1e-9)
}

func TestMatchRanksCorpusAndKeepsFirstSeenOnTies(t *testing.T) {
	store := &memStore{templates: []*interfaces.Template{
		{Command: "cmd_alpha", Content: "good"},
		{Command: "cmd_beta", Content: "good"},
		{Command: "cmd_gamma", Content: "bad"},
		{Command: "cmd_delta", Content: "empty"},
	}}

	engine := execFunc(func(template string) (*interfaces.TemplateResult, error) {
		switch template {
		case "good":
			return &interfaces.TemplateResult{Root: []interface{}{
				map[string]interface{}{"a": "1", "b": "2", "c": "3"},
			}}, nil
		case "empty":
			return &interfaces.TemplateResult{Root: []interface{}{}}, nil
		default:
			return nil, errors.New("parse error")
		}
	})

	result, err := NewScorer(engine, store, nil).Match(context.Background(), "sample", "")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Tried)
	require.NotNil(t, result.Best)
	// alpha and beta score identically; the first seen wins.
	assert.Equal(t, "cmd_alpha", result.Best.Command)
	assert.Len(t, result.BestRecords, 1)

	// Zero-record and erroring templates never enter the ranking.
	require.Len(t, result.Ranked, 2)
	assert.Equal(t, result.Ranked[0].Score, result.Ranked[1].Score)
	for _, ranked := range result.Ranked {
		assert.True(t, strings.HasPrefix(ranked.Command, "cmd_"))
		assert.Positive(t, ranked.Score)
	}
}

func TestMatchPropagatesStoreErrors(t *testing.T) {
	engine := execFunc(func(template string) (*interfaces.TemplateResult, error) { return nil, nil })
	_, err := NewScorer(engine, &failingStore{}, nil).Match(context.Background(), "sample", "")
	assert.Error(t, err)
}

type failingStore struct{ memStore }

func (*failingStore) List(ctx context.Context, filter string) ([]*interfaces.Template, error) {
	return nil, errors.New("database locked")
}
