/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: selector.go
Description: Strategy selector for the Akaylee Templater. Drives the three generation
strategies as a fixed-order decision procedure: multi-section when the grammar declares
persistent fields, a sparse-record heuristic that skips straight to paragraph, then
table with paragraph as the fallback. The table failure is surfaced when everything fails.
*/

package strategies

import (
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/oracle"
	"github.com/sirupsen/logrus"
)

// Empirically chosen cutoffs for the sparse-record paragraph short-circuit.
// Heuristic tie-breaks only, kept configurable on the Selector.
const (
	DefaultSparseRecordMax = 2
	DefaultSparseValueMin  = 4
	DefaultSparseLineRatio = 0.5
)

// Selector chooses among the generation strategies for one oracle result.
type Selector struct {
	multiSection *MultiSectionStrategy
	table        *TableStrategy
	paragraph    *ParagraphStrategy
	logger       *logrus.Logger

	// SparseRecordMax, SparseValueMin and SparseLineRatio gate the
	// skip-table heuristic: a sample with at most SparseRecordMax records,
	// at least SparseValueMin distinct values, and at least SparseLineRatio
	// of those values localizable to lines is treated as paragraph-shaped.
	SparseRecordMax int
	SparseValueMin  int
	SparseLineRatio float64
}

// NewSelector creates a selector with the default heuristic cutoffs.
func NewSelector(logger *logrus.Logger) *Selector {
	if logger == nil {
		logger = logrus.New()
	}
	return &Selector{
		multiSection:    NewMultiSectionStrategy(),
		table:           NewTableStrategy(),
		paragraph:       NewParagraphStrategy(),
		logger:          logger,
		SparseRecordMax: DefaultSparseRecordMax,
		SparseValueMin:  DefaultSparseValueMin,
		SparseLineRatio: DefaultSparseLineRatio,
	}
}

// Select runs the decision procedure and returns the generated template
// text plus the name of the strategy that produced it.
func (s *Selector) Select(input *Input) (string, string, error) {
	// Multi-section first, but only when the grammar declares persistent
	// fields at all.
	if filldown, _ := ParseFilldownFields(input.Grammar); len(filldown) > 0 {
		text, err := s.multiSection.Generate(input)
		if err == nil {
			return text, s.multiSection.Name(), nil
		}
		s.logger.WithField("reason", err.Error()).Debug("Multi-section strategy fell through")
	}

	if s.looksParagraphShaped(input) {
		text, err := s.paragraph.Generate(input)
		if err == nil {
			return text, s.paragraph.Name(), nil
		}
		s.logger.WithField("reason", err.Error()).Debug("Paragraph short-circuit fell through")
	}

	text, tableErr := s.table.Generate(input)
	if tableErr == nil {
		return text, s.table.Name(), nil
	}
	s.logger.WithField("reason", tableErr.Error()).Debug("Table strategy fell through")

	text, err := s.paragraph.Generate(input)
	if err == nil {
		return text, s.paragraph.Name(), nil
	}

	// Fixed tie-break for diagnostics: report the table failure.
	return "", "", tableErr
}

// looksParagraphShaped applies the sparse-record heuristic: few records
// carrying many values spread over distinct lines is paragraph data, not a
// table that happens to be short.
func (s *Selector) looksParagraphShaped(input *Input) bool {
	records := oracle.Records(input.Result)
	if len(records) == 0 || len(records) > s.SparseRecordMax {
		return false
	}

	allValues := make(map[string]string)
	for _, record := range records {
		for name, value := range record.Values {
			allValues[name] = value
		}
	}
	if len(allValues) < s.SparseValueMin {
		return false
	}

	lines := sampleLines(input.Sample)
	located := make(map[int]bool)
	for _, value := range allValues {
		for idx, line := range lines {
			if value != "" && strings.Contains(line, value) {
				located[idx] = true
				break
			}
		}
	}
	return float64(len(located)) >= float64(len(allValues))*s.SparseLineRatio
}
