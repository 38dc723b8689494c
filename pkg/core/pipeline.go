/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline.go
Description: Generation pipeline for the Akaylee Templater. Orchestrates one generation
run: oracle extraction, quality filtering, column profiling, strategy selection, and
optional validation through the target engine. Every failure is typed and recoverable;
nothing a single unit does can abort a batch.
*/

package core

import (
	"context"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/oracle"
	"github.com/kleascm/akaylee-templater/pkg/strategies"
	"github.com/kleascm/akaylee-templater/pkg/validation"
	"github.com/sirupsen/logrus"
)

// Unit is one independent (grammar, sample) pair to reverse-engineer.
type Unit struct {
	ID      string // Unit identifier, assigned by the batch driver if empty
	Command string // Command/category key for the generated template
	Source  string // Provenance of the input pair
	Grammar string // Oracle grammar text
	Sample  string // Raw sample text
}

// Generator runs the full reverse-engineering pipeline for one unit.
type Generator struct {
	adapter   *oracle.Adapter
	selector  *strategies.Selector
	validator *validation.Validator
	logger    *logrus.Logger
}

// NewGenerator wires the pipeline around the two injected engines.
func NewGenerator(oracleEngine interfaces.OracleEngine, templateEngine interfaces.TemplateEngine, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Generator{
		adapter:   oracle.NewAdapter(oracleEngine, logger),
		selector:  strategies.NewSelector(logger),
		validator: validation.NewValidator(templateEngine, logger),
		logger:    logger,
	}
}

// Selector exposes the strategy selector so callers can tune its heuristic
// cutoffs before a run.
func (g *Generator) Selector() *strategies.Selector {
	return g.selector
}

// Generate runs one unit through the pipeline and always returns a result;
// failures are recorded in the result's status and error, never panicked or
// propagated.
func (g *Generator) Generate(ctx context.Context, unit *Unit, cfg interfaces.GenerationConfig) *interfaces.GenerationResult {
	result := &interfaces.GenerationResult{
		ID:          unit.ID,
		Command:     unit.Command,
		Source:      unit.Source,
		SampleText:  unit.Sample,
		GrammarText: unit.Grammar,
		Status:      interfaces.StatusFailedGeneration,
	}

	if strings.TrimSpace(unit.Sample) == "" {
		result.Error = "empty sample text"
		return result
	}
	if strings.TrimSpace(unit.Grammar) == "" {
		result.Error = "empty grammar text"
		return result
	}

	minCols := cfg.MinCols
	if minCols <= 0 {
		minCols = oracle.DefaultMinCols
	}

	oracleResult, err := g.adapter.Extract(ctx, unit.Grammar, unit.Sample)
	if err != nil {
		g.fail(result, err)
		return result
	}

	qualityRows := oracle.FilterQualityRows(oracleResult, minCols)
	result.OracleRows = len(qualityRows)
	for _, row := range qualityRows {
		flat := make(interfaces.FlatRecord, len(row.Values))
		for name, value := range row.Values {
			flat[name] = value
		}
		result.OracleParsed = append(result.OracleParsed, flat)
	}

	template, strategy, err := g.selector.Select(&strategies.Input{
		Result:  oracleResult,
		Sample:  unit.Sample,
		Grammar: unit.Grammar,
		MinCols: minCols,
	})
	if err != nil {
		g.fail(result, err)
		return result
	}
	result.Template = template

	g.logger.WithFields(logrus.Fields{
		"command":  unit.Command,
		"strategy": strategy,
	}).Debug("Template generated")

	if !cfg.Validate {
		result.Status = interfaces.StatusSuccess
		return result
	}

	report, err := g.validator.Validate(ctx, template, unit.Sample, len(qualityRows))
	if err != nil {
		g.fail(result, err)
		return result
	}

	result.Status = interfaces.StatusSuccess
	result.TemplateRows = report.TargetRows
	result.MatchRatio = report.MatchRatio
	result.OverMatched = report.OverMatched
	result.TargetParsed = report.Records
	return result
}

// fail records a typed failure on the result, classifying its status the
// way batch reporting buckets outcomes.
func (g *Generator) fail(result *interfaces.GenerationResult, err error) {
	result.Error = err.Error()
	kind, ok := interfaces.KindOf(err)
	if !ok {
		result.Status = interfaces.StatusFailedGeneration
		return
	}
	switch kind {
	case interfaces.NoQualityRows, interfaces.InsufficientValues:
		result.Status = interfaces.StatusNoPatterns
	case interfaces.TemplateExecutionError, interfaces.ValidationFailed:
		result.Status = interfaces.StatusFailedValidation
	case interfaces.Timeout:
		result.Status = interfaces.StatusTimeout
	default:
		result.Status = interfaces.StatusFailedGeneration
	}
}
