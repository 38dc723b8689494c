/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validator.go
Description: Template validator for the Akaylee Templater. Re-executes a generated
template through the target engine against the original sample, compares the resulting
record count against the oracle's quality-row count, and reports the match ratio with
an over-matched flag when the template is too permissive.
*/

package validation

import (
	"context"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// maxEngineError bounds how much of a target-engine error is surfaced.
const maxEngineError = 100

// Report is the outcome of validating one generated template.
type Report struct {
	TargetRows  int                     // Records the target engine produced
	OracleRows  int                     // Quality rows the oracle produced
	MatchRatio  *float64                // TargetRows/OracleRows, nil when OracleRows is 0
	OverMatched bool                    // True when the ratio exceeds 1.0
	Records     []interfaces.FlatRecord // Flattened target records
}

// Validator re-executes generated templates through the target engine.
type Validator struct {
	engine interfaces.TemplateEngine
	logger *logrus.Logger
}

// NewValidator creates a validator around the given target engine.
func NewValidator(engine interfaces.TemplateEngine, logger *logrus.Logger) *Validator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Validator{engine: engine, logger: logger}
}

// Validate executes the template against the sample. A target-engine parse
// error surfaces as TemplateExecutionError; zero resulting records is the
// distinct ValidationFailed. Over-matching (ratio > 1.0) is metadata for
// curation, not an error.
func (v *Validator) Validate(ctx context.Context, template string, sample string, oracleRows int) (*Report, error) {
	result, err := v.engine.Execute(ctx, template, sample)
	if err != nil {
		return nil, interfaces.WrapFailure(interfaces.TemplateExecutionError, err,
			"target engine parse error: %s", truncate(err.Error(), maxEngineError))
	}

	records := Flatten(result)
	if len(records) == 0 {
		return nil, interfaces.NewFailure(interfaces.ValidationFailed, "template produced 0 records")
	}

	report := &Report{
		TargetRows: len(records),
		OracleRows: oracleRows,
		Records:    records,
	}
	if oracleRows > 0 {
		ratio := float64(len(records)) / float64(oracleRows)
		report.MatchRatio = &ratio
		report.OverMatched = ratio > 1.0
	}

	v.logger.WithFields(logrus.Fields{
		"target_rows": report.TargetRows,
		"oracle_rows": report.OracleRows,
	}).Debug("Template validated")
	return report, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
