/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: adapter.go
Description: Oracle adapter for the Akaylee Templater. Invokes the external oracle
extraction engine and normalizes its raw output into ordered field->value records,
flattening list captures and discarding low-information rows below the quality threshold.
*/

package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// DefaultMinCols is the default minimum number of populated fields a row
// needs to survive the quality filter.
const DefaultMinCols = 3

// Adapter wraps the external oracle engine and owns all normalization of
// its loosely-typed output. Container-flattening happens here once so that
// downstream components only ever see scalar string values.
type Adapter struct {
	engine interfaces.OracleEngine
	logger *logrus.Logger
}

// NewAdapter creates a new oracle adapter around the given engine.
func NewAdapter(engine interfaces.OracleEngine, logger *logrus.Logger) *Adapter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Adapter{engine: engine, logger: logger}
}

// Extract runs the oracle engine and returns its normalized result.
// Engine failures that are not already typed are classified as extraction
// failures; grammar compilation errors must be reported by the engine as
// InvalidGrammar failures.
func (a *Adapter) Extract(ctx context.Context, grammar string, sample string) (*interfaces.OracleResult, error) {
	result, err := a.engine.Extract(ctx, grammar, sample)
	if err != nil {
		if _, ok := interfaces.KindOf(err); ok {
			return nil, err
		}
		return nil, interfaces.WrapFailure(interfaces.ExtractionFailure, err, "oracle engine raised")
	}
	if len(result.FieldNames) == 0 {
		return nil, interfaces.NewFailure(interfaces.InvalidGrammar, "grammar declares no fields")
	}
	a.logger.WithFields(logrus.Fields{
		"fields": len(result.FieldNames),
		"rows":   len(result.Rows),
	}).Debug("Oracle extraction complete")
	return result, nil
}

// Records converts raw oracle rows to CapturedRecords, dropping fields whose
// value is empty or whitespace-only. Rows with no populated fields at all
// are discarded. No quality threshold is applied here.
func Records(result *interfaces.OracleResult) []*interfaces.CapturedRecord {
	return recordsWithFloor(result, 1)
}

// FilterQualityRows converts raw oracle rows to CapturedRecords and keeps
// only rows with at least minCols populated fields. This is the "quality
// row" set every downstream strategy operates on.
func FilterQualityRows(result *interfaces.OracleResult, minCols int) []*interfaces.CapturedRecord {
	if minCols < 1 {
		minCols = 1
	}
	return recordsWithFloor(result, minCols)
}

func recordsWithFloor(result *interfaces.OracleResult, floor int) []*interfaces.CapturedRecord {
	if result == nil || len(result.FieldNames) == 0 {
		return nil
	}

	var records []*interfaces.CapturedRecord
	for _, row := range result.Rows {
		if len(row) == 0 {
			continue
		}
		values := make(map[string]string)
		for i, name := range result.FieldNames {
			if i >= len(row) {
				break
			}
			v, ok := flattenCell(row[i])
			if !ok {
				continue
			}
			values[name] = v
		}
		if len(values) >= floor {
			records = append(records, &interfaces.CapturedRecord{
				Fields: result.FieldNames,
				Values: values,
			})
		}
	}
	return records
}

// flattenCell normalizes one raw oracle cell to a trimmed scalar string.
// List captures are joined with ", "; nested container values (maps, or
// lists containing containers) never leak downstream and are dropped.
func flattenCell(cell interface{}) (string, bool) {
	switch v := cell.(type) {
	case nil:
		return "", false
	case string:
		t := strings.TrimSpace(v)
		return t, t != ""
	case []interface{}:
		var parts []string
		for _, item := range v {
			switch s := item.(type) {
			case nil:
				continue
			case string:
				if strings.TrimSpace(s) != "" {
					parts = append(parts, strings.TrimSpace(s))
				}
			case map[string]interface{}, []interface{}:
				// Composite member: the whole cell is structural, drop it.
				return "", false
			default:
				parts = append(parts, strings.TrimSpace(fmt.Sprint(s)))
			}
		}
		joined := strings.Join(parts, ", ")
		return joined, joined != ""
	case []string:
		var parts []string
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		joined := strings.Join(parts, ", ")
		return joined, joined != ""
	case map[string]interface{}:
		return "", false
	default:
		t := strings.TrimSpace(fmt.Sprint(v))
		return t, t != ""
	}
}
