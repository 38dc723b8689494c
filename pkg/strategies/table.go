/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table.go
Description: Table generation strategy for the Akaylee Templater. Handles simple tabular
data with multiple rows of the same structure: each quality row is localized to one
source line, generalized into a placeholder pattern, and deduplicated by its ordered
placeholder signature.
*/

package strategies

import (
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/inference"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/oracle"
	"github.com/kleascm/akaylee-templater/pkg/pattern"
)

// TableStrategy generates one flat named group per distinct line pattern.
type TableStrategy struct{}

// NewTableStrategy creates a new table strategy.
func NewTableStrategy() *TableStrategy {
	return &TableStrategy{}
}

// Name returns the strategy name.
func (s *TableStrategy) Name() string {
	return "table"
}

// Generate builds a table template from the quality-row set.
func (s *TableStrategy) Generate(input *Input) (string, error) {
	qualityRows := oracle.FilterQualityRows(input.Result, input.MinCols)
	if len(qualityRows) == 0 {
		return "", interfaces.NewFailure(interfaces.NoQualityRows,
			"no rows with %d or more populated columns", input.MinCols)
	}

	profiles := inference.AnalyzeColumns(qualityRows)
	lines := sampleLines(input.Sample)

	usedLines := make(map[int]bool)
	seen := make(map[string]bool)
	var patterns []string

	for _, row := range qualityRows {
		occ, ok := pattern.FindSourceLine(lines, row.Values)
		if !ok {
			continue
		}
		// One physical line serves at most one structural role per run.
		if usedLines[occ.Index] {
			continue
		}
		usedLines[occ.Index] = true

		generalized := pattern.Generalize(pattern.Substitute(occ.Text, row.Values, profiles))
		sig := pattern.Signature(generalized)
		if sig == "" || seen[sig] {
			continue
		}
		seen[sig] = true
		patterns = append(patterns, generalized)
	}

	if len(patterns) == 0 {
		return "", interfaces.NewFailure(interfaces.NoPatternsGenerated,
			"could not generate any line patterns from parsed data")
	}

	var b strings.Builder
	for _, p := range patterns {
		name := strings.ToLower(strings.ReplaceAll(pattern.Signature(p), ",", "_"))
		b.WriteString(`<group name="` + name + "\">\n")
		b.WriteString(p + "\n")
		b.WriteString("</group>\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
