/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: paragraph.go
Description: Paragraph generation strategy for the Akaylee Templater. Handles
single-record data spread across multiple lines: every captured value is mapped to the
first source line containing it, each such line becomes one generalized template line,
and the whole record is wrapped in a single named group.
*/

package strategies

import (
	"sort"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/inference"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/oracle"
	"github.com/kleascm/akaylee-templater/pkg/pattern"
)

// ParagraphStrategy generates one named group holding per-line patterns for
// a sparse record whose values sit on different lines.
type ParagraphStrategy struct{}

// NewParagraphStrategy creates a new paragraph strategy.
func NewParagraphStrategy() *ParagraphStrategy {
	return &ParagraphStrategy{}
}

// Name returns the strategy name.
func (s *ParagraphStrategy) Name() string {
	return "paragraph"
}

// Generate builds a paragraph template. The minimum value count is
// max(3, MinCols).
func (s *ParagraphStrategy) Generate(input *Input) (string, error) {
	records := oracle.Records(input.Result)
	if len(records) == 0 {
		return "", interfaces.NewFailure(interfaces.NoQualityRows, "oracle produced no populated records")
	}

	// Merge every record into one value set; later records overwrite.
	allValues := make(map[string]string)
	for _, record := range records {
		for name, value := range record.Values {
			allValues[name] = value
		}
	}

	minValues := input.MinCols
	if minValues < 3 {
		minValues = 3
	}
	if len(allValues) < minValues {
		return "", interfaces.NewFailure(interfaces.InsufficientValues,
			"need %d or more captured values, got %d", minValues, len(allValues))
	}

	profiles := inference.AnalyzeColumns(records)
	lines := sampleLines(input.Sample)

	valueLines := pattern.MapValuesToLines(lines, allValues)
	if len(valueLines) == 0 {
		return "", interfaces.NewFailure(interfaces.NoPatternsGenerated,
			"could not map any captured value to a source line")
	}

	// Invert to line -> values, first occurrence authoritative.
	lineValues := make(map[int]map[string]string)
	for name, indices := range valueLines {
		idx := indices[0]
		if lineValues[idx] == nil {
			lineValues[idx] = make(map[string]string)
		}
		lineValues[idx][name] = allValues[name]
	}

	indices := make([]int, 0, len(lineValues))
	for idx := range lineValues {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	fields := make([]string, 0, len(allValues))
	for name := range allValues {
		fields = append(fields, name)
	}
	name := groupName(fields, 4)
	if name == "" {
		name = "parsed_data"
	}

	var b strings.Builder
	b.WriteString(`<group name="` + name + "\">\n")
	for _, idx := range indices {
		generalized := pattern.GeneralizeParagraph(pattern.Substitute(lines[idx], lineValues[idx], profiles))
		b.WriteString(generalized + "\n")
	}
	b.WriteString("</group>")
	return b.String(), nil
}
