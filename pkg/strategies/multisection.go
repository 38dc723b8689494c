/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: multisection.go
Description: Multi-section generation strategy for the Akaylee Templater. Handles
repeating blocks introduced by a section header: persistent (filldown) values localize
the header line, regular values localize a data line, and the result nests the data
group inside the header group.
*/

package strategies

import (
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/inference"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/oracle"
	"github.com/kleascm/akaylee-templater/pkg/pattern"
)

// MultiSectionStrategy generates a nested template: an outer group matching
// the section header line and an inner group matching the repeated data rows.
type MultiSectionStrategy struct{}

// NewMultiSectionStrategy creates a new multi-section strategy.
func NewMultiSectionStrategy() *MultiSectionStrategy {
	return &MultiSectionStrategy{}
}

// Name returns the strategy name.
func (s *MultiSectionStrategy) Name() string {
	return "multisection"
}

// ParseFilldownFields scans grammar "Value" declarations and splits field
// names into persistent (filldown) and regular. This is the only grammar
// inspection the module performs; grammar semantics stay opaque.
func ParseFilldownFields(grammar string) (filldown []string, regular []string) {
	for _, line := range strings.Split(grammar, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Value") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}
		isFilldown := false
		for _, p := range parts {
			if p == "Filldown" {
				isFilldown = true
				break
			}
		}
		for _, p := range parts[1:] {
			switch p {
			case "Filldown", "Required", "List", "Fillup":
				continue
			}
			if strings.HasPrefix(p, "(") {
				break
			}
			if isFilldown {
				filldown = append(filldown, p)
			} else {
				regular = append(regular, p)
			}
			break
		}
	}
	return filldown, regular
}

// Generate builds a nested multi-section template.
func (s *MultiSectionStrategy) Generate(input *Input) (string, error) {
	filldownFields, regularFields := ParseFilldownFields(input.Grammar)
	if len(filldownFields) == 0 {
		return "", interfaces.NewFailure(interfaces.NoFilldownCaptured,
			"grammar declares no persistent fields")
	}

	records := oracle.Records(input.Result)
	if len(records) == 0 {
		return "", interfaces.NewFailure(interfaces.NoQualityRows, "oracle produced no populated records")
	}

	// Best candidate row: has at least one persistent value, with the most
	// regular values captured alongside it.
	var filldownValues, regularValues map[string]string
	for _, record := range records {
		rowFilldown := pickValues(record, filldownFields)
		rowRegular := pickValues(record, regularFields)
		if len(rowFilldown) == 0 || len(rowRegular) == 0 {
			continue
		}
		if len(rowRegular) > len(regularValues) {
			filldownValues, regularValues = rowFilldown, rowRegular
		}
	}

	if len(filldownValues) == 0 {
		return "", interfaces.NewFailure(interfaces.NoFilldownCaptured,
			"no persistent values captured in any row")
	}
	if len(regularValues) < input.MinCols {
		return "", interfaces.NewFailure(interfaces.InsufficientValues,
			"need %d or more regular values, got %d", input.MinCols, len(regularValues))
	}

	lines := sampleLines(input.Sample)

	header, ok := pattern.FindHeaderLine(lines, filldownValues, regularValues)
	if !ok {
		return "", interfaces.NewFailure(interfaces.HeaderLineNotFound,
			"could not identify section header line")
	}
	data, ok := pattern.FindDataLine(lines, regularValues, input.MinCols, header.Index)
	if !ok {
		return "", interfaces.NewFailure(interfaces.DataLineNotFound,
			"could not identify data row line")
	}

	profiles := inference.AnalyzeColumns(records)

	headerLine := pattern.Substitute(header.Text, header.Values, profiles)
	dataLine := pattern.Generalize(pattern.Substitute(data.Text, data.Values, profiles))

	dataFields := make([]string, 0, len(data.Values))
	for name := range data.Values {
		dataFields = append(dataFields, name)
	}

	var b strings.Builder
	b.WriteString(`<group name="` + groupName(filldownFields, 3) + "\">\n")
	b.WriteString(headerLine + "\n")
	b.WriteString(`<group name="` + groupName(dataFields, 3) + "\">\n")
	b.WriteString(dataLine + "\n")
	b.WriteString("</group>\n")
	b.WriteString("</group>")
	return b.String(), nil
}

func pickValues(record *interfaces.CapturedRecord, fields []string) map[string]string {
	picked := make(map[string]string)
	for _, name := range fields {
		if v, ok := record.Values[name]; ok && v != "" {
			picked[name] = v
		}
	}
	return picked
}
