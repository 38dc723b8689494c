/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: localize.go
Description: Line localizer for the Akaylee Templater. Maps oracle-captured values back
to the raw source lines that contain them, with exact substring containment and a
best-effort overlap fallback for table rows, per-field first-occurrence mapping for
paragraph data, and header/data line roles for multi-section data.
*/

package pattern

import (
	"regexp"
	"strings"
)

// LineOccurrence is a located source line together with the field->value
// pairs found verbatim in it. Transient: a line index is claimed by at most
// one record pattern per generation pass.
type LineOccurrence struct {
	Index  int               // Zero-based line index in the sample
	Text   string            // Raw line text
	Values map[string]string // Field -> value pairs found in this line
}

// FindSourceLine locates the line containing every non-empty value of a
// table-style record. When no single line contains all values, it falls back
// to the line with the maximum value-overlap count, accepted only when at
// least 2 distinct values match.
func FindSourceLine(lines []string, values map[string]string) (*LineOccurrence, bool) {
	var wanted []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			wanted = append(wanted, v)
		}
	}
	if len(wanted) == 0 {
		return nil, false
	}

	for idx, line := range lines {
		all := true
		for _, v := range wanted {
			if !strings.Contains(line, v) {
				all = false
				break
			}
		}
		if all {
			return &LineOccurrence{Index: idx, Text: line, Values: values}, true
		}
	}

	// Fallback: best partial overlap.
	bestCount, bestIdx := 0, -1
	for idx, line := range lines {
		count := 0
		for _, v := range wanted {
			if strings.Contains(line, v) {
				count++
			}
		}
		if count > bestCount {
			bestCount, bestIdx = count, idx
		}
	}
	if bestIdx >= 0 && bestCount >= 2 {
		found := make(map[string]string)
		for name, v := range values {
			if strings.Contains(lines[bestIdx], v) {
				found[name] = v
			}
		}
		return &LineOccurrence{Index: bestIdx, Text: lines[bestIdx], Values: found}, true
	}
	return nil, false
}

// MapValuesToLines maps each field to the line indices containing its value,
// for paragraph-style localization. When a value appears on multiple lines
// the first occurrence is authoritative for template construction.
func MapValuesToLines(lines []string, values map[string]string) map[string][]int {
	mapped := make(map[string][]int)
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		for idx, line := range lines {
			if strings.Contains(line, value) {
				mapped[name] = append(mapped[name], idx)
			}
		}
		if len(mapped[name]) == 0 {
			delete(mapped, name)
		}
	}
	return mapped
}

// FindHeaderLine locates the multi-section header line: it must contain at
// least one persistent (filldown) value and at most one regular value.
// Values of a single character are ignored during counting to avoid
// spurious containment hits.
func FindHeaderLine(lines []string, filldown map[string]string, regular map[string]string) (*LineOccurrence, bool) {
	for idx, line := range lines {
		filldownIn := countContained(line, filldown)
		regularIn := countContained(line, regular)

		if filldownIn >= 1 && regularIn <= 1 {
			found := make(map[string]string)
			for name, v := range filldown {
				if v != "" && strings.Contains(line, v) {
					found[name] = v
				}
			}
			if len(found) > 0 {
				return &LineOccurrence{Index: idx, Text: line, Values: found}, true
			}
		}
	}
	return nil, false
}

// FindDataLine locates the multi-section data line: any line other than the
// header containing at least minCols regular values. Single-character
// values require a word-boundary match to avoid spurious hits.
func FindDataLine(lines []string, regular map[string]string, minCols int, headerIndex int) (*LineOccurrence, bool) {
	for idx, line := range lines {
		if idx == headerIndex {
			continue
		}
		found := make(map[string]string)
		for name, v := range regular {
			if v == "" {
				continue
			}
			if len(v) > 1 {
				if strings.Contains(line, v) {
					found[name] = v
				}
			} else if wordBoundaryMatch(line, v) {
				found[name] = v
			}
		}
		if len(found) >= minCols {
			return &LineOccurrence{Index: idx, Text: line, Values: found}, true
		}
	}
	return nil, false
}

func countContained(line string, values map[string]string) int {
	count := 0
	for _, v := range values {
		if len(v) > 1 && strings.Contains(line, v) {
			count++
		}
	}
	return count
}

func wordBoundaryMatch(line string, value string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(value) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(line)
}
