/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: substitute.go
Description: Pattern substitutor and generalizer for the Akaylee Templater. Replaces
literal captured values in a source line with typed placeholders (longest value first to
avoid substring collisions), normalizes repeated interior whitespace while preserving
leading indentation, and derives the ordered placeholder signature used for deduplication.
*/

package pattern

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/inference"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
)

var (
	interiorSpaces  = regexp.MustCompile(` {2,}`)
	paragraphSpaces = regexp.MustCompile(` {3,}`)
	placeholderRe   = regexp.MustCompile(`\{\{(\w+)(?:\s*\|[^}]*)?\}\}`)
)

// Substitute replaces each field's first literal occurrence in the line with
// its inferred placeholder. Substitutions run longest-value-first so a short
// value ("1") can never corrupt a longer value's match ("10"). The field
// whose value ends rightmost in the original line gets last-field treatment.
func Substitute(line string, values map[string]string, profiles map[string]*interfaces.ColumnProfile) string {
	type sub struct {
		name  string
		value string
	}
	subs := make([]sub, 0, len(values))
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		subs = append(subs, sub{name, value})
	}

	// Longest first; name order breaks length ties deterministically.
	sort.Slice(subs, func(i, j int) bool {
		if len(subs[i].value) != len(subs[j].value) {
			return len(subs[i].value) > len(subs[j].value)
		}
		return subs[i].name < subs[j].name
	})

	lastField := rightmostField(line, values)

	out := line
	for _, s := range subs {
		pos := strings.Index(out, s.value)
		if pos < 0 {
			continue
		}
		hasSpaces := false
		if p, ok := profiles[s.name]; ok {
			hasSpaces = p.HasSpaces
		}
		placeholder := inference.InferPlaceholder(&inference.FieldContext{
			Name:        s.name,
			Sample:      s.value,
			HasSpaces:   hasSpaces,
			IsLastField: s.name == lastField,
		})
		out = out[:pos] + placeholder + out[pos+len(s.value):]
	}
	return out
}

// rightmostField returns the field whose value's end position is rightmost
// in the original line, or "" when no value is found in it.
func rightmostField(line string, values map[string]string) string {
	best, bestEnd := "", -1
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pos := strings.Index(line, values[name])
		if pos < 0 {
			continue
		}
		if end := pos + len(values[name]); end > bestEnd {
			best, bestEnd = name, end
		}
	}
	return best
}

// Generalize collapses any interior run of 2+ spaces to exactly one while
// preserving the original leading indentation verbatim. Used for table and
// multi-section line patterns.
func Generalize(line string) string {
	stripped := strings.TrimLeft(line, " \t")
	leading := line[:len(line)-len(stripped)]
	return leading + interiorSpaces.ReplaceAllString(stripped, " ")
}

// GeneralizeParagraph collapses runs of 3+ spaces to exactly two, keeping
// enough spacing to preserve visual alignment in paragraph output.
func GeneralizeParagraph(line string) string {
	return paragraphSpaces.ReplaceAllString(line, "  ")
}

// Signature returns the ordered list of placeholder field names in a
// generalized line, joined with ",". Two lines with identical signatures
// are structurally duplicate; only the first is kept in a generation run.
func Signature(line string) string {
	matches := placeholderRe.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return ""
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return strings.Join(names, ",")
}
