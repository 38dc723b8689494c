/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: strategies.go
Description: Strategy contract for the Akaylee Templater. A strategy turns one oracle
extraction result plus the raw sample into generalized template text, or fails with a
typed reason the selector can fall through on.
*/

package strategies

import (
	"sort"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
)

// Input is everything one generation strategy may consume. MinCols is the
// quality-row threshold handed down from the caller.
type Input struct {
	Result  *interfaces.OracleResult // Normalized oracle output
	Sample  string                   // Raw sample text
	Grammar string                   // Oracle grammar text (persistent-field scan only)
	MinCols int                      // Minimum populated fields for a quality row
}

// Strategy generates template text for one structural shape of data.
type Strategy interface {
	// Generate returns the template text or a typed *interfaces.Failure.
	Generate(input *Input) (string, error)

	// Name returns the strategy name used in logs.
	Name() string
}

// groupName builds a template group name from field names: sorted, at most
// max names, joined with underscores, lowercased.
func groupName(fields []string, max int) string {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	return strings.ToLower(strings.Join(sorted, "_"))
}

// sampleLines splits raw sample text into lines for localization.
func sampleLines(sample string) []string {
	return strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")
}
