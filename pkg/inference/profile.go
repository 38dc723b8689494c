/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: profile.go
Description: Column profiler for the Akaylee Templater. Aggregates per-field observations
across all quality rows of a generation run, recording whether any observed value contains
whitespace so constraint choice downstream can be spacing-aware.
*/

package inference

import (
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
)

// AnalyzeColumns builds a per-field profile over the quality-row set.
// No statistical smoothing: one multi-word value marks the whole field as
// space-bearing for the rest of the run. The returned map is built once per
// generation run and read-only afterward.
func AnalyzeColumns(records []*interfaces.CapturedRecord) map[string]*interfaces.ColumnProfile {
	profiles := make(map[string]*interfaces.ColumnProfile)

	for _, record := range records {
		for name, value := range record.Values {
			profile, ok := profiles[name]
			if !ok {
				profile = &interfaces.ColumnProfile{}
				profiles[name] = profile
			}
			profile.Samples = append(profile.Samples, value)
			if strings.Contains(value, " ") {
				profile.HasSpaces = true
			}
		}
	}

	return profiles
}
