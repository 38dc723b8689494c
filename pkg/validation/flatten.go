/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: flatten.go
Description: Result flattening for the Akaylee Templater. Walks the target engine's
nested output and extracts flat field->value records: any sub-object with at least one
scalar field is a record, and recursion continues into nested containers regardless.
*/

package validation

import (
	"sort"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
)

// Flatten extracts flat records from a nested template result, in document
// order. Keys starting with "_" are engine bookkeeping and do not make an
// object count as a record on their own.
func Flatten(result *interfaces.TemplateResult) []interfaces.FlatRecord {
	if result == nil {
		return nil
	}
	var records []interfaces.FlatRecord
	walk(result.Root, &records)
	return records
}

func walk(node interface{}, records *[]interfaces.FlatRecord) {
	switch v := node.(type) {
	case map[string]interface{}:
		record := make(interfaces.FlatRecord)
		hasData := false
		for key, value := range v {
			if isContainer(value) {
				continue
			}
			record[key] = value
			if !strings.HasPrefix(key, "_") {
				hasData = true
			}
		}
		if hasData {
			*records = append(*records, record)
		}
		// Recurse into nested containers in deterministic key order.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if isContainer(v[key]) {
				walk(v[key], records)
			}
		}
	case []interface{}:
		for _, item := range v {
			walk(item, records)
		}
	}
}

func isContainer(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return true
	default:
		return false
	}
}
