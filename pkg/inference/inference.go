/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Placeholder type inference for the Akaylee Templater. Maps a field name plus
one concrete sample value (and spacing/position flags) to a target-template placeholder
with an appropriate constraint. Implemented as an ordered rule chain where the first
matching rule wins, keeping the ordering contract explicit and testable per rule.
*/

package inference

import (
	"regexp"
	"strings"
)

// FieldContext carries everything a rule may inspect for one field.
type FieldContext struct {
	Name        string // Field name from the oracle grammar
	Sample      string // One concrete captured value
	HasSpaces   bool   // True if any value in this column contains a space
	IsLastField bool   // True if this field ends rightmost on the line
}

// Rule is one (predicate, placeholder-builder) pair in the inference chain.
type Rule struct {
	Name  string
	Match func(ctx *FieldContext) bool
	Build func(ctx *FieldContext) string
}

var dottedQuad = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)

var (
	statusVocab  = []string{"status", "state"}
	countVocab   = []string{"port", "vlan", "id", "count", "slot", "module", "vid", "rev", "stratum"}
	addressVocab = []string{"ip", "addr", "address", "reference"}
	serialVocab  = []string{"sn", "serial"}
	versionVocab = []string{"version", "ver"}
	hostVocab    = []string{"hostname", "host"}
	fileVocab    = []string{"image", "file", "flash"}
)

// rules is the ordered inference chain. Order matters: the space/last-field
// checks must precede every name-vocabulary check, so a space-bearing
// "count" column still captures phrases rather than bare digits.
var rules = []Rule{
	{
		Name:  "column-has-spaces",
		Match: func(ctx *FieldContext) bool { return ctx.HasSpaces },
		Build: phrase,
	},
	{
		Name:  "last-field-on-line",
		Match: func(ctx *FieldContext) bool { return ctx.IsLastField },
		Build: phrase,
	},
	{
		// Status fields often carry multi-word values like "Power Loss"
		// or "Not Installed" even when this sample happens to be one word.
		Name:  "status-vocabulary",
		Match: func(ctx *FieldContext) bool { return nameContainsAny(ctx.Name, statusVocab) },
		Build: phrase,
	},
	{
		Name: "numeric-vocabulary",
		Match: func(ctx *FieldContext) bool {
			return nameContainsAny(ctx.Name, countVocab) && allDigits(ctx.Sample)
		},
		Build: func(ctx *FieldContext) string { return constrained(ctx.Name, `\\d+`) },
	},
	{
		Name: "ipv4-address",
		Match: func(ctx *FieldContext) bool {
			return nameContainsAny(ctx.Name, addressVocab) && dottedQuad.MatchString(ctx.Sample)
		},
		Build: func(ctx *FieldContext) string {
			return constrained(ctx.Name, `\\d+\\.\\d+\\.\\d+\\.\\d+`)
		},
	},
	{
		Name:  "mac-address",
		Match: func(ctx *FieldContext) bool { return strings.Contains(strings.ToLower(ctx.Name), "mac") },
		Build: func(ctx *FieldContext) string { return constrained(ctx.Name, `[0-9a-fA-F:.-]+`) },
	},
	{
		Name:  "serial-number",
		Match: func(ctx *FieldContext) bool { return nameContainsAny(ctx.Name, serialVocab) },
		Build: func(ctx *FieldContext) string { return constrained(ctx.Name, `\\w+`) },
	},
	{
		Name:  "version-string",
		Match: func(ctx *FieldContext) bool { return nameContainsAny(ctx.Name, versionVocab) },
		Build: func(ctx *FieldContext) string { return constrained(ctx.Name, `[\\d\\.\\(\\)A-Za-z]+`) },
	},
	{
		Name:  "uptime",
		Match: func(ctx *FieldContext) bool { return strings.Contains(strings.ToLower(ctx.Name), "uptime") },
		Build: phrase,
	},
	{
		Name:  "hostname",
		Match: func(ctx *FieldContext) bool { return nameContainsAny(ctx.Name, hostVocab) },
		Build: func(ctx *FieldContext) string { return constrained(ctx.Name, `\\S+`) },
	},
	{
		Name:  "filename-or-image",
		Match: func(ctx *FieldContext) bool { return nameContainsAny(ctx.Name, fileVocab) },
		Build: func(ctx *FieldContext) string { return unconstrained(ctx.Name) },
	},
	{
		// Pure separator values ("----") must not generalize to match-anything.
		Name: "no-alphanumeric-sample",
		Match: func(ctx *FieldContext) bool {
			return ctx.Sample != "" && !containsAlnum(ctx.Sample)
		},
		Build: func(ctx *FieldContext) string { return constrained(ctx.Name, `.*\\w.*`) },
	},
}

// InferPlaceholder maps a field to its typed target-template placeholder.
// The rule chain is evaluated strictly in order and the first match wins;
// when nothing matches, the placeholder is unconstrained.
func InferPlaceholder(ctx *FieldContext) string {
	for _, rule := range rules {
		if rule.Match(ctx) {
			return rule.Build(ctx)
		}
	}
	return unconstrained(ctx.Name)
}

// Rules exposes the ordered chain so each rule's firing conditions can be
// exercised independently in tests.
func Rules() []Rule {
	return rules
}

// phrase builds a placeholder that captures through end of significant
// content, tolerating embedded whitespace and punctuation.
func phrase(ctx *FieldContext) string {
	return "{{" + ctx.Name + " | ORPHRASE}}"
}

func constrained(name string, pattern string) string {
	return "{{" + name + ` | re("` + pattern + `")}}`
}

func unconstrained(name string) string {
	return "{{" + name + "}}"
}

func nameContainsAny(name string, vocab []string) bool {
	lower := strings.ToLower(name)
	for _, term := range vocab {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAlnum(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}
