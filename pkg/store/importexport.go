/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: importexport.go
Description: Directory import/export for the Akaylee Templater store. Successful
generation results export as a .ttp template file with a comment header plus a JSON
sidecar carrying parsed data; import walks a directory of sidecars, strips template
headers, and upserts each pair into the store.
*/

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// OverMatchedDir and FailedValidationDir are curation subdirectories inside
// an export directory; their contents are skipped on import.
const (
	OverMatchedDir      = "_over_matched"
	FailedValidationDir = "_failed_validation"
)

// ImportStats summarizes one directory import.
type ImportStats struct {
	Imported int
	Skipped  int
	Errors   []string
}

// ExportResult writes one generation result into dir as <command>.ttp plus
// a <command>.json sidecar with the full result for review.
func ExportResult(dir string, result *interfaces.GenerationResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	safe := SanitizeFilename(result.Command)

	ratio := 0.0
	if result.MatchRatio != nil {
		ratio = *result.MatchRatio
	}
	header := fmt.Sprintf(`# Template auto-generated from oracle grammar
# Original command: %s
# Source: %s
# Oracle rows: %d
# Template rows: %d
# Match ratio: %.2f

`, result.Command, result.Source, result.OracleRows, result.TemplateRows, ratio)

	if err := os.WriteFile(filepath.Join(dir, safe+".ttp"), []byte(header+result.Template), 0o644); err != nil {
		return fmt.Errorf("writing template file: %w", err)
	}
	return writeSidecar(filepath.Join(dir, safe+".json"), result)
}

// ExportFailure writes a failed or over-matched result into the named
// curation subdirectory of dir.
func ExportFailure(dir string, subdir string, result *interfaces.GenerationResult) error {
	target := filepath.Join(dir, subdir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating curation directory: %w", err)
	}
	safe := SanitizeFilename(result.Command)

	if result.Template != "" {
		header := fmt.Sprintf(`# Template - %s
# Original command: %s
# Source: %s
# Error: %s

`, strings.ToUpper(strings.TrimPrefix(subdir, "_")), result.Command, result.Source, result.Error)
		if err := os.WriteFile(filepath.Join(target, safe+".ttp"), []byte(header+result.Template), 0o644); err != nil {
			return fmt.Errorf("writing template file: %w", err)
		}
	}
	return writeSidecar(filepath.Join(target, safe+".json"), result)
}

// ImportDir walks dir's JSON sidecars (skipping curation subdirectories)
// and upserts each template into the store. The .ttp file's content wins
// over the sidecar's template field when both are present.
func ImportDir(ctx context.Context, s interfaces.TemplateStore, dir string, logger *logrus.Logger) (*ImportStats, error) {
	if logger == nil {
		logger = logrus.New()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading export directory: %w", err)
	}

	stats := &ImportStats{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		var result interfaces.GenerationResult
		if err := json.Unmarshal(data, &result); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if result.Command == "" {
			stats.Skipped++
			continue
		}

		content := result.Template
		ttpPath := filepath.Join(dir, strings.TrimSuffix(name, ".json")+".ttp")
		if raw, err := os.ReadFile(ttpPath); err == nil {
			content = StripHeader(string(raw))
		}
		if content == "" {
			stats.Skipped++
			logger.WithField("command", result.Command).Debug("Skipped import: no template content")
			continue
		}

		template := &interfaces.Template{
			Command:      result.Command,
			Content:      content,
			SampleText:   result.SampleText,
			GrammarText:  result.GrammarText,
			OracleRows:   result.OracleRows,
			TemplateRows: result.TemplateRows,
			MatchRatio:   result.MatchRatio,
			Source:       "imported",
		}
		if err := s.Upsert(ctx, template); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		stats.Imported++
	}
	return stats, nil
}

// StripHeader removes the leading comment header (lines starting with '#'
// and the blank lines among them) from exported template content.
func StripHeader(content string) string {
	lines := strings.Split(content, "\n")
	inHeader := true
	var kept []string
	for _, line := range lines {
		if inHeader && (strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "") {
			continue
		}
		inHeader = false
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// SanitizeFilename makes a command name safe for use as a file name.
func SanitizeFilename(name string) string {
	result := name
	for _, c := range []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "} {
		result = strings.ReplaceAll(result, c, "_")
	}
	result = strings.Trim(result, "_.")
	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}
	if result == "" {
		return "unnamed"
	}
	return result
}

func writeSidecar(path string, result *interfaces.GenerationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sidecar: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}
	return nil
}
