/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: process_test.go
Description: Tests for the process-backed engines using shell helpers that consume the
JSON request and emit canned responses. Covers response decoding, helper-reported errors,
the invalid-grammar signal, and timeout classification.
*/

package engines

import (
	"context"
	"testing"
	"time"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helper(script string) []string {
	return []string{"sh", "-c", "cat >/dev/null; " + script}
}

func TestProcessOracleEngineDecodesResponse(t *testing.T) {
	engine := NewProcessOracleEngine(helper(
		`echo '{"field_names":["A","B"],"rows":[["x","y"]]}'`))

	result, err := engine.Extract(context.Background(), "grammar", "sample")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, result.FieldNames)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "x", result.Rows[0][0])
}

func TestProcessOracleEngineInvalidGrammar(t *testing.T) {
	engine := NewProcessOracleEngine(helper(
		`echo '{"invalid_grammar":true,"error":"bad value line"}'`))

	_, err := engine.Extract(context.Background(), "grammar", "sample")
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.InvalidGrammar, kind)
	assert.Contains(t, err.Error(), "bad value line")
}

func TestProcessOracleEngineReportedError(t *testing.T) {
	engine := NewProcessOracleEngine(helper(
		`echo '{"error":"state machine stuck"}'`))

	_, err := engine.Extract(context.Background(), "grammar", "sample")
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.ExtractionFailure, kind)
}

func TestProcessOracleEngineMissingCommand(t *testing.T) {
	engine := NewProcessOracleEngine(nil)
	_, err := engine.Extract(context.Background(), "grammar", "sample")
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.ExtractionFailure, kind)
}

func TestProcessOracleEngineTimeout(t *testing.T) {
	engine := NewProcessOracleEngine([]string{"sleep", "5"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := engine.Extract(ctx, "grammar", "sample")
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.Timeout, kind)
}

func TestProcessTemplateEngineDecodesResult(t *testing.T) {
	engine := NewProcessTemplateEngine(helper(
		`echo '{"result":[{"port":"Gi1/0/1"}]}'`))

	result, err := engine.Execute(context.Background(), "template", "sample")
	require.NoError(t, err)

	list, ok := result.Root.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
	record, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Gi1/0/1", record["port"])
}

func TestProcessTemplateEngineReportedError(t *testing.T) {
	engine := NewProcessTemplateEngine(helper(
		`echo '{"error":"unexpected token"}'`))

	_, err := engine.Execute(context.Background(), "template", "sample")
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.TemplateExecutionError, kind)
}

func TestProcessTemplateEngineBadJSON(t *testing.T) {
	engine := NewProcessTemplateEngine(helper(`echo 'not json'`))

	_, err := engine.Execute(context.Background(), "template", "sample")
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.TemplateExecutionError, kind)
}
