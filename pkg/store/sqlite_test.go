/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sqlite_test.go
Description: Tests for the SQLite template store. Runs against an in-memory database and
covers upsert replacement semantics, term-based filtering, and null-column handling.
*/

package store

import (
	"context"
	"testing"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ratio := 1.0
	err := s.Upsert(ctx, &interfaces.Template{
		Command:      "cisco_ios_show_version",
		Content:      "<group>...</group>",
		SampleText:   "sample",
		GrammarText:  "grammar",
		OracleRows:   1,
		TemplateRows: 1,
		MatchRatio:   &ratio,
		Source:       "generated",
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "cisco_ios_show_version")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "<group>...</group>", got.Content)
	assert.Equal(t, "sample", got.SampleText)
	require.NotNil(t, got.MatchRatio)
	assert.InDelta(t, 1.0, *got.MatchRatio, 1e-9)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertReplacesByCommand(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &interfaces.Template{Command: "cmd", Content: "v1"}))
	require.NoError(t, s.Upsert(ctx, &interfaces.Template{Command: "cmd", Content: "v2"}))

	got, err := s.Get(ctx, "cmd")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilRatioRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &interfaces.Template{Command: "cmd", Content: "x"}))
	got, err := s.Get(ctx, "cmd")
	require.NoError(t, err)
	assert.Nil(t, got.MatchRatio)
}

func TestListWithFilterTerms(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, cmd := range []string{
		"cisco_ios_show_interfaces",
		"cisco_ios_show_version",
		"arista_eos_show_interfaces",
	} {
		require.NoError(t, s.Upsert(ctx, &interfaces.Template{Command: cmd, Content: "x"}))
	}

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Every term must match; "ios" and "interfaces" exclude the arista entry
	// and the version entry.
	filtered, err := s.List(ctx, "ios_interfaces")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "cisco_ios_show_interfaces", filtered[0].Command)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &interfaces.Template{Command: "cmd", Content: "x"}))
	require.NoError(t, s.Delete(ctx, "cmd"))

	got, err := s.Get(ctx, "cmd")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFilterTerms(t *testing.T) {
	// Terms of 2 or fewer characters are dropped; '-' splits like '_'.
	assert.Equal(t, []string{"show", "interface", "brief"},
		FilterTerms("show_ip_interface-brief"))
	assert.Empty(t, FilterTerms(""))
	assert.Empty(t, FilterTerms("a_b-c"))
}
