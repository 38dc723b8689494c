/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: strategies_test.go
Description: Tests for the three generation strategies and the selector's decision
procedure, built on small hand-checked samples of tabular, paragraph, and multi-section
shaped text.
*/

package strategies

import (
	"strings"
	"testing"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableGrammar = `Value PORT (\S+)
Value NAME (.+?)
Value STATUS (\S+)
Value VLAN (\d+)

Start
  ^${PORT}\s+${NAME}\s+${STATUS}\s+${VLAN} -> Record
`

const tableSample = `Port      Name               Status       Vlan
Gi1/0/1   Uplink to core     connected    10
Gi1/0/2   Access port        notconnect   20`

func tableResult() *interfaces.OracleResult {
	return &interfaces.OracleResult{
		FieldNames: []string{"PORT", "NAME", "STATUS", "VLAN"},
		Rows: [][]interface{}{
			{"Gi1/0/1", "Uplink to core", "connected", "10"},
			{"Gi1/0/2", "Access port", "notconnect", "20"},
		},
	}
}

const paragraphGrammar = `Value VERSION (\S+)
Value UPTIME (.+)
Value IMAGE (\S+)
Value SERIAL (\S+)

Start
  ^.*Version ${VERSION}
`

const paragraphSample = `Cisco IOS Software, C2960 Software, Version 15.0(2)SE4
Router uptime is 5 weeks, 2 days
System image file is "flash:c2960-image.bin"
Processor board ID FDO1628V0AB`

func paragraphResult() *interfaces.OracleResult {
	return &interfaces.OracleResult{
		FieldNames: []string{"VERSION", "UPTIME", "IMAGE", "SERIAL"},
		Rows: [][]interface{}{
			{"15.0(2)SE4", "5 weeks, 2 days", "flash:c2960-image.bin", "FDO1628V0AB"},
		},
	}
}

const multiSectionGrammar = `Value Filldown INTERFACE (\S+)
Value NEIGHBOR (\S+)
Value ADDRESS (\S+)
Value PORT (\S+)

Start
  ^Interface: ${INTERFACE}
  ^${NEIGHBOR}\s+${ADDRESS}\s+${PORT} -> Record
`

const multiSectionSample = `Interface: Gi0/1
Neighbor     Address        Port
switch-a     10.1.1.1       Gi1/0/24`

func multiSectionResult() *interfaces.OracleResult {
	return &interfaces.OracleResult{
		FieldNames: []string{"INTERFACE", "NEIGHBOR", "ADDRESS", "PORT"},
		Rows: [][]interface{}{
			{"Gi0/1", "switch-a", "10.1.1.1", "Gi1/0/24"},
		},
	}
}

func TestTableStrategyGeneratesDedupedPattern(t *testing.T) {
	text, err := NewTableStrategy().Generate(&Input{
		Result:  tableResult(),
		Sample:  tableSample,
		Grammar: tableGrammar,
		MinCols: 3,
	})
	require.NoError(t, err)

	want := `<group name="port_name_status_vlan">
{{PORT}} {{NAME | ORPHRASE}} {{STATUS | ORPHRASE}} {{VLAN | ORPHRASE}}
</group>`
	assert.Equal(t, want, text)
}

func TestTableStrategyNoQualityRows(t *testing.T) {
	result := &interfaces.OracleResult{
		FieldNames: []string{"A", "B", "C"},
		Rows:       [][]interface{}{{"x", nil, nil}},
	}
	_, err := NewTableStrategy().Generate(&Input{Result: result, Sample: "x", MinCols: 3})

	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.NoQualityRows, kind)
}

func TestTableStrategyNoPatterns(t *testing.T) {
	// Values never appear in the sample, so no line localizes.
	result := &interfaces.OracleResult{
		FieldNames: []string{"A", "B", "C"},
		Rows:       [][]interface{}{{"xx", "yy", "zz"}},
	}
	_, err := NewTableStrategy().Generate(&Input{Result: result, Sample: "nothing here", MinCols: 3})

	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.NoPatternsGenerated, kind)
}

func TestParagraphStrategyGeneratesPerLinePatterns(t *testing.T) {
	text, err := NewParagraphStrategy().Generate(&Input{
		Result:  paragraphResult(),
		Sample:  paragraphSample,
		Grammar: paragraphGrammar,
		MinCols: 3,
	})
	require.NoError(t, err)

	want := `<group name="image_serial_uptime_version">
Cisco IOS Software, C2960 Software, Version {{VERSION | ORPHRASE}}
Router uptime is {{UPTIME | ORPHRASE}}
System image file is "{{IMAGE | ORPHRASE}}"
Processor board ID {{SERIAL | ORPHRASE}}
</group>`
	assert.Equal(t, want, text)
}

func TestParagraphStrategyInsufficientValues(t *testing.T) {
	result := &interfaces.OracleResult{
		FieldNames: []string{"A", "B"},
		Rows:       [][]interface{}{{"x", "y"}},
	}
	_, err := NewParagraphStrategy().Generate(&Input{Result: result, Sample: "x y", MinCols: 3})

	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.InsufficientValues, kind)
}

func TestMultiSectionStrategyNestsGroups(t *testing.T) {
	text, err := NewMultiSectionStrategy().Generate(&Input{
		Result:  multiSectionResult(),
		Sample:  multiSectionSample,
		Grammar: multiSectionGrammar,
		MinCols: 3,
	})
	require.NoError(t, err)

	want := `<group name="interface">
Interface: {{INTERFACE | ORPHRASE}}
<group name="address_neighbor_port">
{{NEIGHBOR}} {{ADDRESS | re("\\d+\\.\\d+\\.\\d+\\.\\d+")}} {{PORT | ORPHRASE}}
</group>
</group>`
	assert.Equal(t, want, text)
}

func TestMultiSectionStrategyRequiresFilldownDeclaration(t *testing.T) {
	_, err := NewMultiSectionStrategy().Generate(&Input{
		Result:  tableResult(),
		Sample:  tableSample,
		Grammar: tableGrammar,
		MinCols: 3,
	})
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.NoFilldownCaptured, kind)
}

func TestMultiSectionStrategyRequiresCapturedFilldown(t *testing.T) {
	// Filldown declared but never captured in any row.
	result := &interfaces.OracleResult{
		FieldNames: []string{"INTERFACE", "NEIGHBOR", "ADDRESS", "PORT"},
		Rows: [][]interface{}{
			{nil, "switch-a", "10.1.1.1", "Gi1/0/24"},
		},
	}
	_, err := NewMultiSectionStrategy().Generate(&Input{
		Result:  result,
		Sample:  multiSectionSample,
		Grammar: multiSectionGrammar,
		MinCols: 3,
	})
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.NoFilldownCaptured, kind)
}

func TestParseFilldownFields(t *testing.T) {
	filldown, regular := ParseFilldownFields(multiSectionGrammar)
	assert.Equal(t, []string{"INTERFACE"}, filldown)
	assert.Equal(t, []string{"NEIGHBOR", "ADDRESS", "PORT"}, regular)

	filldown, regular = ParseFilldownFields("Value Required List HOSTS (\\S+)")
	assert.Empty(t, filldown)
	assert.Equal(t, []string{"HOSTS"}, regular)
}

func TestSelectorPicksMultiSectionFirst(t *testing.T) {
	text, name, err := NewSelector(nil).Select(&Input{
		Result:  multiSectionResult(),
		Sample:  multiSectionSample,
		Grammar: multiSectionGrammar,
		MinCols: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "multisection", name)
	assert.True(t, strings.HasPrefix(text, `<group name="interface">`))
}

func TestSelectorParagraphShortCircuit(t *testing.T) {
	// One record, four values, all localizable: sparse paragraph shape.
	_, name, err := NewSelector(nil).Select(&Input{
		Result:  paragraphResult(),
		Sample:  paragraphSample,
		Grammar: paragraphGrammar,
		MinCols: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "paragraph", name)
}

func TestSelectorPicksTableForTabularData(t *testing.T) {
	_, name, err := NewSelector(nil).Select(&Input{
		Result:  tableResult(),
		Sample:  tableSample,
		Grammar: tableGrammar,
		MinCols: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "table", name)
}

func TestSelectorSurfacesTableErrorWhenAllFail(t *testing.T) {
	result := &interfaces.OracleResult{
		FieldNames: []string{"A", "B", "C"},
		Rows:       [][]interface{}{{"xx", "yy", "zz"}},
	}
	_, _, err := NewSelector(nil).Select(&Input{
		Result:  result,
		Sample:  "unrelated text",
		Grammar: "Value A (\\S+)",
		MinCols: 3,
	})
	require.Error(t, err)
	kind, ok := interfaces.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.NoPatternsGenerated, kind)
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "a_b_c", groupName([]string{"C", "B", "A"}, 4))
	assert.Equal(t, "a_b", groupName([]string{"B", "A", "C"}, 2))
}
