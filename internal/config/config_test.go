package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFlowTable(t *testing.T) {
	table, err := DefaultFlowTable()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bear-call-spread-flow.html",
		"bear-put-spread-flow.html",
		"bitcoin-etf-portfolio-flow.html",
		"crypto-portfolio-flow.html",
		"faang-portfolio-flow.html",
	}, table.Names())

	m := table["bear-call-spread-flow.html"]
	assert.Equal(t, "Bear Call Spread Options Trading Flow | MachineTrader", m.Title)
	assert.Equal(t, "https://www.machinetrader.io/trading-flows/bear-call-spread-flow", m.Canonical)
	assert.Equal(t, "Bear Call Spread Options Flow", m.Heading)
	assert.Equal(t, "red-500", m.BadgeColor)
	assert.Equal(t, "orange-500", m.GradientTo)
	assert.Equal(t, "Bear Call Spread (1).json", m.JSONFile)
}

const validFlow = `flows:
  demo-flow.html:
    title: "Demo | MachineTrader"
    description: "Demo flow."
    canonical: "https://www.machinetrader.io/trading-flows/demo-flow"
    h1: "Demo Flow"
    subtitle: "A demo."
    badge_text: "Demo"
    badge_color: blue-500
    gradient_from: blue-500
    gradient_to: purple-500
`

func TestParseFlowTable(t *testing.T) {
	table, err := ParseFlowTable([]byte(validFlow))
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Empty(t, table["demo-flow.html"].JSONFile)
}

func TestParseFlowTableErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "flows: {}\n", "no flows defined"},
		{"missing field", `flows:
  a.html:
    title: "A"
`, "description is required"},
		{"listing page", `flows:
  index.html:
    title: "A"
`, "listing page"},
		{"not html", `flows:
  a.htm:
    title: "A"
`, "must end in .html"},
		{"bad color", validFlowWith("badge_color: blue-500", `badge_color: "blue-500 evil"`), "not a color token"},
		{"relative canonical", validFlowWith(`canonical: "https://www.machinetrader.io/trading-flows/demo-flow"`, `canonical: "/demo"`), "absolute http(s) URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlowTable([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFlowTable))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseFlowTableUnknownKey(t *testing.T) {
	_, err := ParseFlowTable([]byte(validFlow + "    colour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestValidateReportsEveryFlow(t *testing.T) {
	table := FlowTable{
		"a.html": {Title: "A"},
		"b.html": {Title: "B"},
	}
	err := table.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.html")
	assert.Contains(t, err.Error(), "b.html")
}

func TestLoadFlowTable(t *testing.T) {
	table, err := LoadFlowTable("")
	require.NoError(t, err)
	assert.Len(t, table, 5)

	path := filepath.Join(t.TempDir(), "flows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validFlow), 0o644))
	table, err = LoadFlowTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-flow.html"}, table.Names())

	_, err = LoadFlowTable(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefaultFlowsYAMLIsCopy(t *testing.T) {
	a := DefaultFlowsYAML()
	a[0] = 'X'
	assert.NotEqual(t, a[0], DefaultFlowsYAML()[0])
}

func validFlowWith(old, repl string) string {
	return strings.Replace(validFlow, old, repl, 1)
}
