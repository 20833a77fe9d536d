package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"table", "json", "YAML", ""} {
		_, err := ParseFormat(valid)
		assert.NoError(t, err, valid)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)

	require.NoError(t, f.Format(&buf, map[string]string{"name": "Milk"}))
	assert.JSONEq(t, `{"name": "Milk"}`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatYAML)

	require.NoError(t, f.Format(&buf, map[string]string{"name": "Milk"}))
	assert.Contains(t, buf.String(), "name: Milk")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)

	err := f.Format(&buf, Data{
		Headers: []string{"ID", "Name"},
		Rows:    [][]string{{"Milk", "Milk [27]"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Milk [27]")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)

	require.NoError(t, f.Format(&buf, map[string]int{"count": 2}))
	assert.JSONEq(t, `{"count": 2}`, buf.String())
}
