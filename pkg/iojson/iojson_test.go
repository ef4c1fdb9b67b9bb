package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, map[string]any{"name": "週次", "count": 3})
	require.NoError(t, err)
	assert.Empty(t, errOut.String())
	assert.JSONEq(t, `{"name":"週次","count":3}`, out.String())
	// Indented, newline-terminated output for terminal consumption.
	assert.Contains(t, out.String(), "\n  \"count\": 3")
}

func TestWriteWith_MarshalFailureGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, make(chan int))
	require.NoError(t, err)
	assert.Empty(t, out.String())

	var report struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &report))
	assert.Equal(t, "marshal command output", report.Message)
	assert.Contains(t, report.Data["json_error"], "unsupported type")
}
