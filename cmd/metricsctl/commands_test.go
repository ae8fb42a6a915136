package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/internal/application/tools"
)

const fixture = "../../internal/application/services/testdata/hospital_trends.csv"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--file", fixture}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decodeResult(t *testing.T, out string) tools.Result {
	t.Helper()
	var res tools.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestMetricsctl_Count(t *testing.T) {
	out, err := run(t, "count")
	require.NoError(t, err)

	res := decodeResult(t, out)
	assert.True(t, res.OK)
	assert.Equal(t, map[string]interface{}{"total_hospitals": float64(5)}, res.Result)
}

func TestMetricsctl_Shortcuts(t *testing.T) {
	out, err := run(t, "distance", "City General Hospital", "Metro Health Hospital")
	require.NoError(t, err)
	assert.Contains(t, out, `"distance_km": 0.77`)

	out, err = run(t, "stats", "2024-10-18")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_bed_capacity": 650`)
}

func TestMetricsctl_Call(t *testing.T) {
	out, err := run(t, "call", "get_column_value", `{"facility_name":"City General Hospital","column":"beds_occupied","date":"2024-10-18"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"value": 150`)
}

func TestMetricsctl_FailedToolExitsNonZero(t *testing.T) {
	out, err := run(t, "trend", "General")
	require.Error(t, err)

	res := decodeResult(t, out)
	assert.False(t, res.OK)
	assert.Equal(t, []string{"City General Hospital"}, res.Error.Suggestions)
}

func TestMetricsctl_Tools(t *testing.T) {
	out, err := run(t, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "=== GEOSPATIAL ===")

	out, err = run(t, "tools", "--json")
	require.NoError(t, err)
	var descriptors []tools.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &descriptors))
	assert.Len(t, descriptors, 17)
}

func TestMetricsctl_ArgCount(t *testing.T) {
	_, err := run(t, "compare", "City General Hospital")
	assert.Error(t, err)
}
