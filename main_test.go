package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/zipgeo/dataset"
)

const testDataset = `[
  {"zip_code": "90210", "latitude": 34.0901, "longitude": -118.4065, "city": "Beverly Hills", "state": "CA", "county": "Los Angeles"},
  {"zip_code": "10001", "latitude": 40.7506, "longitude": -73.9971, "city": "New York", "state": "NY", "county": "New York"},
  {"zip_code": "90212", "latitude": 34.0736, "longitude": -118.4004, "city": "Beverly Hills", "state": "CA", "county": "Los Angeles"}
]`

func setupDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "zips.json")
	require.NoError(t, os.WriteFile(path, []byte(testDataset), 0o644))
	t.Setenv("ZIPGEO_DATASET", path)
	t.Setenv("ZIPGEO_OUTPUT", filepath.Join(dir, "NearbyZipCodes.json"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"-env", ""}, args...)
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunCommands(t *testing.T) {
	setupDataset(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Closest", []string{"closest", "90210"}, `{"closest":"90212"}`},
		{"Radius", []string{"radius", "90210", "5"}, `["90210","90212"]`},
		{"RadiusMiles", []string{"radius", "90210", "3000", "miles"}, `["90210","10001","90212"]`},
		{"BoundingBox", []string{"bbox", "10001", "1"}, `["10001"]`},
		{"InRange", []string{"inrange", "90210", "90212", "2", "km"}, `{"in_range":true}`},
		{"City", []string{"city", "10001"}, `{"city":"New York","state":"NY"}`},
		{"Valid", []string{"valid", "99999"}, `{"valid":false}`},
		{"Summary", []string{"summary", "90212"}, `{"zip_code":"90212","city":"Beverly Hills","state":"CA","county":"Los Angeles","latitude":34.0736,"longitude":-118.4004}`},
		{"GroupState", []string{"group-state"}, `{"CA":["90210","90212"],"NY":["10001"]}`},
		{"GroupCounty", []string{"group-county"}, `{"Los Angeles":["90210","90212"],"New York":["10001"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}
}

func TestRunDistance(t *testing.T) {
	setupDataset(t)

	out, err := runCLI(t, "distance", "90210", "10001", "miles")
	require.NoError(t, err)

	var got struct {
		Distance float64 `json:"distance"`
		Unit     string  `json:"unit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "miles", got.Unit)
	assert.InDelta(t, 3948.19*0.621371, got.Distance, 0.1)
}

func TestRunSort(t *testing.T) {
	setupDataset(t)

	out, err := runCLI(t, "sort", "90210", "10001", "90212")
	require.NoError(t, err)

	var got []struct {
		Zip string `json:"zip"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "90212", got[0].Zip)
	assert.Equal(t, "10001", got[1].Zip)
}

func TestRunNeighborhoods(t *testing.T) {
	dir := setupDataset(t)

	_, err := runCLI(t, "neighborhoods", "5")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "NearbyZipCodes.json"))
	require.NoError(t, err)
	var zipMap map[string][]string
	require.NoError(t, json.Unmarshal(b, &zipMap))
	assert.Equal(t, map[string][]string{
		"90210": {"90210", "90212"},
		"90212": {"90210", "90212"},
		"10001": {"10001"},
	}, zipMap)
}

func TestRunErrors(t *testing.T) {
	setupDataset(t)

	_, err := runCLI(t, "summary", "00000")
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = runCLI(t, "distance", "90210", "10001", "parsecs")
	assert.Error(t, err)

	_, err = runCLI(t, "radius", "90210", "far")
	assert.Error(t, err)

	_, err = runCLI(t, "closest")
	assert.Error(t, err)

	_, err = runCLI(t, "teleport")
	assert.ErrorContains(t, err, "unknown command")

	_, err = runCLI(t)
	assert.Error(t, err)
}
