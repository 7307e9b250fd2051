package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/locality-cli/internal/store"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	runs := []store.Run{
		{
			ID:         "abc12345-6789-0000-0000-000000000000",
			Input:      "/data/in/localidades.json.zip",
			CRS:        "EPSG:4326",
			Eps:        500,
			MinSamples: 10,
			Localities: 42,
			CreatedAt:  now,
		},
		{
			ID:         "def12345-6789-0000-0000-000000000000",
			Input:      "/data/in/a_really_long_input_file_name_for_testing.geojson",
			Eps:        250,
			MinSamples: 5,
			CreatedAt:  now.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "INPUT")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "localidades.json.zip")
	assert.NotContains(t, output, "/data/in")
	assert.Contains(t, output, "a_really_long_input_file_na...")
	assert.Contains(t, output, "2025-06-15 10:30")
	assert.Contains(t, output, "250")
}

func TestFormatRun(t *testing.T) {
	r := store.Run{
		ID:         "abc12345-6789-0000-0000-000000000000",
		Input:      "localidades.json.zip",
		CRS:        "EPSG:4326",
		Eps:        500,
		MinSamples: 10,
		MinRecords: 10,
		Localities: 3,
		CreatedAt:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}
	bounds := []store.Boundary{
		{RunID: r.ID, Locality: "Centro", Clusters: 2, Members: 31},
	}

	var buf bytes.Buffer
	formatRun(&buf, r, bounds)

	output := buf.String()
	assert.Contains(t, output, "abc12345-6789-0000-0000-000000000000")
	assert.Contains(t, output, "eps=500 min_samples=10 min_records=10")
	assert.Contains(t, output, "3 seen, 1 written")
	assert.Regexp(t, `Centro\s+2\s+31`, output)
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}
