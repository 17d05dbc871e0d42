package zoneconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
zones:
  - name: front lawn
    eto_entity_id: sensor.eto_daily
    rain_entity_id: sensor.rain_daily
    throughput_mm_h: 12
    scale: 80
    max_mins: 45
  - name: back lawn
    eto_entity_id: sensor.eto_daily
    rain_entity_id: sensor.rain_daily
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Zones, 2)

	front, ok := cfg.Find("front lawn")
	require.True(t, ok)
	assert.Equal(t, 12.0, front.ThroughputMMPerHour)
	assert.Equal(t, 80.0, front.ScalePercent)
	assert.Equal(t, 45, front.MaxMinutes)

	back, ok := cfg.Find("back lawn")
	require.True(t, ok)
	assert.Equal(t, float64(DefaultThroughputMMPerHour), back.ThroughputMMPerHour)
	assert.Equal(t, float64(DefaultScalePercent), back.ScalePercent)
	assert.Equal(t, DefaultMaxMinutes, back.MaxMinutes)

	_, ok = cfg.Find("side beds")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "duplicate name",
			content: `
zones:
  - name: lawn
    eto_entity_id: sensor.eto
    rain_entity_id: sensor.rain
  - name: lawn
    eto_entity_id: sensor.eto
    rain_entity_id: sensor.rain
`,
			wantErr: "already configured",
		},
		{
			name: "missing eto entity",
			content: `
zones:
  - name: lawn
    rain_entity_id: sensor.rain
`,
			wantErr: "eto_entity_id",
		},
		{
			name: "missing rain entity",
			content: `
zones:
  - name: lawn
    eto_entity_id: sensor.eto
`,
			wantErr: "rain_entity_id",
		},
		{
			name: "missing name",
			content: `
zones:
  - eto_entity_id: sensor.eto
    rain_entity_id: sensor.rain
`,
			wantErr: "name",
		},
		{
			name: "throughput too high",
			content: `
zones:
  - name: lawn
    eto_entity_id: sensor.eto
    rain_entity_id: sensor.rain
    throughput_mm_h: 25
`,
			wantErr: "throughput_mm_h",
		},
		{
			name: "scale too high",
			content: `
zones:
  - name: lawn
    eto_entity_id: sensor.eto
    rain_entity_id: sensor.rain
    scale: 150
`,
			wantErr: "scale",
		},
		{
			name: "max runtime too long",
			content: `
zones:
  - name: lawn
    eto_entity_id: sensor.eto
    rain_entity_id: sensor.rain
    max_mins: 90
`,
			wantErr: "max_mins",
		},
		{
			name:    "not yaml",
			content: "{{{",
			wantErr: "parsing config",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateDuplicateSentinel(t *testing.T) {
	cfg := Config{
		Zones: []Zone{
			{Name: "a", EToEntityID: "sensor.eto", RainEntityID: "sensor.rain",
				ThroughputMMPerHour: 10, ScalePercent: 100, MaxMinutes: 30},
			{Name: "a", EToEntityID: "sensor.eto", RainEntityID: "sensor.rain",
				ThroughputMMPerHour: 10, ScalePercent: 100, MaxMinutes: 30},
		},
	}

	err := Validate(cfg)
	require.ErrorIs(t, err, ErrAlreadyConfigured)
}
