package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	want := Settings{
		DefaultTimeBlockMinutes: 50,
		DefaultBreakMinutes:     10,
		TimerWarningMinutes:     3,
		IncludeSaturday:         false,
		IncludeSunday:           true,
		EnableBreakAlerts:       false,
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_RejectsBreakNotShorterThanBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	raw := "default_time_block_minutes: 20\ndefault_break_minutes: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, s.DefaultTimeBlockMinutes)
	assert.Equal(t, DefaultSettings().DefaultBreakMinutes, s.DefaultBreakMinutes)
}

func TestWeekendPolicy(t *testing.T) {
	s := Settings{IncludeSaturday: false, IncludeSunday: true}
	p := s.WeekendPolicy()
	assert.False(t, p.IncludeSaturday)
	assert.True(t, p.IncludeSunday)
}

func TestSettingsPath_EnvOverride(t *testing.T) {
	t.Setenv("TEMPO_CONFIG", "/tmp/custom.yaml")
	p, err := SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)
}
