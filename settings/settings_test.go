package settings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ip(v int) *int { return &v }

func fp(v float64) *float64 { return &v }

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	s := Default()
	assert.NoError(t, s.Validate())
	assert.InDelta(t, 10000.0, s.InitialCapital, 1e-9)
	assert.Equal(t, "USD", s.Currency)
	assert.False(t, s.Lockout.Enabled)
}

func TestSaveAndLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	s := Default()
	s.Rules.MaxTradesPerDay = ip(3)
	s.Risk.MaxDrawdownPct = fp(15)
	s.Risk.DrawdownMode = DrawdownHardStop
	assert.NoError(t, s.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestSaveAndLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")

	s := Default()
	assert.NoError(t, s.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing currency", func(s *Settings) { s.Currency = "" }},
		{"negative capital", func(s *Settings) { s.InitialCapital = -1 }},
		{"risk pct out of range", func(s *Settings) { s.DefaultRiskPct = 150 }},
		{"bad drawdown mode", func(s *Settings) { s.Risk.DrawdownMode = "explode" }},
		{"bad lockout duration", func(s *Settings) { s.Lockout.Duration = "soon" }},
		{"negative daily cap", func(s *Settings) { s.Rules.MaxTradesPerDay = ip(-1) }},
		{"hours out of range", func(s *Settings) { s.Rules.TradingHours = &HourWindow{Start: -1, End: 30} }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := Default()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestCapital(t *testing.T) {
	t.Parallel()

	s := Default()
	assert.InDelta(t, 9500.0, s.Capital(-500), 1e-9)

	pinned := 12345.0
	s.CurrentCapital = &pinned
	assert.InDelta(t, 12345.0, s.Capital(-500), 1e-9)
}

func TestHourWindowContains(t *testing.T) {
	t.Parallel()

	at := func(h int) time.Time {
		return time.Date(2025, 3, 10, h, 30, 0, 0, time.UTC)
	}

	day := HourWindow{Start: 8, End: 17}
	assert.False(t, day.Contains(at(7)))
	assert.True(t, day.Contains(at(8)))
	assert.True(t, day.Contains(at(16)))
	assert.False(t, day.Contains(at(17)))

	// Window that wraps midnight, e.g. the Sydney session.
	wrap := HourWindow{Start: 21, End: 6}
	assert.True(t, wrap.Contains(at(22)))
	assert.True(t, wrap.Contains(at(3)))
	assert.False(t, wrap.Contains(at(12)))

	empty := HourWindow{Start: 9, End: 9}
	assert.False(t, empty.Contains(at(9)))
}

func TestLockoutParseDuration(t *testing.T) {
	t.Parallel()

	d, err := Lockout{Duration: "90m"}.ParseDuration()
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = Lockout{}.ParseDuration()
	assert.NoError(t, err)
	assert.Equal(t, DefaultLockoutDuration, d)

	_, err = Lockout{Duration: "whenever"}.ParseDuration()
	assert.Error(t, err)
}

func TestLoadEnvReadsOverrides(t *testing.T) {
	t.Setenv("DISCIPLINE_SETTINGS", "custom.yaml")
	t.Setenv("DISCIPLINE_DB", "custom.db")
	t.Setenv("DISCIPLINE_MODE", "demo")

	e, err := LoadEnv()
	assert.NoError(t, err)
	assert.Equal(t, "custom.yaml", e.SettingsFile)
	assert.Equal(t, "custom.db", e.JournalDB)
	assert.Equal(t, "demo", e.AccountMode)
}

func TestLoadEnvRejectsUnknownMode(t *testing.T) {
	t.Setenv("DISCIPLINE_MODE", "paper")

	_, err := LoadEnv()
	assert.Error(t, err)
}
