package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []int{4, 8, 12}, cfg.Game.WaitlistTiers)
	assert.Equal(t, 30*time.Second, cfg.Game.TitleDuration)
	assert.Equal(t, uint64(0), cfg.Archive.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.Narration.MaxPresentation)
	assert.NotEmpty(t, cfg.Narration.Voices)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("WAITLIST_TIERS", "2,5")
	t.Setenv("TITLE_DURATION", "45s")
	t.Setenv("NARRATION_VOICES", "solo:1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, []int{2, 5}, cfg.Game.WaitlistTiers)
	assert.Equal(t, 45*time.Second, cfg.Game.TitleDuration)
	assert.Equal(t, []string{"solo:1"}, cfg.Narration.Voices)
}
