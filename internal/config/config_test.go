package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripToHostname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://moderation.example.com", "moderation.example.com"},
		{"http://moderation.example.com/api", "moderation.example.com"},
		{"moderation.example.com:8080", "moderation.example.com"},
		{"https://moderation.example.com:443/health", "moderation.example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripToHostname(tt.in), "input %q", tt.in)
	}
}

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList(""))
	assert.Equal(t, []string{"a", "b"}, parseList("a,b"))
	assert.Equal(t, []string{"a", "b"}, parseList(" a , b , "))
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 85, cfg.RemoveThreshold)
	assert.Equal(t, 40, cfg.ReviewThreshold)
	assert.Equal(t, 15, cfg.WarnThreshold)
	assert.InDelta(t, 0.85, cfg.HardSignalCutoff, 1e-9)
	assert.Equal(t, 90, cfg.StrikeWindowDays)
	assert.Equal(t, 30, cfg.AppealWindowDays)
	assert.ElementsMatch(t, []string{"terrorism", "child_safety", "self_harm"}, cfg.EscalationReasons)
	assert.False(t, cfg.IsProduction())
}
