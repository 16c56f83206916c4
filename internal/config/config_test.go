package config

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultChickenConfig()
	if err := yaml.Unmarshal(GetDefaultYAML("chicken"), &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if cfg != DefaultChickenConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultChickenConfig())
	}
	if GetDefaultYAML("pong") != nil {
		t.Error("unknown game should have no embedded yaml")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultChickenConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadChickenCustomPathOverridesOnlyNamedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chicken.yaml")
	data := "arena:\n  hit_radius: 4\nplayers:\n  humans: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadChicken(path)
	if err != nil {
		t.Fatalf("LoadChicken: %v", err)
	}
	if cfg.Arena.HitRadius != 4 || cfg.Players.Humans != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Arena.Speed != 10 || cfg.Timing.WinDelay != 5 {
		t.Errorf("unnamed keys should keep defaults: %+v", cfg)
	}
}

func TestLoadChickenErrors(t *testing.T) {
	if _, err := LoadChicken(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("arena: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadChicken(path)
	if err == nil || !strings.HasPrefix(err.Error(), "config: failed to parse") {
		t.Errorf("bad yaml error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChickenConfig)
	}{
		{"no humans", func(c *ChickenConfig) { c.Players.Humans = 0 }},
		{"too many humans", func(c *ChickenConfig) { c.Players.Humans = 5 }},
		{"zero radius", func(c *ChickenConfig) { c.Arena.HitRadius = 0 }},
		{"start inside radius", func(c *ChickenConfig) { c.Arena.StartDistance = 5 }},
		{"win before show", func(c *ChickenConfig) { c.Timing.WinDelay = 1 }},
		{"unknown policy", func(c *ChickenConfig) { c.AI.Policy = "psychic" }},
		{"inverted nerve", func(c *ChickenConfig) { c.AI.NerveMin, c.AI.NerveMax = 5, 1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultChickenConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		level  AIDifficulty
	}{
		{DifficultyEasy, AIEasy},
		{DifficultyNormal, AINormal},
		{DifficultyHard, AIHard},
		{"", AINormal},
	}
	for _, tc := range tests {
		if got := LevelForPreset(tc.preset); got != tc.level {
			t.Errorf("LevelForPreset(%q) = %d, expected %d", tc.preset, got, tc.level)
		}
	}

	cfg := DefaultChickenConfig()
	ApplyChickenPreset(&cfg, DifficultyHard)
	if cfg.AI.Level() != AIHard {
		t.Errorf("preset not applied: %+v", cfg.AI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("hard preset should stay valid: %v", err)
	}

	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset should reject unknown names")
	}
	if p, err := ParsePreset("easy"); err != nil || p != DifficultyEasy {
		t.Errorf("ParsePreset(easy) = %q, %v", p, err)
	}
}

func TestReactionTicksRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		d        AIDifficulty
		min, max int // inclusive
	}{
		{AIEasy, 10, 18},
		{AINormal, 5, 10},
		{AIHard, 0, 2},
	}
	for _, tc := range tests {
		for i := 0; i < 200; i++ {
			got := ReactionTicks(tc.d, rng)
			if got < tc.min || got > tc.max {
				t.Fatalf("ReactionTicks(%d) = %d, expected [%d, %d]", tc.d, got, tc.min, tc.max)
			}
		}
	}
}

func TestNerveDistanceRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ai := AIConfig{NerveMin: 1, NerveMax: 3}
	for i := 0; i < 200; i++ {
		d := NerveDistance(ai, 8, rng)
		if d < 9 || d >= 11 {
			t.Fatalf("NerveDistance = %f, expected [9, 11)", d)
		}
	}
}
