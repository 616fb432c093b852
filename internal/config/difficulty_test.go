package config

import "testing"

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"hard", DifficultyHard, false},
		{"", DifficultyNormal, false},
		{"nightmare", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePreset(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	base := Default()

	easy := Default()
	ApplyPreset(easy, DifficultyEasy)
	if easy.Player.MaxHP <= base.Player.MaxHP {
		t.Error("easy preset should raise max HP")
	}

	fixed := Default()
	ApplyPreset(fixed, DifficultyFixed)
	if fixed.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}

func TestDifficultyLevel(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1, GunnerRatioBonus: 0.5, IntervalScale: 0.5},
	})

	tests := []struct {
		score    int
		expected float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tc := range tests {
		if got := dm.Level(tc.score, 0); got < tc.expected-1e-9 || got > tc.expected+1e-9 {
			t.Errorf("Level(%d) = %f, expected %f", tc.score, got, tc.expected)
		}
	}

	if got := dm.Speed(100, 100, 0); got != 200 {
		t.Errorf("Speed() at max level = %f, expected 200", got)
	}
	if got := dm.GunnerRatio(0.8, 100, 0); got != 1 {
		t.Errorf("GunnerRatio() should clamp to 1, got %f", got)
	}
	if got := dm.SpawnInterval(100, 60, 100, 0); got != 60 {
		t.Errorf("SpawnInterval() = %d, expected the minimum 60", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.4,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 10},
	})
	if got := dm.Level(0, 1000); got != 0.4 {
		t.Errorf("Level() with progression disabled = %f, expected 0.4", got)
	}
}
