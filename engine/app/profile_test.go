package engine

import (
	"math"
	"testing"
	"time"
)

func TestWatchWeight(t *testing.T) {
	cases := []struct {
		timecode, duration, want float64
	}{
		{300, 600, 0.5},
		{0, 600, 0.05},
		{900, 600, 1.0},
		{900, 0, 0.5},
		{10000, 0, 1.0},
	}
	for _, tc := range cases {
		got := WatchWeight(HistoryEntry{Timecode: tc.timecode, Duration: tc.duration})
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("WatchWeight(%v/%v) = %v, want %v", tc.timecode, tc.duration, got, tc.want)
		}
	}
}

func TestBuildPreferenceProfile(t *testing.T) {
	now := time.Now()
	history := map[string]HistoryEntry{
		"1": {VodID: "1", Timecode: 600, Duration: 600, UpdatedAt: now.UnixMilli()},
	}
	watched := []Vod{{
		ID:       "1",
		Game:     &VodGame{Name: "Factorio"},
		Owner:    &VodOwner{Login: "SomeChannel"},
		Language: "EN",
	}}
	subs := []SubEntry{{Login: "SubbedChannel"}}

	profile := BuildPreferenceProfile(history, watched, subs, now)

	if math.Abs(profile.GameScores["Factorio"]-1.0) > 1e-6 {
		t.Errorf("game score = %v", profile.GameScores["Factorio"])
	}
	if math.Abs(profile.ChannelScores["somechannel"]-1.0) > 1e-6 {
		t.Errorf("watched channel score = %v", profile.ChannelScores["somechannel"])
	}
	if math.Abs(profile.ChannelScores["subbedchannel"]-1.75) > 1e-9 {
		t.Errorf("sub boost = %v", profile.ChannelScores["subbedchannel"])
	}
	if math.Abs(profile.LanguageScores["en"]-1.0) > 1e-6 {
		t.Errorf("language score = %v", profile.LanguageScores["en"])
	}
	if profile.LanguageScores["fr"] < 1.2 {
		t.Errorf("french floor missing: %v", profile.LanguageScores["fr"])
	}
}

func TestBuildPreferenceProfileRecencyDecay(t *testing.T) {
	now := time.Now()
	old := now.Add(-90 * 24 * time.Hour).UnixMilli()
	history := map[string]HistoryEntry{
		"1": {VodID: "1", Timecode: 600, Duration: 600, UpdatedAt: old},
	}
	watched := []Vod{{ID: "1", Game: &VodGame{Name: "Factorio"}}}

	profile := BuildPreferenceProfile(history, watched, nil, now)
	// 90 days out, the decay bottoms out at 0.35.
	if math.Abs(profile.GameScores["Factorio"]-0.35) > 1e-6 {
		t.Errorf("decayed score = %v, want 0.35", profile.GameScores["Factorio"])
	}
}

func TestForeignRatio(t *testing.T) {
	if got := ForeignRatio(map[string]float64{"fr": 5}); got != 0.16 {
		t.Errorf("all-french ratio = %v, want floor 0.16", got)
	}
	if got := ForeignRatio(map[string]float64{"en": 10}); got != 0.4 {
		t.Errorf("all-foreign ratio = %v, want cap 0.4", got)
	}
	if got := ForeignRatio(nil); got != 0.16 {
		t.Errorf("empty profile ratio = %v, want floor 0.16", got)
	}
	mixed := ForeignRatio(map[string]float64{"fr": 1, "en": 1})
	if mixed <= 0.16 || mixed >= 0.4 {
		t.Errorf("mixed ratio = %v, want strictly between bounds", mixed)
	}
}
