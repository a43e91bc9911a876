package engine

import (
	"strings"
	"time"

	"vodhub.fr/portal/vodutil"
)

// PreferenceProfile accumulates affinity weights per game, channel and
// language out of the user's watch history and subscriptions.
type PreferenceProfile struct {
	GameScores     map[string]float64
	ChannelScores  map[string]float64
	LanguageScores map[string]float64
}

// WatchWeight converts a history entry into a 0.05..1 completion
// weight. Entries without a known duration are measured against a half
// hour instead.
func WatchWeight(entry HistoryEntry) float64 {
	if entry.Duration <= 0 {
		return vodutil.Clamp(entry.Timecode/1800.0, 0.05, 1.0)
	}
	return vodutil.Clamp(entry.Timecode/entry.Duration, 0.05, 1.0)
}

// BuildPreferenceProfile folds watched VODs into per-game, per-channel
// and per-language weights. Each watch contributes its completion
// weight decayed over 45 days, subscriptions add a flat channel boost,
// and French always keeps a minimum floor so a fresh profile still
// prefers local content.
func BuildPreferenceProfile(history map[string]HistoryEntry, watchedVods []Vod, subs []SubEntry, now time.Time) PreferenceProfile {
	profile := PreferenceProfile{
		GameScores:     make(map[string]float64),
		ChannelScores:  make(map[string]float64),
		LanguageScores: make(map[string]float64),
	}
	nowMs := float64(now.UnixMilli())

	for _, vod := range watchedVods {
		entry, ok := history[vod.ID]
		if !ok {
			continue
		}

		ageMs := nowMs - float64(entry.UpdatedAt)
		recencyPenalty := vodutil.Clamp(1.0-ageMs/(1000*60*60*24*45), 0.35, 1.0)
		weighted := WatchWeight(entry) * recencyPenalty

		if vod.Game != nil && vod.Game.Name != "" {
			profile.GameScores[vod.Game.Name] += weighted
		}
		if vod.Owner != nil {
			if login := strings.ToLower(vod.Owner.Login); login != "" {
				profile.ChannelScores[login] += weighted
			}
		}
		if lang := vodutil.NormalizeLanguage(vod.Language); lang != "" {
			profile.LanguageScores[lang] += weighted
		}
	}

	for _, sub := range subs {
		profile.ChannelScores[strings.ToLower(sub.Login)] += 1.75
	}

	if fr := profile.LanguageScores["fr"]; fr < 1.2 {
		profile.LanguageScores["fr"] = fr + 1.2
	}
	return profile
}

// ForeignRatio derives the share of non-French slots in the feed from
// how much of the language profile is foreign. Bounded to keep the feed
// recognisably local without ever going monolingual.
func ForeignRatio(languageScores map[string]float64) float64 {
	total := 0.0
	foreign := 0.0
	for lang, weight := range languageScores {
		total += weight
		if lang != "fr" {
			foreign += weight
		}
	}
	affinity := 0.0
	if total > 0 {
		affinity = foreign / total
	}
	return vodutil.Clamp(0.16+affinity*0.35, 0.16, 0.4)
}
