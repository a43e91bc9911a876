package engine

import (
	"math"
	"strings"
	"time"

	"vodhub.fr/portal/vodutil"
)

// ScoredVod pairs a candidate with its ranking score.
type ScoredVod struct {
	Vod   Vod
	Score float64
}

// vodAgeDays returns the candidate's age in days, capped at 60 so
// ancient VODs do not distort the recency term. Unparseable dates count
// as brand new.
func vodAgeDays(createdAt string, now time.Time) float64 {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return 0
	}
	return vodutil.Clamp(now.Sub(t).Hours()/24.0, 0.0, 60.0)
}

// lengthFactor gates out shorts: under a minute is invisible, 1-10
// minutes ramps quadratically to 0.18, 10-30 minutes linearly to full
// weight.
func lengthFactor(lengthSeconds float64) float64 {
	switch {
	case lengthSeconds < 60:
		return 0.01
	case lengthSeconds < 600:
		ratio := (lengthSeconds - 60) / 540
		return 0.01 + 0.17*ratio*ratio
	case lengthSeconds < 1800:
		return 0.18 + 0.82*(lengthSeconds-600)/1200
	default:
		return 1.0
	}
}

func viewFactor(viewCount int64) float64 {
	switch {
	case viewCount == 0:
		return 0.04
	case viewCount < 5:
		return 0.04 + 0.46*float64(viewCount)/5
	case viewCount < 50:
		return 0.5 + 0.5*float64(viewCount)/50
	default:
		return 1.0
	}
}

// ScoreCandidateVod ranks one candidate against the profile. The
// quality gate multiplies the whole score, so weak candidates bail out
// before the affinity terms are computed.
func ScoreCandidateVod(vod Vod, profile PreferenceProfile, subs map[string]bool, now time.Time) float64 {
	quality := lengthFactor(float64(vod.LengthSeconds)) * viewFactor(vod.ViewCount)
	if quality < 0.05 {
		return quality
	}

	gameName := ""
	if vod.Game != nil {
		gameName = vod.Game.Name
	}
	channelLogin := ""
	if vod.Owner != nil {
		channelLogin = strings.ToLower(vod.Owner.Login)
	}
	language := vodutil.NormalizeLanguage(vod.Language)

	// Log-scaled popularity keeps viral VODs from drowning the
	// personalisation terms.
	popularity := math.Log10(float64(vod.ViewCount)+10) * 1.15
	gameAffinity := profile.GameScores[gameName] * 2.1
	channelAffinity := profile.ChannelScores[channelLogin] * 2.4
	langAffinity := profile.LanguageScores[language] * 1.15

	frBoost := 0.0
	if language == "fr" {
		frBoost = 2.3
	}
	subBoost := 0.0
	if subs[channelLogin] {
		subBoost = 3.2
	}

	// Zero past ~19 days old.
	recency := vodutil.Clamp(2.1-vodAgeDays(vod.CreatedAt, now)/9.0, 0.0, 2.1)

	base := popularity + gameAffinity + channelAffinity + langAffinity + frBoost + subBoost + recency
	return base * quality
}
