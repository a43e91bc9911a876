package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"vodhub.fr/portal/vodutil"
)

// trendingFingerprint keys the feed cache on what actually shapes it:
// the recent history (bucketed to 10 minutes so tiny timecode updates
// don't bust the cache) and the sorted subscription set.
func trendingFingerprint(recent []HistoryEntry, subs []SubEntry) string {
	parts := make([]string, len(recent))
	for i, e := range recent {
		parts[i] = fmt.Sprintf("%s,%d,%d,%d", e.VodID, int64(e.Timecode), int64(e.Duration), e.UpdatedAt/(1000*60*10))
	}
	logins := make([]string, len(subs))
	for i, s := range subs {
		logins[i] = strings.ToLower(s.Login)
	}
	sort.Strings(logins)
	return vodutil.SimpleHash(strings.Join(parts, ";") + "|" + strings.Join(logins, ","))
}

// diversityCap trims the scored list so no channel monopolises the
// feed. Subscribed or already-watched channels earn three slots, the
// rest two.
func diversityCap(scored []ScoredVod, profile PreferenceProfile, subs map[string]bool) []ScoredVod {
	channelCount := make(map[string]int)
	kept := scored[:0]
	for _, sv := range scored {
		login := ""
		if sv.Vod.Owner != nil {
			login = strings.ToLower(sv.Vod.Owner.Login)
		}
		maxSlots := 2
		if subs[login] {
			maxSlots = 3
		} else if _, watched := profile.ChannelScores[login]; watched && login != "" {
			maxSlots = 3
		}
		if channelCount[login] < maxSlots {
			channelCount[login]++
			kept = append(kept, sv)
		}
	}
	return kept
}

// FetchTrendingVods assembles the personalized feed: candidate pools
// from the user's top games (French and global variants) plus recent
// VODs of subscribed channels, scored against the preference profile
// and interleaved by language.
func (t *TwitchClient) FetchTrendingVods(ctx context.Context, history map[string]HistoryEntry, subs []SubEntry) ([]Vod, error) {
	recent := make([]HistoryEntry, 0, len(history))
	for _, entry := range history {
		recent = append(recent, entry)
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].UpdatedAt > recent[j].UpdatedAt })
	if len(recent) > 35 {
		recent = recent[:35]
	}

	cacheKey := "trending_vods_" + trendingFingerprint(recent, subs)
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.([]Vod), nil
	}

	watchedIds := make([]string, len(recent))
	for i, entry := range recent {
		watchedIds[i] = entry.VodID
	}
	watchedVods := t.FetchWatchedVodMetadata(ctx, watchedIds)
	profile := BuildPreferenceProfile(history, watchedVods, subs, time.Now())
	subsSet := make(map[string]bool, len(subs))
	for _, sub := range subs {
		subsSet[strings.ToLower(sub.Login)] = true
	}

	type gameScore struct {
		name  string
		score float64
	}
	ranked := make([]gameScore, 0, len(profile.GameScores))
	for name, score := range profile.GameScores {
		ranked = append(ranked, gameScore{name, score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	topGames := make([]string, 0, 4)
	hasJustChatting := false
	for i := 0; i < len(ranked) && i < 3; i++ {
		topGames = append(topGames, ranked[i].name)
		if ranked[i].name == "Just Chatting" {
			hasJustChatting = true
		}
	}
	if !hasJustChatting {
		topGames = append(topGames, "Just Chatting")
	}
	if len(topGames) > 4 {
		topGames = topGames[:4]
	}

	// Fan out: per game one French pool and one global pool, plus the
	// latest VODs of up to ten subscribed channels.
	var mu sync.Mutex
	var wg sync.WaitGroup
	var candidates []Vod
	for _, game := range topGames {
		for _, languages := range [][]string{{"fr"}, nil} {
			wg.Add(1)
			go func(game string, languages []string) {
				defer wg.Done()
				pool := t.FetchGameVods(ctx, game, languages, 18)
				mu.Lock()
				candidates = append(candidates, pool...)
				mu.Unlock()
			}(game, languages)
		}
	}
	subCount := len(subs)
	if subCount > 10 {
		subCount = 10
	}
	for _, sub := range subs[:subCount] {
		wg.Add(1)
		go func(login string) {
			defer wg.Done()
			vods, err := t.FetchUserVods(ctx, login)
			if err != nil {
				return
			}
			mu.Lock()
			candidates = append(candidates, vods...)
			mu.Unlock()
		}(sub.Login)
	}
	wg.Wait()

	seen := make(map[string]bool, len(candidates))
	now := time.Now()
	scored := make([]ScoredVod, 0, len(candidates))
	for _, vod := range candidates {
		if vod.ID == "" || seen[vod.ID] {
			continue
		}
		seen[vod.ID] = true
		scored = append(scored, ScoredVod{Vod: vod, Score: ScoreCandidateVod(vod, profile, subsSet, now)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > 120 {
		scored = scored[:120]
	}

	scored = diversityCap(scored, profile, subsSet)
	feed := InterleaveLocalizedFeed(scored, ForeignRatio(profile.LanguageScores), 40)

	t.cache.Set(cacheKey, feed, 900*time.Second)
	return feed, nil
}
