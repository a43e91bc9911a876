package engine

import (
	"math"
	"sort"

	"vodhub.fr/portal/vodutil"
)

// InterleaveLocalizedFeed merges French and foreign candidates into one
// feed of at most maxItems. Both buckets stay score-ordered; foreign
// items are dosed to roughly foreignRatio of the feed, never stacked in
// long runs, and a French streak of four is broken when foreign
// candidates remain.
func InterleaveLocalizedFeed(candidates []ScoredVod, foreignRatio float64, maxItems int) []Vod {
	var french, foreign []ScoredVod
	for _, sv := range candidates {
		if vodutil.NormalizeLanguage(sv.Vod.Language) == "fr" {
			french = append(french, sv)
		} else {
			foreign = append(foreign, sv)
		}
	}
	sort.SliceStable(french, func(i, j int) bool { return french[i].Score > french[j].Score })
	sort.SliceStable(foreign, func(i, j int) bool { return foreign[i].Score > foreign[j].Score })

	feed := make([]ScoredVod, 0, maxItems)
	fi, foi, foreignAdded := 0, 0, 0

	for len(feed) < maxItems && (fi < len(french) || foi < len(foreign)) {
		tail := 4
		if len(feed) < tail {
			tail = len(feed)
		}
		frenchStreak := tail == 4
		foreignStreak := tail > 0
		for _, sv := range feed[len(feed)-tail:] {
			if vodutil.NormalizeLanguage(sv.Vod.Language) == "fr" {
				foreignStreak = false
			} else {
				frenchStreak = false
			}
		}

		targetForeign := int(math.Floor(float64(len(feed)+1) * foreignRatio))
		pickForeign := !foreignStreak && foi < len(foreign) &&
			(foreignAdded < targetForeign || fi >= len(french) || frenchStreak)

		switch {
		case pickForeign:
			feed = append(feed, foreign[foi])
			foi++
			foreignAdded++
		case fi < len(french):
			feed = append(feed, french[fi])
			fi++
		case foi < len(foreign):
			feed = append(feed, foreign[foi])
			foi++
			foreignAdded++
		}
	}

	vods := make([]Vod, len(feed))
	for i, sv := range feed {
		vods[i] = sv.Vod
	}
	return vods
}
