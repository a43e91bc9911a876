package engine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"vodhub.fr/portal/vodutil"
)

var loginRegex = regexp.MustCompile(`^[a-z0-9_]{2,25}$`)

// FetchTopLiveCategories returns the five biggest live categories, used
// as chips on the live browse page.
func (t *TwitchClient) FetchTopLiveCategories(ctx context.Context) ([]LiveCategory, error) {
	cacheKey := "top_live_categories"
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.([]LiveCategory), nil
	}

	query := `query { topGames(first: 5) { edges { node { id name boxArtURL(width: 80, height: 107) } } } }`
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, err
	}
	categories := make([]LiveCategory, 0, 5)
	for _, edge := range data.Get("data.topGames.edges").Array() {
		node := edge.Get("node")
		if !node.Exists() || node.Type == gjson.Null {
			continue
		}
		categories = append(categories, LiveCategory{
			ID:        node.Get("id").String(),
			Name:      node.Get("name").String(),
			BoxArtURL: node.Get("boxArtURL").String(),
		})
	}
	t.cache.Set(cacheKey, categories, 120*time.Second)
	return categories, nil
}

// FetchLiveStreams is the live front page: the most watched streams
// across all of Twitch, cursor-paginated.
func (t *TwitchClient) FetchLiveStreams(ctx context.Context, first int, after string) (LiveStreamsPage, error) {
	if first < 8 {
		first = 8
	}
	if first > 48 {
		first = 48
	}
	after = strings.TrimSpace(after)
	afterKey := after
	if afterKey == "" {
		afterKey = "first"
	}
	cacheKey := fmt.Sprintf("live_streams_%d_%s", first, afterKey)
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.(LiveStreamsPage), nil
	}

	pagination := ""
	if after != "" {
		pagination = fmt.Sprintf(`, after: "%s"`, gqlEscape(after))
	}
	query := fmt.Sprintf(
		`query { streams(first: %d%s) { edges { cursor node { %s game { id name boxArtURL(width: 110, height: 147) } broadcaster { id login displayName profileImageURL(width: 70) } } } pageInfo { hasNextPage } } }`,
		first, pagination, streamFields)

	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return LiveStreamsPage{}, err
	}
	page := liveStreamsPage(data.Get("data.streams"), nil)
	t.cache.Set(cacheKey, page, 25*time.Second)
	return page, nil
}

// FetchLiveStreamsByCategory pages through the live streams of one
// category. The category name comes back as the game for every item,
// the per-stream game field is not requested.
func (t *TwitchClient) FetchLiveStreamsByCategory(ctx context.Context, categoryName string, first int, after string) (LiveStreamsPage, error) {
	if first < 4 {
		first = 4
	}
	if first > 48 {
		first = 48
	}
	after = strings.TrimSpace(after)
	afterKey := after
	if afterKey == "" {
		afterKey = "first"
	}
	cacheKey := fmt.Sprintf("live_cat_%s_%s_%d", vodutil.SimpleHash(categoryName), afterKey, first)
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.(LiveStreamsPage), nil
	}

	pagination := ""
	if after != "" {
		pagination = fmt.Sprintf(`, after: "%s"`, gqlEscape(after))
	}
	query := fmt.Sprintf(
		`query { game(name: "%s") { streams(first: %d%s) { edges { cursor node { %s broadcaster { id login displayName profileImageURL(width: 70) } } } pageInfo { hasNextPage } } } }`,
		gqlEscape(categoryName), first, pagination, streamFields)

	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return LiveStreamsPage{}, err
	}
	page := liveStreamsPage(data.Get("data.game.streams"), &LiveGame{Name: categoryName})
	t.cache.Set(cacheKey, page, 25*time.Second)
	return page, nil
}

// SearchLiveStreams resolves a free-text query against both category
// streams and channel search, merged without duplicates and sorted by
// viewers. Either leg failing silently yields the other's results.
func (t *TwitchClient) SearchLiveStreams(ctx context.Context, search string, first int) (LiveStreamsPage, error) {
	if first < 4 {
		first = 4
	}
	if first > 48 {
		first = 48
	}
	cacheKey := fmt.Sprintf("live_search_%s_%d", vodutil.SimpleHash(search), first)
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.(LiveStreamsPage), nil
	}

	catQuery := fmt.Sprintf(
		`query { game(name: "%s") { streams(first: %d) { edges { cursor node { %s broadcaster { id login displayName profileImageURL(width: 70) } } } pageInfo { hasNextPage } } } }`,
		gqlEscape(search), first, streamFields)
	chanQuery := fmt.Sprintf(
		`query { searchFor(userQuery: "%s", target: { index: "CHANNEL" }, first: %d) { results { item { ... on User { id login displayName profileImageURL(width: 70) stream { %s game { id name } } } } } }`,
		gqlEscape(search), first, streamFields)

	var wg sync.WaitGroup
	var catData, chanData gjson.Result
	var catErr, chanErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		catData, catErr = t.gqlPost(ctx, gqlQuery(catQuery))
	}()
	go func() {
		defer wg.Done()
		chanData, chanErr = t.gqlPost(ctx, gqlQuery(chanQuery))
	}()
	wg.Wait()

	items := make([]LiveStream, 0)
	seen := make(map[string]bool)

	if catErr == nil {
		for _, edge := range catData.Get("data.game.streams.edges").Array() {
			stream, ok := liveStreamFromNode(edge.Get("node"), edge.Get("node.broadcaster"))
			if !ok || stream.ID == "" || seen[stream.ID] {
				continue
			}
			seen[stream.ID] = true
			stream.Game = &LiveGame{Name: search}
			items = append(items, stream)
		}
	}
	if chanErr == nil {
		for _, result := range chanData.Get("data.searchFor.results").Array() {
			user := result.Get("item")
			stream, ok := liveStreamFromNode(user.Get("stream"), user)
			if !ok || stream.ID == "" || seen[stream.ID] {
				continue
			}
			seen[stream.ID] = true
			items = append(items, stream)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ViewerCount > items[j].ViewerCount
	})

	page := LiveStreamsPage{Items: items}
	t.cache.Set(cacheKey, page, 30*time.Second)
	return page, nil
}

// FetchUserLiveStream returns the channel's current stream or nil when
// offline. Offline answers are cached slightly longer than live ones so
// refreshing a dead channel page stays cheap.
func (t *TwitchClient) FetchUserLiveStream(ctx context.Context, username string) (*LiveStream, error) {
	login := strings.ToLower(strings.TrimSpace(username))
	if login == "" {
		return nil, nil
	}

	cacheKey := "live_user_" + login
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.(*LiveStream), nil
	}

	query := fmt.Sprintf(
		`query { user(login: "%s") { id login displayName profileImageURL(width: 70) stream { %s game { id name boxArtURL(width: 110, height: 147) } } } }`,
		gqlEscape(login), streamFields)
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, err
	}

	user := data.Get("data.user")
	stream, ok := liveStreamFromNode(user.Get("stream"), user)
	if !ok {
		t.cache.Set(cacheKey, (*LiveStream)(nil), 25*time.Second)
		return nil, nil
	}
	t.cache.Set(cacheKey, &stream, 20*time.Second)
	return &stream, nil
}

// FetchLiveStatusByLogins resolves live status for a batch of channels,
// one concurrent lookup per login. Logins are normalized, validated and
// capped at 80; offline or invalid ones are simply absent from the map.
func (t *TwitchClient) FetchLiveStatusByLogins(ctx context.Context, logins []string) map[string]LiveStream {
	seen := make(map[string]bool)
	normalized := make([]string, 0, len(logins))
	for _, login := range logins {
		login = strings.ToLower(strings.TrimSpace(login))
		if login == "" || !loginRegex.MatchString(login) || seen[login] {
			continue
		}
		seen[login] = true
		normalized = append(normalized, login)
		if len(normalized) == 80 {
			break
		}
	}
	if len(normalized) == 0 {
		return map[string]LiveStream{}
	}

	sorted := append([]string(nil), normalized...)
	sort.Strings(sorted)
	cacheKey := "live_status_" + vodutil.SimpleHash(strings.Join(sorted, "|"))
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.(map[string]LiveStream)
	}

	type statusResult struct {
		login  string
		stream *LiveStream
	}
	results := make(chan statusResult, len(normalized))
	var wg sync.WaitGroup
	for _, login := range normalized {
		wg.Add(1)
		go func(login string) {
			defer wg.Done()
			stream, err := t.FetchUserLiveStream(ctx, login)
			if err != nil {
				t.log.Debug().Err(err).Str("login", login).Msg("live status lookup failed")
				return
			}
			results <- statusResult{login: login, stream: stream}
		}(login)
	}
	wg.Wait()
	close(results)

	status := make(map[string]LiveStream)
	for r := range results {
		if r.stream != nil {
			status[r.login] = *r.stream
		}
	}
	t.cache.Set(cacheKey, status, 18*time.Second)
	return status
}
