package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FetchGameVods returns up to first VODs of a category, optionally
// restricted to a language list. Failures collapse to an empty pool so a
// single category cannot break feed aggregation.
func (t *TwitchClient) FetchGameVods(ctx context.Context, gameName string, languages []string, first int) []Vod {
	langFilter := ""
	if len(languages) > 0 {
		// json.Marshal already yields a valid GraphQL list literal;
		// the envelope in gqlQuery does the only escaping pass.
		enc, err := json.Marshal(languages)
		if err == nil {
			langFilter = ", languages: " + string(enc)
		}
	}
	query := fmt.Sprintf(
		`query { game(name: "%s") { videos(first: %d%s) { edges { node { %s } } } } }`,
		gqlEscape(gameName), first, langFilter, vodFields)

	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		t.log.Warn().Err(err).Str("game", gameName).Msg("game vods fetch failed")
		return nil
	}
	vods := make([]Vod, 0)
	for _, edge := range data.Get("data.game.videos.edges").Array() {
		if vod, ok := vodFromNode(edge.Get("node")); ok {
			vods = append(vods, vod)
		}
	}
	return vods
}

// FetchCategoryVodsPage is the paginated variant used by category
// browsing. Returns the page, the cursor of its last edge and whether
// more pages exist.
func (t *TwitchClient) FetchCategoryVodsPage(ctx context.Context, gameName string, first int, after string) ([]Vod, string, bool) {
	if first < 4 {
		first = 4
	}
	if first > 50 {
		first = 50
	}
	afterClause := ""
	if strings.TrimSpace(after) != "" {
		afterClause = fmt.Sprintf(`, after: "%s"`, gqlEscape(strings.TrimSpace(after)))
	}
	query := fmt.Sprintf(
		`query { game(name: "%s") { videos(first: %d%s) { edges { cursor node { %s } } pageInfo { hasNextPage } } } }`,
		gqlEscape(gameName), first, afterClause, vodFields)

	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, "", false
	}
	edges := data.Get("data.game.videos.edges").Array()
	vods := make([]Vod, 0, len(edges))
	for _, edge := range edges {
		if vod, ok := vodFromNode(edge.Get("node")); ok {
			vods = append(vods, vod)
		}
	}
	hasNext := data.Get("data.game.videos.pageInfo.hasNextPage").Bool()
	cursor := ""
	if hasNext && len(edges) > 0 {
		cursor = edges[len(edges)-1].Get("cursor").String()
	}
	return vods, cursor, hasNext
}

// FetchWatchedVodMetadata resolves metadata for watched VOD ids with one
// aliased query. Ids are validated (digits only) and capped at 30 to
// bound query cost.
func (t *TwitchClient) FetchWatchedVodMetadata(ctx context.Context, vodIds []string) []Vod {
	safeIds := make([]string, 0, len(vodIds))
	for _, id := range vodIds {
		id = strings.TrimSpace(id)
		if isDigits(id) {
			safeIds = append(safeIds, id)
		}
		if len(safeIds) == 30 {
			break
		}
	}
	if len(safeIds) == 0 {
		return nil
	}

	var parts []string
	for i, id := range safeIds {
		parts = append(parts, fmt.Sprintf(`v%d: video(id: "%s") { %s }`, i, id, vodFields))
	}
	query := "query { " + strings.Join(parts, " ") + " }"

	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		t.log.Warn().Err(err).Int("ids", len(safeIds)).Msg("watched vod metadata fetch failed")
		return nil
	}
	vods := make([]Vod, 0, len(safeIds))
	data.Get("data").ForEach(func(_, value gjson.Result) bool {
		if vod, ok := vodFromNode(value); ok {
			vods = append(vods, vod)
		}
		return true
	})
	return vods
}

func (t *TwitchClient) FetchVodsByIds(ctx context.Context, vodIds []string) []Vod {
	return t.FetchWatchedVodMetadata(ctx, vodIds)
}

func (t *TwitchClient) FetchUserInfo(ctx context.Context, username string) (UserInfo, error) {
	cacheKey := "user_" + username
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.(UserInfo), nil
	}

	query := fmt.Sprintf(
		`query { user(login: "%s") { id, login, displayName, profileImageURL(width: 300) } }`,
		gqlEscape(username))
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return UserInfo{}, err
	}
	user := data.Get("data.user")
	if !user.Exists() || user.Type == gjson.Null {
		return UserInfo{}, fmt.Errorf("user not found")
	}
	info := UserInfo{
		ID:              user.Get("id").String(),
		Login:           user.Get("login").String(),
		DisplayName:     user.Get("displayName").String(),
		ProfileImageURL: user.Get("profileImageURL").String(),
	}
	t.cache.Set(cacheKey, info, time.Hour)
	return info, nil
}

func (t *TwitchClient) FetchUserVods(ctx context.Context, username string) ([]Vod, error) {
	cacheKey := "vods_" + username
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached.([]Vod), nil
	}

	query := fmt.Sprintf(
		`query { user(login: "%s") { videos(first: 30) { edges { node { %s } } } } }`,
		gqlEscape(username), vodFields)
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, err
	}
	if data.Get("data.user").Type == gjson.Null {
		return nil, fmt.Errorf("user not found")
	}
	vods := make([]Vod, 0)
	for _, edge := range data.Get("data.user.videos.edges").Array() {
		if vod, ok := vodFromNode(edge.Get("node")); ok {
			vods = append(vods, vod)
		}
	}
	t.cache.Set(cacheKey, vods, 10*time.Minute)
	return vods, nil
}

func (t *TwitchClient) SearchChannels(ctx context.Context, search string) ([]UserInfo, error) {
	query := fmt.Sprintf(
		`query { searchFor(userQuery: "%s", platform: "web") { channels { edges { item { ... on User { id, login, displayName, profileImageURL(width: 300) } } } } } }`,
		gqlEscape(search))
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, err
	}
	users := make([]UserInfo, 0)
	for _, edge := range data.Get("data.searchFor.channels.edges").Array() {
		item := edge.Get("item")
		if item.Get("login").String() == "" {
			continue
		}
		users = append(users, UserInfo{
			ID:              item.Get("id").String(),
			Login:           item.Get("login").String(),
			DisplayName:     item.Get("displayName").String(),
			ProfileImageURL: item.Get("profileImageURL").String(),
		})
	}
	return users, nil
}

// SearchGlobal merges game and channel matches into one array, games
// first, passing the GQL items through untouched.
func (t *TwitchClient) SearchGlobal(ctx context.Context, search string) ([]json.RawMessage, error) {
	query := fmt.Sprintf(
		`query { searchFor(userQuery: "%s", platform: "web") { channels { edges { item { ... on User { id, login, displayName, profileImageURL(width: 300), stream { id title viewersCount previewImageURL(width: 640, height: 360) }, __typename } } } }, games { edges { item { ... on Game { id, name, boxArtURL(width: 150, height: 200), __typename } } } } } }`,
		gqlEscape(search))
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, err
	}
	combined := make([]json.RawMessage, 0)
	for _, path := range []string{"data.searchFor.games.edges", "data.searchFor.channels.edges"} {
		for _, edge := range data.Get(path).Array() {
			item := edge.Get("item")
			if !item.Exists() || item.Type == gjson.Null {
				continue
			}
			combined = append(combined, json.RawMessage(item.Raw))
		}
	}
	return combined, nil
}

// FetchVideoChat returns the chat replay page at a given offset, shaped
// as {messages, hasNextPage} for the portal's chat pane.
func (t *TwitchClient) FetchVideoChat(ctx context.Context, vodId string, offset float64) (map[string]any, error) {
	query := fmt.Sprintf(
		`query { video(id: "%s") { comments(contentOffsetSeconds: %d) { edges { node { id, commenter { displayName, login, profileImageURL(width: 50) }, message { fragments { text, emote { id, setID } } }, contentOffsetSeconds, createdAt } }, pageInfo { hasNextPage } } } }`,
		gqlEscape(vodId), int64(offset))
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, err
	}
	comments := data.Get("data.video.comments")
	messages := make([]json.RawMessage, 0)
	if comments.Exists() && comments.Type != gjson.Null {
		for _, edge := range comments.Get("edges").Array() {
			messages = append(messages, json.RawMessage(edge.Get("node").Raw))
		}
	}
	return map[string]any{
		"messages":    messages,
		"hasNextPage": comments.Get("pageInfo.hasNextPage").Bool(),
	}, nil
}

func (t *TwitchClient) FetchVideoMarkers(ctx context.Context, vodId string) (json.RawMessage, error) {
	query := fmt.Sprintf(
		`query { video(id: "%s") { markers { id, displayTime, description, type } } }`,
		gqlEscape(vodId))
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return nil, err
	}
	markers := data.Get("data.video.markers")
	if !markers.Exists() || markers.Type == gjson.Null {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(markers.Raw), nil
}
