package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const vodFields = `id, title, lengthSeconds, previewThumbnailURL(width: 320, height: 180), createdAt, viewCount, language, game { name }, owner { login, displayName, profileImageURL(width: 50) }`
const streamFields = `id title viewersCount previewImageURL(width: 640, height: 360) createdAt language`

// TwitchClient owns every call against Twitch: GQL queries, manifest
// probes and variant playlist fetches. Handlers never talk to Twitch
// directly.
type TwitchClient struct {
	http     *http.Client
	log      zerolog.Logger
	gqlUrl   string
	usherUrl string
	clientId string

	cache        *TimedCache[any]
	variantCache *TimedCache[string]
}

func NewTwitchClient(log zerolog.Logger) *TwitchClient {
	return &TwitchClient{
		http:         &http.Client{Timeout: 15 * time.Second},
		log:          log.With().Str("component", "twitch").Logger(),
		gqlUrl:       Config.Twitch.GqlUrl,
		usherUrl:     Config.Twitch.UsherUrl,
		clientId:     Config.Twitch.ClientId,
		cache:        NewTimedCache[any](),
		variantCache: NewTimedCache[string](),
	}
}

func (t *TwitchClient) gqlPost(ctx context.Context, body string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.gqlUrl, strings.NewReader(body))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Client-Id", t.clientId)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &UpstreamError{Status: resp.StatusCode, Op: "gql"}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(raw), nil
}

// gqlQuery wraps a bare query string into the {"query": "..."} envelope
// Twitch expects, escaping it as a JSON string.
func gqlQuery(query string) string {
	enc, err := json.Marshal(query)
	if err != nil {
		return `{"query":""}`
	}
	return `{"query":` + string(enc) + `}`
}

// gqlEscape makes a value safe for interpolation inside a quoted GQL
// string literal.
func gqlEscape(value string) string {
	enc, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	s := string(enc)
	return s[1 : len(s)-1]
}

func vodFromNode(node gjson.Result) (Vod, bool) {
	id := node.Get("id").String()
	if !node.Exists() || id == "" {
		return Vod{}, false
	}
	vod := Vod{
		ID:                  id,
		Title:               node.Get("title").String(),
		LengthSeconds:       node.Get("lengthSeconds").Int(),
		PreviewThumbnailURL: node.Get("previewThumbnailURL").String(),
		CreatedAt:           node.Get("createdAt").String(),
		ViewCount:           node.Get("viewCount").Int(),
		Language:            node.Get("language").String(),
	}
	if game := node.Get("game"); game.Exists() && game.Get("name").String() != "" {
		vod.Game = &VodGame{Name: game.Get("name").String()}
	}
	if owner := node.Get("owner"); owner.Exists() && owner.Get("login").String() != "" {
		vod.Owner = &VodOwner{
			Login:           owner.Get("login").String(),
			DisplayName:     owner.Get("displayName").String(),
			ProfileImageURL: owner.Get("profileImageURL").String(),
		}
	}
	return vod, true
}

// liveStreamsPage converts a GQL streams connection into a page. When
// forcedGame is set (category browsing), it overrides whatever game the
// nodes carry.
func liveStreamsPage(conn gjson.Result, forcedGame *LiveGame) LiveStreamsPage {
	edges := conn.Get("edges").Array()
	items := make([]LiveStream, 0, len(edges))
	for _, edge := range edges {
		node := edge.Get("node")
		stream, ok := liveStreamFromNode(node, node.Get("broadcaster"))
		if !ok {
			continue
		}
		if forcedGame != nil {
			stream.Game = forcedGame
		}
		items = append(items, stream)
	}
	page := LiveStreamsPage{Items: items}
	if conn.Get("pageInfo.hasNextPage").Bool() && len(edges) > 0 {
		page.NextCursor = edges[len(edges)-1].Get("cursor").String()
		page.HasMore = page.NextCursor != ""
	}
	return page
}

func liveGameFromNode(node gjson.Result) *LiveGame {
	if !node.Exists() || node.Type == gjson.Null {
		return nil
	}
	return &LiveGame{
		ID:        node.Get("id").String(),
		Name:      node.Get("name").String(),
		BoxArtURL: node.Get("boxArtURL").String(),
	}
}

func liveStreamFromNode(node gjson.Result, broadcaster gjson.Result) (LiveStream, bool) {
	if !node.Exists() || node.Type == gjson.Null || broadcaster.Get("login").String() == "" {
		return LiveStream{}, false
	}
	title := node.Get("title").String()
	if title == "" {
		title = "Live stream"
	}
	return LiveStream{
		ID:              node.Get("id").String(),
		Title:           title,
		PreviewImageURL: node.Get("previewImageURL").String(),
		ViewerCount:     node.Get("viewersCount").Int(),
		Language:        node.Get("language").String(),
		StartedAt:       node.Get("createdAt").String(),
		Broadcaster: LiveBroadcaster{
			ID:              broadcaster.Get("id").String(),
			Login:           broadcaster.Get("login").String(),
			DisplayName:     broadcaster.Get("displayName").String(),
			ProfileImageURL: broadcaster.Get("profileImageURL").String(),
		},
		Game: liveGameFromNode(node.Get("game")),
	}, true
}
