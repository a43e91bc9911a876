package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"vodhub.fr/portal/vodutil"
)

const playbackTokenQuery = `query PlaybackAccessToken_Template($login: String!) { streamPlaybackAccessToken(channelName: $login, params: {platform: "web", playerBackend: "mediaplayer", playerType: "site"}) { value signature } }`

type playbackToken struct {
	Value     string
	Signature string
}

func (t *TwitchClient) fetchLivePlaybackToken(ctx context.Context, channelLogin string) (playbackToken, error) {
	body := fmt.Sprintf(
		`{"operationName":"PlaybackAccessToken_Template","query":%q,"variables":{"login":%q}}`,
		playbackTokenQuery, channelLogin)

	data, err := t.gqlPost(ctx, body)
	if err != nil {
		return playbackToken{}, err
	}
	token := data.Get("data.streamPlaybackAccessToken")
	if !token.Exists() || token.Type == gjson.Null {
		return playbackToken{}, fmt.Errorf("missing playback access token")
	}
	value := token.Get("value").String()
	sig := token.Get("signature").String()
	if value == "" || sig == "" {
		return playbackToken{}, fmt.Errorf("incomplete playback access token")
	}
	return playbackToken{Value: value, Signature: sig}, nil
}

func randomPlayerSession() uint32 {
	id := uuid.New()
	return binary.LittleEndian.Uint32(id[:4]) % 1_000_000
}

// GenerateLiveMasterPlaylist resolves a channel's live manifest: a
// playback token first, then the usher edge with web-player parameters.
// Unless rewriting is disabled in config, every variant reference is
// swapped for a local proxy URL before the playlist leaves the server.
func (t *TwitchClient) GenerateLiveMasterPlaylist(ctx context.Context, channelLogin string) (string, error) {
	token, err := t.fetchLivePlaybackToken(ctx, channelLogin)
	if err != nil {
		return "", err
	}

	params := fmt.Sprintf(
		"allow_source=true&allow_audio_only=true&fast_bread=true&playlist_include_framerate=true&player_backend=mediaplayer&player=twitchweb&p=%d&sig=%s&token=%s",
		randomPlayerSession(),
		vodutil.EncodeQueryValue(token.Signature),
		vodutil.EncodeQueryValue(token.Value))
	sourceUrl := fmt.Sprintf("%s/api/channel/hls/%s.m3u8?%s",
		strings.TrimSuffix(t.usherUrl, "/"), vodutil.EncodeQueryValue(channelLogin), params)

	master, err := t.fetchText(ctx, sourceUrl)
	if err != nil {
		return "", err
	}
	if !Config.Stream.RewriteLiveManifest {
		return master, nil
	}
	return t.RewriteMasterWithProxy(master, sourceUrl), nil
}
