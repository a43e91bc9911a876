package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"vodhub.fr/portal/vodutil"
)

var vodIdRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const servingIdAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// servingId generates the 32-character base-36 identifier carried in
// the playlist's vendor info tag. Twitch's player emits one per served
// manifest; the value is cosmetic but strict parsers expect the shape.
func servingId() string {
	a := uuid.New()
	b := uuid.New()
	var sb strings.Builder
	sb.Grow(32)
	for _, by := range a {
		sb.WriteByte(servingIdAlphabet[int(by)%len(servingIdAlphabet)])
	}
	for _, by := range b {
		sb.WriteByte(servingIdAlphabet[int(by)%len(servingIdAlphabet)])
	}
	return sb.String()
}

type probedTier struct {
	tier  QualityTier
	url   string
	codec string
	ok    bool
}

// GenerateMasterPlaylist builds an HLS multivariant playlist for a VOD
// without any playback token: metadata comes from GQL, the per-quality
// URLs are derived from the storage layout and each tier is probed
// concurrently so dead renditions never reach the player.
func (t *TwitchClient) GenerateMasterPlaylist(ctx context.Context, vodId string) (string, error) {
	vodId = strings.TrimSpace(vodId)
	if !vodIdRegex.MatchString(vodId) {
		return "", fmt.Errorf("invalid vod identifier")
	}

	query := fmt.Sprintf(
		`query { video(id: "%s") { broadcastType, createdAt, seekPreviewsURL, owner { login } } }`,
		gqlEscape(vodId))
	data, err := t.gqlPost(ctx, gqlQuery(query))
	if err != nil {
		return "", err
	}
	video := data.Get("data.video")
	if !video.Exists() || video.Type == gjson.Null {
		return "", fmt.Errorf("video not found")
	}

	seekPreviewsUrl := video.Get("seekPreviewsURL").String()
	channelLogin := video.Get("owner.login").String()
	if seekPreviewsUrl == "" || channelLogin == "" {
		return "", ErrManifestParse
	}
	broadcastType := strings.ToLower(video.Get("broadcastType").String())
	if broadcastType == "" {
		broadcastType = "archive"
	}

	host, storageId, err := ParseSeekPreviews(seekPreviewsUrl)
	if err != nil {
		return "", err
	}
	layout := LayoutFor(broadcastType, DaysSince(video.Get("createdAt").String(), time.Now()))

	// One probe per tier, results land in a fixed slice so playlist
	// order stays deterministic whatever finishes first.
	probed := make([]probedTier, len(QualityTiers))
	var wg sync.WaitGroup
	for i, tier := range QualityTiers {
		wg.Add(1)
		go func(i int, tier QualityTier) {
			defer wg.Done()
			streamUrl := CandidateURL(layout, host, storageId, tier.Key, vodId, channelLogin)
			codec, ok := t.ProbeQuality(ctx, streamUrl)
			probed[i] = probedTier{tier: tier, url: streamUrl, codec: codec, ok: ok}
		}(i, tier)
	}
	wg.Wait()

	out, err := t.renderMasterPlaylist(probed)
	if err != nil {
		return "", err
	}
	t.log.Debug().Str("vod", vodId).Msg("master playlist generated")
	return out, nil
}

// renderMasterPlaylist turns probe results into multivariant playlist
// text. The first reachable tier in table order becomes the default
// rendition, so players still get an autoselectable entry when the
// source quality is gone.
func (t *TwitchClient) renderMasterPlaylist(probed []probedTier) (string, error) {
	playlist := []string{
		"#EXTM3U",
		fmt.Sprintf(`#EXT-X-TWITCH-INFO:ORIGIN="s3",B="false",REGION="EU",USER-IP="127.0.0.1",SERVING-ID="%s",CLUSTER="cloudfront_vod",USER-COUNTRY="BE",MANIFEST-CLUSTER="cloudfront_vod"`, servingId()),
	}

	bandwidth := uint64(8534030)
	variants := 0
	for _, p := range probed {
		if !p.ok {
			continue
		}
		quality := p.tier.Key
		if p.tier.Key == "chunked" {
			parts := strings.SplitN(p.tier.Resolution, "x", 2)
			quality = parts[len(parts)-1] + "p"
		}

		proxyId, err := t.RegisterVariantTarget(p.url)
		if err != nil {
			continue
		}
		proxyUrl := VariantProxyPath + "?id=" + vodutil.EncodeQueryValue(proxyId)

		enabled := "NO"
		if variants == 0 {
			enabled = "YES"
		}
		playlist = append(playlist,
			fmt.Sprintf(`#EXT-X-MEDIA:TYPE=VIDEO,GROUP-ID="%s",NAME="%s",AUTOSELECT=%s,DEFAULT=%s`, quality, quality, enabled, enabled),
			fmt.Sprintf(`#EXT-X-STREAM-INF:BANDWIDTH=%d,CODECS="%s,mp4a.40.2",RESOLUTION=%s,VIDEO="%s",FRAME-RATE=%d`, bandwidth, p.codec, p.tier.Resolution, quality, p.tier.FrameRate),
			proxyUrl,
		)
		bandwidth -= 100
		variants++
	}

	if variants == 0 {
		return "", ErrNoPlayableVariants
	}
	return strings.Join(playlist, "\n"), nil
}
