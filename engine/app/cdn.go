package engine

import (
	"fmt"
	"strings"
	"time"
)

// QualityTier is one of the fixed transcode renditions Twitch produces
// for every VOD. The chunked tier is the source encode.
type QualityTier struct {
	Key        string
	Resolution string
	FrameRate  int
}

// QualityTiers, highest first, drives both probing order and the order
// of variants in the generated master playlist.
var QualityTiers = []QualityTier{
	{Key: "chunked", Resolution: "1920x1080", FrameRate: 60},
	{Key: "1080p60", Resolution: "1920x1080", FrameRate: 60},
	{Key: "720p60", Resolution: "1280x720", FrameRate: 60},
	{Key: "480p30", Resolution: "854x480", FrameRate: 30},
	{Key: "360p30", Resolution: "640x360", FrameRate: 30},
	{Key: "160p30", Resolution: "284x160", FrameRate: 30},
}

// VodLayout identifies which of Twitch's CDN storage layouts a VOD's
// segments live under. Exactly one applies to any VOD.
type VodLayout int

const (
	LayoutArchive VodLayout = iota
	LayoutHighlight
	LayoutRecentUpload
	LayoutAgedUpload
)

// LayoutFor selects the storage layout from the VOD's broadcast type
// and age. Uploads move to a per-channel prefix once they are older
// than a week; highlights always use their own naming.
func LayoutFor(broadcastType string, ageDays float64) VodLayout {
	switch strings.ToLower(broadcastType) {
	case "highlight":
		return LayoutHighlight
	case "upload":
		if ageDays > 7.0 {
			return LayoutAgedUpload
		}
		return LayoutRecentUpload
	default:
		return LayoutArchive
	}
}

// CandidateURL builds the manifest URL for one quality tier under the
// given layout.
func CandidateURL(layout VodLayout, host, storageId, qualityKey, vodId, channelLogin string) string {
	switch layout {
	case LayoutHighlight:
		return fmt.Sprintf("https://%s/%s/%s/highlight-%s.m3u8", host, storageId, qualityKey, vodId)
	case LayoutAgedUpload:
		return fmt.Sprintf("https://%s/%s/%s/%s/%s/index-dvr.m3u8", host, channelLogin, vodId, storageId, qualityKey)
	default:
		return fmt.Sprintf("https://%s/%s/%s/index-dvr.m3u8", host, storageId, qualityKey)
	}
}

// ParseSeekPreviews extracts the CDN host and the VOD's storage id from
// its seek-previews (storyboard) URL. The storage id is the path
// segment right before the one containing "storyboards".
func ParseSeekPreviews(seekPreviewsUrl string) (host string, storageId string, err error) {
	schemeIdx := strings.Index(seekPreviewsUrl, "//")
	if schemeIdx < 0 {
		return "", "", ErrManifestParse
	}
	rest := seekPreviewsUrl[schemeIdx+2:]
	pathIdx := strings.Index(rest, "/")
	if pathIdx < 0 {
		return "", "", ErrManifestParse
	}
	host = rest[:pathIdx]

	parts := strings.Split(rest[pathIdx:], "/")
	storyboardIdx := -1
	for i, part := range parts {
		if strings.Contains(part, "storyboards") {
			storyboardIdx = i
			break
		}
	}
	if storyboardIdx <= 0 {
		return "", "", ErrManifestParse
	}
	storageId = parts[storyboardIdx-1]
	if storageId == "" {
		return "", "", ErrManifestParse
	}
	return host, storageId, nil
}

// DaysSince returns the fractional age in days of an RFC 3339 timestamp,
// 0 when it does not parse.
func DaysSince(createdAt string, now time.Time) float64 {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return 0
	}
	return now.Sub(t).Hours() / 24.0
}
