package engine

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/google/uuid"

	"vodhub.fr/portal/vodutil"
)

// VariantProxyPath is the route variant playlists are served from; the
// master playlist points every rendition at it.
const VariantProxyPath = "/api/stream/variant.m3u8"

const variantTargetTtl = 300 * time.Second

var proxyIdRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// uriAttrRegex matches URI="..." attributes inside HLS tag lines.
var uriAttrRegex = regexp2.MustCompile(`URI="([^"]*)"`, regexp2.None)

var allowedQueryParams = map[string]bool{
	"allow_source":               true,
	"allow_audio_only":           true,
	"fast_bread":                 true,
	"playlist_include_framerate": true,
	"player_backend":             true,
	"player":                     true,
	"p":                          true,
	"sig":                        true,
	"token":                      true,
}

var allowedHosts = []string{"ttvnw.net", "twitch.tv", "jtvnw.net", "cloudfront.net"}

// SanitizeVariantURL validates a proxy target before it is stored:
// https only, Twitch CDN hosts only, playlist-shaped paths only, and
// the query stripped down to the playback parameter allowlist.
func SanitizeVariantURL(rawUrl string) (string, error) {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return "", fmt.Errorf("invalid target url: %w", err)
	}
	if parsed.Scheme != "https" {
		return "", fmt.Errorf("only https targets are allowed")
	}

	hostname := strings.ToLower(parsed.Hostname())
	hostOk := false
	for _, allowed := range allowedHosts {
		if hostname == allowed || strings.HasSuffix(hostname, "."+allowed) {
			hostOk = true
			break
		}
	}
	if !hostOk {
		return "", fmt.Errorf("disallowed host: %s", hostname)
	}

	path := strings.ToLower(parsed.Path)
	isLiveHls := strings.Contains(path, "/api/channel/hls/") && strings.HasSuffix(path, ".m3u8")
	isVod := strings.HasPrefix(path, "/vod/")
	isChunked := strings.HasPrefix(path, "/chunked/")
	isM3u8 := strings.HasSuffix(path, ".m3u8")
	if !isLiveHls && !isVod && !isChunked && !isM3u8 {
		return "", fmt.Errorf("disallowed target path")
	}

	var kept []string
	for _, pair := range strings.Split(parsed.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		value := ""
		if eq := strings.Index(pair, "="); eq >= 0 {
			key = pair[:eq]
			value = pair[eq+1:]
		}
		decodedKey, err := url.QueryUnescape(key)
		if err != nil || !allowedQueryParams[decodedKey] {
			continue
		}
		decodedValue, _ := url.QueryUnescape(value)
		kept = append(kept, vodutil.EncodeQueryValue(decodedKey)+"="+vodutil.EncodeQueryValue(decodedValue))
	}
	parsed.RawQuery = strings.Join(kept, "&")
	parsed.Fragment = ""
	return parsed.String(), nil
}

// RegisterVariantTarget stores a sanitized target and returns the
// opaque id the client will play it back through. Targets expire after
// five minutes; the player refreshes the master playlist well before.
func (t *TwitchClient) RegisterVariantTarget(targetUrl string) (string, error) {
	sanitized, err := SanitizeVariantURL(targetUrl)
	if err != nil {
		return "", err
	}
	proxyId := uuid.NewString()
	t.variantCache.Set("variant_proxy_"+proxyId, sanitized, variantTargetTtl)
	return proxyId, nil
}

func (t *TwitchClient) ResolveVariantTarget(proxyId string) (string, error) {
	proxyId = strings.TrimSpace(proxyId)
	if !proxyIdRegex.MatchString(proxyId) {
		return "", fmt.Errorf("invalid variant proxy id")
	}
	target, ok := t.variantCache.Get("variant_proxy_" + proxyId)
	if !ok {
		return "", ErrVariantNotFound
	}
	return target, nil
}

// ProxyVariantPlaylist fetches the stored target and rewrites it for
// local playback: muted segment names are forced (Twitch 403s the
// -unmuted variants without auth) and every relative reference is made
// absolute against the target's base path.
func (t *TwitchClient) ProxyVariantPlaylist(ctx context.Context, proxyId string) (string, error) {
	targetUrl, err := t.ResolveVariantTarget(proxyId)
	if err != nil {
		return "", err
	}

	body, err := t.fetchText(ctx, targetUrl)
	if err != nil {
		return "", err
	}
	body = strings.ReplaceAll(body, "-unmuted", "-muted")

	baseUrl := targetUrl
	if i := strings.LastIndex(targetUrl, "/"); i >= 0 {
		baseUrl = targetUrl[:i+1]
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			if strings.Contains(line, `URI="`) && !strings.Contains(line, `URI="http`) {
				line = strings.ReplaceAll(line, `URI="`, `URI="`+baseUrl)
			}
			lines[i] = line
			continue
		}
		if !strings.HasPrefix(line, "http") {
			line = baseUrl + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n"), nil
}

func makeAbsoluteURL(rawUrl, base string) string {
	if strings.HasPrefix(rawUrl, "http://") || strings.HasPrefix(rawUrl, "https://") {
		return rawUrl
	}
	baseEnd := strings.LastIndex(base, "/")
	if baseEnd < 0 {
		baseEnd = len(base)
	}
	return base[:baseEnd] + "/" + strings.TrimLeft(rawUrl, "/")
}

// RewriteMasterWithProxy replaces every playable reference of an
// upstream master playlist with a local variant proxy URL. References
// that fail sanitization are left pointing upstream.
func (t *TwitchClient) RewriteMasterWithProxy(master, sourceUrl string) string {
	lines := strings.Split(master, "\n")
	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = line
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			if strings.Contains(trimmed, `URI="`) {
				rewritten, err := uriAttrRegex.ReplaceFunc(line, func(m regexp2.Match) string {
					uri := m.GroupByNumber(1).String()
					absUrl := makeAbsoluteURL(uri, sourceUrl)
					proxyId, err := t.RegisterVariantTarget(absUrl)
					if err != nil {
						return `URI="` + absUrl + `"`
					}
					return `URI="` + VariantProxyPath + "?id=" + vodutil.EncodeQueryValue(proxyId) + `"`
				}, -1, -1)
				if err == nil {
					lines[i] = rewritten
				}
			} else {
				lines[i] = line
			}
			continue
		}

		absUrl := makeAbsoluteURL(trimmed, sourceUrl)
		if proxyId, err := t.RegisterVariantTarget(absUrl); err == nil {
			lines[i] = VariantProxyPath + "?id=" + vodutil.EncodeQueryValue(proxyId)
		} else {
			lines[i] = line
		}
	}
	return strings.Join(lines, "\n")
}
