package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSanitizeVariantURL(t *testing.T) {
	got, err := SanitizeVariantURL("https://vod.ttvnw.net/abc/chunked/index-dvr.m3u8?token=xyz&evil=1&sig=sss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "evil") {
		t.Errorf("disallowed param survived: %q", got)
	}
	if !strings.Contains(got, "token=xyz") || !strings.Contains(got, "sig=sss") {
		t.Errorf("allowed params dropped: %q", got)
	}
}

func TestSanitizeVariantURLRejects(t *testing.T) {
	cases := []string{
		"http://vod.ttvnw.net/chunked/index-dvr.m3u8",
		"https://evil.example.com/chunked/index-dvr.m3u8",
		"https://ttvnw.net.evil.com/chunked/index-dvr.m3u8",
		"https://vod.ttvnw.net/secret/config.json",
		"://bad",
	}
	for _, input := range cases {
		if _, err := SanitizeVariantURL(input); err == nil {
			t.Errorf("expected rejection for %q", input)
		}
	}
}

func TestSanitizeVariantURLAcceptsPaths(t *testing.T) {
	cases := []string{
		"https://usher.ttvnw.net/api/channel/hls/somechannel.m3u8?sig=a&token=b",
		"https://vod.twitch.tv/vod/12345/segment.ts",
		"https://d1m7jfoe9zdc1j.cloudfront.net/abc123/720p60/index-dvr.m3u8",
		"https://vod.jtvnw.net/chunked/3.ts",
	}
	for _, input := range cases {
		if _, err := SanitizeVariantURL(input); err != nil {
			t.Errorf("expected %q to pass: %v", input, err)
		}
	}
}

func TestRegisterAndResolveVariantTarget(t *testing.T) {
	tc := testClient()
	id, err := tc.RegisterVariantTarget("https://vod.ttvnw.net/abc/chunked/index-dvr.m3u8")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	target, err := tc.ResolveVariantTarget(id)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.HasPrefix(target, "https://vod.ttvnw.net/") {
		t.Errorf("target = %q", target)
	}
}

func TestResolveVariantTargetExpiry(t *testing.T) {
	tc := testClient()
	now := time.Unix(5000, 0)
	tc.variantCache.now = func() time.Time { return now }

	id, err := tc.RegisterVariantTarget("https://vod.ttvnw.net/abc/chunked/index-dvr.m3u8")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	now = now.Add(301 * time.Second)
	if _, err := tc.ResolveVariantTarget(id); err == nil {
		t.Fatal("expected expired target to be gone")
	}
}

func TestResolveVariantTargetBadId(t *testing.T) {
	tc := testClient()
	for _, id := range []string{"", "not-a-uuid", "../../../etc/passwd", "12345678-1234-1234-1234-1234567890ZZ"} {
		if _, err := tc.ResolveVariantTarget(id); err == nil {
			t.Errorf("expected rejection for id %q", id)
		}
	}
}

func TestProxyVariantPlaylistRewrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Join([]string{
			"#EXTM3U",
			"#EXT-X-MAP:URI=\"init-0.mp4\"",
			"#EXTINF:10.0,",
			"0-unmuted.ts",
			"#EXTINF:10.0,",
			"https://vod.ttvnw.net/abs/1.ts",
			"",
		}, "\n")))
	}))
	defer srv.Close()

	tc := testClient()
	proxyId := "123e4567-e89b-42d3-a456-426614174000"
	tc.variantCache.Set("variant_proxy_"+proxyId, srv.URL+"/abc/chunked/index-dvr.m3u8", time.Minute)

	body, err := tc.ProxyVariantPlaylist(context.Background(), proxyId)
	if err != nil {
		t.Fatalf("proxy: %v", err)
	}
	base := srv.URL + "/abc/chunked/"
	if !strings.Contains(body, base+"0-muted.ts") {
		t.Errorf("relative segment not rewritten or unmute kept:\n%s", body)
	}
	if strings.Contains(body, "-unmuted") {
		t.Errorf("unmuted reference survived:\n%s", body)
	}
	if !strings.Contains(body, `URI="`+base+`init-0.mp4"`) {
		t.Errorf("map URI not made absolute:\n%s", body)
	}
	if !strings.Contains(body, "https://vod.ttvnw.net/abs/1.ts") {
		t.Errorf("absolute segment must stay untouched:\n%s", body)
	}
}

func TestRewriteMasterWithProxy(t *testing.T) {
	tc := testClient()
	master := strings.Join([]string{
		"#EXTM3U",
		`#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="audio_only",NAME="Audio Only",URI="audio_only/index.m3u8"`,
		`#EXT-X-STREAM-INF:BANDWIDTH=5000000,RESOLUTION=1920x1080`,
		"https://usher.ttvnw.net/api/channel/hls/chan.m3u8?sig=a&token=b",
	}, "\n")
	source := "https://usher.ttvnw.net/api/channel/hls/chan.m3u8?sig=a&token=b"

	out := tc.RewriteMasterWithProxy(master, source)
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[3], VariantProxyPath+"?id=") {
		t.Errorf("variant line not proxied: %q", lines[3])
	}
	if !strings.Contains(lines[1], `URI="`+VariantProxyPath+"?id=") {
		t.Errorf("media URI not proxied: %q", lines[1])
	}
	if strings.HasPrefix(lines[2], VariantProxyPath) {
		t.Errorf("tag line without URI must not change: %q", lines[2])
	}

	id := strings.TrimPrefix(lines[3], VariantProxyPath+"?id=")
	if _, err := tc.ResolveVariantTarget(id); err != nil {
		t.Errorf("proxied id not resolvable: %v", err)
	}
}
