package engine

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	codecH264 = "avc1.4D001E"
	codecHEVC = "hev1.1.6.L93.B0"
)

// ProbeQuality fetches a candidate variant manifest and reports the
// codec string to advertise for it. Empty codec and ok=false means the
// tier does not exist, is region-blocked or timed out; the caller just
// leaves it out of the master playlist.
func (t *TwitchClient) ProbeQuality(ctx context.Context, url string) (codec string, ok bool) {
	timeout := time.Duration(Config.Stream.ProbeTimeout) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := t.fetchText(ctx, url)
	if err != nil {
		return "", false
	}

	if strings.Contains(body, ".ts") {
		return codecH264, true
	}
	if strings.Contains(body, ".mp4") {
		// Fragmented mp4 VODs may be HEVC. Sniff the init segment; when
		// that fetch fails assume HEVC, the pessimistic choice keeps
		// hardware decoders from choking on a mislabelled stream.
		initUrl := strings.Replace(url, "index-dvr.m3u8", "init-0.mp4", 1)
		initCtx, initCancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer initCancel()
		init, err := t.fetchText(initCtx, initUrl)
		if err != nil {
			return codecHEVC, true
		}
		if strings.Contains(init, "hev1") {
			return codecHEVC, true
		}
		return codecH264, true
	}
	return "", false
}

func (t *TwitchClient) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode, Op: "cdn"}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
