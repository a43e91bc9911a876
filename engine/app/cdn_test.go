package engine

import (
	"testing"
	"time"
)

func TestParseSeekPreviews(t *testing.T) {
	host, storageId, err := ParseSeekPreviews("https://d2nvs31859zcd8.cloudfront.net/abcdef1234_channel_12345/storyboards/987654-strip-0.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host != "d2nvs31859zcd8.cloudfront.net" {
		t.Errorf("host = %q", host)
	}
	if storageId != "abcdef1234_channel_12345" {
		t.Errorf("storageId = %q", storageId)
	}
}

func TestParseSeekPreviewsErrors(t *testing.T) {
	cases := []string{
		"not a url",
		"https://host.example",
		"https://host.example/storyboards/x.jpg",
		"https://host.example/a/b/c.jpg",
	}
	for _, input := range cases {
		if _, _, err := ParseSeekPreviews(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestLayoutFor(t *testing.T) {
	cases := []struct {
		broadcastType string
		ageDays       float64
		want          VodLayout
	}{
		{"archive", 100, LayoutArchive},
		{"ARCHIVE", 1, LayoutArchive},
		{"highlight", 0.5, LayoutHighlight},
		{"highlight", 365, LayoutHighlight},
		{"upload", 3, LayoutRecentUpload},
		{"upload", 7.0, LayoutRecentUpload},
		{"upload", 7.5, LayoutAgedUpload},
		{"", 10, LayoutArchive},
	}
	for _, tc := range cases {
		if got := LayoutFor(tc.broadcastType, tc.ageDays); got != tc.want {
			t.Errorf("LayoutFor(%q, %v) = %v, want %v", tc.broadcastType, tc.ageDays, got, tc.want)
		}
	}
}

func TestCandidateURL(t *testing.T) {
	host := "vod.example.ttvnw.net"
	cases := []struct {
		layout VodLayout
		want   string
	}{
		{LayoutHighlight, "https://vod.example.ttvnw.net/store123/720p60/highlight-111.m3u8"},
		{LayoutAgedUpload, "https://vod.example.ttvnw.net/somechannel/111/store123/720p60/index-dvr.m3u8"},
		{LayoutArchive, "https://vod.example.ttvnw.net/store123/720p60/index-dvr.m3u8"},
		{LayoutRecentUpload, "https://vod.example.ttvnw.net/store123/720p60/index-dvr.m3u8"},
	}
	for _, tc := range cases {
		got := CandidateURL(tc.layout, host, "store123", "720p60", "111", "somechannel")
		if got != tc.want {
			t.Errorf("layout %v: got %q, want %q", tc.layout, got, tc.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if got := DaysSince("2024-06-01T00:00:00Z", now); got != 9 {
		t.Errorf("DaysSince = %v, want 9", got)
	}
	if got := DaysSince("garbage", now); got != 0 {
		t.Errorf("DaysSince(garbage) = %v, want 0", got)
	}
}

func TestQualityTierOrder(t *testing.T) {
	if QualityTiers[0].Key != "chunked" {
		t.Fatalf("source tier must come first, got %q", QualityTiers[0].Key)
	}
	if len(QualityTiers) != 6 {
		t.Fatalf("expected 6 tiers, got %d", len(QualityTiers))
	}
}
