package engine

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestVodFromNode(t *testing.T) {
	node := gjson.Parse(`{
		"id": "123",
		"title": "speedrun",
		"lengthSeconds": 3600,
		"previewThumbnailURL": "https://img.example/preview.jpg",
		"createdAt": "2024-05-01T10:00:00Z",
		"viewCount": 420,
		"language": "FR",
		"game": {"name": "Factorio"},
		"owner": {"login": "chan", "displayName": "Chan", "profileImageURL": "https://img.example/p.jpg"}
	}`)

	vod, ok := vodFromNode(node)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if vod.ID != "123" || vod.LengthSeconds != 3600 || vod.ViewCount != 420 {
		t.Errorf("vod = %+v", vod)
	}
	if vod.Game == nil || vod.Game.Name != "Factorio" {
		t.Errorf("game = %+v", vod.Game)
	}
	if vod.Owner == nil || vod.Owner.Login != "chan" {
		t.Errorf("owner = %+v", vod.Owner)
	}
}

func TestVodFromNodeMissing(t *testing.T) {
	if _, ok := vodFromNode(gjson.Parse(`null`)); ok {
		t.Error("null node must not parse")
	}
	if _, ok := vodFromNode(gjson.Parse(`{"title":"no id"}`)); ok {
		t.Error("node without id must not parse")
	}
}

func TestLiveStreamFromNode(t *testing.T) {
	node := gjson.Parse(`{
		"id": "9",
		"title": "",
		"viewersCount": 1200,
		"previewImageURL": "https://img.example/live.jpg",
		"createdAt": "2024-05-01T10:00:00Z",
		"language": "fr",
		"game": {"id": "g1", "name": "Factorio"}
	}`)
	broadcaster := gjson.Parse(`{"id": "u1", "login": "chan", "displayName": "Chan", "profileImageURL": "x"}`)

	stream, ok := liveStreamFromNode(node, broadcaster)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if stream.Title != "Live stream" {
		t.Errorf("empty title must fall back, got %q", stream.Title)
	}
	if stream.Broadcaster.Login != "chan" || stream.ViewerCount != 1200 {
		t.Errorf("stream = %+v", stream)
	}
	if stream.Game == nil || stream.Game.Name != "Factorio" {
		t.Errorf("game = %+v", stream.Game)
	}
}

func TestLiveStreamFromNodeOffline(t *testing.T) {
	broadcaster := gjson.Parse(`{"login": "chan"}`)
	if _, ok := liveStreamFromNode(gjson.Parse(`null`), broadcaster); ok {
		t.Error("null stream must not parse")
	}
	if _, ok := liveStreamFromNode(gjson.Parse(`{"id":"1"}`), gjson.Parse(`{}`)); ok {
		t.Error("missing broadcaster login must not parse")
	}
}

func TestGqlQueryEnvelope(t *testing.T) {
	body := gqlQuery(`query { user(login: "a\"b") { id } }`)
	parsed := gjson.Parse(body)
	if parsed.Get("query").String() != `query { user(login: "a\"b") { id } }` {
		t.Errorf("envelope round trip failed: %s", body)
	}
}

func TestGqlEscape(t *testing.T) {
	if got := gqlEscape(`ab"cd`); got != `ab\"cd` {
		t.Errorf("gqlEscape = %q", got)
	}
	if got := gqlEscape("line\nbreak"); got != `line\nbreak` {
		t.Errorf("gqlEscape = %q", got)
	}
}

func TestIsDigits(t *testing.T) {
	cases := map[string]bool{
		"12345":  true,
		"":       false,
		"12a45":  false,
		"-123":   false,
		"999999": true,
	}
	for input, want := range cases {
		if got := isDigits(input); got != want {
			t.Errorf("isDigits(%q) = %v", input, got)
		}
	}
}
