package engine

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestFetchGameVodsLanguageFilter(t *testing.T) {
	var captured string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = gjson.GetBytes(body, "query").String()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"game":{"videos":{"edges":[{"node":{"id":"1","title":"run","lengthSeconds":600,"createdAt":"2024-05-01T10:00:00Z","viewCount":5,"language":"fr"}}]}}}}`))
	}))
	defer srv.Close()
	tc := testClient()
	tc.gqlUrl = srv.URL

	vods := tc.FetchGameVods(context.Background(), "Factorio", []string{"fr"}, 18)
	if len(vods) != 1 {
		t.Fatalf("vods = %+v, want one entry", vods)
	}
	// The decoded GraphQL document must carry a plain list literal, not
	// a doubly escaped one that upstream rejects as a syntax error.
	if !strings.Contains(captured, `videos(first: 18, languages: ["fr"])`) {
		t.Errorf("query = %s", captured)
	}
	if strings.Contains(captured, `\"fr\"`) {
		t.Errorf("language filter escaped twice: %s", captured)
	}
}

func TestFetchGameVodsNoLanguageFilter(t *testing.T) {
	var captured string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = gjson.GetBytes(body, "query").String()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"game":{"videos":{"edges":[]}}}}`))
	}))
	defer srv.Close()
	tc := testClient()
	tc.gqlUrl = srv.URL

	tc.FetchGameVods(context.Background(), "Factorio", nil, 18)
	if strings.Contains(captured, "languages") {
		t.Errorf("unfiltered query must omit the languages argument: %s", captured)
	}
}
