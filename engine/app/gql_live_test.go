package engine

import (
	"context"
	"testing"
)

func TestFetchLiveStatusByLoginsValidation(t *testing.T) {
	tc := testClient()
	// Invalid logins are filtered before any network call happens.
	status := tc.FetchLiveStatusByLogins(context.Background(), []string{"", "A", "no spaces allowed", "way_too_long_login_name_over_25_chars"})
	if len(status) != 0 {
		t.Fatalf("status = %v, want empty", status)
	}
}

func TestFetchUserLiveStreamOnline(t *testing.T) {
	srv := gqlStub(t, `{"data":{"user":{"id":"u1","login":"chan","displayName":"Chan","profileImageURL":"img","stream":{"id":"s1","title":"hi","viewersCount":12,"previewImageURL":"p","createdAt":"2024-05-01T10:00:00Z","language":"fr","game":{"id":"g","name":"Factorio"}}}}}`)
	defer srv.Close()
	tc := testClient()
	tc.gqlUrl = srv.URL

	stream, err := tc.FetchUserLiveStream(context.Background(), "  Chan ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stream == nil || stream.ID != "s1" || stream.Broadcaster.Login != "chan" {
		t.Fatalf("stream = %+v", stream)
	}
}

func TestFetchUserLiveStreamOffline(t *testing.T) {
	srv := gqlStub(t, `{"data":{"user":{"id":"u1","login":"chan","displayName":"Chan","profileImageURL":"img","stream":null}}}`)
	defer srv.Close()
	tc := testClient()
	tc.gqlUrl = srv.URL

	stream, err := tc.FetchUserLiveStream(context.Background(), "chan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stream != nil {
		t.Fatalf("stream = %+v, want nil for offline channel", stream)
	}

	// Offline answer must come from the negative cache on the second call.
	srv.Close()
	stream, err = tc.FetchUserLiveStream(context.Background(), "chan")
	if err != nil || stream != nil {
		t.Fatalf("cached offline lookup failed: %v, %+v", err, stream)
	}
}
