package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-id", "test-secret")
	client.apiURL = server.URL
	client.authURL = server.URL
	client.limiter = rate.NewLimiter(rate.Inf, 1)
	return client
}

func TestGetSavedTracksPaginates(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/me/tracks", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		page := savedTracksPage{Total: 3}
		if r.URL.Query().Get("offset") == "" {
			page.Items = []SavedTrack{
				{Track: Track{ID: "a", Name: "First"}},
				{Track: Track{ID: "b", Name: "Second"}},
			}
			page.Next = server.URL + "/me/tracks?limit=50&offset=2"
		} else {
			page.Items = []SavedTrack{{Track: Track{ID: "c", Name: "Third"}}}
		}
		json.NewEncoder(w).Encode(page)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("test-id", "test-secret")
	client.apiURL = server.URL
	client.authURL = server.URL
	client.limiter = rate.NewLimiter(rate.Inf, 1)
	client.accessToken = "test-token"

	saved, err := client.GetSavedTracks(context.Background())
	if err != nil {
		t.Fatalf("GetSavedTracks: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("got %d tracks, want 3", len(saved))
	}
	if saved[2].Track.ID != "c" {
		t.Errorf("last track = %+v", saved[2].Track)
	}
}

func TestGetTracksBatches(t *testing.T) {
	var batches [][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/tracks", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		batches = append(batches, ids)

		var resp tracksResponse
		for _, id := range ids {
			resp.Tracks = append(resp.Tracks, Track{
				ID:         id,
				Name:       "Track " + id,
				DurationMs: 200000,
				Artists:    []Artist{{Name: "Artist"}},
			})
		}
		json.NewEncoder(w).Encode(resp)
	})

	client := testClient(t, mux)

	var ids []string
	for i := 0; i < 120; i++ {
		ids = append(ids, fmt.Sprintf("id%03d", i))
	}

	tracks, err := client.GetTracks(context.Background(), ids)
	if err != nil {
		t.Fatalf("GetTracks: %v", err)
	}
	if len(tracks) != 120 {
		t.Errorf("got %d tracks, want 120", len(tracks))
	}
	if len(batches) != 3 {
		t.Fatalf("made %d requests, want 3", len(batches))
	}
	if len(batches[0]) != 50 || len(batches[2]) != 20 {
		t.Errorf("batch sizes = %d, %d, %d", len(batches[0]), len(batches[1]), len(batches[2]))
	}
}

func TestGetPlaylistTracksSkipsLocalFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"track": {"id": "a", "name": "Real Track"}},
				{"track": null},
				{"track": {"id": "", "name": "Local File"}}
			],
			"next": ""
		}`)
	})

	client := testClient(t, mux)

	tracks, err := client.GetPlaylistTracks(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("GetPlaylistTracks: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "a" {
		t.Errorf("tracks = %+v, want just track a", tracks)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "test-id" || pass != "test-secret" {
			t.Errorf("basic auth = %q, %q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "stored-refresh" {
			t.Errorf("refresh_token = %q", got)
		}
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "fresh-access", ExpiresIn: 3600})
	})

	client := testClient(t, mux)

	if err := client.RefreshAccessToken(context.Background(), "stored-refresh"); err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}
	if client.accessToken != "fresh-access" {
		t.Errorf("accessToken = %q", client.accessToken)
	}
}

func TestExchangeCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("code"); got != "auth-code" {
			t.Errorf("code = %q", got)
		}
		json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    3600,
		})
	})

	client := testClient(t, mux)

	refresh, err := client.ExchangeCode(context.Background(), "auth-code", "http://localhost/callback")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if refresh != "new-refresh" {
		t.Errorf("refresh token = %q", refresh)
	}
	if client.accessToken != "new-access" {
		t.Errorf("accessToken = %q", client.accessToken)
	}
}

func TestAuthCodeURL(t *testing.T) {
	client := NewClient("test-id", "test-secret")

	raw := client.AuthCodeURL("http://localhost/callback")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing auth URL: %v", err)
	}
	query := u.Query()
	if got := query.Get("client_id"); got != "test-id" {
		t.Errorf("client_id = %q", got)
	}
	if got := query.Get("response_type"); got != "code" {
		t.Errorf("response_type = %q", got)
	}
	if got := query.Get("redirect_uri"); got != "http://localhost/callback" {
		t.Errorf("redirect_uri = %q", got)
	}
	if !strings.Contains(query.Get("scope"), "user-library-read") {
		t.Errorf("scope = %q", query.Get("scope"))
	}
}

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
	}
	for _, c := range cases {
		err := &statusError{StatusCode: c.code, Status: http.StatusText(c.code)}
		if got := shouldRetry(err); got != c.want {
			t.Errorf("shouldRetry(%d) = %v, want %v", c.code, got, c.want)
		}
	}
	if shouldRetry(fmt.Errorf("plain error")) {
		t.Error("shouldRetry(plain error) = true")
	}
}
