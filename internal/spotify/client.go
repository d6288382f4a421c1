package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"
)

const (
	defaultAPIURL  = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com"

	// Scopes needed to read the library and playlists.
	authScopes = "user-library-read playlist-read-private"

	// Maximum page size for library and playlist endpoints, and maximum
	// batch size for the several-tracks endpoint.
	pageLimit  = 50
	batchLimit = 50
)

type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	clientID     string
	clientSecret string
	accessToken  string

	// Overridable for tests.
	apiURL  string
	authURL string
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(1*time.Second), 1),
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       defaultAPIURL,
		authURL:      defaultAuthURL,
	}
}

type statusError struct {
	StatusCode int
	Status     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("spotify: %s", e.Status)
}

func shouldRetry(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode/100 == 5
	}
	return false
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+c.accessToken)
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				io.Copy(io.Discard, resp.Body)
				return &statusError{StatusCode: resp.StatusCode, Status: resp.Status}
			}
			return json.NewDecoder(resp.Body).Decode(out)
		},
		retry.RetryIf(shouldRetry),
	)
}

// AuthCodeURL returns the URL the user visits to authorize this app.
func (c *Client) AuthCodeURL(redirectURI string) string {
	query := url.Values{}
	query.Set("client_id", c.clientID)
	query.Set("response_type", "code")
	query.Set("redirect_uri", redirectURI)
	query.Set("scope", authScopes)
	return c.authURL + "/authorize?" + query.Encode()
}

func (c *Client) token(ctx context.Context, form url.Values) (tokenResponse, error) {
	var token tokenResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return token, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return token, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return token, &statusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return token, fmt.Errorf("decoding token response: %w", err)
	}
	return token, nil
}

// ExchangeCode trades an authorization code for a refresh token. It also
// leaves the client holding a valid access token.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	token, err := c.token(ctx, form)
	if err != nil {
		return "", fmt.Errorf("exchanging code: %w", err)
	}
	c.accessToken = token.AccessToken
	return token.RefreshToken, nil
}

// RefreshAccessToken obtains a fresh access token for subsequent API calls.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	token, err := c.token(ctx, form)
	if err != nil {
		return fmt.Errorf("refreshing access token: %w", err)
	}
	c.accessToken = token.AccessToken
	return nil
}

// GetSavedTracks fetches the user's entire Liked Songs library.
func (c *Client) GetSavedTracks(ctx context.Context) ([]SavedTrack, error) {
	var saved []SavedTrack
	next := fmt.Sprintf("%s/me/tracks?limit=%d", c.apiURL, pageLimit)
	for next != "" {
		var page savedTracksPage
		if err := c.get(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("getting saved tracks: %w", err)
		}
		saved = append(saved, page.Items...)
		next = page.Next
	}
	return saved, nil
}

// GetPlaylists fetches all of the user's playlists.
func (c *Client) GetPlaylists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist
	next := fmt.Sprintf("%s/me/playlists?limit=%d", c.apiURL, pageLimit)
	for next != "" {
		var page playlistsPage
		if err := c.get(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("getting playlists: %w", err)
		}
		playlists = append(playlists, page.Items...)
		next = page.Next
	}
	return playlists, nil
}

// GetPlaylistTracks fetches the tracks of one playlist.
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	var tracks []Track
	next := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", c.apiURL, playlistID, pageLimit)
	for next != "" {
		var page playlistTracksPage
		if err := c.get(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("getting playlist tracks: %w", err)
		}
		for _, item := range page.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			tracks = append(tracks, *item.Track)
		}
		next = page.Next
	}
	return tracks, nil
}

// GetTracks fetches metadata for the given track IDs, batching requests to
// the API's limit.
func (c *Client) GetTracks(ctx context.Context, ids []string) ([]Track, error) {
	var tracks []Track
	for start := 0; start < len(ids); start += batchLimit {
		end := start + batchLimit
		if end > len(ids) {
			end = len(ids)
		}

		var batch tracksResponse
		u := fmt.Sprintf("%s/tracks?ids=%s", c.apiURL, strings.Join(ids[start:end], ","))
		if err := c.get(ctx, u, &batch); err != nil {
			return nil, fmt.Errorf("getting tracks: %w", err)
		}
		for _, track := range batch.Tracks {
			// Deleted or region-locked tracks come back as null.
			if track.ID == "" {
				continue
			}
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}
