package profileapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/leadscope/leadscope/internal/infra/scrape"
)

// Client is a thin wrapper around the external profile API. It only
// translates requests and responses; pacing and retry policy belong to
// the callers.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(token, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ProfileByUsername(ctx context.Context, username string) (scrape.Profile, error) {
	endpoint := fmt.Sprintf("%s/v1/user/by/username?username=%s", c.baseURL, url.QueryEscape(username))

	var resp userResponse
	status, err := c.get(ctx, endpoint, &resp)
	if status == http.StatusNotFound {
		return scrape.Profile{}, scrape.ErrProfileNotFound
	}
	if err != nil {
		return scrape.Profile{}, err
	}

	return scrape.Profile{
		PK:             resp.PK,
		Username:       resp.Username,
		FullName:       resp.FullName,
		Bio:            resp.Biography,
		PublicEmail:    resp.PublicEmail,
		ExternalURL:    resp.ExternalURL,
		FollowersCount: resp.FollowerCount,
		IsPrivate:      resp.IsPrivate,
	}, nil
}

func (c *Client) FollowingPage(ctx context.Context, userID int64, cursor string) ([]scrape.Profile, string, error) {
	endpoint := fmt.Sprintf("%s/v1/user/following?user_id=%s", c.baseURL, strconv.FormatInt(userID, 10))
	if cursor != "" {
		endpoint += "&end_cursor=" + url.QueryEscape(cursor)
	}

	var resp followingResponse
	if _, err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, "", err
	}

	profiles := make([]scrape.Profile, len(resp.Users))
	for i, u := range resp.Users {
		profiles[i] = scrape.Profile{
			PK:             u.PK,
			Username:       u.Username,
			FullName:       u.FullName,
			Bio:            u.Biography,
			PublicEmail:    u.PublicEmail,
			ExternalURL:    u.ExternalURL,
			FollowersCount: u.FollowerCount,
			IsPrivate:      u.IsPrivate,
		}
	}
	return profiles, resp.NextCursor, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("x-access-key", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("profile api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("profile api status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("profile api decode: %w", err)
	}
	return resp.StatusCode, nil
}
