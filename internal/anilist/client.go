// Package anilist is the client for the AniList GraphQL API: catalog and
// media list queries, viewer profile lookup, and the OAuth code exchange
// used by account linking.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"shimarin/pkg/retry"
)

const (
	// DefaultURL is the public GraphQL endpoint.
	DefaultURL = "https://graphql.anilist.co"

	oauthAuthURL  = "https://anilist.co/api/v2/oauth/authorize"
	oauthTokenURL = "https://anilist.co/api/v2/oauth/token"

	// RedirectURI is AniList's out-of-band pin page; the user copies the
	// code shown there into the DM conversation.
	RedirectURI = "https://anilist.co/api/v2/oauth/pin"
)

// ErrNotFound is returned when AniList reports a 404 for the queried
// entity, e.g. an unknown username.
var ErrNotFound = errors.New("anilist: not found")

// Client talks to the AniList API. Safe for concurrent use.
type Client struct {
	url     string
	http    *http.Client
	limiter *retry.Limiter
	oauth   oauth2.Config
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithAPIURL points the client at a different GraphQL endpoint.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.url = u }
}

// WithTokenURL points the OAuth exchange at a different token endpoint.
func WithTokenURL(u string) Option {
	return func(c *Client) { c.oauth.Endpoint.TokenURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client. The OAuth credentials are only needed by the
// account linking flow; the catalog queries work without them.
func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		url:  DefaultURL,
		http: &http.Client{Timeout: 5 * time.Second},
		// AniList allows 90 requests per minute per client.
		limiter: retry.NewLimiter(1.5, 3),
		oauth: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   oauthAuthURL,
				TokenURL:  oauthTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

func hasStatus(errs []graphError, status int) bool {
	for _, e := range errs {
		if e.Status == status {
			return true
		}
	}
	return false
}

// query posts one GraphQL request and decodes the data payload into out.
// token, when non-empty, authenticates the request as the viewer.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, token string, out any) error {
	body, err := json.Marshal(struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}{query, variables})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	var resp graphResponse
	err = retry.Do(ctx, c.limiter, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return retry.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode != http.StatusOK {
			// GraphQL errors ride on non-200 responses; a 404 for the
			// queried entity is an answer, not a transport failure.
			var parsed graphResponse
			if json.Unmarshal(data, &parsed) == nil && hasStatus(parsed.Errors, http.StatusNotFound) {
				return retry.Fatal(ErrNotFound)
			}
			return retry.HTTPError(res.StatusCode, string(data))
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return retry.Fatal(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if hasStatus(resp.Errors, http.StatusNotFound) {
		return ErrNotFound
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("anilist: %s", resp.Errors[0].Message)
	}
	return json.Unmarshal(resp.Data, out)
}
