package anilist

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// AuthCodeURL returns the authorization URL the user visits to obtain a
// one-time code from the AniList pin page.
func (c *Client) AuthCodeURL() string {
	return c.oauth.AuthCodeURL("")
}

// ExchangeCode trades an authorization code for an access token. An invalid
// or expired code yields an error.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok.AccessToken, nil
}
