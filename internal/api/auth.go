package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/taskboard/internal/model"
)

// Login exchanges credentials for a session token. The caller is
// responsible for installing the token in its TokenSource.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/auth/login", nil, creds, &resp); err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", creds.Email, err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("logging in as %s: empty token in response", creds.Email)
	}
	return &resp, nil
}

// Register creates an account. A verification code must have been sent to
// the email beforehand with SendCode.
func (c *Client) Register(ctx context.Context, reg Registration) (model.User, error) {
	var u model.User
	if err := c.Post(ctx, "/auth/register", nil, reg, &u); err != nil {
		return model.User{}, fmt.Errorf("registering %s: %w", reg.Email, err)
	}
	return u, nil
}

// SendCode asks the backend to mail a verification code to email.
func (c *Client) SendCode(ctx context.Context, email string) error {
	q := url.Values{"email": {email}}
	if err := c.Post(ctx, "/auth/send-code", q, nil, nil); err != nil {
		return fmt.Errorf("sending verification code to %s: %w", email, err)
	}
	return nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	if err := c.Get(ctx, "/auth/me", nil, &u); err != nil {
		return model.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return u, nil
}

// UpdateProfile edits the current user's display name and avatar.
func (c *Client) UpdateProfile(ctx context.Context, p ProfileUpdate) (model.User, error) {
	var u model.User
	if err := c.Put(ctx, "/auth/me", p, &u); err != nil {
		return model.User{}, fmt.Errorf("updating profile: %w", err)
	}
	return u, nil
}
