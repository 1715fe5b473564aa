package sdk

import (
	"context"

	"github.com/mluqi/km-support/common"
)

// ProvisionSecretHeader authenticates the storefront backend on the
// provisioning endpoint
const ProvisionSecretHeader = "X-Provision-Secret"

// derivedPasswordBytes matches the server-side HMAC truncation for
// storefront-provisioned accounts
const derivedPasswordBytes = 16

// Register registers a new customer account
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.post(ctx, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates a user and returns a token.
// The token is automatically stored in the client for subsequent requests.
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.post(ctx, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// LoginWithEmail is a convenience method to login with email and password
func (c *Client) LoginWithEmail(ctx context.Context, email, password string) (*LoginResponse, error) {
	return c.Login(ctx, &LoginRequest{Email: email, Password: password})
}

// Provision mirrors a storefront account into the support system and returns
// a logged-in session for it. Only the storefront backend holds the shared
// secret.
func (c *Client) Provision(ctx context.Context, secret string, req *ProvisionRequest) (*LoginResponse, error) {
	var result LoginResponse
	headers := map[string]string{ProvisionSecretHeader: secret}
	if err := c.postWithHeaders(ctx, "/auth/provision", headers, req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// DerivePassword re-derives the deterministic password of a provisioned
// account, for storefronts that log in through /auth/login instead of
// re-provisioning.
func DerivePassword(userId, passwordSecret string) string {
	return common.GeneratePasswordFromUserId(userId, passwordSecret, derivedPasswordBytes)
}

// Logout revokes the current session token
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}
