package kratos

import (
	"context"
	"net/http"
)

const (
	opWhoAmI = "whoami"
	opLogout = "logout"
)

// WhoAmI returns the session behind token. Any status other than 200 is
// reported as a *StatusError.
func (c *Client) WhoAmI(ctx context.Context, token string) (*Session, error) {
	resp, err := c.send(ctx, request{op: opWhoAmI, method: http.MethodGet, url: c.whoami, token: token, retry: true})
	if err != nil {
		return nil, err
	}

	var s Session
	if err := expect(opWhoAmI, resp, http.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout revokes the session behind token. The provider answers 204.
func (c *Client) Logout(ctx context.Context, token string) error {
	u := c.public.JoinPath("self-service", "logout", "api").String()
	resp, err := c.send(ctx, request{op: opLogout, method: http.MethodDelete, url: u, body: logoutBody{SessionToken: token}})
	if err != nil {
		return err
	}
	return expect(opLogout, resp, http.StatusNoContent, nil)
}
