package kratos

import (
	"context"
	"net/http"
	"net/url"
)

const (
	opRegistrationFlow   = "registration_flow"
	opRegistrationSubmit = "registration_submit"
	opLoginFlow          = "login_flow"
	opLoginSubmit        = "login_submit"
)

// InitRegistrationFlow starts an API registration flow.
func (c *Client) InitRegistrationFlow(ctx context.Context) (*Flow, error) {
	return c.initFlow(ctx, opRegistrationFlow, "registration")
}

// SubmitRegistration posts the password method to the flow's action URL and
// expects 200 with the created identity.
func (c *Client) SubmitRegistration(ctx context.Context, flow *Flow, sub RegistrationSubmission) (*RegistrationResult, error) {
	action, err := c.actionURL(flow)
	if err != nil {
		return nil, err
	}
	sub.Method = methodPassword

	resp, err := c.send(ctx, request{op: opRegistrationSubmit, method: http.MethodPost, url: action, body: sub})
	if err != nil {
		return nil, err
	}

	var out RegistrationResult
	if err := expect(opRegistrationSubmit, resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitLoginFlow starts an API login flow.
func (c *Client) InitLoginFlow(ctx context.Context) (*Flow, error) {
	return c.initFlow(ctx, opLoginFlow, "login")
}

// SubmitLogin posts credentials to the flow's action URL and expects 200
// with a session token.
func (c *Client) SubmitLogin(ctx context.Context, flow *Flow, identifier, password string) (*LoginResult, error) {
	action, err := c.actionURL(flow)
	if err != nil {
		return nil, err
	}

	sub := LoginSubmission{Identifier: identifier, Password: password, Method: methodPassword}
	resp, err := c.send(ctx, request{op: opLoginSubmit, method: http.MethodPost, url: action, body: sub})
	if err != nil {
		return nil, err
	}

	var out LoginResult
	if err := expect(opLoginSubmit, resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Flow initialization creates server-side state, so it is not retried.
func (c *Client) initFlow(ctx context.Context, op, kind string) (*Flow, error) {
	u := c.public.JoinPath("self-service", kind, "api").String()
	resp, err := c.send(ctx, request{op: op, method: http.MethodGet, url: u})
	if err != nil {
		return nil, err
	}

	var flow Flow
	if err := expect(op, resp, http.StatusOK, &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

// actionURL resolves the flow's submit URL, which may be relative to the
// public base.
func (c *Client) actionURL(flow *Flow) (string, error) {
	if flow == nil || flow.UI.Action == "" {
		return "", errMissingAction
	}
	ref, err := url.Parse(flow.UI.Action)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	return c.public.ResolveReference(ref).String(), nil
}
