package kratos

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	opListIdentities = "list_identities"
	opGetIdentity    = "get_identity"
	opUpdateIdentity = "update_identity"
	opDeleteIdentity = "delete_identity"

	maxIdentityPages = 1000
)

// ListIdentities returns every identity, following the provider's
// Link rel="next" pagination until it runs out.
func (c *Client) ListIdentities(ctx context.Context) ([]Identity, error) {
	next := c.admin.JoinPath("identities").String()
	seen := make(map[string]bool)
	var all []Identity

	for page := 0; next != "" && page < maxIdentityPages; page++ {
		if seen[next] {
			break
		}
		seen[next] = true

		resp, err := c.send(ctx, request{op: opListIdentities, method: http.MethodGet, url: next, retry: true})
		if err != nil {
			return nil, err
		}

		var batch []Identity
		if err := expect(opListIdentities, resp, http.StatusOK, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if len(batch) == 0 {
			break
		}
		next, err = c.nextPage(resp.Header.Get(headerLink))
		if err != nil {
			return nil, fmt.Errorf("kratos %s: %w", opListIdentities, err)
		}
	}

	return all, nil
}

// GetIdentity fetches one identity by id.
func (c *Client) GetIdentity(ctx context.Context, id string) (*Identity, error) {
	resp, err := c.send(ctx, request{op: opGetIdentity, method: http.MethodGet, url: c.identityURL(id), retry: true})
	if err != nil {
		return nil, err
	}

	var ident Identity
	if err := expect(opGetIdentity, resp, http.StatusOK, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

// UpdateIdentity replaces schema, state and traits of an identity and
// returns the identity as stored by the provider.
func (c *Client) UpdateIdentity(ctx context.Context, id string, body UpdateIdentityBody) (*Identity, error) {
	resp, err := c.send(ctx, request{op: opUpdateIdentity, method: http.MethodPut, url: c.identityURL(id), body: body})
	if err != nil {
		return nil, err
	}

	var ident Identity
	if err := expect(opUpdateIdentity, resp, http.StatusOK, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

// DeleteIdentity deletes an identity and returns the provider's answer
// as-is. Only transport failures are reported as errors.
func (c *Client) DeleteIdentity(ctx context.Context, id string) (*RawResponse, error) {
	resp, err := c.send(ctx, request{op: opDeleteIdentity, method: http.MethodDelete, url: c.identityURL(id)})
	if err != nil {
		return nil, err
	}
	return &RawResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

func (c *Client) identityURL(id string) string {
	return c.admin.JoinPath("identities", url.PathEscape(id)).String()
}

// nextPage extracts the rel="next" target of a Link header, resolved
// against the admin base.
func (c *Client) nextPage(link string) (string, error) {
	for _, part := range strings.Split(link, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		isNext := false
		for _, param := range segments[1:] {
			param = strings.TrimSpace(param)
			if strings.EqualFold(param, `rel="next"`) || strings.EqualFold(param, "rel=next") {
				isNext = true
			}
		}
		if !isNext {
			continue
		}

		ref, err := url.Parse(strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">"))
		if err != nil {
			return "", err
		}
		return c.admin.ResolveReference(ref).String(), nil
	}
	return "", nil
}
