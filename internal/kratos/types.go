package kratos

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Flow is the self-service flow descriptor returned when a registration or
// login flow is initialized, and again when a submission is rejected.
type Flow struct {
	ID string `json:"id"`
	UI UI   `json:"ui"`
}

type UI struct {
	Action   string      `json:"action"`
	Method   string      `json:"method"`
	Messages []UIMessage `json:"messages,omitempty"`
	Nodes    []UINode    `json:"nodes,omitempty"`
}

type UIMessage struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type UINode struct {
	Group    string      `json:"group"`
	Messages []UIMessage `json:"messages,omitempty"`
}

// AllMessages returns the flow-level messages followed by node messages.
func (f *Flow) AllMessages() []UIMessage {
	msgs := make([]UIMessage, 0, len(f.UI.Messages))
	msgs = append(msgs, f.UI.Messages...)
	for _, n := range f.UI.Nodes {
		msgs = append(msgs, n.Messages...)
	}
	return msgs
}

type Name struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// RoleList is the userrole trait. It decodes from a JSON string as well as
// from an array of strings, since a registration submits a single role.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*r = RoleList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("userrole trait: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*r = list
	return nil
}

// Contains reports whether role is held.
func (r RoleList) Contains(role string) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

const (
	traitEmail    = "email"
	traitName     = "name"
	traitUserRole = "userrole"
)

// Traits are the identity traits the gateway works with. Fields it does not
// model are kept in extra and written back untouched.
type Traits struct {
	Email    string
	Name     *Name
	UserRole RoleList

	extra map[string]json.RawMessage
}

func (t *Traits) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Traits{}
	if v, ok := raw[traitEmail]; ok {
		if err := json.Unmarshal(v, &t.Email); err != nil {
			return fmt.Errorf("email trait: %w", err)
		}
		delete(raw, traitEmail)
	}
	if v, ok := raw[traitName]; ok {
		var n Name
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("name trait: %w", err)
		}
		t.Name = &n
		delete(raw, traitName)
	}
	if v, ok := raw[traitUserRole]; ok {
		if err := json.Unmarshal(v, &t.UserRole); err != nil {
			return err
		}
		delete(raw, traitUserRole)
	}
	if len(raw) > 0 {
		t.extra = raw
	}
	return nil
}

func (t Traits) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.extra)+3)
	for k, v := range t.extra {
		out[k] = v
	}
	if t.Email != "" {
		out[traitEmail] = t.Email
	}
	if t.Name != nil {
		out[traitName] = t.Name
	}
	if t.UserRole != nil {
		out[traitUserRole] = []string(t.UserRole)
	}
	return json.Marshal(out)
}

// FullName joins first and last name with a single space.
func (t Traits) FullName() string {
	if t.Name == nil {
		return ""
	}
	return t.Name.First + " " + t.Name.Last
}

type Identity struct {
	ID       string `json:"id"`
	SchemaID string `json:"schema_id"`
	State    string `json:"state,omitempty"`
	Traits   Traits `json:"traits"`
}

// UpdateIdentityBody is the full-replace payload of an identity update.
type UpdateIdentityBody struct {
	SchemaID string `json:"schema_id"`
	State    string `json:"state,omitempty"`
	Traits   Traits `json:"traits"`
}

type Session struct {
	ID       string    `json:"id"`
	Active   bool      `json:"active"`
	Identity *Identity `json:"identity"`
}

// RegistrationSubmission is the password-method registration payload. Keys
// use the provider's dotted form field names.
type RegistrationSubmission struct {
	Email     string `json:"traits.email"`
	FirstName string `json:"traits.name.first"`
	LastName  string `json:"traits.name.last"`
	Password  string `json:"password"`
	UserRole  string `json:"traits.userrole"`
	Method    string `json:"method"`
}

type RegistrationResult struct {
	Identity     Identity `json:"identity"`
	SessionToken string   `json:"session_token"`
}

type LoginSubmission struct {
	Identifier string `json:"password_identifier"`
	Password   string `json:"password"`
	Method     string `json:"method"`
}

type LoginResult struct {
	SessionToken string   `json:"session_token"`
	Session      *Session `json:"session,omitempty"`
}

type logoutBody struct {
	SessionToken string `json:"session_token"`
}

// RawResponse is a provider response handed back without interpretation.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

const methodPassword = "password"
