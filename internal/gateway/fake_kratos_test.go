package gateway_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-gateway/internal/kratos"
)

const duplicateText = "An account with the same identifier (email, phone, username, ...) exists already."

// fakeKratos serves the public and admin endpoints over an in-memory
// identity list and counts the writes it receives.
type fakeKratos struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	identities []kratos.Identity
	passwords  map[string]string // email -> password
	sessions   map[string]string // token -> identity id
	nextID     int

	registrations int
	updates       int
	deletes       int

	// fail forces a status on a route: "whoami", "logout", "login_flow",
	// "registration_flow", "registration_submit", "get_identity", "list".
	fail map[string]int
	// echoRoles replaces the role list echoed by identity updates.
	echoRoles []string
	pageSize  int
}

func newFakeKratos(t *testing.T) *fakeKratos {
	f := &fakeKratos{
		t:         t,
		passwords: map[string]string{},
		sessions:  map[string]string{},
		fail:      map[string]int{},
		pageSize:  2,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeKratos) client() *kratos.Client {
	c, err := kratos.New(kratos.Config{
		PublicBaseURL: f.srv.URL,
		AdminBaseURL:  f.srv.URL + "/admin",
		RetryMax:      0,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  time.Millisecond,
	})
	require.NoError(f.t, err)
	return c
}

// seed adds an identity from raw traits JSON and returns its id.
func (f *fakeKratos) seed(traits string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tr kratos.Traits
	require.NoError(f.t, json.Unmarshal([]byte(traits), &tr))
	f.nextID++
	id := fmt.Sprintf("id-%d", f.nextID)
	f.identities = append(f.identities, kratos.Identity{ID: id, SchemaID: "default", State: "active", Traits: tr})
	return id
}

// login opens a session for identity id.
func (f *fakeKratos) login(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "tok-" + id
	f.sessions[token] = id
	return token
}

func (f *fakeKratos) identity(id string) *kratos.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.identities {
		if f.identities[i].ID == id {
			cp := f.identities[i]
			return &cp
		}
	}
	return nil
}

func (f *fakeKratos) countEmail(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ident := range f.identities {
		if ident.Traits.Email == email {
			n++
		}
	}
	return n
}

func (f *fakeKratos) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registrations + f.updates + f.deletes
}

func (f *fakeKratos) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	route := ""
	switch {
	case path == "/sessions/whoami":
		route = "whoami"
	case path == "/self-service/logout/api":
		route = "logout"
	case path == "/self-service/login/api":
		route = "login_flow"
	case path == "/self-service/login":
		route = "login_submit"
	case path == "/self-service/registration/api":
		route = "registration_flow"
	case path == "/self-service/registration":
		route = "registration_submit"
	case path == "/admin/identities":
		route = "list"
	case strings.HasPrefix(path, "/admin/identities/"):
		route = map[string]string{
			http.MethodGet:    "get_identity",
			http.MethodPut:    "update_identity",
			http.MethodDelete: "delete_identity",
		}[r.Method]
	}

	if status, ok := f.fail[route]; ok {
		writeJSON(w, status, map[string]any{"error": map[string]any{"code": status, "message": "forced failure"}})
		return
	}

	switch route {
	case "whoami":
		f.whoami(w, r)
	case "logout":
		f.logout(w, r)
	case "login_flow":
		writeJSON(w, http.StatusOK, map[string]any{"id": "login", "ui": map[string]any{"action": "/self-service/login?flow=login", "method": "POST"}})
	case "login_submit":
		f.loginSubmit(w, r)
	case "registration_flow":
		writeJSON(w, http.StatusOK, map[string]any{"id": "reg", "ui": map[string]any{"action": f.srv.URL + "/self-service/registration?flow=reg", "method": "POST"}})
	case "registration_submit":
		f.register(w, r)
	case "list":
		f.list(w, r)
	case "get_identity", "update_identity", "delete_identity":
		f.identityRoute(w, r, route, strings.TrimPrefix(path, "/admin/identities/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeKratos) whoami(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	id, ok := f.sessions[token]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": 401, "reason": "No active session was found in this request."}})
		return
	}
	for _, ident := range f.identities {
		if ident.ID == id {
			writeJSON(w, http.StatusOK, kratos.Session{ID: "s-" + id, Active: true, Identity: &ident})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": 401}})
}

func (f *fakeKratos) logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionToken string `json:"session_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if _, ok := f.sessions[body.SessionToken]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"code": 400, "reason": "session token invalid"}})
		return
	}
	delete(f.sessions, body.SessionToken)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeKratos) loginSubmit(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	if pw, ok := f.passwords[body["password_identifier"]]; !ok || pw != body["password"] {
		writeJSON(w, http.StatusBadRequest, map[string]any{"id": "login", "ui": map[string]any{
			"messages": []map[string]any{{"id": 4000006, "text": "The provided credentials are invalid.", "type": "error"}}}})
		return
	}
	for _, ident := range f.identities {
		if ident.Traits.Email == body["password_identifier"] {
			token := "tok-" + ident.ID
			f.sessions[token] = ident.ID
			writeJSON(w, http.StatusOK, map[string]any{"session_token": token})
			return
		}
	}
	w.WriteHeader(http.StatusInternalServerError)
}

func (f *fakeKratos) register(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	assert.Equal(f.t, "password", body["method"])

	email := body["traits.email"]
	if len(body["password"]) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"id": "reg", "ui": map[string]any{"nodes": []map[string]any{{
			"group":    "password",
			"messages": []map[string]any{{"id": 4000032, "text": "The password must be at least 8 characters long.", "type": "error"}},
		}}}})
		return
	}
	for _, ident := range f.identities {
		if ident.Traits.Email == email {
			writeJSON(w, http.StatusBadRequest, map[string]any{"id": "reg", "ui": map[string]any{
				"messages": []map[string]any{{"id": 4000007, "text": duplicateText, "type": "error"}}}})
			return
		}
	}

	f.registrations++
	f.nextID++
	ident := kratos.Identity{
		ID:       fmt.Sprintf("id-%d", f.nextID),
		SchemaID: "default",
		State:    "active",
		Traits: kratos.Traits{
			Email:    email,
			Name:     &kratos.Name{First: body["traits.name.first"], Last: body["traits.name.last"]},
			UserRole: kratos.RoleList{body["traits.userrole"]},
		},
	}
	f.identities = append(f.identities, ident)
	f.passwords[email] = body["password"]
	token := "tok-" + ident.ID
	f.sessions[token] = ident.ID
	writeJSON(w, http.StatusOK, map[string]any{"identity": ident, "session_token": token})
}

// list pages through identities with Link headers like the provider does.
func (f *fakeKratos) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	start := page * f.pageSize
	if start > len(f.identities) {
		start = len(f.identities)
	}
	end := start + f.pageSize
	if end > len(f.identities) {
		end = len(f.identities)
	}
	if end < len(f.identities) {
		w.Header().Set("Link", fmt.Sprintf(`</admin/identities?page=%d>; rel="next"`, page+1))
	}
	writeJSON(w, http.StatusOK, f.identities[start:end])
}

func (f *fakeKratos) identityRoute(w http.ResponseWriter, r *http.Request, route, id string) {
	idx := -1
	for i := range f.identities {
		if f.identities[i].ID == id {
			idx = i
		}
	}
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "Unable to locate the resource"}})
		return
	}

	switch route {
	case "get_identity":
		writeJSON(w, http.StatusOK, f.identities[idx])
	case "update_identity":
		var body kratos.UpdateIdentityBody
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.updates++
		f.identities[idx].SchemaID = body.SchemaID
		f.identities[idx].State = body.State
		f.identities[idx].Traits = body.Traits
		echo := f.identities[idx]
		if f.echoRoles != nil {
			echo.Traits.UserRole = f.echoRoles
		}
		writeJSON(w, http.StatusOK, echo)
	case "delete_identity":
		f.deletes++
		f.identities = append(f.identities[:idx], f.identities[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
