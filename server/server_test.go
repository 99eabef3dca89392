package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/minnowquest/server/api"
	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/stretchr/testify/assert"
)

const serverTestWorldTOML = `
format = "minnow"
type = "data"

[world]
start = "cove"

[[room]]
label = "cove"
name = "Cove"
description = "A quiet cove."

[[command]]
pattern = "listen"
say = "Waves, mostly."
`

// newTestServer returns a server on in-memory persistence with the unauth
// delay disabled so failing requests come back immediately.
func newTestServer(t *testing.T) MinnowQuestServer {
	t.Helper()

	worldsDir := t.TempDir()
	worldFile := filepath.Join(worldsDir, "world.mqw")
	if err := os.WriteFile(worldFile, []byte(serverTestWorldTOML), 0644); err != nil {
		t.Fatalf("writing test world: %v", err)
	}

	cfg := Config{
		TokenSecret:       []byte(strings.Repeat("A", MinSecretSize)),
		DB:                Database{Type: DatabaseInMemory},
		UnauthDelayMillis: -1,
		WorldsDir:         worldsDir,
	}

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	return srv
}

// doRequest sends one request through the server's router and returns the
// recorded response. A non-nil body is marshaled to JSON; a non-empty tok is
// sent as a bearer token.
func doRequest(t *testing.T, srv MinnowQuestServer, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, srv MinnowQuestServer, username, password string) string {
	t.Helper()

	loginReq := api.LoginRequest{Username: username, Password: password}
	rec := doRequest(t, srv, http.MethodPost, api.PathPrefix+"/login", "", loginReq)
	if rec.Code != http.StatusCreated {
		t.Fatalf("login as %s: HTTP-%d: %s", username, rec.Code, rec.Body.String())
	}

	var resp api.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp.Token
}

func Test_MinnowQuestServer_login(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)

	created, err := srv.Backend().CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}

	t.Run("good credentials", func(t *testing.T) {
		assert := assert.New(t)

		loginReq := api.LoginRequest{Username: "vriska", Password: "m1nd(f4ng)"}
		rec := doRequest(t, srv, http.MethodPost, api.PathPrefix+"/login", "", loginReq)

		if !assert.Equal(http.StatusCreated, rec.Code, rec.Body.String()) {
			return
		}

		var resp api.LoginResponse
		if !assert.NoError(json.Unmarshal(rec.Body.Bytes(), &resp)) {
			return
		}
		assert.NotEmpty(resp.Token)
		assert.Equal(created.ID.String(), resp.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		assert := assert.New(t)

		loginReq := api.LoginRequest{Username: "vriska", Password: "wrong"}
		rec := doRequest(t, srv, http.MethodPost, api.PathPrefix+"/login", "", loginReq)

		assert.Equal(http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing username", func(t *testing.T) {
		assert := assert.New(t)

		loginReq := api.LoginRequest{Password: "m1nd(f4ng)"}
		rec := doRequest(t, srv, http.MethodPost, api.PathPrefix+"/login", "", loginReq)

		assert.Equal(http.StatusBadRequest, rec.Code)
	})
}

func Test_MinnowQuestServer_authRequired(t *testing.T) {
	srv := newTestServer(t)

	t.Run("no token", func(t *testing.T) {
		assert := assert.New(t)

		rec := doRequest(t, srv, http.MethodGet, api.PathPrefix+"/sessions", "", nil)
		assert.Equal(http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert := assert.New(t)

		rec := doRequest(t, srv, http.MethodGet, api.PathPrefix+"/sessions", "not.a.token", nil)
		assert.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func Test_MinnowQuestServer_sessionFlow(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	srv := newTestServer(t)

	if _, err := srv.Backend().CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	tok := loginAs(t, srv, "vriska", "m1nd(f4ng)")

	// start a session in the default world
	rec := doRequest(t, srv, http.MethodPost, api.PathPrefix+"/sessions", tok, nil)
	if !assert.Equal(http.StatusCreated, rec.Code, rec.Body.String()) {
		return
	}
	var sesh api.SessionModel
	if !assert.NoError(json.Unmarshal(rec.Body.Bytes(), &sesh)) {
		return
	}
	assert.Equal("world", sesh.World)
	assert.NotEmpty(sesh.ID)

	seshPath := api.PathPrefix + "/sessions/" + sesh.ID

	// send a command the world knows
	rec = doRequest(t, srv, http.MethodPost, seshPath+"/commands", tok, api.CommandRequest{Input: "listen"})
	assert.Equal(http.StatusOK, rec.Code, rec.Body.String())
	var env map[string]string
	if assert.NoError(json.Unmarshal(rec.Body.Bytes(), &env)) {
		assert.Contains(env["body"], "Waves, mostly.")
	}

	// and one it does not
	rec = doRequest(t, srv, http.MethodPost, seshPath+"/commands", tok, api.CommandRequest{Input: "xyzzy"})
	assert.Equal(http.StatusOK, rec.Code)
	env = nil
	if assert.NoError(json.Unmarshal(rec.Body.Bytes(), &env)) {
		assert.Equal(`I don't understand "xyzzy".`, env["body"])
	}

	// both are now in the history
	rec = doRequest(t, srv, http.MethodGet, seshPath+"/commands", tok, nil)
	assert.Equal(http.StatusOK, rec.Code)
	var coms []api.CommandModel
	if assert.NoError(json.Unmarshal(rec.Body.Bytes(), &coms)) && assert.Len(coms, 2) {
		assert.Equal("listen", coms[0].Input)
		assert.Equal("xyzzy", coms[1].Input)
	}

	// the session shows up in the user's list
	rec = doRequest(t, srv, http.MethodGet, api.PathPrefix+"/sessions", tok, nil)
	assert.Equal(http.StatusOK, rec.Code)
	var seshes []api.SessionModel
	if assert.NoError(json.Unmarshal(rec.Body.Bytes(), &seshes)) && assert.Len(seshes, 1) {
		assert.Equal(sesh.ID, seshes[0].ID)
	}

	// and can be fetched directly
	rec = doRequest(t, srv, http.MethodGet, seshPath, tok, nil)
	assert.Equal(http.StatusOK, rec.Code)
}

func Test_MinnowQuestServer_sessionAccess(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	srv := newTestServer(t)

	if _, err := srv.Backend().CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if _, err := srv.Backend().CreateUser(ctx, "aradia", "0_0", "", dao.Normal); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if _, err := srv.Backend().CreateUser(ctx, "admin", "password", "", dao.Admin); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	vriskaTok := loginAs(t, srv, "vriska", "m1nd(f4ng)")
	aradiaTok := loginAs(t, srv, "aradia", "0_0")
	adminTok := loginAs(t, srv, "admin", "password")

	rec := doRequest(t, srv, http.MethodPost, api.PathPrefix+"/sessions", vriskaTok, nil)
	if !assert.Equal(http.StatusCreated, rec.Code, rec.Body.String()) {
		return
	}
	var sesh api.SessionModel
	if !assert.NoError(json.Unmarshal(rec.Body.Bytes(), &sesh)) {
		return
	}

	seshPath := api.PathPrefix + "/sessions/" + sesh.ID

	// another player cannot see the session
	rec = doRequest(t, srv, http.MethodGet, seshPath, aradiaTok, nil)
	assert.Equal(http.StatusForbidden, rec.Code)

	// nor play in it
	rec = doRequest(t, srv, http.MethodPost, seshPath+"/commands", aradiaTok, api.CommandRequest{Input: "listen"})
	assert.Equal(http.StatusForbidden, rec.Code)

	// the admin can do both
	rec = doRequest(t, srv, http.MethodGet, seshPath, adminTok, nil)
	assert.Equal(http.StatusOK, rec.Code)
}

func Test_MinnowQuestServer_routing(t *testing.T) {
	srv := newTestServer(t)

	t.Run("unknown resource", func(t *testing.T) {
		assert := assert.New(t)

		rec := doRequest(t, srv, http.MethodGet, api.PathPrefix+"/bogus", "", nil)
		assert.Equal(http.StatusNotFound, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		assert := assert.New(t)

		rec := doRequest(t, srv, http.MethodPut, api.PathPrefix+"/info", "", nil)
		assert.Equal(http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("trailing slash redirects", func(t *testing.T) {
		assert := assert.New(t)

		rec := doRequest(t, srv, http.MethodGet, api.PathPrefix+"/info/", "", nil)
		assert.Equal(http.StatusPermanentRedirect, rec.Code)
		assert.Equal(api.PathPrefix+"/info", rec.Header().Get("Location"))
	})

	t.Run("info is open", func(t *testing.T) {
		assert := assert.New(t)

		rec := doRequest(t, srv, http.MethodGet, api.PathPrefix+"/info", "", nil)
		if !assert.Equal(http.StatusOK, rec.Code) {
			return
		}

		var info api.InfoModel
		if assert.NoError(json.Unmarshal(rec.Body.Bytes(), &info)) {
			assert.NotEmpty(info.Version.MinnowQuest)
			assert.NotEmpty(info.Version.Server)
		}
	})
}
