package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/minnowquest/server/api"
	"github.com/dekarrin/minnowquest/server/minnows"
	"github.com/go-chi/chi/v5"
)

// client -> {"input": "TAKE SPOON"} -> server
// server -> {"body": "You take the spoon."} -> client
//
// server:
//  - POST   /login                  - accepts user and password and returns a jwt.
//  - DELETE /login/{id}             - ends user authentication session and destroyes the jwt.
//  - POST   /tokens                 - refreshes the token without requiring credentials (requires auth)
//  - POST   /sessions               - start a new game session. Takes the name of the world to play, or the default on disk.
//  - GET    /sessions               - get the sessions of the logged-in user.
//  - GET    /sessions/{id}          - get info on a session (if it's yours)
//  - POST   /sessions/{id}/commands - accepts command input for the session's game, returns the response envelope
//  - GET    /sessions/{id}/commands - return command history for the session
//  - POST   /users                  - create a new user account (admin only)
//  - GET    /users                  - get all users (admin only)
//  - GET    /users/{id}             - get info on a user
//  - PUT    /users/{id}             - create or replace a user (admin only)
//  - PATCH  /users/{id}             - update a user
//  - DELETE /users/{id}             - delete a user
//  - GET    /info                   - get version info on the game and engine itself.
//

// MinnowQuestServer is an HTTP REST server that provides MinnowQuest games and
// associated resources. The zero-value of a MinnowQuestServer should not be
// used directly; call New() to get one ready for use.
type MinnowQuestServer struct {
	router  chi.Router
	backend minnows.Service
	cfg     Config
}

// New creates a new MinnowQuestServer from the given config. Any values unset
// in cfg are first filled with their defaults, and the filled config is
// validated before the persistence layer is connected.
func New(cfg Config) (MinnowQuestServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return MinnowQuestServer{}, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return MinnowQuestServer{}, fmt.Errorf("connect DB: %w", err)
	}

	backend := minnows.New(db, cfg.WorldsDir)

	a := api.API{
		Backend:     backend,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	mqs := MinnowQuestServer{
		router:  newRouter(a),
		backend: backend,
		cfg:     cfg,
	}

	return mqs, nil
}

// Backend returns the service layer that the server routes its requests to.
// It can be used to perform operations on the server's data directly, outside
// of an HTTP request.
func (mqs MinnowQuestServer) Backend() minnows.Service {
	return mqs.backend
}

// ServeForever begins listening on the address and port the server was
// configured with for HTTP REST client requests. This function does not
// return; if the server cannot serve, it ends the program.
func (mqs MinnowQuestServer) ServeForever() {
	listenAddress := fmt.Sprintf("%s:%d", mqs.cfg.Address, mqs.cfg.Port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, mqs.router))
}

// ServeHTTP dispatches the request to the server's router. It makes a
// MinnowQuestServer usable directly as an http.Handler.
func (mqs MinnowQuestServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	mqs.router.ServeHTTP(w, req)
}

// Close releases any resources held open by the server's persistence layer.
func (mqs MinnowQuestServer) Close() error {
	return mqs.backend.DB.Close()
}
