package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/dekarrin/minnowquest/server/middle"
	"github.com/dekarrin/minnowquest/server/result"
	"github.com/dekarrin/minnowquest/server/serr"
)

func sessionModelOf(s dao.Session) SessionModel {
	return SessionModel{
		URI:        PathPrefix + "/sessions/" + s.ID.String(),
		ID:         s.ID.String(),
		User:       PathPrefix + "/users/" + s.UserID.String(),
		World:      s.World,
		Created:    s.Created.Format(time.RFC3339),
		LastActive: s.LastActive.Format(time.RFC3339),
	}
}

func commandModelOf(c dao.Command) CommandModel {
	return CommandModel{
		URI:     PathPrefix + "/sessions/" + c.SessionID.String() + "/commands/" + c.ID.String(),
		ID:      c.ID.String(),
		Session: PathPrefix + "/sessions/" + c.SessionID.String(),
		Input:   c.Input,
		Body:    c.Response,
		Extras:  c.Extras,
		Created: c.Created.Format(time.RFC3339),
	}
}

// HTTPCreateSession returns a HandlerFunc that starts a new game session for
// the logged-in user. The request body may name a world to play; if it is
// absent the default world is used.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateSession() http.HandlerFunc {
	return api.Endpoint(api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var createReq SessionCreateRequest
	if req.ContentLength != 0 {
		if err := parseJSON(req, &createReq); err != nil {
			return result.BadRequest(err.Error(), err.Error())
		}
	}

	sesh, err := api.Backend.CreateSession(req.Context(), user.ID, createReq.World)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError("could not create session: " + err.Error())
	}

	resp := sessionModelOf(sesh)
	return result.Created(resp, "user '%s' started session %s in world '%s'", user.Username, resp.ID, sesh.World)
}

// HTTPGetAllSessions returns a HandlerFunc that lists the sessions belonging
// to the logged-in user.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllSessions() http.HandlerFunc {
	return api.Endpoint(api.epGetAllSessions)
}

func (api API) epGetAllSessions(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	seshes, err := api.Backend.GetUserSessions(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]SessionModel, len(seshes))
	for i := range seshes {
		resp[i] = sessionModelOf(seshes[i])
	}

	return result.OK(resp, "user '%s' got own sessions", user.Username)
}

// HTTPGetSession returns a HandlerFunc that gets an existing session. All
// users may retrieve their own sessions, but only an admin user can retrieve
// sessions of other users.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the session being operated on and the logged-in user of the client
// making the request.
func (api API) HTTPGetSession() http.HandlerFunc {
	return api.Endpoint(api.epGetSession)
}

func (api API) epGetSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	sesh, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get session: " + err.Error())
	}

	if sesh.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get session %s: forbidden", user.Username, user.Role, id)
	}

	resp := sessionModelOf(sesh)
	return result.OK(resp, "user '%s' got session %s", user.Username, resp.ID)
}

// HTTPSendCommand returns a HandlerFunc that applies one line of player input
// to a session's game and responds with the envelope for it: a JSON object
// with a "body" key holding the game's response text, plus a key for each
// response state pair the command produced. Input the game does not
// understand still gets a normal envelope, not an HTTP error.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the session being operated on and the logged-in user of the client
// making the request.
func (api API) HTTPSendCommand() http.HandlerFunc {
	return api.Endpoint(api.epSendCommand)
}

func (api API) epSendCommand(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	sesh, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get session: " + err.Error())
	}

	if sesh.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) send command to session %s: forbidden", user.Username, user.Role, id)
	}

	var comReq CommandRequest
	if err := parseJSON(req, &comReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	envelope, err := api.Backend.SendCommand(req.Context(), id, user.ID, comReq.Input)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound(err.Error())
		}
		return result.InternalServerError("could not send command: " + err.Error())
	}

	return result.OK(envelope, "user '%s' sent %q to session %s", user.Username, comReq.Input, id)
}

// HTTPGetCommands returns a HandlerFunc that lists the command history of a
// session in the order the commands happened.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the session being operated on and the logged-in user of the client
// making the request.
func (api API) HTTPGetCommands() http.HandlerFunc {
	return api.Endpoint(api.epGetCommands)
}

func (api API) epGetCommands(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	sesh, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get session: " + err.Error())
	}

	if sesh.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get history of session %s: forbidden", user.Username, user.Role, id)
	}

	coms, err := api.Backend.GetSessionCommands(req.Context(), id)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]CommandModel, len(coms))
	for i := range coms {
		resp[i] = commandModelOf(coms[i])
	}

	return result.OK(resp, "user '%s' got history of session %s", user.Username, id)
}
