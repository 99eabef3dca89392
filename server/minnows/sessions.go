package minnows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/dekarrin/minnowquest/internal/game"
	"github.com/dekarrin/minnowquest/internal/mqerrors"
	"github.com/dekarrin/minnowquest/internal/mqw"
	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/dekarrin/minnowquest/server/serr"
	"github.com/google/uuid"
)

// DefaultWorld is the world loaded for sessions that do not name one.
const DefaultWorld = "world"

const sessionOutputWidth = 80

// CreateSession starts a new game session for the given user playing the
// named world. The world name selects the file WORLD.mqw in the service's
// worlds directory; if it is blank, DefaultWorld is used. The new game is
// held in memory and is immediately ready to receive commands.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the world name is not
// valid or no world file with that name exists, it will match
// serr.ErrBadArgument. If the error occured due to an unexpected problem with
// the DB, it will match serr.ErrDB.
func (svc Service) CreateSession(ctx context.Context, userID uuid.UUID, world string) (dao.Session, error) {
	if world == "" {
		world = DefaultWorld
	}
	if world != filepath.Base(world) || strings.HasPrefix(world, ".") {
		return dao.Session{}, serr.New("world name is not valid", serr.ErrBadArgument)
	}

	worldFile := filepath.Join(svc.WorldsDir, world+".mqw")
	worldData, err := mqw.LoadResourceBundle(worldFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dao.Session{}, serr.New(fmt.Sprintf("no world named %q exists", world), serr.ErrBadArgument)
		}
		return dao.Session{}, serr.New(fmt.Sprintf("world %q could not be loaded", world), err)
	}

	// the server reads responses from dispatch results, so anything the game
	// writes to its device is dropped
	ioDev := game.IODevice{
		Width: sessionOutputWidth,
		Output: func(s string, a ...interface{}) error {
			return nil
		},
	}

	gameState, err := game.New(worldData.Rooms, worldData.Start, worldData.Flags, worldData.Items, worldData.Commands, ioDev)
	if err != nil {
		return dao.Session{}, serr.New(fmt.Sprintf("world %q could not be started", world), err)
	}

	sesh := dao.Session{
		UserID: userID,
		World:  world,
	}

	sesh, err = svc.DB.Sessions().Create(ctx, sesh)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Session{}, serr.New("user does not exist", serr.ErrBadArgument)
		}
		return dao.Session{}, serr.WrapDB("could not create session", err)
	}

	svc.games.put(sesh.ID, &liveSession{game: gameState})

	return sesh, nil
}

// GetSession returns the session with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no session with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) GetSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	sesh, err := svc.DB.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not get session", err)
	}

	return sesh, nil
}

// GetUserSessions returns all sessions belonging to the given user. A user
// with no sessions gets an empty slice, not an error.
func (svc Service) GetUserSessions(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	seshes, err := svc.DB.Sessions().GetAllByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return []dao.Session{}, nil
		}
		return nil, serr.WrapDB("", err)
	}

	return seshes, nil
}

// SendCommand applies one line of player input to the session's game and
// returns the response envelope. The envelope always contains a "body" key
// with the text the game gave back; any response state pairs the command
// pushed ride along as additional keys. Input that matches no command still
// produces a normal envelope whose body says the game did not understand.
//
// Commands sent to the same session are applied one at a time. The userID is
// recorded with the history entry and may differ from the session's owner if
// an admin sends the command.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no session with that ID
// exists, or its game is no longer held in memory, it will match
// serr.ErrNotFound. If the error occured due to an unexpected problem with
// the DB, it will match serr.ErrDB.
func (svc Service) SendCommand(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID, input string) (map[string]string, error) {
	sesh, err := svc.DB.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serr.ErrNotFound
		}
		return nil, serr.WrapDB("could not get session", err)
	}

	live, ok := svc.games.get(sessionID)
	if !ok {
		// the game died with a previous server process, or the player already
		// quit
		return nil, serr.New("session is no longer live; start a new one", serr.ErrNotFound)
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	res := live.game.Dispatch(input)

	var body string
	switch {
	case !res.Matched:
		body = game.UnknownCommand(strings.TrimSpace(input))
	case res.Err != nil:
		body = "Error: " + mqerrors.GameMessage(res.Err)
	case res.Output == "":
		body = "OK"
	default:
		body = res.Output
	}

	extras := live.game.DrainExtras()

	envelope := make(map[string]string, len(extras)+1)
	envelope["body"] = body
	for k, v := range extras {
		envelope[k] = v
	}

	com := dao.Command{
		SessionID: sessionID,
		UserID:    userID,
		Input:     input,
		Response:  body,
		Extras:    extras,
	}
	if _, err := svc.DB.Commands().Create(ctx, com); err != nil {
		return nil, serr.WrapDB("could not record command", err)
	}

	sesh.LastActive = time.Now()
	if _, err := svc.DB.Sessions().Update(ctx, sesh.ID, sesh); err != nil {
		return nil, serr.WrapDB("could not update session activity", err)
	}

	if live.game.QuitRequested() {
		svc.games.remove(sessionID)
	}

	return envelope, nil
}

// GetSessionCommands returns the command history of the given session in the
// order the commands happened. A session with no commands yet gets an empty
// slice, not an error.
func (svc Service) GetSessionCommands(ctx context.Context, sessionID uuid.UUID) ([]dao.Command, error) {
	coms, err := svc.DB.Commands().GetAllBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return []dao.Command{}, nil
		}
		return nil, serr.WrapDB("", err)
	}

	return coms, nil
}
