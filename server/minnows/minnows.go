// Package minnows has services for interacting with the MinnowQuest server
// backend decoupled from the API that accesses it.
package minnows

import (
	"sync"

	"github.com/dekarrin/minnowquest/internal/game"
	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/google/uuid"
)

// Service is a service for interacting with and modifying the MinnowQuest
// server backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// Use New to create one; the zero-value of Service is not ready to be used.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// WorldsDir is the directory that world definition files are loaded from
	// when a game session is created.
	WorldsDir string

	games *liveGames
}

// New creates a Service that uses the given store for persistence and loads
// world files from worldsDir.
func New(db dao.Store, worldsDir string) Service {
	return Service{
		DB:        db,
		WorldsDir: worldsDir,
		games: &liveGames{
			sessions: make(map[uuid.UUID]*liveSession),
		},
	}
}

// liveGames holds the running game state of every active session. Game state
// lives only in memory; when the server exits, sessions must be started over
// from their world's beginning.
type liveGames struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

func (lg *liveGames) get(id uuid.UUID) (*liveSession, bool) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	ls, ok := lg.sessions[id]
	return ls, ok
}

func (lg *liveGames) put(id uuid.UUID, ls *liveSession) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	lg.sessions[id] = ls
}

func (lg *liveGames) remove(id uuid.UUID) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	delete(lg.sessions, id)
}

// liveSession is the running game of a single session. Commands sent to the
// same session are applied one at a time in the order the server receives
// them.
type liveSession struct {
	mu   sync.Mutex
	game *game.State
}
