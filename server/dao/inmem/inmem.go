// Package inmem provides an in-memory implementation of the server DAO layer.
// Data in it lasts only as long as the process does.
package inmem

import (
	"fmt"

	"github.com/dekarrin/minnowquest/server/dao"
)

type store struct {
	users  *InMemoryUsersRepository
	seshes *InMemorySessionsRepository
	coms   *InMemoryCommandsRepository
}

func NewDatastore() dao.Store {
	st := &store{
		users:  NewUsersRepository(),
		seshes: NewSessionsRepository(),
	}
	st.coms = NewCommandsRepository(st.seshes)
	return st
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Commands() dao.CommandRepository {
	return s.coms
}

func (s *store) Close() error {
	var err error

	for _, repo := range []interface{ Close() error }{s.users, s.seshes, s.coms} {
		nextErr := repo.Close()
		if nextErr != nil {
			if err != nil {
				err = fmt.Errorf("%s\nadditionally: %w", err.Error(), nextErr)
			} else {
				err = nextErr
			}
		}
	}

	return err
}
