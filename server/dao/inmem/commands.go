package inmem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/minnowquest/internal/util"
	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/google/uuid"
)

// NewCommandsRepository creates a new Commands repo. If seshRepo is not
// provided, Create() will not check that the command's session exists.
func NewCommandsRepository(seshRepo dao.SessionRepository) *InMemoryCommandsRepository {
	return &InMemoryCommandsRepository{
		seshRepo:      seshRepo,
		coms:          make(map[uuid.UUID]dao.Command),
		bySeshIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryCommandsRepository struct {
	coms          map[uuid.UUID]dao.Command
	seshRepo      dao.SessionRepository
	bySeshIDIndex map[uuid.UUID][]uuid.UUID
}

func (imcr *InMemoryCommandsRepository) Close() error {
	return nil
}

func (imcr *InMemoryCommandsRepository) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Command{}, fmt.Errorf("could not generate ID: %w", err)
	}

	c.ID = newUUID
	c.Created = time.Now()

	if imcr.seshRepo != nil {
		_, err := imcr.seshRepo.GetByID(ctx, c.SessionID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return dao.Command{}, dao.ErrConstraintViolation
			} else {
				return dao.Command{}, err
			}
		}
	}

	imcr.coms[c.ID] = c

	seshComs := imcr.bySeshIDIndex[c.SessionID]
	seshComs = append(seshComs, c.ID)
	imcr.bySeshIDIndex[c.SessionID] = seshComs

	return c, nil
}

func (imcr *InMemoryCommandsRepository) GetAll(ctx context.Context) ([]dao.Command, error) {
	all := make([]dao.Command, len(imcr.coms))

	i := 0
	for k := range imcr.coms {
		all[i] = imcr.coms[k]
		i++
	}

	all = util.SortBy(all, func(l, r dao.Command) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imcr *InMemoryCommandsRepository) GetAllBySession(ctx context.Context, id uuid.UUID) ([]dao.Command, error) {
	bySesh := imcr.bySeshIDIndex[id]
	if len(bySesh) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.Command, len(bySesh))

	for i := range bySesh {
		all[i] = imcr.coms[bySesh[i]]
	}

	// command history is presented in the order it happened
	all = util.SortBy(all, func(l, r dao.Command) bool {
		if l.Created.Equal(r.Created) {
			return l.ID.String() < r.ID.String()
		}
		return l.Created.Before(r.Created)
	})

	return all, nil
}

func (imcr *InMemoryCommandsRepository) Update(ctx context.Context, id uuid.UUID, c dao.Command) (dao.Command, error) {
	existing, ok := imcr.coms[id]
	if !ok {
		return dao.Command{}, dao.ErrNotFound
	}

	// check for conflicts on this table only
	// (inmem does not support enforcement of foreign keys)
	if c.ID != id {
		// that's okay but we need to check it
		if _, ok := imcr.coms[c.ID]; ok {
			return dao.Command{}, dao.ErrConstraintViolation
		}
	}

	imcr.coms[c.ID] = c
	if c.ID != id {
		delete(imcr.coms, id)

		// also update it in the index slice if we are not about to remove it
		if existing.SessionID == c.SessionID {
			bySesh := imcr.bySeshIDIndex[existing.SessionID]
			pos := util.SliceIndexOf(id, bySesh)
			if pos < 0 {
				return dao.Command{}, fmt.Errorf("DB ASSERTION FAILURE: missing index entry for sesh %s to command %s", existing.SessionID, existing.ID)
			}
			bySesh[pos] = c.ID
			imcr.bySeshIDIndex[existing.SessionID] = bySesh
		}
	}

	if c.SessionID != existing.SessionID {
		// if we're modifying the session, we must remove it from old index
		// entry and put it into another.
		bySesh := imcr.bySeshIDIndex[existing.SessionID]
		updated := util.SliceRemove(existing.ID, bySesh)
		imcr.bySeshIDIndex[existing.SessionID] = updated
		if len(updated) < 1 {
			delete(imcr.bySeshIDIndex, existing.SessionID)
		}

		newBySesh := imcr.bySeshIDIndex[c.SessionID]
		newBySesh = append(newBySesh, c.ID)
		imcr.bySeshIDIndex[c.SessionID] = newBySesh
	}

	return c, nil
}

func (imcr *InMemoryCommandsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	c, ok := imcr.coms[id]
	if !ok {
		return dao.Command{}, dao.ErrNotFound
	}

	return c, nil
}

func (imcr *InMemoryCommandsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	c, ok := imcr.coms[id]
	if !ok {
		return dao.Command{}, dao.ErrNotFound
	}

	bySesh := imcr.bySeshIDIndex[c.SessionID]
	updated := util.SliceRemove(c.ID, bySesh)
	imcr.bySeshIDIndex[c.SessionID] = updated
	if len(updated) < 1 {
		delete(imcr.bySeshIDIndex, c.SessionID)
	}

	delete(imcr.coms, c.ID)

	return c, nil
}
