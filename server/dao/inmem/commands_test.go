package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_Commands_Create_checksSessionExists(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	seshRepo := NewSessionsRepository()
	repo := NewCommandsRepository(seshRepo)

	_, err := repo.Create(ctx, dao.Command{
		SessionID: uuid.New(),
		Input:     "LOOK",
	})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	sesh, err := seshRepo.Create(ctx, dao.Session{UserID: uuid.New(), World: "world"})
	assert.NoError(err)

	created, err := repo.Create(ctx, dao.Command{
		SessionID: sesh.ID,
		UserID:    sesh.UserID,
		Input:     "LOOK",
		Response:  "You are in a room.",
	})
	assert.NoError(err)
	assert.NotEqual(uuid.UUID{}, created.ID)
	assert.False(created.Created.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	assert.NoError(err)
	assert.Equal(created, got)
}

func Test_Commands_Create_noSessionRepo(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	// without a session repo there is no foreign key to enforce
	repo := NewCommandsRepository(nil)

	_, err := repo.Create(ctx, dao.Command{
		SessionID: uuid.New(),
		Input:     "LOOK",
	})
	assert.NoError(err)
}

func Test_Commands_GetAllBySession(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	repo := NewCommandsRepository(nil)
	seshID := uuid.New()

	_, err := repo.GetAllBySession(ctx, seshID)
	assert.ErrorIs(err, dao.ErrNotFound)

	c1, err := repo.Create(ctx, dao.Command{SessionID: seshID, Input: "LOOK"})
	assert.NoError(err)
	c2, err := repo.Create(ctx, dao.Command{SessionID: seshID, Input: "GO NORTH"})
	assert.NoError(err)
	c3, err := repo.Create(ctx, dao.Command{SessionID: seshID, Input: "TAKE SPOON"})
	assert.NoError(err)

	// commands for some other session must not show up
	_, err = repo.Create(ctx, dao.Command{SessionID: uuid.New(), Input: "QUIT"})
	assert.NoError(err)

	// force distinct timestamps so the history order is deterministic
	base := time.Now()
	c2.Created = base
	c3.Created = base.Add(time.Second)
	c1.Created = base.Add(2 * time.Second)
	for _, c := range []dao.Command{c1, c2, c3} {
		_, err = repo.Update(ctx, c.ID, c)
		assert.NoError(err)
	}

	got, err := repo.GetAllBySession(ctx, seshID)
	assert.NoError(err)
	assert.Len(got, 3)

	// history comes back in the order the commands happened
	assert.Equal("GO NORTH", got[0].Input)
	assert.Equal("TAKE SPOON", got[1].Input)
	assert.Equal("LOOK", got[2].Input)
}

func Test_Commands_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("update ID re-keys the command and its index entry", func(t *testing.T) {
		assert := assert.New(t)
		repo := NewCommandsRepository(nil)
		seshID := uuid.New()

		created, err := repo.Create(ctx, dao.Command{SessionID: seshID, Input: "LOOK"})
		assert.NoError(err)
		oldID := created.ID

		created.ID = uuid.New()
		_, err = repo.Update(ctx, oldID, created)
		assert.NoError(err)

		_, err = repo.GetByID(ctx, oldID)
		assert.ErrorIs(err, dao.ErrNotFound)

		bySesh, err := repo.GetAllBySession(ctx, seshID)
		assert.NoError(err)
		assert.Len(bySesh, 1)
		assert.Equal(created.ID, bySesh[0].ID)
	})

	t.Run("update SessionID migrates the index entry", func(t *testing.T) {
		assert := assert.New(t)
		repo := NewCommandsRepository(nil)

		oldSesh := uuid.New()
		newSesh := uuid.New()

		created, err := repo.Create(ctx, dao.Command{SessionID: oldSesh, Input: "LOOK"})
		assert.NoError(err)

		created.SessionID = newSesh
		_, err = repo.Update(ctx, created.ID, created)
		assert.NoError(err)

		_, err = repo.GetAllBySession(ctx, oldSesh)
		assert.ErrorIs(err, dao.ErrNotFound)

		byNew, err := repo.GetAllBySession(ctx, newSesh)
		assert.NoError(err)
		assert.Len(byNew, 1)
		assert.Equal(created.ID, byNew[0].ID)
	})

	t.Run("update missing command", func(t *testing.T) {
		assert := assert.New(t)
		repo := NewCommandsRepository(nil)

		_, err := repo.Update(ctx, uuid.New(), dao.Command{Input: "LOOK"})
		assert.ErrorIs(err, dao.ErrNotFound)
	})
}

func Test_Commands_Delete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	repo := NewCommandsRepository(nil)
	seshID := uuid.New()

	created, err := repo.Create(ctx, dao.Command{SessionID: seshID, Input: "LOOK"})
	assert.NoError(err)

	deleted, err := repo.Delete(ctx, created.ID)
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.GetAllBySession(ctx, seshID)
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(err, dao.ErrNotFound)
}
