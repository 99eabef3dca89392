package minnows

import (
	"context"
	"testing"

	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/dekarrin/minnowquest/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_Service_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("normal creation", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		u, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "vriska@example.com", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		assert.NotEqual(uuid.UUID{}, u.ID)
		assert.Equal("vriska", u.Username)
		assert.Equal(dao.Normal, u.Role)
		if assert.NotNil(u.Email) {
			assert.Equal("vriska@example.com", u.Email.Address)
		}

		// the password must never be stored as given
		assert.NotEqual("m1nd(f4ng)", u.Password)
		assert.NotEmpty(u.Password)
	})

	t.Run("email is optional", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		u, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		assert.NoError(err)
		assert.Nil(u.Email)
	})

	t.Run("blank username", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.CreateUser(ctx, "", "m1nd(f4ng)", "", dao.Normal)
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("blank password", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.CreateUser(ctx, "vriska", "", "", dao.Normal)
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("invalid email", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "not-an-email", dao.Normal)
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("duplicate username", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		_, err = svc.CreateUser(ctx, "vriska", "other", "", dao.Admin)
		assert.ErrorIs(err, serr.ErrAlreadyExists)
	})
}

func Test_Service_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		created, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		got, err := svc.GetUser(ctx, created.ID.String())
		assert.NoError(err)
		assert.Equal(created.ID, got.ID)
		assert.Equal("vriska", got.Username)
	})

	t.Run("malformed ID", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.GetUser(ctx, "not-a-uuid")
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("user does not exist", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.GetUser(ctx, uuid.NewString())
		assert.ErrorIs(err, serr.ErrNotFound)
	})
}

func Test_Service_GetAllUsers(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService(t)

	users, err := svc.GetAllUsers(ctx)
	assert.NoError(err)
	assert.Len(users, 0)

	_, err = svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}
	_, err = svc.CreateUser(ctx, "nepeta", ":33<pounce", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	users, err = svc.GetAllUsers(ctx)
	assert.NoError(err)
	assert.Len(users, 2)
}

func Test_Service_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("change username and role", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		created, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		idStr := created.ID.String()
		updated, err := svc.UpdateUser(ctx, idStr, idStr, "mindfang", "", dao.Admin)
		assert.NoError(err)
		assert.Equal(created.ID, updated.ID)
		assert.Equal("mindfang", updated.Username)
		assert.Equal(dao.Admin, updated.Role)
	})

	t.Run("change ID", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		created, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		newID := uuid.New()
		updated, err := svc.UpdateUser(ctx, created.ID.String(), newID.String(), "vriska", "", dao.Normal)
		assert.NoError(err)
		assert.Equal(newID, updated.ID)

		// the old ID no longer resolves
		_, err = svc.GetUser(ctx, created.ID.String())
		assert.ErrorIs(err, serr.ErrNotFound)
	})

	t.Run("username already taken", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}
		other, err := svc.CreateUser(ctx, "nepeta", ":33<pounce", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		idStr := other.ID.String()
		_, err = svc.UpdateUser(ctx, idStr, idStr, "vriska", "", dao.Normal)
		assert.ErrorIs(err, serr.ErrAlreadyExists)
	})

	t.Run("blank username", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		idStr := uuid.NewString()
		_, err := svc.UpdateUser(ctx, idStr, idStr, "", "", dao.Normal)
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("malformed current ID", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.UpdateUser(ctx, "not-a-uuid", uuid.NewString(), "vriska", "", dao.Normal)
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("user does not exist", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		idStr := uuid.NewString()
		_, err := svc.UpdateUser(ctx, idStr, idStr, "vriska", "", dao.Normal)
		assert.ErrorIs(err, serr.ErrNotFound)
	})
}

func Test_Service_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("login works only with the new password", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		created, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		_, err = svc.UpdatePassword(ctx, created.ID.String(), "88888888")
		if !assert.NoError(err) {
			return
		}

		_, err = svc.Login(ctx, "vriska", "88888888")
		assert.NoError(err)

		_, err = svc.Login(ctx, "vriska", "m1nd(f4ng)")
		assert.ErrorIs(err, serr.ErrBadCredentials)
	})

	t.Run("blank password", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.UpdatePassword(ctx, uuid.NewString(), "")
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("malformed ID", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.UpdatePassword(ctx, "not-a-uuid", "8888")
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("user does not exist", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.UpdatePassword(ctx, uuid.NewString(), "8888")
		assert.ErrorIs(err, serr.ErrNotFound)
	})
}

func Test_Service_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		created, err := svc.CreateUser(ctx, "vriska", "m1nd(f4ng)", "", dao.Normal)
		if !assert.NoError(err) {
			return
		}

		deleted, err := svc.DeleteUser(ctx, created.ID.String())
		assert.NoError(err)
		assert.Equal(created.ID, deleted.ID)

		_, err = svc.GetUser(ctx, created.ID.String())
		assert.ErrorIs(err, serr.ErrNotFound)
	})

	t.Run("malformed ID", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.DeleteUser(ctx, "not-a-uuid")
		assert.ErrorIs(err, serr.ErrBadArgument)
	})

	t.Run("user does not exist", func(t *testing.T) {
		assert := assert.New(t)
		svc := newTestService(t)

		_, err := svc.DeleteUser(ctx, uuid.NewString())
		assert.ErrorIs(err, serr.ErrNotFound)
	})
}
