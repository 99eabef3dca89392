package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/dekarrin/minnowquest/server/dao/inmem"
	"github.com/stretchr/testify/assert"
)

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{
			name:      "no header",
			header:    "",
			expectErr: true,
		},
		{
			name:   "bearer token",
			header: "Bearer sometoken",
			expect: "sometoken",
		},
		{
			name:   "scheme is case-insensitive",
			header: "bearer sometoken",
			expect: "sometoken",
		},
		{
			name:      "wrong scheme",
			header:    "Basic dXNlcjpwYXNz",
			expectErr: true,
		},
		{
			name:      "no scheme",
			header:    "sometoken",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			tok, err := Get(req)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, tok)
		})
	}
}

func Test_GenerateAndValidate(t *testing.T) {
	secret := []byte("test-secret-test-secret-test-secret!")
	ctx := context.Background()

	newUserDB := func(t *testing.T) (dao.UserRepository, dao.User) {
		db := inmem.NewDatastore().Users()
		u, err := db.Create(ctx, dao.User{
			Username: "vriska",
			Password: "c29tZWJjcnlwdGhhc2g=",
			Role:     dao.Normal,
		})
		if err != nil {
			t.Fatalf("could not create test user: %v", err)
		}
		return db, u
	}

	t.Run("round trip", func(t *testing.T) {
		assert := assert.New(t)
		db, u := newUserDB(t)

		tok, err := Generate(secret, u)
		assert.NoError(err)
		assert.NotEmpty(tok)

		validatedUser, err := Validate(ctx, tok, secret, db)
		assert.NoError(err)
		assert.Equal(u.ID, validatedUser.ID)
		assert.Equal(u.Username, validatedUser.Username)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		assert := assert.New(t)
		db, u := newUserDB(t)

		tok, err := Generate(secret, u)
		assert.NoError(err)

		_, err = Validate(ctx, tok, []byte("a completely different secret, yes"), db)
		assert.Error(err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		assert := assert.New(t)
		db, _ := newUserDB(t)

		_, err := Validate(ctx, "not.a.jwt", secret, db)
		assert.Error(err)
	})

	t.Run("password change invalidates old tokens", func(t *testing.T) {
		assert := assert.New(t)
		db, u := newUserDB(t)

		tok, err := Generate(secret, u)
		assert.NoError(err)

		u.Password = "YW5ldy1oYXNoLWVudGlyZWx5"
		_, err = db.Update(ctx, u.ID, u)
		assert.NoError(err)

		_, err = Validate(ctx, tok, secret, db)
		assert.Error(err)
	})

	t.Run("logout invalidates old tokens", func(t *testing.T) {
		assert := assert.New(t)
		db, u := newUserDB(t)

		tok, err := Generate(secret, u)
		assert.NoError(err)

		u.LastLogoutTime = u.LastLogoutTime.Add(time.Hour)
		_, err = db.Update(ctx, u.ID, u)
		assert.NoError(err)

		_, err = Validate(ctx, tok, secret, db)
		assert.Error(err)
	})

	t.Run("token for deleted user is rejected", func(t *testing.T) {
		assert := assert.New(t)
		db, u := newUserDB(t)

		tok, err := Generate(secret, u)
		assert.NoError(err)

		_, err = db.Delete(ctx, u.ID)
		assert.NoError(err)

		_, err = Validate(ctx, tok, secret, db)
		assert.Error(err)
	})
}
