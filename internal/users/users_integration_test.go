//go:build integration
// +build integration

package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseeb1-1/final-grocery/internal/stores/postgres/postgrestest"
	"github.com/haseeb1-1/final-grocery/internal/users"
)

func TestInsertUserAndAuthenticate(t *testing.T) {
	db := postgrestest.NewDB(t)
	uConf, err := users.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := uConf.InsertUser(ctx, users.NewUser{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Address:  "42 Main Street",
		Phone:    "555-0100",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.PasswordHash, "the hash never leaves the store")

	u, err := uConf.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = uConf.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = uConf.Authenticate(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestInsertUserDuplicates(t *testing.T) {
	db := postgrestest.NewDB(t)
	uConf, err := users.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = uConf.InsertUser(ctx, users.NewUser{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = uConf.InsertUser(ctx, users.NewUser{
		Username: "bob",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, users.ErrDuplicateUsername)

	_, err = uConf.InsertUser(ctx, users.NewUser{
		Username: "robert",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, users.ErrDuplicateEmail)
}
