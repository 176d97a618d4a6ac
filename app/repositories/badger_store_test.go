package repositories_test

import (
	"testing"

	"modboard/app/models"
	"modboard/app/repositories"
	"modboard/app/repositories/repotest"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestBadgerStoreContract(t *testing.T) {
	repotest.RunStoreSuite(t, func(t *testing.T) repositories.Store {
		store, err := repositories.OpenBadgerStore(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestBadgerStorePersists(t *testing.T) {
	dir := t.TempDir()

	store, err := repositories.NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Users().Create(&models.User{ClerkID: "user_1", Nickname: "first", Role: models.RoleUser})
	}))
	require.NoError(t, store.Close())

	reopened, err := repositories.NewBadgerStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	require.NoError(t, reopened.View(func(tx repositories.Tx) error {
		u, err := tx.Users().GetByClerkID("user_1")
		require.NoError(t, err)
		require.Equal(t, "first", u.Nickname)
		return nil
	}))

	// The sequence survives the reopen.
	next := &models.User{ClerkID: "user_2", Nickname: "second", Role: models.RoleUser}
	require.NoError(t, reopened.Update(func(tx repositories.Tx) error {
		return tx.Users().Create(next)
	}))
	require.Equal(t, 2, next.ID)
}

func TestBadgerStoreTempDir(t *testing.T) {
	store, err := repositories.NewBadgerStore("")
	require.NoError(t, err)
	require.NoError(t, store.Clear())
	require.NoError(t, store.Close())
}
