package session

import (
	"context"
	"errors"
	"testing"

	"bookclub-cli/internal/model"
	"bookclub-cli/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	err   error
	calls int
}

func (f *fakeRemote) Logout(context.Context) error {
	f.calls++
	return f.err
}

func TestOpen_AuthenticatedIffTokenStored(t *testing.T) {
	ctx := context.Background()

	empty, err := Open(ctx, store.NewMemory(), nil)
	require.NoError(t, err)
	assert.False(t, empty.Snapshot().Authenticated)

	kv := store.NewMemory()
	require.NoError(t, kv.Put(ctx, map[string]string{KeyUserID: "7", KeyAccessToken: "tok"}))
	s, err := Open(ctx, kv, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Session{UserID: "7", Token: "tok", Authenticated: true}, s.Snapshot())
	assert.Equal(t, "tok", s.Token())
}

func TestLogin_PersistsAndFlips(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s, err := Open(ctx, kv, nil)
	require.NoError(t, err)

	require.NoError(t, s.Login(ctx, "42", "secret"))
	assert.True(t, s.Snapshot().Authenticated)

	tok, err := kv.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "secret", tok)
	uid, err := kv.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "42", uid)
	assert.Equal(t, "42", s.Snapshot().UserID)
}

func TestLogin_RejectsEmptyToken(t *testing.T) {
	s, err := Open(context.Background(), store.NewMemory(), nil)
	require.NoError(t, err)
	require.Error(t, s.Login(context.Background(), "1", "  "))
	assert.False(t, s.Snapshot().Authenticated)
}

func TestLogout_SuccessClearsState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s, err := Open(ctx, kv, nil)
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "42", "secret"))

	remote := &fakeRemote{}
	require.NoError(t, s.Logout(ctx, remote))

	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, model.Session{}, s.Snapshot())
	_, err = kv.Get(ctx, KeyAccessToken)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = kv.Get(ctx, KeyUserID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout_FailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s, err := Open(ctx, kv, nil)
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "42", "secret"))

	boom := errors.New("network down")
	err = s.Logout(ctx, &fakeRemote{err: boom})
	require.ErrorIs(t, err, boom)

	assert.True(t, s.Snapshot().Authenticated)
	tok, err := kv.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "secret", tok)
	uid, err := kv.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "42", uid)
}

func TestClear_DoesNotNeedServer(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, store.NewMemory(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "42", "secret"))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Snapshot().Authenticated)
	assert.Equal(t, "", s.Token())
}
