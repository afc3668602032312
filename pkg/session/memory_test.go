package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/pkg/session"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := session.New("id-1", time.Now().Add(time.Hour))
	sess.SetValue("theme", "dark")
	require.NoError(t, store.Save(ctx, sess))
	require.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "id-1")
	require.NoError(t, err)
	require.Equal(t, "dark", session.ValueOr(got, "theme", ""))
}

func TestMemoryStoreNotFound(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	_, err := store.Get(context.Background(), "absent")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStoreExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(ctx, session.New("id-1", time.Now().Add(-time.Minute))))

	_, err := store.Get(ctx, "id-1")
	require.ErrorIs(t, err, session.ErrExpired)
	require.Zero(t, store.Len(), "expired sessions are evicted on read")
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(ctx, session.New("id-1", time.Now().Add(time.Hour))))
	require.NoError(t, store.Delete(ctx, "id-1"))
	require.Zero(t, store.Len())

	// Deleting an absent session is not an error.
	require.NoError(t, store.Delete(ctx, "id-1"))
}
