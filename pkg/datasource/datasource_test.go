package datasource_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temma-framework/temma/pkg/datasource"
)

func TestOpenRejectsBadDSNs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := datasource.Open(ctx, "")
	require.ErrorIs(t, err, datasource.ErrEmptyDSN)

	_, err = datasource.Open(ctx, "carrier-pigeon://coop")
	require.ErrorIs(t, err, datasource.ErrUnknownScheme)
}

func TestOpenAllFailsFast(t *testing.T) {
	t.Parallel()

	_, err := datasource.OpenAll(context.Background(), map[string]string{
		"bad": "carrier-pigeon://coop",
	})
	require.ErrorIs(t, err, datasource.ErrUnknownScheme)
	require.Contains(t, err.Error(), `"bad"`)
}

func TestOpenFileDispatch(t *testing.T) {
	t.Parallel()

	src, err := datasource.Open(context.Background(), "file://"+t.TempDir())
	require.NoError(t, err)
	_, ok := src.(*datasource.FileSource)
	require.True(t, ok)
}

func TestFileSourceRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src, err := datasource.OpenFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, src.Set(ctx, "greeting", []byte("hello"), 0))
	got, err := src.Get(ctx, "greeting")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	require.NoError(t, src.Delete(ctx, "greeting"))
	_, err = src.Get(ctx, "greeting")
	require.ErrorIs(t, err, datasource.ErrNotFound)
}

func TestFileSourceKeysWithSeparators(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src, err := datasource.OpenFile(t.TempDir())
	require.NoError(t, err)

	// Keys are hex-encoded in filenames, so path separators cannot
	// escape the base directory.
	key := "../outside/secret"
	require.NoError(t, src.Set(ctx, key, []byte("v"), time.Minute))
	got, err := src.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestFileSourceDeleteAbsentKey(t *testing.T) {
	t.Parallel()

	src, err := datasource.OpenFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, src.Delete(context.Background(), "absent"))
}

func TestFileSourcePing(t *testing.T) {
	t.Parallel()

	src, err := datasource.OpenFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, src.Ping(context.Background()))
	require.NoError(t, src.Close())
}

func TestOpenFileEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := datasource.OpenFile("")
	require.ErrorIs(t, err, datasource.ErrEmptyDSN)
}

func TestOpenMemcacheParsesServers(t *testing.T) {
	t.Parallel()

	src, err := datasource.OpenMemcache("memcache://cache1:11211, cache2:11211")
	require.NoError(t, err)
	require.NotNil(t, src)

	_, err = datasource.OpenMemcache("memcache://")
	require.ErrorIs(t, err, datasource.ErrEmptyDSN)
}

func TestHealthcheckAndShutdownAdapters(t *testing.T) {
	t.Parallel()

	src, err := datasource.OpenFile(t.TempDir())
	require.NoError(t, err)

	check := datasource.Healthcheck(src)
	require.NoError(t, check(context.Background()))

	hook := datasource.Shutdown(src)
	require.NoError(t, hook(context.Background()))
}

func TestOpenRedisRejectsMalformedDSN(t *testing.T) {
	t.Parallel()

	_, err := datasource.OpenRedis(context.Background(), "redis://[bad")
	require.ErrorIs(t, err, datasource.ErrConnectionFailed)
}

func TestOpenSQLRejectsMalformedDSN(t *testing.T) {
	t.Parallel()

	_, err := datasource.OpenSQL(context.Background(), "postgres://u:p@host:notaport/db")
	require.ErrorIs(t, err, datasource.ErrConnectionFailed)
}
