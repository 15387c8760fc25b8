package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/f3rmion/hoverword/internal/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "settings.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestEndPointDefault(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	ep, err := s.EndPoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, lookup.DefaultEndPoint, ep)

	require.NoError(t, s.Set(ctx, KeyEndPoint, "  "))
	ep, err = s.EndPoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, lookup.DefaultEndPoint, ep, "blank value falls back to the default")
}

func TestSetEndPointPersists(t *testing.T) {
	s, path := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SetEndPoint(ctx, "http://localhost:9000/"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	ep, err := reopened.EndPoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", ep)
}

func TestSetEndPointRejectsInvalid(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	for _, bad := range []string{"", "localhost:8116", "ftp://host", "http://", "://nope"} {
		err := s.SetEndPoint(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidEndPoint, "endpoint %q", bad)
	}

	_, ok, err := s.Get(ctx, KeyEndPoint)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetSetDeleteAll(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Set(ctx, "a", "3"))

	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, all)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "missing"))

	_, ok, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
