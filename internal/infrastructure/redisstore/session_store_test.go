package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	"github.com/oksasatya/brew-catalog-api/internal/domain/repository"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb, "test-sess:", ttl), mr
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	sess := &entity.Session{User: &entity.PublicUser{ID: "u-1", Username: "MasterBrew"}}
	require.NoError(t, store.Create(ctx, sess))
	assert.Len(t, sess.ID, 43)
	assert.WithinDuration(t, time.Now().Add(time.Minute), sess.ExpiresAt, 5*time.Second)
	assert.True(t, mr.Exists("test-sess:"+sess.ID))
	assert.Equal(t, time.Minute, mr.TTL("test-sess:"+sess.ID))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "MasterBrew", got.User.Username)

	sess.User = &entity.PublicUser{ID: "u-2", Username: "Hoppy"}
	require.NoError(t, store.Update(ctx, sess))
	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hoppy", got.User.Username)

	require.NoError(t, store.Destroy(ctx, sess.ID))
	assert.False(t, mr.Exists("test-sess:"+sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.NoError(t, store.Destroy(ctx, sess.ID))
}

func TestSessionStore_CreateRetriesOnCollision(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	ids := []string{"taken", "taken", "fresh"}
	store.newID = func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
	first := &entity.Session{}
	require.NoError(t, store.Create(ctx, first))
	assert.Equal(t, "taken", first.ID)

	second := &entity.Session{}
	require.NoError(t, store.Create(ctx, second))
	assert.Equal(t, "fresh", second.ID)
}

func TestSessionStore_CreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()
	store.newID = func() (string, error) { return "same", nil }

	require.NoError(t, store.Create(ctx, &entity.Session{}))

	sess := &entity.Session{}
	err := store.Create(ctx, sess)
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "SESSION_ID_COLLISION", oopsErr.Code())
	assert.Empty(t, sess.ID)
}

func TestSessionStore_UpdateMissing(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	err := store.Update(context.Background(), &entity.Session{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.False(t, mr.Exists("test-sess:missing"))
}

func TestSessionStore_UpdateAfterDestroyDoesNotResurrect(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	sess := &entity.Session{}
	require.NoError(t, store.Create(ctx, sess))
	require.NoError(t, store.Destroy(ctx, sess.ID))

	sess.User = &entity.PublicUser{ID: "u-1", Username: "MasterBrew"}
	err := store.Update(ctx, sess)

	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.False(t, mr.Exists("test-sess:"+sess.ID))
}

func TestSessionStore_UpdateRestartsExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	sess := &entity.Session{}
	require.NoError(t, store.Create(ctx, sess))
	mr.FastForward(40 * time.Second)
	assert.Equal(t, 20*time.Second, mr.TTL("test-sess:"+sess.ID))

	require.NoError(t, store.Update(ctx, sess))
	assert.Equal(t, time.Minute, mr.TTL("test-sess:"+sess.ID))
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()
	sess := &entity.Session{}
	require.NoError(t, store.Create(ctx, sess))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.ErrorIs(t, store.Update(ctx, sess), repository.ErrSessionNotFound)
}

func TestSessionStore_ExpiredRecordByClock(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()
	sess := &entity.Session{}
	require.NoError(t, store.Create(ctx, sess))

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionStore_BackendFailure(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()
	mr.SetError("ERR backend unavailable")

	_, err := store.Get(ctx, "sid")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrSessionNotFound)

	assert.Error(t, store.Create(ctx, &entity.Session{}))
	err = store.Update(ctx, &entity.Session{ID: "sid"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrSessionNotFound)
	assert.Error(t, store.Destroy(ctx, "sid"))
}

func TestNewSessionStore_Defaults(t *testing.T) {
	s := NewSessionStore(nil, "", 0)
	assert.Equal(t, defaultKeyspace, s.prefix)
	assert.Equal(t, defaultTTL, s.ttl)
	assert.Equal(t, "sess:abc", s.key("abc"))
}

func TestSessionStore_EmptyID(t *testing.T) {
	s := NewSessionStore(nil, "", 0)
	_, err := s.Get(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.ErrorIs(t, s.Update(context.Background(), &entity.Session{}), repository.ErrSessionNotFound)
	assert.NoError(t, s.Destroy(context.Background(), ""))
}
