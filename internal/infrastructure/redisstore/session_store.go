package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	"github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
)

const (
	sessionIDBytes  = 32
	maxCreateTries  = 3
	defaultTTL      = 24 * time.Hour
	defaultKeyspace = "sess:"
)

// SessionStore keeps sessions as JSON under prefix+id with a TTL, so expired
// records disappear without a sweeper.
type SessionStore struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
	newID  func() (string, error)
}

func NewSessionStore(rdb redis.Cmdable, prefix string, ttl time.Duration) *SessionStore {
	if prefix == "" {
		prefix = defaultKeyspace
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SessionStore{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		now:    time.Now,
		newID:  func() (string, error) { return helpers.GenToken(sessionIDBytes) },
	}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

func (s *SessionStore) Create(ctx context.Context, sess *entity.Session) error {
	now := s.now().UTC()
	for i := 0; i < maxCreateTries; i++ {
		id, err := s.newID()
		if err != nil {
			return oops.With("operation", "generate session id").Wrap(err)
		}
		rec := *sess
		rec.ID = id
		rec.CreatedAt = now
		rec.ExpiresAt = now.Add(s.ttl)

		ok, err := helpers.RedisSetNXJSON(ctx, s.rdb, s.key(id), rec, s.ttl)
		if err != nil {
			return oops.With("operation", "create session").Wrap(err)
		}
		if ok {
			*sess = rec
			return nil
		}
	}
	return oops.Code("SESSION_ID_COLLISION").Errorf("could not allocate a unique session id")
}

func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return nil, repository.ErrSessionNotFound
	}
	var sess entity.Session
	found, err := helpers.RedisGetJSON(ctx, s.rdb, s.key(id), &sess)
	if err != nil {
		return nil, oops.With("operation", "get session").Wrap(err)
	}
	if !found || sess.Expired(s.now()) {
		return nil, repository.ErrSessionNotFound
	}
	return &sess, nil
}

// Update rewrites the record and restarts its expiry. The write only lands
// if the key is still there, so an expired or destroyed session is not
// resurrected.
func (s *SessionStore) Update(ctx context.Context, sess *entity.Session) error {
	if sess.ID == "" {
		return repository.ErrSessionNotFound
	}
	rec := *sess
	rec.ExpiresAt = s.now().UTC().Add(s.ttl)
	ok, err := helpers.RedisSetXXJSON(ctx, s.rdb, s.key(sess.ID), rec, s.ttl)
	if err != nil {
		return oops.With("operation", "update session").Wrap(err)
	}
	if !ok {
		return repository.ErrSessionNotFound
	}
	*sess = rec
	return nil
}

func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := helpers.RedisDel(ctx, s.rdb, s.key(id)); err != nil && !errors.Is(err, redis.Nil) {
		return oops.With("operation", "destroy session").Wrap(err)
	}
	return nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
