package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	repo "github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   []*entity.User
	nextID  int
	findErr error
	// createErr is returned by Create instead of storing the user.
	createErr error
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, x := range r.users {
		if x.Username == u.Username {
			return validation.NewError("user", map[string]string{"username": msgUsernameTaken})
		}
		if x.Email == u.Email {
			return validation.NewError("user", map[string]string{"email": msgEmailTaken})
		}
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) FindOne(_ context.Context, p repo.UserPredicate) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		for _, m := range p.AnyOf {
			if (m.Field == repo.UserFieldUsername && u.Username == m.Value) ||
				(m.Field == repo.UserFieldEmail && u.Email == m.Value) {
				cp := *u
				return &cp, nil
			}
		}
	}
	return nil, repo.ErrNotFound
}

type fakeSessionStore struct {
	mu         sync.Mutex
	sessions   map[string]entity.Session
	seq        int
	createErr  error
	updateErr  error
	destroyErr error
	destroyed  []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]entity.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	s.ID = fmt.Sprintf("sid-%d", f.seq)
	s.CreatedAt = time.Now()
	s.ExpiresAt = s.CreatedAt.Add(time.Hour)
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repo.ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeSessionStore) Update(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.sessions[s.ID]; !ok {
		return repo.ErrSessionNotFound
	}
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionStore) Destroy(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, id)
	delete(f.sessions, id)
	return nil
}

type fakeBeerRepo struct {
	mu        sync.Mutex
	beers     []entity.Beer
	createErr error
	searchErr error
	searched  []string
}

func (r *fakeBeerRepo) Create(_ context.Context, b *entity.Beer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	b.ID = fmt.Sprintf("beer-%d", len(r.beers)+1)
	b.CreatedAt = time.Now()
	r.beers = append(r.beers, *b)
	return nil
}

func (r *fakeBeerRepo) GetByID(_ context.Context, id string) (*entity.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.beers {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeBeerRepo) GetByName(_ context.Context, name string) (*entity.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.beers {
		if b.Name == name {
			cp := b
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeBeerRepo) List(_ context.Context, limit, offset int) ([]entity.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Beer, 0, len(r.beers))
	for i := len(r.beers) - 1; i >= 0; i-- {
		out = append(out, r.beers[i])
	}
	if offset >= len(out) {
		return []entity.Beer{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBeerRepo) Search(_ context.Context, query string, limit int) ([]entity.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searched = append(r.searched, query)
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	var out []entity.Beer
	for _, b := range r.beers {
		if strings.Contains(strings.ToLower(b.Name+" "+b.Tagline+" "+b.Description+" "+b.BrewersTips), strings.ToLower(query)) {
			out = append(out, b)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeImageStore struct {
	uploaded  map[string][]byte
	deleted   []string
	uploadErr error
}

func (f *fakeImageStore) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[objectPath] = b
	return "https://storage.example/" + objectPath, nil
}

func (f *fakeImageStore) Delete(_ context.Context, objectPath string) error {
	f.deleted = append(f.deleted, objectPath)
	return nil
}

type fakeIndex struct {
	indexed   []string
	results   []entity.Beer
	searchErr error
}

func (f *fakeIndex) Index(_ context.Context, b *entity.Beer) error {
	f.indexed = append(f.indexed, b.ID)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _ int) ([]entity.Beer, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

type fakePublisher struct {
	jobs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, body)
	return nil
}

var errBoom = errors.New("boom")
