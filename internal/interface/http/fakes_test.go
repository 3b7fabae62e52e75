package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/brew-catalog-api/internal/application"
	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	repo "github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	"github.com/oksasatya/brew-catalog-api/internal/interface/middleware"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

func init() { gin.SetMode(gin.TestMode) }

var errBoom = errors.New("pq: connection refused")

type memUsers struct {
	mu      sync.Mutex
	users   []entity.User
	findErr error
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Username == u.Username {
			return validation.NewError("user", map[string]string{"username": "A user with this username already exists."})
		}
	}
	u.ID = fmt.Sprintf("9b2e6c1a-0000-4000-8000-%012d", len(m.users)+1)
	u.CreatedAt = time.Now()
	m.users = append(m.users, *u)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) FindOne(_ context.Context, p repo.UserPredicate) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		for _, c := range p.AnyOf {
			if (c.Field == repo.UserFieldUsername && c.Value == u.Username) ||
				(c.Field == repo.UserFieldEmail && c.Value == u.Email) {
				cp := u
				return &cp, nil
			}
		}
	}
	return nil, repo.ErrNotFound
}

type memSessions struct {
	mu         sync.Mutex
	data       map[string]entity.Session
	seq        int
	destroyErr error
}

func (m *memSessions) Create(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.ID = fmt.Sprintf("sid-%d", m.seq)
	s.CreatedAt = time.Now()
	s.ExpiresAt = s.CreatedAt.Add(time.Hour)
	m.data[s.ID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, repo.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Update(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[s.ID]; !ok {
		return repo.ErrSessionNotFound
	}
	m.data[s.ID] = *s
	return nil
}

func (m *memSessions) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyErr != nil {
		return m.destroyErr
	}
	delete(m.data, id)
	return nil
}

type memBeers struct {
	mu    sync.Mutex
	beers []entity.Beer
}

func (m *memBeers) Create(_ context.Context, b *entity.Beer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = fmt.Sprintf("0b7f6e0a-0000-4000-8000-%012d", len(m.beers)+1)
	b.CreatedAt = time.Now()
	m.beers = append(m.beers, *b)
	return nil
}

func (m *memBeers) GetByID(_ context.Context, id string) (*entity.Beer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.beers {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memBeers) GetByName(_ context.Context, name string) (*entity.Beer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.beers {
		if b.Name == name {
			cp := b
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memBeers) List(_ context.Context, limit, offset int) ([]entity.Beer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Beer{}
	for i := len(m.beers) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.beers[i])
	}
	return out, nil
}

func (m *memBeers) Search(_ context.Context, query string, _ int) ([]entity.Beer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Beer{}
	for _, b := range m.beers {
		if b.Name == query {
			out = append(out, b)
		}
	}
	return out, nil
}

type memImages struct{ objects map[string]int }

func (m *memImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", err
	}
	m.objects[objectPath] = int(n)
	return "https://storage.googleapis.com/test-bucket/" + objectPath, nil
}

func (m *memImages) Delete(_ context.Context, objectPath string) error {
	delete(m.objects, objectPath)
	return nil
}

type testApp struct {
	engine   *gin.Engine
	users    *memUsers
	sessions *memSessions
	beers    *memBeers
	images   *memImages
}

func newTestApp() *testApp {
	app := &testApp{
		users:    &memUsers{},
		sessions: &memSessions{data: map[string]entity.Session{}},
		beers:    &memBeers{},
		images:   &memImages{objects: map[string]int{}},
	}
	logger := helpers.NewNopLogger()
	cookies := helpers.NewSessionCookies("connect.sid", "", false, http.SameSiteLaxMode)

	dir := application.NewDirectory(app.users, helpers.NewPasswordVerifier(bcrypt.MinCost))
	auth := NewAuthHandler(application.NewAuthService(dir, app.sessions, logger), cookies, logger)
	beers := NewBeerHandler(application.NewBeerService(app.beers, app.images, "thing-gallery", nil, nil, logger), 1<<20, logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.Session(app.sessions, cookies, logger))
	r.POST("/auth/signup", auth.Signup)
	r.POST("/auth/login", auth.Login)
	r.GET("/auth/logout", auth.Logout)
	r.POST("/beers", beers.Create)
	r.GET("/beers", beers.List)
	r.GET("/beers/search", beers.Search)
	r.GET("/beers/:id", beers.Get)
	app.engine = r
	return app
}
