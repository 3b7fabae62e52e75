package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	repo "github.com/oksasatya/brew-catalog-api/internal/domain/repository"
)

// AuthService drives the session lifecycle: signup and login attach a
// public user to the session, logout destroys it.
type AuthService struct {
	Directory *Directory
	Sessions  repo.SessionStore
	Logger    *logrus.Logger
}

func NewAuthService(dir *Directory, sessions repo.SessionStore, logger *logrus.Logger) *AuthService {
	return &AuthService{Directory: dir, Sessions: sessions, Logger: logger}
}

// Signup creates the user and authenticates sess as that user.
func (s *AuthService) Signup(ctx context.Context, sess *entity.Session, in SignupInput) (entity.PublicUser, error) {
	u, err := s.Directory.CreateUser(ctx, in)
	if err != nil {
		return entity.PublicUser{}, err
	}
	pub := u.Public()
	if err := s.attach(ctx, sess, pub); err != nil {
		return entity.PublicUser{}, err
	}
	metricSignups.Add(1)
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user signed up")
	}
	return pub, nil
}

// Login accepts a username or an email as identifier. Unknown accounts and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, sess *entity.Session, identifier, password string) (entity.PublicUser, error) {
	u, err := s.Directory.FindUser(ctx, repo.UsernameOrEmail(identifier))
	if errors.Is(err, repo.ErrNotFound) {
		metricLoginsFailed.Add(1)
		return entity.PublicUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return entity.PublicUser{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.Directory.Compare(ctx, u, password)
	if err != nil {
		return entity.PublicUser{}, fmt.Errorf("compare credentials for %s: %w", u.ID, err)
	}
	if !ok {
		metricLoginsFailed.Add(1)
		return entity.PublicUser{}, ErrInvalidCredentials
	}

	pub := u.Public()
	if err := s.attach(ctx, sess, pub); err != nil {
		return entity.PublicUser{}, err
	}
	metricLogins.Add(1)
	return pub, nil
}

// Logout destroys sess in the store and resets it to anonymous. A session
// that was never persisted has nothing to destroy.
func (s *AuthService) Logout(ctx context.Context, sess *entity.Session) error {
	if sess.Persisted() {
		if err := s.Sessions.Destroy(ctx, sess.ID); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}
	*sess = entity.Session{}
	metricLogouts.Add(1)
	return nil
}

// attach stores pub on the session, creating the record on first use and
// overwriting any previous user otherwise. sess is left untouched on error.
func (s *AuthService) attach(ctx context.Context, sess *entity.Session, pub entity.PublicUser) error {
	next := *sess
	next.User = &pub

	var err error
	if next.Persisted() {
		err = s.Sessions.Update(ctx, &next)
		if errors.Is(err, repo.ErrSessionNotFound) {
			next.ID = ""
		}
	}
	if !next.Persisted() {
		err = s.Sessions.Create(ctx, &next)
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	*sess = next
	return nil
}
