package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	repo "github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

// CredentialVerifier hashes passwords and checks them against stored hashes.
// Compare returns (false, nil) on a mismatch and an error only when the
// comparison itself could not be carried out.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Compare(ctx context.Context, plain, hash string) (bool, error)
}

type SignupInput struct {
	Username  string `json:"username" validate:"required"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

var userMessages = map[string]string{
	"username":  "Please provide a username.",
	"firstname": "Please provide your firstname.",
	"lastname":  "Please provide your lastname.",
	"email":     "Please provide an email address.",
	"password":  "Please provide a password.",
}

const (
	msgUsernameTaken   = "A user with this username already exists."
	msgEmailTaken      = "A user with this email already exists."
	msgPasswordTooLong = "Passwords can be at most 72 bytes long."
	// bcrypt refuses anything longer; counted in bytes, not characters.
	maxPasswordBytes = 72
)

// Directory owns user records: it validates and creates them and answers
// predicate lookups.
type Directory struct {
	Repo     repo.UserRepository
	Verifier CredentialVerifier
}

func NewDirectory(r repo.UserRepository, v CredentialVerifier) *Directory {
	return &Directory{Repo: r, Verifier: v}
}

// CreateUser validates in, checks username and email uniqueness, hashes the
// password and persists the record. Validation problems come back as a
// *validation.Error; the repository's unique constraints catch whatever
// slips between the check and the insert.
func (d *Directory) CreateUser(ctx context.Context, in SignupInput) (*entity.User, error) {
	fields := validation.FieldErrors(in, userMessages)
	if fields == nil {
		fields = map[string]string{}
	}

	if _, bad := fields["password"]; !bad && len(in.Password) > maxPasswordBytes {
		fields["password"] = msgPasswordTooLong
	}
	if _, bad := fields["username"]; !bad {
		taken, err := d.exists(ctx, repo.ByUsername(in.Username))
		if err != nil {
			return nil, err
		}
		if taken {
			fields["username"] = msgUsernameTaken
		}
	}
	if _, bad := fields["email"]; !bad {
		taken, err := d.exists(ctx, repo.ByEmail(in.Email))
		if err != nil {
			return nil, err
		}
		if taken {
			fields["email"] = msgEmailTaken
		}
	}
	if len(fields) > 0 {
		return nil, validation.NewError("user", fields)
	}

	hash, err := d.Verifier.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		PasswordHash: hash,
	}
	if err := d.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindUser returns repo.ErrNotFound when nothing matches p.
func (d *Directory) FindUser(ctx context.Context, p repo.UserPredicate) (*entity.User, error) {
	return d.Repo.FindOne(ctx, p)
}

// Compare checks plain against the record's stored hash.
func (d *Directory) Compare(ctx context.Context, u *entity.User, plain string) (bool, error) {
	return d.Verifier.Compare(ctx, plain, u.PasswordHash)
}

func (d *Directory) exists(ctx context.Context, p repo.UserPredicate) (bool, error) {
	_, err := d.Repo.FindOne(ctx, p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("uniqueness check: %w", err)
	}
}
