package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("not found")

// UserField names a user column that can be matched by a predicate.
type UserField string

const (
	UserFieldUsername UserField = "username"
	UserFieldEmail    UserField = "email"
)

type UserMatch struct {
	Field UserField
	Value string
}

// UserPredicate matches a user when any of its clauses matches.
type UserPredicate struct {
	AnyOf []UserMatch
}

func ByUsername(v string) UserPredicate {
	return UserPredicate{AnyOf: []UserMatch{{Field: UserFieldUsername, Value: v}}}
}

func ByEmail(v string) UserPredicate {
	return UserPredicate{AnyOf: []UserMatch{{Field: UserFieldEmail, Value: v}}}
}

// UsernameOrEmail is the login lookup: OR(username = v, email = v).
func UsernameOrEmail(v string) UserPredicate {
	return UserPredicate{AnyOf: []UserMatch{
		{Field: UserFieldUsername, Value: v},
		{Field: UserFieldEmail, Value: v},
	}}
}

// UserRepository defines the interface for user-related database operations.
// Create must reject duplicate usernames and emails with a *validation.Error.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindOne(ctx context.Context, p UserPredicate) (*entity.User, error)
}
