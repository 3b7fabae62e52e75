package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	"github.com/oksasatya/brew-catalog-api/internal/domain/repository"
)

const userColumns = `id::text, username, email, firstname, lastname, password_hash, created_at, updated_at`

var userConstraints = map[string]uniqueField{
	"users_username_key": {field: "username", message: "A user with this username already exists."},
	"users_email_key":    {field: "email", message: "A user with this email already exists."},
}

// userColumnFor whitelists the columns a predicate may reference.
var userColumnFor = map[repository.UserField]string{
	repository.UserFieldUsername: "username",
	repository.UserFieldEmail:    "email",
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, firstname, lastname, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at, updated_at
	`, u.Username, u.Email, u.Firstname, u.Lastname, u.PasswordHash)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if verr := asUniqueViolation(err, "user", userConstraints); verr != nil {
			return verr
		}
		return oops.With("operation", "insert user").With("username", u.Username).Wrap(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, "get user by id")
}

// FindOne returns the oldest user matching any clause of p.
func (r *UserRepository) FindOne(ctx context.Context, p repository.UserPredicate) (*entity.User, error) {
	if len(p.AnyOf) == 0 {
		return nil, oops.Code("EMPTY_PREDICATE").Errorf("user predicate has no clauses")
	}
	clauses := make([]string, 0, len(p.AnyOf))
	args := make([]any, 0, len(p.AnyOf))
	for i, m := range p.AnyOf {
		col, ok := userColumnFor[m.Field]
		if !ok {
			return nil, oops.Code("UNKNOWN_FIELD").With("field", m.Field).Errorf("cannot match users on %q", m.Field)
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, m.Value)
	}

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+
		strings.Join(clauses, " OR ")+` ORDER BY created_at LIMIT 1`, args...)
	return scanUser(row, "find user")
}

func scanUser(row pgx.Row, op string) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Firstname, &u.Lastname,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.With("operation", op).Wrap(err)
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
