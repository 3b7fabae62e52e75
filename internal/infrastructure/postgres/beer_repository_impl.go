package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	"github.com/oksasatya/brew-catalog-api/internal/domain/repository"
)

const beerColumns = `id::text, name, tagline, description, first_brewed, brewers_tips,
	attenuation_level, contributed_by, image_url, owner_id::text, created_at`

var beerConstraints = map[string]uniqueField{
	"beers_name_key": {field: "name", message: "A beer with this name already exists."},
}

type BeerRepository struct {
	db DBTX
}

func NewBeerRepository(db DBTX) *BeerRepository {
	return &BeerRepository{db: db}
}

func (r *BeerRepository) Create(ctx context.Context, b *entity.Beer) error {
	var owner *string
	if b.OwnerID != "" {
		owner = &b.OwnerID
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO beers (name, tagline, description, first_brewed, brewers_tips,
			attenuation_level, contributed_by, image_url, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at
	`, b.Name, b.Tagline, b.Description, b.FirstBrewed, b.BrewersTips,
		b.AttenuationLevel, b.ContributedBy, b.ImageURL, owner)

	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		if verr := asUniqueViolation(err, "beer", beerConstraints); verr != nil {
			return verr
		}
		return oops.With("operation", "insert beer").With("name", b.Name).Wrap(err)
	}
	return nil
}

func (r *BeerRepository) GetByID(ctx context.Context, id string) (*entity.Beer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+beerColumns+` FROM beers WHERE id = $1`, id)
	return scanBeer(row, "get beer by id")
}

func (r *BeerRepository) GetByName(ctx context.Context, name string) (*entity.Beer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+beerColumns+` FROM beers WHERE name = $1`, name)
	return scanBeer(row, "get beer by name")
}

// List returns beers newest first.
func (r *BeerRepository) List(ctx context.Context, limit, offset int) ([]entity.Beer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+beerColumns+` FROM beers
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, oops.With("operation", "list beers").Wrap(err)
	}
	return collectBeers(rows, "list beers")
}

// Search ranks beers against query over the generated search_vector column.
func (r *BeerRepository) Search(ctx context.Context, query string, limit int) ([]entity.Beer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+beerColumns+` FROM beers
		WHERE search_vector @@ websearch_to_tsquery('english', $1)
		ORDER BY ts_rank(search_vector, websearch_to_tsquery('english', $1)) DESC, created_at DESC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, oops.With("operation", "search beers").With("query", query).Wrap(err)
	}
	return collectBeers(rows, "search beers")
}

func collectBeers(rows pgx.Rows, op string) ([]entity.Beer, error) {
	defer rows.Close()
	out := []entity.Beer{}
	for rows.Next() {
		b, err := scanBeer(rows, op)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", op).Wrap(err)
	}
	return out, nil
}

func scanBeer(row pgx.Row, op string) (*entity.Beer, error) {
	b := &entity.Beer{}
	var owner *string
	if err := row.Scan(&b.ID, &b.Name, &b.Tagline, &b.Description, &b.FirstBrewed,
		&b.BrewersTips, &b.AttenuationLevel, &b.ContributedBy, &b.ImageURL, &owner,
		&b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.With("operation", op).Wrap(err)
	}
	if owner != nil {
		b.OwnerID = *owner
	}
	return b, nil
}

var _ repository.BeerRepository = (*BeerRepository)(nil)
