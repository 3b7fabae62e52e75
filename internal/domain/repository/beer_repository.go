package repository

import (
	"context"
	"io"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
)

// BeerRepository persists beers. Create must reject a duplicate name with a
// *validation.Error.
type BeerRepository interface {
	Create(ctx context.Context, b *entity.Beer) error
	GetByID(ctx context.Context, id string) (*entity.Beer, error)
	GetByName(ctx context.Context, name string) (*entity.Beer, error)
	List(ctx context.Context, limit, offset int) ([]entity.Beer, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Beer, error)
}

// BeerIndex is a full-text search index over beers.
type BeerIndex interface {
	Index(ctx context.Context, b *entity.Beer) error
	Search(ctx context.Context, query string, size int) ([]entity.Beer, error)
}

// ImageStore hosts uploaded images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// JobPublisher enqueues background jobs as JSON.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
