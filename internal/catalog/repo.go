package catalog

import (
	"context"

	"github.com/storekit/storefront/internal/page"
)

// Patch describes a partial update. Nil fields are left unchanged.
// Slug travels with Name: the service sets both together.
type Patch struct {
	Name        *string
	Slug        *string
	Description *string
}

// Repository defines the persistence operations for Product entities.
// Rows come back in insertion order; uniqueness of slugs is enforced by
// the store and surfaced as a Conflict error.
type Repository interface {
	List(ctx context.Context, p page.Page) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, slug string, patch Patch) (Product, error)
	Delete(ctx context.Context, slug string) (Product, error)
}
