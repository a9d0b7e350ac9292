package rewrite

import (
	"context"

	"github.com/storekit/storefront/internal/page"
)

// Repository defines the persistence operations for url rewrites.
// CountByURLs backs the cross-field uniqueness probe performed before
// inserts; per-column uniqueness is enforced by the store itself.
type Repository interface {
	List(ctx context.Context, p page.Page) ([]Rewrite, error)
	Create(ctx context.Context, rewrite Rewrite) (Rewrite, error)
	Delete(ctx context.Context, id int64) (Rewrite, error)
	FindByOldURL(ctx context.Context, oldURL string) (Rewrite, error)
	CountByURLs(ctx context.Context, oldURL, newURL string) (int64, error)
}
