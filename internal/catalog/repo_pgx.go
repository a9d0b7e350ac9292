package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/storekit/storefront/internal/errx"
	"github.com/storekit/storefront/internal/page"
)

// querier is the subset of pgxpool.Pool the repository needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const productColumns = "id, name, description, slug, created_at, updated_at"

type repo struct {
	q querier
}

// NewRepository creates a Postgres-backed Repository.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repo) List(ctx context.Context, p page.Page) ([]Product, error) {
	const op = "catalog.repo.List"

	// ORDER BY id keeps "insertion order" deterministic under pagination.
	sql, args := p.ApplyTo("SELECT "+productColumns+" FROM products ORDER BY id", nil)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, mapRepoError(op, err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, mapRepoError(op, err)
	}

	return products, nil
}

func (r *repo) GetBySlug(ctx context.Context, slug string) (Product, error) {
	const op = "catalog.repo.GetBySlug"

	row := r.q.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE slug = $1", slug)

	product, err := scanProduct(row)
	if err != nil {
		return Product{}, mapRepoError(op, err)
	}
	return product, nil
}

func (r *repo) Create(ctx context.Context, product Product) (Product, error) {
	const op = "catalog.repo.Create"

	row := r.q.QueryRow(ctx,
		`INSERT INTO products (name, description, slug)
		 VALUES ($1, $2, $3)
		 RETURNING `+productColumns,
		product.Name, product.Description, product.Slug)

	created, err := scanProduct(row)
	if err != nil {
		return Product{}, mapRepoError(op, err)
	}
	return created, nil
}

func (r *repo) Update(ctx context.Context, slug string, patch Patch) (Product, error) {
	const op = "catalog.repo.Update"

	// COALESCE leaves columns with nil patch fields unchanged; updated_at
	// is refreshed on every mutation.
	row := r.q.QueryRow(ctx,
		`UPDATE products
		 SET name        = COALESCE($1, name),
		     description = COALESCE($2, description),
		     slug        = COALESCE($3, slug),
		     updated_at  = now()
		 WHERE slug = $4
		 RETURNING `+productColumns,
		patch.Name, patch.Description, patch.Slug, slug)

	updated, err := scanProduct(row)
	if err != nil {
		return Product{}, mapRepoError(op, err)
	}
	return updated, nil
}

func (r *repo) Delete(ctx context.Context, slug string) (Product, error) {
	const op = "catalog.repo.Delete"

	row := r.q.QueryRow(ctx,
		"DELETE FROM products WHERE slug = $1 RETURNING "+productColumns, slug)

	deleted, err := scanProduct(row)
	if err != nil {
		return Product{}, mapRepoError(op, err)
	}
	return deleted, nil
}
