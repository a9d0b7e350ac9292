package rewrite

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/storekit/storefront/internal/errx"
	"github.com/storekit/storefront/internal/page"
)

// querier is the subset of pgxpool.Pool the repository needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const rewriteColumns = "id, old_url, new_url, created_at, updated_at"

type repo struct {
	q querier
}

// NewRepository creates a Postgres-backed Repository.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

// isUniqueViolation covers both the old_url and new_url unique constraints.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505"
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

func scanRewrite(row rowScanner) (Rewrite, error) {
	var rw Rewrite
	err := row.Scan(&rw.ID, &rw.OldURL, &rw.NewURL, &rw.CreatedAt, &rw.UpdatedAt)
	return rw, err
}

func (r *repo) List(ctx context.Context, p page.Page) ([]Rewrite, error) {
	const op = "rewrite.repo.List"

	sql, args := p.ApplyTo("SELECT "+rewriteColumns+" FROM url_rewrites ORDER BY id", nil)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	defer rows.Close()

	rewrites := []Rewrite{}
	for rows.Next() {
		rw, err := scanRewrite(rows)
		if err != nil {
			return nil, mapRepoError(op, err)
		}
		rewrites = append(rewrites, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, mapRepoError(op, err)
	}

	return rewrites, nil
}

func (r *repo) Create(ctx context.Context, rewrite Rewrite) (Rewrite, error) {
	const op = "rewrite.repo.Create"

	row := r.q.QueryRow(ctx,
		`INSERT INTO url_rewrites (old_url, new_url)
		 VALUES ($1, $2)
		 RETURNING `+rewriteColumns,
		rewrite.OldURL, rewrite.NewURL)

	created, err := scanRewrite(row)
	if err != nil {
		return Rewrite{}, mapRepoError(op, err)
	}
	return created, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (Rewrite, error) {
	const op = "rewrite.repo.Delete"

	row := r.q.QueryRow(ctx,
		"DELETE FROM url_rewrites WHERE id = $1 RETURNING "+rewriteColumns, id)

	deleted, err := scanRewrite(row)
	if err != nil {
		return Rewrite{}, mapRepoError(op, err)
	}
	return deleted, nil
}

func (r *repo) FindByOldURL(ctx context.Context, oldURL string) (Rewrite, error) {
	const op = "rewrite.repo.FindByOldURL"

	// Exact, case-sensitive match; no normalization of the stored value
	// or the request path.
	row := r.q.QueryRow(ctx,
		"SELECT "+rewriteColumns+" FROM url_rewrites WHERE old_url = $1", oldURL)

	rw, err := scanRewrite(row)
	if err != nil {
		return Rewrite{}, mapRepoError(op, err)
	}
	return rw, nil
}

func (r *repo) CountByURLs(ctx context.Context, oldURL, newURL string) (int64, error) {
	const op = "rewrite.repo.CountByURLs"

	// Four-way probe: either incoming value colliding with either column
	// of any existing row is a conflict.
	row := r.q.QueryRow(ctx,
		`SELECT count(*) FROM url_rewrites
		 WHERE old_url IN ($1, $2) OR new_url IN ($1, $2)`,
		oldURL, newURL)

	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, mapRepoError(op, err)
	}
	return n, nil
}
