package rewrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/storekit/storefront/internal/errx"
	"github.com/storekit/storefront/internal/page"
)

const MaxURLLength = 2048

// CreateRequest represents the parameters for creating a rewrite rule.
type CreateRequest struct {
	OldURL string
	NewURL string
}

// Service defines the business logic operations for url rewrites.
type Service interface {
	List(ctx context.Context, p page.Page) ([]Rewrite, error)
	Create(ctx context.Context, req CreateRequest) (Rewrite, error)
	Delete(ctx context.Context, id int64) (Rewrite, error)

	// Resolve returns the redirect target for a request whose primary
	// handling produced a not-found outcome. An empty target means no
	// rewrite applies; only store failures return an error.
	Resolve(ctx context.Context, method, path, rawQuery string) (string, error)
}

type service struct {
	repo Repository
}

// NewService creates a new rewrite service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, p page.Page) ([]Rewrite, error) {
	const op = "rewrite.service.List"

	rewrites, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return rewrites, nil
}

// Create probes all old_url/new_url values of existing rows against both
// incoming values before inserting. The probe is advisory: a concurrent
// create racing through the gap is caught by the store's unique
// constraints and translated to the same Conflict.
func (s *service) Create(ctx context.Context, req CreateRequest) (Rewrite, error) {
	const op = "rewrite.service.Create"

	if err := validateURLRef("oldUrl", req.OldURL); err != nil {
		return Rewrite{}, errx.E(op, errx.Invalid, err)
	}
	if err := validateURLRef("newUrl", req.NewURL); err != nil {
		return Rewrite{}, errx.E(op, errx.Invalid, err)
	}

	count, err := s.repo.CountByURLs(ctx, req.OldURL, req.NewURL)
	if err != nil {
		return Rewrite{}, errx.E(op, errx.KindOf(err), err)
	}
	if count > 0 {
		return Rewrite{}, errx.E(op, errx.Conflict,
			errors.New("url rewrite already exists"))
	}

	created, err := s.repo.Create(ctx, Rewrite{
		OldURL: req.OldURL,
		NewURL: req.NewURL,
	})
	if err != nil {
		return Rewrite{}, errx.E(op, errx.KindOf(err), err)
	}
	return created, nil
}

func (s *service) Delete(ctx context.Context, id int64) (Rewrite, error) {
	const op = "rewrite.service.Delete"

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Rewrite{}, errx.E(op, errx.KindOf(err), err)
	}
	return deleted, nil
}

func (s *service) Resolve(ctx context.Context, method, path, rawQuery string) (string, error) {
	const op = "rewrite.service.Resolve"

	// Only read requests are ever redirected.
	if method != http.MethodGet {
		return "", nil
	}

	rw, err := s.repo.FindByOldURL(ctx, path)
	if err != nil {
		if errx.KindOf(err) == errx.NotFound {
			return "", nil
		}
		return "", errx.E(op, errx.KindOf(err), err)
	}

	target := rw.NewURL
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target, nil
}

func validateURLRef(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(raw) > MaxURLLength {
		return fmt.Errorf("%s too long (max %d characters)", field, MaxURLLength)
	}
	if _, err := url.Parse(raw); err != nil {
		return fmt.Errorf("%s must be a valid URI reference", field)
	}
	return nil
}
