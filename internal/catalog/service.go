package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/storekit/storefront/internal/errx"
	"github.com/storekit/storefront/internal/page"
	"github.com/storekit/storefront/sluggen"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 4096
)

// CreateRequest represents the parameters for creating a product.
type CreateRequest struct {
	Name        string
	Description *string
}

// UpdateRequest represents a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
}

// Service defines the business logic operations for the product catalog.
type Service interface {
	List(ctx context.Context, p page.Page) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (Product, error)
	Create(ctx context.Context, req CreateRequest) (Product, error)
	Update(ctx context.Context, slug string, req UpdateRequest) (Product, error)
	Delete(ctx context.Context, slug string) (Product, error)
}

type service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, p page.Page) ([]Product, error) {
	const op = "catalog.service.List"

	products, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return products, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (Product, error) {
	const op = "catalog.service.GetBySlug"

	if slug == "" {
		return Product{}, errx.E(op, errx.Invalid, errors.New("slug cannot be empty"))
	}

	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return Product{}, errx.E(op, errx.KindOf(err), err)
	}
	return product, nil
}

// Create derives the slug from the name and inserts the row. Duplicate
// names surface as Conflict through the store's unique constraint; there
// is no pre-check.
func (s *service) Create(ctx context.Context, req CreateRequest) (Product, error) {
	const op = "catalog.service.Create"

	if err := validateName(req.Name); err != nil {
		return Product{}, errx.E(op, errx.Invalid, err)
	}
	if err := validateDescription(req.Description); err != nil {
		return Product{}, errx.E(op, errx.Invalid, err)
	}

	created, err := s.repo.Create(ctx, Product{
		Name:        req.Name,
		Description: req.Description,
		Slug:        sluggen.Make(req.Name),
	})
	if err != nil {
		return Product{}, errx.E(op, errx.KindOf(err), err)
	}
	return created, nil
}

// Update applies the provided fields only. A new name always brings a
// freshly derived slug with it.
func (s *service) Update(ctx context.Context, slug string, req UpdateRequest) (Product, error) {
	const op = "catalog.service.Update"

	if slug == "" {
		return Product{}, errx.E(op, errx.Invalid, errors.New("slug cannot be empty"))
	}

	patch := Patch{Description: req.Description}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return Product{}, errx.E(op, errx.Invalid, err)
		}
		newSlug := sluggen.Make(*req.Name)
		patch.Name = req.Name
		patch.Slug = &newSlug
	}
	if err := validateDescription(req.Description); err != nil {
		return Product{}, errx.E(op, errx.Invalid, err)
	}

	updated, err := s.repo.Update(ctx, slug, patch)
	if err != nil {
		return Product{}, errx.E(op, errx.KindOf(err), err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, slug string) (Product, error) {
	const op = "catalog.service.Delete"

	if slug == "" {
		return Product{}, errx.E(op, errx.Invalid, errors.New("slug cannot be empty"))
	}

	deleted, err := s.repo.Delete(ctx, slug)
	if err != nil {
		return Product{}, errx.E(op, errx.KindOf(err), err)
	}
	return deleted, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return errors.New("name too long (max 255 characters)")
	}
	if sluggen.Make(name) == "" {
		return errors.New("name must contain at least one alphanumeric character")
	}
	return nil
}

func validateDescription(description *string) error {
	if description == nil {
		return nil
	}
	if len(*description) > MaxDescriptionLength {
		return errors.New("description too long (max 4096 characters)")
	}
	return nil
}
