package rewrite

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/storekit/storefront/internal/errx"
	"github.com/storekit/storefront/internal/page"
)

/***************
 * Mocks
 ***************/

// mockRepository implements Repository for testing.
type mockRepository struct {
	listFunc         func(ctx context.Context, p page.Page) ([]Rewrite, error)
	createFunc       func(ctx context.Context, rw Rewrite) (Rewrite, error)
	deleteFunc       func(ctx context.Context, id int64) (Rewrite, error)
	findByOldURLFunc func(ctx context.Context, oldURL string) (Rewrite, error)
	countByURLsFunc  func(ctx context.Context, oldURL, newURL string) (int64, error)
}

func (m *mockRepository) List(ctx context.Context, p page.Page) ([]Rewrite, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, p)
	}
	return []Rewrite{}, nil
}

func (m *mockRepository) Create(ctx context.Context, rw Rewrite) (Rewrite, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, rw)
	}
	rw.ID = 1
	rw.CreatedAt = time.Now()
	rw.UpdatedAt = time.Now()
	return rw, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) (Rewrite, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return Rewrite{}, errx.E("rewrite.repo.Delete", errx.NotFound, errors.New("not found"))
}

func (m *mockRepository) FindByOldURL(ctx context.Context, oldURL string) (Rewrite, error) {
	if m.findByOldURLFunc != nil {
		return m.findByOldURLFunc(ctx, oldURL)
	}
	return Rewrite{}, errx.E("rewrite.repo.FindByOldURL", errx.NotFound, errors.New("not found"))
}

func (m *mockRepository) CountByURLs(ctx context.Context, oldURL, newURL string) (int64, error) {
	if m.countByURLsFunc != nil {
		return m.countByURLsFunc(ctx, oldURL, newURL)
	}
	return 0, nil
}

/***************
 * Create
 ***************/

func TestService_Create(t *testing.T) {
	t.Run("probes both urls before inserting", func(t *testing.T) {
		var probedOld, probedNew string
		repo := &mockRepository{
			countByURLsFunc: func(ctx context.Context, oldURL, newURL string) (int64, error) {
				probedOld, probedNew = oldURL, newURL
				return 0, nil
			},
		}

		svc := NewService(repo)
		created, err := svc.Create(context.Background(), CreateRequest{
			OldURL: "/old-page",
			NewURL: "/new-page",
		})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}

		if probedOld != "/old-page" || probedNew != "/new-page" {
			t.Errorf("probe = (%q, %q), want both urls", probedOld, probedNew)
		}
		if created.ID != 1 {
			t.Errorf("created.ID = %d, want 1", created.ID)
		}
	})

	t.Run("any probe hit is a conflict", func(t *testing.T) {
		inserted := false
		repo := &mockRepository{
			countByURLsFunc: func(ctx context.Context, oldURL, newURL string) (int64, error) {
				return 1, nil
			},
			createFunc: func(ctx context.Context, rw Rewrite) (Rewrite, error) {
				inserted = true
				return rw, nil
			},
		}

		svc := NewService(repo)
		_, err := svc.Create(context.Background(), CreateRequest{
			OldURL: "/b",
			NewURL: "/a",
		})
		if err == nil {
			t.Fatal("Create() expected error, got nil")
		}
		if kind := errx.KindOf(err); kind != errx.Conflict {
			t.Errorf("error kind = %v, want Conflict", kind)
		}
		if inserted {
			t.Error("no insert should be attempted after a probe hit")
		}
	})

	t.Run("racing duplicate surfaces the store conflict", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(ctx context.Context, rw Rewrite) (Rewrite, error) {
				return Rewrite{}, errx.E("rewrite.repo.Create", errx.Conflict, errors.New("duplicate key"))
			},
		}

		svc := NewService(repo)
		_, err := svc.Create(context.Background(), CreateRequest{
			OldURL: "/old-page",
			NewURL: "/new-page",
		})
		if kind := errx.KindOf(err); kind != errx.Conflict {
			t.Errorf("error kind = %v, want Conflict", kind)
		}
	})

	t.Run("rejects missing or unparseable urls", func(t *testing.T) {
		tests := []struct {
			name string
			req  CreateRequest
		}{
			{"empty oldUrl", CreateRequest{OldURL: "", NewURL: "/a"}},
			{"empty newUrl", CreateRequest{OldURL: "/a", NewURL: ""}},
			{"oldUrl too long", CreateRequest{OldURL: "/" + strings.Repeat("a", MaxURLLength), NewURL: "/a"}},
			{"control characters", CreateRequest{OldURL: "/old\x7f", NewURL: "/a"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewService(&mockRepository{})
				_, err := svc.Create(context.Background(), tt.req)
				if err == nil {
					t.Fatal("Create() expected error, got nil")
				}
				if kind := errx.KindOf(err); kind != errx.Invalid {
					t.Errorf("error kind = %v, want Invalid", kind)
				}
			})
		}
	})

	t.Run("probe failure propagates", func(t *testing.T) {
		repo := &mockRepository{
			countByURLsFunc: func(ctx context.Context, oldURL, newURL string) (int64, error) {
				return 0, errx.E("rewrite.repo.CountByURLs", errx.Unavailable, errors.New("down"))
			},
		}

		svc := NewService(repo)
		_, err := svc.Create(context.Background(), CreateRequest{OldURL: "/a", NewURL: "/b"})
		if kind := errx.KindOf(err); kind != errx.Unavailable {
			t.Errorf("error kind = %v, want Unavailable", kind)
		}
	})
}

/***************
 * Resolve
 ***************/

func TestService_Resolve(t *testing.T) {
	t.Run("returns target for a matching path", func(t *testing.T) {
		repo := &mockRepository{
			findByOldURLFunc: func(ctx context.Context, oldURL string) (Rewrite, error) {
				if oldURL != "/old-page" {
					t.Errorf("lookup path = %q, want /old-page", oldURL)
				}
				return Rewrite{ID: 1, OldURL: "/old-page", NewURL: "/new-page"}, nil
			},
		}

		svc := NewService(repo)
		target, err := svc.Resolve(context.Background(), http.MethodGet, "/old-page", "")
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if target != "/new-page" {
			t.Errorf("target = %q, want /new-page", target)
		}
	})

	t.Run("re-appends the original query string verbatim", func(t *testing.T) {
		repo := &mockRepository{
			findByOldURLFunc: func(ctx context.Context, oldURL string) (Rewrite, error) {
				return Rewrite{OldURL: oldURL, NewURL: "/new-page"}, nil
			},
		}

		svc := NewService(repo)
		target, err := svc.Resolve(context.Background(), http.MethodGet, "/old-page", "a=1&b=two")
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if target != "/new-page?a=1&b=two" {
			t.Errorf("target = %q, want /new-page?a=1&b=two", target)
		}
	})

	t.Run("no match yields empty target and no error", func(t *testing.T) {
		svc := NewService(&mockRepository{})
		target, err := svc.Resolve(context.Background(), http.MethodGet, "/never-seen", "")
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if target != "" {
			t.Errorf("target = %q, want empty", target)
		}
	})

	t.Run("non-GET methods never hit the store", func(t *testing.T) {
		methods := []string{
			http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		}

		for _, method := range methods {
			t.Run(method, func(t *testing.T) {
				called := false
				repo := &mockRepository{
					findByOldURLFunc: func(ctx context.Context, oldURL string) (Rewrite, error) {
						called = true
						return Rewrite{NewURL: "/new-page"}, nil
					},
				}

				svc := NewService(repo)
				target, err := svc.Resolve(context.Background(), method, "/old-page", "")
				if err != nil {
					t.Fatalf("Resolve() unexpected error: %v", err)
				}
				if target != "" {
					t.Errorf("target = %q, want empty for %s", target, method)
				}
				if called {
					t.Errorf("store consulted for %s request", method)
				}
			})
		}
	})

	t.Run("lookup is exact and case-sensitive", func(t *testing.T) {
		repo := &mockRepository{
			findByOldURLFunc: func(ctx context.Context, oldURL string) (Rewrite, error) {
				if oldURL == "/Old-Page" {
					return Rewrite{}, errx.E("rewrite.repo.FindByOldURL", errx.NotFound, errors.New("not found"))
				}
				return Rewrite{NewURL: "/new-page"}, nil
			},
		}

		svc := NewService(repo)
		target, err := svc.Resolve(context.Background(), http.MethodGet, "/Old-Page", "")
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if target != "" {
			t.Errorf("target = %q, want empty (no case folding)", target)
		}
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo := &mockRepository{
			findByOldURLFunc: func(ctx context.Context, oldURL string) (Rewrite, error) {
				return Rewrite{}, errx.E("rewrite.repo.FindByOldURL", errx.Unavailable, errors.New("down"))
			},
		}

		svc := NewService(repo)
		_, err := svc.Resolve(context.Background(), http.MethodGet, "/old-page", "")
		if err == nil {
			t.Fatal("Resolve() expected error, got nil")
		}
		if kind := errx.KindOf(err); kind != errx.Unavailable {
			t.Errorf("error kind = %v, want Unavailable", kind)
		}
	})
}

/***************
 * List / Delete
 ***************/

func TestService_List(t *testing.T) {
	t.Run("passes page descriptor through", func(t *testing.T) {
		offset := int32(3)
		var gotPage page.Page
		repo := &mockRepository{
			listFunc: func(ctx context.Context, p page.Page) ([]Rewrite, error) {
				gotPage = p
				return []Rewrite{{ID: 1}}, nil
			},
		}

		svc := NewService(repo)
		rewrites, err := svc.List(context.Background(), page.Page{Offset: &offset})
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if len(rewrites) != 1 {
			t.Errorf("len(rewrites) = %d, want 1", len(rewrites))
		}
		if gotPage.Offset == nil || *gotPage.Offset != 3 {
			t.Errorf("page offset = %v, want 3", gotPage.Offset)
		}
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("returns the deleted row", func(t *testing.T) {
		repo := &mockRepository{
			deleteFunc: func(ctx context.Context, id int64) (Rewrite, error) {
				return Rewrite{ID: id, OldURL: "/old", NewURL: "/new"}, nil
			},
		}

		svc := NewService(repo)
		deleted, err := svc.Delete(context.Background(), 42)
		if err != nil {
			t.Fatalf("Delete() unexpected error: %v", err)
		}
		if deleted.ID != 42 {
			t.Errorf("deleted.ID = %d, want 42", deleted.ID)
		}
	})

	t.Run("missing row surfaces NotFound", func(t *testing.T) {
		svc := NewService(&mockRepository{})
		if _, err := svc.Delete(context.Background(), 99); errx.KindOf(err) != errx.NotFound {
			t.Errorf("error kind = %v, want NotFound", errx.KindOf(err))
		}
	})
}
