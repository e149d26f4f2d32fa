package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/unkn0wn-root/storefront/catalog"
)

func TestCreateAssignsIDAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.Create(ctx, catalog.Product{Name: "a", Price: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Create(ctx, catalog.Product{Name: "b", Price: 2})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not assigned: %q %q", a.ID, b.ID)
	}

	all, err := s.FindAll(ctx, catalog.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Create(context.Background(), catalog.Product{Name: "x", Price: -1})
	var ve *catalog.ValidationError
	if !errors.As(err, &ve) || ve.Field != "price" {
		t.Fatalf("expected price ValidationError, got %v", err)
	}
}

func TestFindAllFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.Create(ctx, catalog.Product{Name: "a", Category: "shoes"})
	b, _ := s.Create(ctx, catalog.Product{Name: "b", Category: "hats"})
	b.IsFeatured = true
	if _, err := s.Save(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, _ := s.FindAll(ctx, catalog.Featured())
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("featured filter: %+v", got)
	}
	got, _ = s.FindAll(ctx, catalog.Filter{Category: "shoes"})
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("category filter: %+v", got)
	}
}

func TestSaveAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Save(ctx, catalog.Product{ID: "nope"}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Save missing: %v", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, err := s.FindByID(ctx, "nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("FindByID missing: %v", err)
	}
}

func TestSampleBounded(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i := 0; i < 6; i++ {
		_, _ = s.Create(ctx, catalog.Product{Name: "p"})
	}
	got, err := s.Sample(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("sample size: got %d want 4", len(got))
	}
}
