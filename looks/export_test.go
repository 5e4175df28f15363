package looks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/store"
)

func TestExportLooksOldestFirst(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		seedLook(t, s, models.Look{
			FinalImage: "img.jpg",
			Products:   []models.ProductRef{{SKU: "a"}},
			CreatedAt:  base.Add(offset),
		})
	}

	out, err := m.ExportLooks(ctx)
	if err != nil {
		t.Fatalf("ExportLooks: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 looks, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].CreatedAt.Before(out[i-1].CreatedAt) {
			t.Fatalf("export not ordered oldest first at %d: %v then %v", i, out[i-1].CreatedAt, out[i].CreatedAt)
		}
	}
}

func TestImportLooksStripsIDsAndAssignsOwner(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	batch := []models.Look{
		{ID: 777, UserID: 3, FinalImage: "a.jpg", Products: []models.ProductRef{{SKU: "a"}}},
		{ID: 778, UserID: 3, FinalImage: "b.jpg", Products: []models.ProductRef{{SKU: "b"}}},
	}
	if err := m.ImportLooks(ctx, 42, batch); err != nil {
		t.Fatalf("ImportLooks: %v", err)
	}

	all, _ := s.GetAllLooks(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 imported looks, got %d", len(all))
	}
	for _, l := range all {
		if l.ID == 777 || l.ID == 778 {
			t.Fatalf("imported look kept its external id: %+v", l)
		}
		if l.UserID != 42 {
			t.Fatalf("imported look must belong to the importer, got user %d", l.UserID)
		}
	}
}

func TestImportLooksRejectsBadRecordWholesale(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	cases := []struct {
		name string
		bad  models.Look
	}{
		{"missing primary image", models.Look{Products: []models.ProductRef{{SKU: "x"}}}},
		{"empty products", models.Look{FinalImage: "x.jpg"}},
	}
	for _, tc := range cases {
		batch := []models.Look{
			{FinalImage: "ok.jpg", Products: []models.ProductRef{{SKU: "a"}}},
			tc.bad,
		}
		if err := m.ImportLooks(ctx, 1, batch); !errors.Is(err, ErrInvalidImport) {
			t.Fatalf("%s: expected ErrInvalidImport, got %v", tc.name, err)
		}
		all, _ := s.GetAllLooks(ctx)
		if len(all) != 0 {
			t.Fatalf("%s: rejected batch must commit nothing, got %d looks", tc.name, len(all))
		}
	}
}
