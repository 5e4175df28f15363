package store

import (
	"context"
	"errors"
	"testing"

	"github.com/raushankrgupta/look-builder/models"
)

func TestMemStoreAddLookAssignsIDs(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	first, err := s.AddLook(ctx, models.Look{FinalImage: "a.jpg"})
	if err != nil {
		t.Fatalf("AddLook: %v", err)
	}
	second, err := s.AddLook(ctx, models.Look{FinalImage: "b.jpg"})
	if err != nil {
		t.Fatalf("AddLook: %v", err)
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("ids must be assigned and increasing, got %d then %d", first.ID, second.ID)
	}

	all, err := s.GetAllLooks(ctx)
	if err != nil {
		t.Fatalf("GetAllLooks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 looks, got %d", len(all))
	}
}

func TestMemStorePutLookRequiresExistingID(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	if _, err := s.PutLook(ctx, models.Look{FinalImage: "x.jpg"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("put of a draft without id: expected ErrNotFound, got %v", err)
	}
	if _, err := s.PutLook(ctx, models.Look{ID: 99, FinalImage: "x.jpg"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("put of unknown id: expected ErrNotFound, got %v", err)
	}

	created, _ := s.AddLook(ctx, models.Look{FinalImage: "x.jpg"})
	created.FinalImage = "y.jpg"
	updated, err := s.PutLook(ctx, created)
	if err != nil {
		t.Fatalf("PutLook: %v", err)
	}
	if updated.FinalImage != "y.jpg" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestMemStoreBulkAddLooksIsAtomic(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	existing, _ := s.AddLook(ctx, models.Look{FinalImage: "keep.jpg"})

	batch := []models.Look{
		{FinalImage: "new1.jpg"},
		{ID: existing.ID, FinalImage: "clash.jpg"},
		{FinalImage: "new2.jpg"},
	}
	if err := s.BulkAddLooks(ctx, batch); !errors.Is(err, ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	all, _ := s.GetAllLooks(ctx)
	if len(all) != 1 {
		t.Fatalf("a rejected batch must commit nothing, store has %d looks", len(all))
	}
	got, _ := s.GetLook(ctx, existing.ID)
	if got.FinalImage != "keep.jpg" {
		t.Fatalf("existing record mutated by rejected batch: %+v", got)
	}

	if err := s.BulkAddLooks(ctx, []models.Look{{FinalImage: "n1.jpg"}, {FinalImage: "n2.jpg"}}); err != nil {
		t.Fatalf("BulkAddLooks: %v", err)
	}
	all, _ = s.GetAllLooks(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 looks after valid batch, got %d", len(all))
	}
}

func TestMemStoreRemoveLookIsIdempotent(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	l, _ := s.AddLook(ctx, models.Look{FinalImage: "a.jpg"})
	if err := s.RemoveLook(ctx, l.ID); err != nil {
		t.Fatalf("RemoveLook: %v", err)
	}
	if err := s.RemoveLook(ctx, l.ID); err != nil {
		t.Fatalf("second RemoveLook: %v", err)
	}
	if _, err := s.GetLook(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
}

func TestMemStoreLookboardPublicIDUnique(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	if _, err := s.AddLookboard(ctx, models.Lookboard{PublicID: "abc123", Title: "Spring"}); err != nil {
		t.Fatalf("AddLookboard: %v", err)
	}
	if _, err := s.AddLookboard(ctx, models.Lookboard{PublicID: "abc123", Title: "Fall"}); !errors.Is(err, ErrConstraint) {
		t.Fatalf("duplicate public id: expected ErrConstraint, got %v", err)
	}

	board, err := s.GetLookboardByPublicID(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetLookboardByPublicID: %v", err)
	}
	if board.Title != "Spring" {
		t.Fatalf("expected the first board, got %+v", board)
	}
}

func TestMemStoreGetAllReturnsCopies(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	created, _ := s.AddLook(ctx, models.Look{
		FinalImage: "a.jpg",
		Variations: []string{"v1.jpg"},
	})

	got, _ := s.GetLook(ctx, created.ID)
	got.Variations[0] = "mutated.jpg"

	again, _ := s.GetLook(ctx, created.ID)
	if again.Variations[0] != "v1.jpg" {
		t.Fatalf("stored record shares memory with returned copies: %+v", again)
	}
}

func TestMemStoreUserEmailUnique(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	if _, err := s.AddUser(ctx, models.User{Email: "a@b.c"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if _, err := s.AddUser(ctx, models.User{Email: "a@b.c"}); !errors.Is(err, ErrConstraint) {
		t.Fatalf("duplicate email: expected ErrConstraint, got %v", err)
	}
}
