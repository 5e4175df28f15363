package looks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/store"
)

func seedLook(t *testing.T, s store.Store, l models.Look) models.Look {
	t.Helper()
	created, err := s.AddLook(context.Background(), l)
	if err != nil {
		t.Fatalf("seeding look: %v", err)
	}
	return created
}

func TestAddVariationSetSemantics(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	look := seedLook(t, s, models.Look{FinalImage: "primary.jpg"})

	updated, err := m.AddVariation(ctx, look.ID, "alt1.jpg")
	if err != nil {
		t.Fatalf("AddVariation: %v", err)
	}
	if len(updated.Variations) != 1 || updated.Variations[0] != "alt1.jpg" {
		t.Fatalf("unexpected variations: %v", updated.Variations)
	}

	// Adding the same image again must not duplicate it.
	updated, err = m.AddVariation(ctx, look.ID, "alt1.jpg")
	if err != nil {
		t.Fatalf("repeat AddVariation: %v", err)
	}
	if len(updated.Variations) != 1 {
		t.Fatalf("variation set grew on duplicate add: %v", updated.Variations)
	}

	if _, err := m.AddVariation(ctx, 999, "x.jpg"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown look: expected ErrNotFound, got %v", err)
	}
}

func TestPromoteVariationRetainsOldPrimary(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	look := seedLook(t, s, models.Look{
		FinalImage: "primary.jpg",
		Variations: []string{"alt1.jpg", "alt2.jpg"},
	})

	updated, err := m.PromoteVariation(ctx, look.ID, "alt1.jpg")
	if err != nil {
		t.Fatalf("PromoteVariation: %v", err)
	}
	if updated.FinalImage != "alt1.jpg" {
		t.Fatalf("expected alt1.jpg promoted, got %q", updated.FinalImage)
	}
	if !updated.HasVariation("primary.jpg") {
		t.Fatalf("old primary must stay reachable as a variation: %v", updated.Variations)
	}
}

func TestPromoteUnknownImageRejected(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	look := seedLook(t, s, models.Look{
		FinalImage: "primary.jpg",
		Variations: []string{"alt1.jpg"},
	})

	if _, err := m.PromoteVariation(ctx, look.ID, "stranger.jpg"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	got, _ := s.GetLook(ctx, look.ID)
	if got.FinalImage != "primary.jpg" || len(got.Variations) != 1 {
		t.Fatalf("rejected promotion must leave the look unchanged: %+v", got)
	}
}

func TestPromoteCurrentPrimaryIsNoOp(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	look := seedLook(t, s, models.Look{FinalImage: "primary.jpg", Variations: []string{"alt1.jpg"}})

	updated, err := m.PromoteVariation(ctx, look.ID, "primary.jpg")
	if err != nil {
		t.Fatalf("PromoteVariation: %v", err)
	}
	if updated.FinalImage != "primary.jpg" || len(updated.Variations) != 1 {
		t.Fatalf("promoting the current primary must change nothing: %+v", updated)
	}
}

func TestDeleteLookCascadesToBoards(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	a := seedLook(t, s, models.Look{FinalImage: "a.jpg"})
	b := seedLook(t, s, models.Look{FinalImage: "b.jpg"})

	both, err := m.CreateLookboard(ctx, 1, "Both", "", "private", []int64{a.ID, b.ID})
	if err != nil {
		t.Fatalf("CreateLookboard: %v", err)
	}
	only, err := m.CreateLookboard(ctx, 1, "Only A", "", "private", []int64{a.ID})
	if err != nil {
		t.Fatalf("CreateLookboard: %v", err)
	}

	if err := m.DeleteLook(ctx, a.ID); err != nil {
		t.Fatalf("DeleteLook: %v", err)
	}

	if _, err := s.GetLook(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("deleted look still retrievable: %v", err)
	}

	gotBoth, _ := s.GetLookboard(ctx, both.ID)
	if len(gotBoth.LookIDs) != 1 || gotBoth.LookIDs[0] != b.ID {
		t.Fatalf("expected only look %d left on board, got %v", b.ID, gotBoth.LookIDs)
	}

	// A board emptied by the cascade survives.
	gotOnly, err := s.GetLookboard(ctx, only.ID)
	if err != nil {
		t.Fatalf("emptied board must remain retrievable: %v", err)
	}
	if len(gotOnly.LookIDs) != 0 {
		t.Fatalf("expected empty board, got %v", gotOnly.LookIDs)
	}
}

func TestCreateLookboardRejectsEmptyTitle(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	if _, err := m.CreateLookboard(ctx, 1, "", "note", "public", nil); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	boards, _ := s.GetAllLookboards(ctx)
	if len(boards) != 0 {
		t.Fatalf("rejected creation must not write, got %d boards", len(boards))
	}
}

func TestCreateLookboardDefaultsVisibilityAndSnapshotsIDs(t *testing.T) {
	s := store.NewMemStore()
	m := NewManager(s)
	ctx := context.Background()

	ids := []int64{1, 2}
	board, err := m.CreateLookboard(ctx, 1, "Picks", "", "loud", ids)
	if err != nil {
		t.Fatalf("CreateLookboard: %v", err)
	}
	if board.Visibility != "private" {
		t.Fatalf("unknown visibility must default to private, got %q", board.Visibility)
	}
	if board.PublicID == "" {
		t.Fatal("board must carry a public id from creation")
	}

	ids[0] = 99
	got, _ := s.GetLookboard(ctx, board.ID)
	if got.LookIDs[0] != 1 {
		t.Fatalf("board must snapshot look ids by value, got %v", got.LookIDs)
	}
}

// collidingStore forces public id collisions for the first N inserts.
type collidingStore struct {
	*store.MemStore
	remaining int
}

func (c *collidingStore) AddLookboard(ctx context.Context, b models.Lookboard) (models.Lookboard, error) {
	if c.remaining > 0 {
		c.remaining--
		return models.Lookboard{}, fmt.Errorf("public id %q: %w", b.PublicID, store.ErrConstraint)
	}
	return c.MemStore.AddLookboard(ctx, b)
}

func TestCreateLookboardRetriesPublicIDCollisions(t *testing.T) {
	cs := &collidingStore{MemStore: store.NewMemStore(), remaining: 2}
	m := NewManager(cs)

	board, err := m.CreateLookboard(context.Background(), 1, "Picks", "", "public", nil)
	if err != nil {
		t.Fatalf("expected creation to survive collisions, got %v", err)
	}
	if board.PublicID == "" {
		t.Fatal("created board must carry a public id")
	}
}

func TestCreateLookboardGivesUpAfterRepeatedCollisions(t *testing.T) {
	cs := &collidingStore{MemStore: store.NewMemStore(), remaining: publicIDAttempts}
	m := NewManager(cs)

	if _, err := m.CreateLookboard(context.Background(), 1, "Picks", "", "public", nil); !errors.Is(err, store.ErrConstraint) {
		t.Fatalf("expected constraint failure after exhausting attempts, got %v", err)
	}
}

func TestNewPublicID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewPublicID()
		if len(id) != 12 {
			t.Fatalf("expected 12 hex chars, got %q", id)
		}
		if seen[id] {
			t.Fatalf("public id repeated within 100 draws: %q", id)
		}
		seen[id] = true
	}
}
