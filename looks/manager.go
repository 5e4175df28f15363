// Package looks maintains the invariants around persisted looks and
// lookboards: variation membership, primary-image promotion, the delete
// cascade from looks into boards, and public share id issuance. All cascades
// run synchronously right after the triggering write acknowledges; the store
// itself never cascades.
package looks

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/store"
)

var (
	// ErrInvalidState rejects illegal transitions, e.g. promoting an image
	// that is not a known variation of the look.
	ErrInvalidState = errors.New("looks: invalid state")
	// ErrEmptyTitle rejects lookboard creation before any store write.
	ErrEmptyTitle = errors.New("looks: lookboard title is required")
)

// publicIDAttempts bounds the collision-regenerate loop on board creation.
const publicIDAttempts = 5

// Manager owns the look/lookboard consistency rules on top of an injected
// store.
type Manager struct {
	Store store.Store
}

// NewManager wires the consistency manager onto a store.
func NewManager(s store.Store) *Manager {
	return &Manager{Store: s}
}

// AddVariation appends image to the look's variation set. Set semantics:
// adding an image that is already present is silently absorbed.
func (m *Manager) AddVariation(ctx context.Context, lookID int64, image string) (models.Look, error) {
	look, err := m.Store.GetLook(ctx, lookID)
	if err != nil {
		return models.Look{}, err
	}
	if look.HasVariation(image) {
		return look, nil
	}
	look.Variations = append(look.Variations, image)
	return m.Store.PutLook(ctx, look)
}

// PromoteVariation makes the chosen variation the look's primary image. The
// previous primary is retained in the variation set so it is never lost.
// Promoting an image that is neither a variation nor the current primary is
// rejected and leaves the look unchanged.
func (m *Manager) PromoteVariation(ctx context.Context, lookID int64, image string) (models.Look, error) {
	look, err := m.Store.GetLook(ctx, lookID)
	if err != nil {
		return models.Look{}, err
	}
	if image == look.FinalImage {
		return look, nil
	}
	if !look.HasVariation(image) {
		return models.Look{}, fmt.Errorf("image %q is not a variation of look %d: %w", image, lookID, ErrInvalidState)
	}
	if !look.HasVariation(look.FinalImage) {
		look.Variations = append(look.Variations, look.FinalImage)
	}
	look.FinalImage = image
	return m.Store.PutLook(ctx, look)
}

// DeleteLook removes the look, then strips its id from every board that
// references it. Boards left with no looks remain valid and retrievable.
func (m *Manager) DeleteLook(ctx context.Context, lookID int64) error {
	if err := m.Store.RemoveLook(ctx, lookID); err != nil {
		return err
	}
	boards, err := m.Store.GetAllLookboards(ctx)
	if err != nil {
		return fmt.Errorf("cascading look %d delete: %w", lookID, err)
	}
	for _, board := range boards {
		kept := board.LookIDs[:0]
		removed := false
		for _, id := range board.LookIDs {
			if id == lookID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if !removed {
			continue
		}
		board.LookIDs = kept
		if _, err := m.Store.PutLookboard(ctx, board); err != nil {
			return fmt.Errorf("cascading look %d delete to board %d: %w", lookID, board.ID, err)
		}
	}
	return nil
}

// CreateLookboard validates the title, snapshots the selected look ids by
// value, assigns a fresh public id (regenerating on collision) and persists
// the board with its share id as one unit.
func (m *Manager) CreateLookboard(ctx context.Context, userID int64, title, note, visibility string, lookIDs []int64) (models.Lookboard, error) {
	if title == "" {
		return models.Lookboard{}, ErrEmptyTitle
	}
	if visibility != "public" {
		visibility = "private"
	}

	board := models.Lookboard{
		UserID:     userID,
		Title:      title,
		Note:       note,
		Visibility: visibility,
		LookIDs:    append([]int64(nil), lookIDs...),
		CreatedAt:  time.Now(),
	}

	var lastErr error
	for attempt := 0; attempt < publicIDAttempts; attempt++ {
		board.PublicID = NewPublicID()
		created, err := m.Store.AddLookboard(ctx, board)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, store.ErrConstraint) {
			return models.Lookboard{}, err
		}
		lastErr = err
	}
	return models.Lookboard{}, fmt.Errorf("could not allocate a unique public id: %w", lastErr)
}

// DeleteLookboard removes the board record only; its looks are unaffected.
func (m *Manager) DeleteLookboard(ctx context.Context, boardID int64) error {
	return m.Store.RemoveLookboard(ctx, boardID)
}

// NewPublicID returns a short random opaque share token.
func NewPublicID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("looks: reading random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}
