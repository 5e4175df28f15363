// Package store provides keyed persistence for the look-builder entities
// (models, looks, lookboards, users). Two implementations share one contract:
// MongoStore for real deployments and MemStore for tests and ephemeral runs.
//
// Ids are store-assigned surrogate keys, monotonically increasing per entity
// kind and never reused, even after deletion. An entity with a zero ID is a
// draft: Add assigns the id, Put rejects drafts with ErrNotFound. The store
// performs no cross-entity cascades; those belong to the looks package.
package store

import (
	"context"
	"errors"

	"github.com/raushankrgupta/look-builder/models"
)

var (
	// ErrNotFound is returned when an entity id (or SKU-like lookup key)
	// does not exist, and on Put of a draft entity.
	ErrNotFound = errors.New("store: not found")
	// ErrConstraint is returned when a write violates a uniqueness index,
	// e.g. a duplicate lookboard public id.
	ErrConstraint = errors.New("store: constraint violation")
	// ErrUnavailable is returned when the backing medium cannot be opened
	// or reached. It is surfaced to the caller, never retried here.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the persistence contract consumed by the handlers and the
// consistency manager. GetAll order is not guaranteed; callers sort by
// created_at when they need a stable order. BulkAddLooks is all-or-nothing
// at the batch boundary only. Remove is idempotent.
type Store interface {
	GetAllModels(ctx context.Context) ([]models.Model, error)
	GetModel(ctx context.Context, id int64) (models.Model, error)
	AddModel(ctx context.Context, m models.Model) (models.Model, error)
	RemoveModel(ctx context.Context, id int64) error

	GetAllLooks(ctx context.Context) ([]models.Look, error)
	GetLook(ctx context.Context, id int64) (models.Look, error)
	AddLook(ctx context.Context, l models.Look) (models.Look, error)
	PutLook(ctx context.Context, l models.Look) (models.Look, error)
	BulkAddLooks(ctx context.Context, ls []models.Look) error
	RemoveLook(ctx context.Context, id int64) error

	GetAllLookboards(ctx context.Context) ([]models.Lookboard, error)
	GetLookboard(ctx context.Context, id int64) (models.Lookboard, error)
	GetLookboardByPublicID(ctx context.Context, publicID string) (models.Lookboard, error)
	AddLookboard(ctx context.Context, b models.Lookboard) (models.Lookboard, error)
	PutLookboard(ctx context.Context, b models.Lookboard) (models.Lookboard, error)
	RemoveLookboard(ctx context.Context, id int64) error

	AddUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	PutUser(ctx context.Context, u models.User) (models.User, error)

	Close(ctx context.Context) error
}
