// Package api exposes the look-builder HTTP surface: auth, model profiles,
// try-on runs, looks, lookboards and export/import.
package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"

	"github.com/raushankrgupta/look-builder/catalog"
	"github.com/raushankrgupta/look-builder/looks"
	"github.com/raushankrgupta/look-builder/store"
	"github.com/raushankrgupta/look-builder/synth"
	"github.com/raushankrgupta/look-builder/tryon"
)

// API holds the injected collaborators and the in-memory registry of active
// try-on runs. Runs never touch the store; only a saved run becomes a look.
type API struct {
	Store   store.Store
	Runner  *tryon.Runner
	Manager *looks.Manager
	Gateway synth.Gateway

	mu   sync.Mutex
	runs map[string]*runSession
}

// runSession ties an in-flight run to the user who started it.
type runSession struct {
	UserID int64
	Run    *tryon.Run
}

// New wires the API onto its collaborators.
func New(s store.Store, c catalog.Catalog, g synth.Gateway) *API {
	return &API{
		Store:   s,
		Runner:  &tryon.Runner{Catalog: c, Gateway: g},
		Manager: looks.NewManager(s),
		Gateway: g,
		runs:    map[string]*runSession{},
	}
}

func (a *API) putRun(userID int64, run *tryon.Run) string {
	buf := make([]byte, 8)
	rand.Read(buf)
	id := hex.EncodeToString(buf)

	a.mu.Lock()
	a.runs[id] = &runSession{UserID: userID, Run: run}
	a.mu.Unlock()
	return id
}

func (a *API) getRun(userID int64, id string) (*tryon.Run, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, ok := a.runs[id]
	if !ok || sess.UserID != userID {
		return nil, false
	}
	return sess.Run, true
}

func (a *API) dropRun(id string) {
	a.mu.Lock()
	delete(a.runs, id)
	a.mu.Unlock()
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	var genErr *synth.GenerationError
	var skuErr *tryon.SKUNotFoundError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, looks.ErrInvalidState),
		errors.Is(err, looks.ErrEmptyTitle),
		errors.Is(err, looks.ErrInvalidImport),
		errors.Is(err, tryon.ErrRunIncomplete):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &skuErr):
		return http.StatusNotFound
	case errors.As(err, &genErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
