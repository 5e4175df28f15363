package looks

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/raushankrgupta/look-builder/models"
)

// ErrInvalidImport rejects an import batch containing a record without a
// primary image or with an empty product list. The whole batch is refused;
// the store is left unchanged.
var ErrInvalidImport = errors.New("looks: invalid import batch")

// ExportLooks returns all looks as a plain ordered list, oldest first,
// suitable for JSON export.
func (m *Manager) ExportLooks(ctx context.Context) ([]models.Look, error) {
	all, err := m.Store.GetAllLooks(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

// ImportLooks validates and bulk-inserts an exported batch. Incoming ids are
// stripped: ids are store-assigned, never externally supplied. One bad
// record rejects the entire batch before any write.
func (m *Manager) ImportLooks(ctx context.Context, userID int64, batch []models.Look) error {
	for i, l := range batch {
		if l.FinalImage == "" {
			return fmt.Errorf("record %d has no primary image: %w", i, ErrInvalidImport)
		}
		if len(l.Products) == 0 {
			return fmt.Errorf("record %d has no products: %w", i, ErrInvalidImport)
		}
	}
	for i := range batch {
		batch[i].ID = 0
		batch[i].UserID = userID
	}
	return m.Store.BulkAddLooks(ctx, batch)
}
