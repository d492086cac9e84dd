package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minaato/minaato-backend/internal/orders"
)

// StorageKey names the persisted cart snapshot, mirroring the key the web
// storefront uses in browser storage.
const StorageKey = "minaatocs_cart_v1"

// Storage persists one cart snapshot as JSON under the fixed key.
type Storage struct {
	path string
}

// NewStorage keeps cart snapshots inside dir.
func NewStorage(dir string) *Storage {
	return &Storage{path: filepath.Join(dir, StorageKey+".json")}
}

// Load reads the persisted cart. A missing or unreadable snapshot is an
// empty cart, never an error.
func (s *Storage) Load() *Cart {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return New()
	}
	var lines []orders.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return New()
	}
	return New(lines...)
}

// Save writes the cart snapshot.
func (s *Storage) Save(c *Cart) error {
	data, err := json.Marshal(c.Lines())
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	return nil
}
