package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FileStore keeps the whole order collection in one JSON file, read fully
// and rewritten fully on every mutation. Mutations are serialized behind a
// process-local mutex, which removes the lost-update race within one
// process only; multiple processes sharing the file still race. It suits
// the single-instance dev/small-merchant deployment the file format comes
// from.
type FileStore struct {
	mu      sync.Mutex
	path    string
	log     zerolog.Logger
	nowFunc func() time.Time
}

// NewFileStore creates a store backed by the JSON file at path. The file
// does not need to exist yet.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path:    path,
		log:     log,
		nowFunc: time.Now,
	}
}

// load reads the full collection. A missing or corrupt file is treated as
// an empty collection so a first run bootstraps cleanly; corruption is
// logged rather than silently masked.
func (s *FileStore) load() []Order {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("orders file unreadable, starting empty")
		}
		return nil
	}
	var collection []Order
	if err := json.Unmarshal(data, &collection); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("orders file corrupt, starting empty")
		return nil
	}
	return collection
}

func (s *FileStore) save(collection []Order) error {
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write orders file: %w", err)
	}
	return nil
}

// Create appends a new pending order and rewrites the collection.
func (s *FileStore) Create(_ context.Context, draft OrderDraft) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := Order{
		ID:             NewOrderID(),
		Name:           draft.Name,
		Phone:          draft.Phone,
		Address:        draft.Address,
		DeliveryOption: draft.DeliveryOption,
		Items:          draft.Items,
		Total:          DraftTotal(draft.Items),
		Status:         StatusPending,
		CreatedAt:      s.nowFunc().UTC(),
	}

	collection := append(s.load(), order)
	if err := s.save(collection); err != nil {
		return Order{}, err
	}
	return order, nil
}

// FindByID scans the collection. Returns (nil, nil) if not found.
func (s *FileStore) FindByID(_ context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.load() {
		if o.ID == id {
			found := o
			return &found, nil
		}
	}
	return nil, nil
}

// MarkPaid stamps a pending order paid. Missing and already-paid orders
// report (false, nil); an already-paid order keeps its original PaidAt.
func (s *FileStore) MarkPaid(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.load()
	for i := range collection {
		if collection[i].ID != id {
			continue
		}
		if collection[i].Status != StatusPending {
			return false, nil
		}
		now := s.nowFunc().UTC()
		collection[i].Status = StatusPaid
		collection[i].PaidAt = &now
		if err := s.save(collection); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
