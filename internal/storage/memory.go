package storage

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// MemoryStore keeps encoded documents in process memory. Documents go through
// the same codec as the file and postgres stores, so callers never share
// pointers with the store.
type MemoryStore struct {
	mu     sync.Mutex
	docs   map[string][]byte
	failOn map[string]error
	saves  map[string]int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string][]byte),
		failOn: make(map[string]error),
		saves:  make(map[string]int),
	}
}

// FailSaves makes every subsequent save of the named document return err.
// A nil err clears the failure.
func (s *MemoryStore) FailSaves(document string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, document)
		return
	}
	s.failOn[document] = err
}

// Saves reports how many successful saves the named document has seen.
func (s *MemoryStore) Saves(document string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[document]
}

// Raw returns the stored bytes of a document.
func (s *MemoryStore) Raw(document string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[document]
}

// SetRaw replaces the stored bytes of a document.
func (s *MemoryStore) SetRaw(document string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[document] = data
}

func (s *MemoryStore) LoadUsers(ctx context.Context) (map[string]*model.User, error) {
	return DecodeUsers(s.Raw(UsersDocument))
}

func (s *MemoryStore) SaveUsers(ctx context.Context, users map[string]*model.User) error {
	data, err := EncodeUsers(users)
	if err != nil {
		return err
	}
	return s.put(UsersDocument, data)
}

func (s *MemoryStore) LoadEvents(ctx context.Context) (map[string]*model.Event, error) {
	return DecodeEvents(s.Raw(EventsDocument))
}

func (s *MemoryStore) SaveEvents(ctx context.Context, events map[string]*model.Event) error {
	data, err := EncodeEvents(events)
	if err != nil {
		return err
	}
	return s.put(EventsDocument, data)
}

func (s *MemoryStore) put(document string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[document]; err != nil {
		return err
	}
	s.docs[document] = data
	s.saves[document]++
	return nil
}
