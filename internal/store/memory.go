package store

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/i474232898/weather-records/internal/records"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
)

// MemoryStore is a concurrency-safe in-memory repository of weather records.
type MemoryStore struct {
	mu sync.RWMutex

	// key: numeric record id
	data   map[int]records.Record
	nextID int

	// retention: oldest records are dropped beyond maxRecords (0 = unlimited)
	maxRecords int

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
// If maxRecords is <= 0, it is treated as unlimited.
func NewMemoryStore(maxRecords int) *MemoryStore {
	return &MemoryStore{
		data:       make(map[int]records.Record),
		maxRecords: maxRecords,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) timestamp() string {
	return s.now().Format(time.RFC3339)
}

// Insert assigns the next id and timestamps to rec and stores it.
func (s *MemoryStore) Insert(rec records.Record) records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rec.ID = records.ID(strconv.Itoa(s.nextID))
	rec.CreatedAt = s.timestamp()
	rec.UpdatedAt = rec.CreatedAt
	s.data[s.nextID] = rec

	// Enforce retention by count.
	if s.maxRecords > 0 && len(s.data) > s.maxRecords {
		ids := s.sortedIDs()
		for _, id := range ids[:len(ids)-s.maxRecords] {
			delete(s.data, id)
		}
	}
	return rec
}

// Get returns the record with id.
func (s *MemoryStore) Get(id records.ID) (records.Record, error) {
	key, err := parseID(id)
	if err != nil {
		return records.Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[key]
	if !ok {
		return records.Record{}, ErrNotFound
	}
	return rec, nil
}

// Replace overwrites an existing record, keeping its id and creation time.
func (s *MemoryStore) Replace(rec records.Record) (records.Record, error) {
	key, err := parseID(rec.ID)
	if err != nil {
		return records.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.data[key]
	if !ok {
		return records.Record{}, ErrNotFound
	}
	rec.CreatedAt = old.CreatedAt
	rec.UpdatedAt = s.timestamp()
	s.data[key] = rec
	return rec, nil
}

// Delete removes the record with id.
func (s *MemoryStore) Delete(id records.ID) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return ErrNotFound
	}
	delete(s.data, key)
	return nil
}

// List returns all records ordered by id, newest first when newestFirst is set.
func (s *MemoryStore) List(newestFirst bool) []records.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDs()
	result := make([]records.Record, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.data[id])
	}
	if newestFirst {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	return result
}

func (s *MemoryStore) sortedIDs() []int {
	ids := make([]int, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func parseID(id records.ID) (int, error) {
	n, err := strconv.Atoi(id.String())
	if err != nil || n <= 0 {
		return 0, ErrNotFound
	}
	return n, nil
}
