package storage

import (
	"fmt"
	"sync"
)

// MemoryPageStore keeps pages in process memory. It is used for tests and for
// hosts that embed the database without durable storage.
type MemoryPageStore struct {
	count    uint32
	mutex    *sync.RWMutex
	pages    map[uint32][]byte
	pageSize int64
}

func NewMemoryPageStore(pageSize int64) *MemoryPageStore {
	return &MemoryPageStore{
		mutex:    &sync.RWMutex{},
		pages:    make(map[uint32][]byte),
		pageSize: pageSize,
	}
}

func (s *MemoryPageStore) DeletePage(index uint32) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.pages, index)

	if s.count > 0 && index == s.count-1 {
		s.count = index
	}

	return nil
}

func (s *MemoryPageStore) GetPage(index uint32) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if index >= s.count {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, index)
	}

	data := make([]byte, s.pageSize)

	// Pages inside the count that were never written read as zeros.
	if page, ok := s.pages[index]; ok {
		copy(data, page)
	}

	return data, nil
}

func (s *MemoryPageStore) PageCount() (uint32, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.count, nil
}

func (s *MemoryPageStore) PageSize() int64 {
	return s.pageSize
}

func (s *MemoryPageStore) PutPage(index uint32, data []byte) error {
	if int64(len(data)) != s.pageSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPageSize, s.pageSize, len(data))
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	page := make([]byte, len(data))
	copy(page, data)

	s.pages[index] = page

	if index >= s.count {
		s.count = index + 1
	}

	return nil
}
