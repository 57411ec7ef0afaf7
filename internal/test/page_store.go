package test

import (
	"fmt"
	"sync"

	"github.com/litebase/pagedb/pkg/storage"
)

// PageStoreCall is a single operation observed by a RecordingPageStore.
type PageStoreCall struct {
	Op    string
	Index uint32
}

func (c PageStoreCall) String() string {
	return fmt.Sprintf("%s(%d)", c.Op, c.Index)
}

// RecordingPageStore wraps a page store and records every page operation.
// With Poison set, the slice returned by the previous GetPage is overwritten
// on the next call so that callers holding on to it observe garbage.
type RecordingPageStore struct {
	calls    []PageStoreCall
	lastPage []byte
	mutex    *sync.Mutex
	Poison   bool
	Store    storage.PageStore
}

func NewRecordingPageStore(store storage.PageStore) *RecordingPageStore {
	return &RecordingPageStore{
		mutex: &sync.Mutex{},
		Store: store,
	}
}

func (s *RecordingPageStore) Calls(op string) []PageStoreCall {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	calls := []PageStoreCall{}

	for _, call := range s.calls {
		if op == "" || call.Op == op {
			calls = append(calls, call)
		}
	}

	return calls
}

func (s *RecordingPageStore) DeletePage(index uint32) error {
	s.record("DeletePage", index)

	return s.Store.DeletePage(index)
}

func (s *RecordingPageStore) GetPage(index uint32) ([]byte, error) {
	s.record("GetPage", index)

	data, err := s.Store.GetPage(index)

	if err != nil {
		return nil, err
	}

	if s.Poison {
		s.mutex.Lock()
		s.lastPage = data
		s.mutex.Unlock()
	}

	return data, nil
}

func (s *RecordingPageStore) PageCount() (uint32, error) {
	return s.Store.PageCount()
}

func (s *RecordingPageStore) PutPage(index uint32, data []byte) error {
	s.record("PutPage", index)

	return s.Store.PutPage(index, data)
}

func (s *RecordingPageStore) record(op string, index uint32) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.lastPage {
		s.lastPage[i] = 0xEE
	}

	s.lastPage = nil
	s.calls = append(s.calls, PageStoreCall{Op: op, Index: index})
}

func (s *RecordingPageStore) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls = nil
}

// FailingPageStore returns Err from every operation.
type FailingPageStore struct {
	Err error
}

func (s FailingPageStore) DeletePage(index uint32) error {
	return s.Err
}

func (s FailingPageStore) GetPage(index uint32) ([]byte, error) {
	return nil, s.Err
}

func (s FailingPageStore) PageCount() (uint32, error) {
	return 0, s.Err
}

func (s FailingPageStore) PutPage(index uint32, data []byte) error {
	return s.Err
}
