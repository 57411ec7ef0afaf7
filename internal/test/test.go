package test

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/litebase/pagedb/pkg/storage"
)

// Return a page of random bytes.
func RandomPage(pageSize int64) []byte {
	data := make([]byte, pageSize)

	_, err := rand.Read(data)

	if err != nil {
		panic(err)
	}

	return data
}

// Return a page filled with a single byte value.
func FilledPage(pageSize int64, value byte) []byte {
	data := make([]byte, pageSize)

	for i := range data {
		data[i] = value
	}

	return data
}

// FakeSleeper records requested sleeps without blocking.
type FakeSleeper struct {
	mutex *sync.Mutex
	calls []uint32
}

func NewFakeSleeper() *FakeSleeper {
	return &FakeSleeper{
		mutex: &sync.Mutex{},
	}
}

func (s *FakeSleeper) Calls() []uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	calls := make([]uint32, len(s.calls))
	copy(calls, s.calls)

	return calls
}

func (s *FakeSleeper) Sleep(ms uint32) time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls = append(s.calls, ms)

	return time.Duration(ms) * time.Millisecond
}

var _ storage.Sleeper = (*FakeSleeper)(nil)
