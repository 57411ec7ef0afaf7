package storage

import (
	"errors"
	"time"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrInvalidPageSize = errors.New("invalid page size")
)

// PageStore is durable storage addressed by page index. The host is the
// authority for page contents; adapters must treat every returned slice as
// borrowed and copy it before the next call.
type PageStore interface {
	// Return the number of pages held by the store.
	PageCount() (uint32, error)

	// Return the contents of the page at index. Only indexes below
	// PageCount() are valid.
	GetPage(index uint32) ([]byte, error)

	// Persist a full page at index, extending the page count if needed.
	PutPage(index uint32, data []byte) error

	// Remove the page at index.
	DeletePage(index uint32) error
}

// Sleeper yields the caller for the given number of milliseconds and reports
// how long it actually slept.
type Sleeper interface {
	Sleep(ms uint32) time.Duration
}

type SleeperFunc func(ms uint32) time.Duration

func (f SleeperFunc) Sleep(ms uint32) time.Duration {
	return f(ms)
}

// HostSleeper sleeps on the current goroutine.
var HostSleeper Sleeper = SleeperFunc(func(ms uint32) time.Duration {
	start := time.Now()

	time.Sleep(time.Duration(ms) * time.Millisecond)

	return time.Since(start)
})
