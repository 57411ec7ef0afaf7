package vfs

import (
	"fmt"
	"log/slog"
	"sync"
)

// DatabaseHandle is a single open connection to the database file. It owns
// its lock kind and shares the lock state with every other handle of the
// same database.
type DatabaseHandle struct {
	closed    bool
	id        string
	lock      LockKind
	lockState *LockState
	mutex     *sync.Mutex
	name      string
	pager     Pager
}

func newDatabaseHandle(id, name string, pager Pager, lockState *LockState) *DatabaseHandle {
	lockState.retain()

	return &DatabaseHandle{
		id:        id,
		lock:      LockNone,
		lockState: lockState,
		mutex:     &sync.Mutex{},
		name:      name,
		pager:     pager,
	}
}

// Close releases any held lock, flushes buffered pages and drops the
// handle's reference to the shared lock state.
func (h *DatabaseHandle) Close() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return ErrHandleClosed
	}

	err := h.pager.Sync()

	if h.lock != LockNone {
		h.lock, _ = h.lockState.Transition(h.lock, LockNone)
	}

	h.lockState.release()
	h.closed = true

	slog.Debug("Closed database handle", "id", h.id, "name", h.name)

	return err
}

func (h *DatabaseHandle) CurrentLock() LockKind {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.lock
}

func (h *DatabaseHandle) ID() string {
	return h.id
}

// Request the given lock kind. A denied request is not an error; the caller
// is expected to back off and retry.
func (h *DatabaseHandle) Lock(kind LockKind) (bool, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return false, ErrHandleClosed
	}

	previous := h.lock

	// Buffered pages reach the store before the lock is lowered.
	if kind < previous {
		if err := h.pager.Sync(); err != nil {
			return false, err
		}
	}

	var granted bool

	h.lock, granted = h.lockState.Transition(h.lock, kind)

	// Other handles may have written while this one held no lock.
	if granted && previous == LockNone && h.lock == LockShared {
		h.pager.Invalidate()
	}

	slog.Debug(
		"Lock transition",
		"id", h.id,
		"from", previous,
		"requested", kind,
		"to", h.lock,
		"granted", granted,
	)

	return granted, nil
}

func (h *DatabaseHandle) Name() string {
	return h.name
}

// Read exactly len(p) bytes at offset.
func (h *DatabaseHandle) ReadExactAt(p []byte, offset int64) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return ErrHandleClosed
	}

	n, err := h.pager.ReadAt(p, offset)

	if err != nil {
		return err
	}

	if n != len(p) {
		return fmt.Errorf("%w: read %d of %d bytes", ErrUnexpectedEOF, n, len(p))
	}

	return nil
}

func (h *DatabaseHandle) Reserved() (bool, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return false, ErrHandleClosed
	}

	return h.lockState.Reserved(h.lock), nil
}

func (h *DatabaseHandle) SetChunkSize(size int64) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return ErrHandleClosed
	}

	return h.pager.SetChunkSize(size)
}

func (h *DatabaseHandle) SetLen(size int64) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return ErrHandleClosed
	}

	return h.pager.Truncate(size)
}

func (h *DatabaseHandle) Size() (int64, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return 0, ErrHandleClosed
	}

	return h.pager.Size()
}

// Sync pushes buffered pages to the page store. Data only syncs are treated
// the same as full syncs since the store has no separate metadata.
func (h *DatabaseHandle) Sync(dataOnly bool) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return ErrHandleClosed
	}

	return h.pager.Sync()
}

func (h *DatabaseHandle) WALIndex(readOnly bool) WALIndex {
	return disabledWALIndex{readOnly: readOnly}
}

// Write all of p at offset.
func (h *DatabaseHandle) WriteAllAt(p []byte, offset int64) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.closed {
		return ErrHandleClosed
	}

	n, err := h.pager.WriteAt(p, offset)

	if err != nil {
		return err
	}

	if n != len(p) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrBoundaryViolation, n, len(p))
	}

	return nil
}
