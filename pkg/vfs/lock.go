package vfs

import (
	"fmt"
	"log/slog"
	"sync"
)

// LockKind is the lock level held by a database handle. Kinds are totally
// ordered from LockNone to LockExclusive.
type LockKind int

const (
	LockNone LockKind = iota
	LockShared
	LockReserved
	LockPending
	LockExclusive
)

func (k LockKind) String() string {
	switch k {
	case LockNone:
		return "none"
	case LockShared:
		return "shared"
	case LockReserved:
		return "reserved"
	case LockPending:
		return "pending"
	case LockExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// WriteIntent records the strongest write claim made against a database.
type WriteIntent int

const (
	WriteIntentNone WriteIntent = iota
	WriteIntentReserved
	WriteIntentExclusive
)

func (w WriteIntent) String() string {
	switch w {
	case WriteIntentNone:
		return "none"
	case WriteIntentReserved:
		return "reserved"
	case WriteIntentExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("unknown(%d)", int(w))
	}
}

// LockState is shared by every handle opened against the same database. It
// counts readers and records write intent. Handles own their lock kind and
// move it through Transition.
type LockState struct {
	mutex       *sync.Mutex
	readCount   int
	references  int
	writeIntent WriteIntent
}

// LockSnapshot is a point in time copy of a LockState.
type LockSnapshot struct {
	ReadCount   int
	References  int
	WriteIntent WriteIntent
}

func NewLockState() *LockState {
	return &LockState{
		mutex: &sync.Mutex{},
	}
}

func (s *LockState) decrementReadCount() {
	if s.readCount == 0 {
		panic("vfs: lock state read count would become negative")
	}

	s.readCount--
}

func (s *LockState) release() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.references == 0 {
		panic("vfs: lock state released more times than retained")
	}

	s.references--
}

// Report whether a handle holding current should consider the database
// reserved by a writer.
func (s *LockState) Reserved(current LockKind) bool {
	if current > LockShared {
		return true
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.writeIntent != WriteIntentNone
}

func (s *LockState) retain() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.references++
}

func (s *LockState) Snapshot() LockSnapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return LockSnapshot{
		ReadCount:   s.readCount,
		References:  s.references,
		WriteIntent: s.writeIntent,
	}
}

// Transition moves a handle from its current lock kind towards requested,
// updating the shared counters. It returns the kind the handle holds
// afterwards and whether the request was granted. A denied exclusive request
// may still move the handle to LockPending.
func (s *LockState) Transition(current, requested LockKind) (LockKind, bool) {
	if current == requested {
		return current, true
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch requested {
	case LockNone:
		if current == LockShared {
			s.decrementReadCount()
		} else if current >= LockReserved {
			s.writeIntent = WriteIntentNone
		}

		return LockNone, true
	case LockShared:
		if s.writeIntent == WriteIntentExclusive && current <= LockShared {
			return current, false
		}

		s.readCount++

		if current > LockShared {
			s.writeIntent = WriteIntentNone
		}

		return LockShared, true
	case LockReserved:
		if current != LockShared || s.writeIntent != WriteIntentNone {
			return current, false
		}

		s.decrementReadCount()
		s.writeIntent = WriteIntentReserved

		return LockReserved, true
	case LockPending:
		return current, false
	case LockExclusive:
		// Stricter than denying only on an exclusive intent: a reserved
		// holder elsewhere would otherwise end up beside a second writer.
		if current <= LockShared && s.writeIntent != WriteIntentNone {
			return current, false
		}

		if current == LockShared {
			s.decrementReadCount()
		}

		s.writeIntent = WriteIntentExclusive

		if s.readCount == 0 {
			return LockExclusive, true
		}

		return LockPending, false
	}

	slog.Error("Unknown lock kind requested", "kind", requested)

	return current, false
}
