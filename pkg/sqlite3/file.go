package sqlite3

import (
	"errors"
	"io"
	"log/slog"

	"github.com/litebase/pagedb/pkg/vfs"
	"github.com/psanford/sqlite3vfs"
)

// File exposes a database handle to the engine.
type File struct {
	handle   *vfs.DatabaseHandle
	pageSize int64
}

func (f *File) CheckReservedLock() (bool, error) {
	return f.handle.Reserved()
}

func (f *File) Close() error {
	err := f.handle.Close()

	if errors.Is(err, vfs.ErrHandleClosed) {
		return nil
	}

	return err
}

func (f *File) DeviceCharacteristics() sqlite3vfs.DeviceCharacteristic {
	return sqlite3vfs.IocapAtomic64K | sqlite3vfs.IocapSafeAppend | sqlite3vfs.IocapSequential
}

func (f *File) FileSize() (int64, error) {
	return f.handle.Size()
}

// Lock raises the handle's lock. A denied request is reported as busy so the
// engine can back off and retry.
func (f *File) Lock(elock sqlite3vfs.LockType) error {
	granted, err := f.handle.Lock(lockKind(elock))

	if err != nil {
		return err
	}

	if !granted {
		return sqlite3vfs.BusyError
	}

	return nil
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	err := f.handle.ReadExactAt(p, off)

	if err != nil {
		// The engine treats EOF as a short read and zero fills the rest.
		if errors.Is(err, vfs.ErrPastEnd) {
			return 0, io.EOF
		}

		slog.Error("Error reading database file", "offset", off, "length", len(p), "error", err)

		return 0, sqlite3vfs.IOErrorRead
	}

	return len(p), nil
}

func (f *File) SectorSize() int64 {
	return f.pageSize
}

func (f *File) Sync(flag sqlite3vfs.SyncType) error {
	return f.handle.Sync(flag&sqlite3vfs.SyncDataOnly != 0)
}

func (f *File) Truncate(size int64) error {
	return f.handle.SetLen(size)
}

// Unlock lowers the handle's lock to elock. Requests that would not lower the
// lock are ignored.
func (f *File) Unlock(elock sqlite3vfs.LockType) error {
	kind := lockKind(elock)

	if f.handle.CurrentLock() <= kind {
		return nil
	}

	granted, err := f.handle.Lock(kind)

	if err != nil {
		return err
	}

	if !granted {
		return sqlite3vfs.BusyError
	}

	return nil
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	err := f.handle.WriteAllAt(p, off)

	if err != nil {
		slog.Error("Error writing database file", "offset", off, "length", len(p), "error", err)
		return 0, err
	}

	return len(p), nil
}

func lockKind(elock sqlite3vfs.LockType) vfs.LockKind {
	switch elock {
	case sqlite3vfs.LockShared:
		return vfs.LockShared
	case sqlite3vfs.LockReserved:
		return vfs.LockReserved
	case sqlite3vfs.LockPending:
		return vfs.LockPending
	case sqlite3vfs.LockExclusive:
		return vfs.LockExclusive
	default:
		return vfs.LockNone
	}
}
