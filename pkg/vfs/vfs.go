package vfs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/litebase/pagedb/pkg/config"
	"github.com/litebase/pagedb/pkg/storage"
)

// OpenKind identifies the kind of file the database engine asks to open.
type OpenKind int

const (
	OpenMainDB OpenKind = iota
	OpenMainJournal
	OpenTempDB
	OpenTempJournal
	OpenTransientDB
	OpenSubJournal
	OpenSuperJournal
	OpenWAL
)

func (k OpenKind) String() string {
	switch k {
	case OpenMainDB:
		return "main-db"
	case OpenMainJournal:
		return "main-journal"
	case OpenTempDB:
		return "temp-db"
	case OpenTempJournal:
		return "temp-journal"
	case OpenTransientDB:
		return "transient-db"
	case OpenSubJournal:
		return "sub-journal"
	case OpenSuperJournal:
		return "super-journal"
	case OpenWAL:
		return "wal"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// VFS serves a single logical database file out of a page store. Every
// handle it opens shares one lock state.
type VFS struct {
	databaseName  string
	lockState     *LockState
	pageBuffering bool
	pageSize      int64
	sleeper       storage.Sleeper
	store         storage.PageStore
}

func NewVFS(c *config.Config, store storage.PageStore, sleeper storage.Sleeper) *VFS {
	if sleeper == nil {
		sleeper = storage.HostSleeper
	}

	return &VFS{
		databaseName:  c.DatabaseName,
		lockState:     NewLockState(),
		pageBuffering: c.PageBuffering,
		pageSize:      c.PageSize,
		sleeper:       sleeper,
		store:         store,
	}
}

func (v *VFS) DatabaseName() string {
	return v.databaseName
}

// Deleting files other than the main database is a no-op since they are
// never created. The main database cannot be deleted through the VFS.
func (v *VFS) Delete(name string) error {
	if name != v.databaseName {
		return nil
	}

	return fmt.Errorf("%w: cannot delete %s", ErrPermissionDenied, name)
}

// Report whether the named file exists. Only the main database can exist and
// only once it holds at least one page.
func (v *VFS) Exists(name string) (bool, error) {
	if name != v.databaseName {
		return false, nil
	}

	count, err := v.store.PageCount()

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (v *VFS) LockState() *LockState {
	return v.lockState
}

// Open a handle to the main database. Journals, write-ahead logs and
// temporary files are not supported.
func (v *VFS) Open(name string, kind OpenKind) (*DatabaseHandle, error) {
	if name != v.databaseName {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if kind != OpenMainDB {
		return nil, fmt.Errorf("%w: cannot open %s as %s", ErrPermissionDenied, name, kind)
	}

	var pager Pager

	if v.pageBuffering {
		pager = NewPageCache(v.store, v.pageSize)
	} else {
		pager = NewPageTranslator(v.store, v.pageSize)
	}

	handle := newDatabaseHandle(uuid.NewString(), name, pager, v.lockState)

	slog.Debug("Opened database handle", "id", handle.id, "name", name, "buffered", v.pageBuffering)

	return handle, nil
}

func (v *VFS) PageSize() int64 {
	return v.pageSize
}

// Sleep yields to the host for the given number of milliseconds.
func (v *VFS) Sleep(ms uint32) time.Duration {
	return v.sleeper.Sleep(ms)
}

func (v *VFS) Sleeper() storage.Sleeper {
	return v.sleeper
}

func (v *VFS) Store() storage.PageStore {
	return v.store
}
