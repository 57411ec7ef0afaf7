package vfs_test

import (
	"errors"
	"testing"

	"github.com/litebase/pagedb/internal/test"
	"github.com/litebase/pagedb/pkg/storage"
	"github.com/litebase/pagedb/pkg/vfs"
)

func TestVFSOpen(t *testing.T) {
	c := test.NewConfig(t)
	v := vfs.NewVFS(c, storage.NewMemoryPageStore(c.PageSize), nil)

	handle, err := v.Open(c.DatabaseName, vfs.OpenMainDB)

	if err != nil {
		t.Fatalf("Open() failed, expected nil, got %v", err)
	}

	if handle.Name() != c.DatabaseName {
		t.Errorf("Name() failed, expected %s, got %s", c.DatabaseName, handle.Name())
	}

	if handle.ID() == "" {
		t.Error("ID() failed, expected a handle id")
	}

	if handle.CurrentLock() != vfs.LockNone {
		t.Errorf("CurrentLock() failed, expected none, got %s", handle.CurrentLock())
	}

	if v.LockState().Snapshot().References != 1 {
		t.Errorf("Open() failed, expected 1 reference, got %d", v.LockState().Snapshot().References)
	}
}

func TestVFSOpenUnknownDatabase(t *testing.T) {
	c := test.NewConfig(t)
	v := vfs.NewVFS(c, storage.NewMemoryPageStore(c.PageSize), nil)

	_, err := v.Open("other.db", vfs.OpenMainDB)

	if !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("Open() failed, expected %v, got %v", vfs.ErrNotFound, err)
	}
}

func TestVFSOpenUnsupportedKinds(t *testing.T) {
	c := test.NewConfig(t)
	v := vfs.NewVFS(c, storage.NewMemoryPageStore(c.PageSize), nil)

	kinds := []vfs.OpenKind{
		vfs.OpenMainJournal,
		vfs.OpenTempDB,
		vfs.OpenTempJournal,
		vfs.OpenTransientDB,
		vfs.OpenSubJournal,
		vfs.OpenSuperJournal,
		vfs.OpenWAL,
	}

	for _, kind := range kinds {
		_, err := v.Open(c.DatabaseName, kind)

		if !errors.Is(err, vfs.ErrPermissionDenied) {
			t.Errorf("Open(%s) failed, expected %v, got %v", kind, vfs.ErrPermissionDenied, err)
		}
	}

	if v.LockState().Snapshot().References != 0 {
		t.Error("Open() failed, expected rejected opens to leave no references")
	}
}

func TestVFSExists(t *testing.T) {
	c := test.NewConfig(t)
	store := storage.NewMemoryPageStore(c.PageSize)
	v := vfs.NewVFS(c, store, nil)

	exists, err := v.Exists(c.DatabaseName)

	if err != nil {
		t.Fatal(err)
	}

	if exists {
		t.Error("Exists() failed, expected false for an empty store")
	}

	store.PutPage(0, make([]byte, c.PageSize))

	exists, _ = v.Exists(c.DatabaseName)

	if !exists {
		t.Error("Exists() failed, expected true once a page is stored")
	}

	exists, _ = v.Exists(c.DatabaseName + "-journal")

	if exists {
		t.Error("Exists() failed, expected false for a journal")
	}
}

func TestVFSDelete(t *testing.T) {
	c := test.NewConfig(t)
	store := storage.NewMemoryPageStore(c.PageSize)
	v := vfs.NewVFS(c, store, nil)

	store.PutPage(0, make([]byte, c.PageSize))

	if err := v.Delete(c.DatabaseName + "-journal"); err != nil {
		t.Errorf("Delete() failed, expected nil, got %v", err)
	}

	if err := v.Delete(c.DatabaseName); !errors.Is(err, vfs.ErrPermissionDenied) {
		t.Errorf("Delete() failed, expected %v, got %v", vfs.ErrPermissionDenied, err)
	}

	count, _ := store.PageCount()

	if count != 1 {
		t.Errorf("Delete() failed, expected the database to be kept, got %d pages", count)
	}
}

func TestVFSSleep(t *testing.T) {
	c := test.NewConfig(t)
	sleeper := test.NewFakeSleeper()
	v := vfs.NewVFS(c, storage.NewMemoryPageStore(c.PageSize), sleeper)

	slept := v.Sleep(25)

	if slept.Milliseconds() != 25 {
		t.Errorf("Sleep() failed, expected 25ms, got %v", slept)
	}

	if calls := sleeper.Calls(); len(calls) != 1 || calls[0] != 25 {
		t.Errorf("Sleep() failed, expected one call for 25ms, got %v", calls)
	}
}

func TestVFSPageBuffering(t *testing.T) {
	t.Setenv("PAGEDB_PAGE_BUFFERING", "true")

	c := test.NewConfig(t)
	store := storage.NewMemoryPageStore(c.PageSize)
	v := vfs.NewVFS(c, store, nil)

	handle, _ := v.Open(c.DatabaseName, vfs.OpenMainDB)

	handle.WriteAllAt(test.FilledPage(c.PageSize, 3), 0)

	count, _ := store.PageCount()

	if count != 0 {
		t.Errorf("WriteAllAt() failed, expected buffered writes, got %d stored pages", count)
	}

	if err := handle.Sync(false); err != nil {
		t.Fatal(err)
	}

	count, _ = store.PageCount()

	if count != 1 {
		t.Errorf("Sync() failed, expected 1 stored page, got %d", count)
	}
}
