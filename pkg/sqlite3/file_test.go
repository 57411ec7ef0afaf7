package sqlite3_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/litebase/pagedb/internal/test"
	"github.com/litebase/pagedb/pkg/sqlite3"
	"github.com/litebase/pagedb/pkg/storage"
	"github.com/litebase/pagedb/pkg/vfs"
	"github.com/psanford/sqlite3vfs"
)

const openMainDB = sqlite3vfs.OpenFlag(0x00000100)

// truncatingPageStore returns every stored page cut down to a fixed length.
type truncatingPageStore struct {
	*storage.MemoryPageStore
	length int
}

func (s *truncatingPageStore) GetPage(index uint32) ([]byte, error) {
	data, err := s.MemoryPageStore.GetPage(index)

	if err != nil {
		return nil, err
	}

	return data[:s.length], nil
}

func openFile(t *testing.T, store storage.PageStore) sqlite3vfs.File {
	t.Helper()

	c := test.NewConfig(t)
	v := vfs.NewVFS(c, store, test.NewFakeSleeper())

	f, _, err := sqlite3.NewVFS(v).Open(c.DatabaseName, openMainDB)

	if err != nil {
		t.Fatalf("Open() failed, expected nil, got %v", err)
	}

	t.Cleanup(func() {
		f.Close()
	})

	return f
}

func TestFileReadAt(t *testing.T) {
	store := storage.NewMemoryPageStore(4096)
	store.PutPage(0, test.FilledPage(4096, 8))

	f := openFile(t, store)
	p := make([]byte, 100)

	n, err := f.ReadAt(p, 24)

	if err != nil || n != 100 {
		t.Fatalf("ReadAt() failed, expected 100 bytes, got %d (%v)", n, err)
	}

	if !bytes.Equal(p, test.FilledPage(100, 8)) {
		t.Error("ReadAt() failed, expected the stored bytes")
	}
}

func TestFileReadAtPastEnd(t *testing.T) {
	f := openFile(t, storage.NewMemoryPageStore(4096))

	n, err := f.ReadAt(make([]byte, 100), 0)

	if err != io.EOF || n != 0 {
		t.Errorf("ReadAt() failed, expected a short read, got %d (%v)", n, err)
	}
}

func TestFileReadAtShortStoredPage(t *testing.T) {
	memory := storage.NewMemoryPageStore(4096)
	memory.PutPage(0, test.FilledPage(4096, 1))

	f := openFile(t, &truncatingPageStore{MemoryPageStore: memory, length: 100})

	n, err := f.ReadAt(make([]byte, 4096), 0)

	if err == nil || err == io.EOF {
		t.Errorf("ReadAt() failed, expected an I/O error, got %d (%v)", n, err)
	}

	if err != sqlite3vfs.IOErrorRead {
		t.Errorf("ReadAt() failed, expected %v, got %v", sqlite3vfs.IOErrorRead, err)
	}
}
