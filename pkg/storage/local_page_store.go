package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/litebase/pagedb/internal/utils"
	"github.com/litebase/pagedb/pkg/file"
)

// LocalPageStore keeps each page in its own file below a data directory. The
// page count is persisted in a metadata file next to the pages.
type LocalPageStore struct {
	count    uint32
	mutex    *sync.Mutex
	path     string
	pageSize int64
}

func NewLocalPageStore(path string, pageSize int64) (*LocalPageStore, error) {
	s := &LocalPageStore{
		mutex:    &sync.Mutex{},
		path:     path,
		pageSize: pageSize,
	}

	err := os.MkdirAll(s.pagesPath(), 0750)

	if err != nil {
		slog.Error("Error creating page directory", "path", s.pagesPath(), "error", err)
		return nil, err
	}

	err = s.loadMetadata()

	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *LocalPageStore) DeletePage(index uint32) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := os.Remove(s.pagePath(index))

	if err != nil && !os.IsNotExist(err) {
		slog.Error("Error removing page", "index", index, "error", err)
		return err
	}

	if s.count > 0 && index == s.count-1 {
		return s.saveMetadata(index)
	}

	return nil
}

func (s *LocalPageStore) GetPage(index uint32) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index >= s.count {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, index)
	}

	data, err := os.ReadFile(s.pagePath(index))

	if err != nil {
		if os.IsNotExist(err) {
			return make([]byte, s.pageSize), nil
		}

		slog.Error("Error reading page", "index", index, "error", err)

		return nil, err
	}

	return data, nil
}

func (s *LocalPageStore) loadMetadata() error {
	data, err := os.ReadFile(s.metadataPath())

	if err != nil {
		if os.IsNotExist(err) {
			s.count = 0
			return nil
		}

		return err
	}

	if len(data) < 8 {
		return errors.New("page store metadata is truncated")
	}

	count, err := utils.SafeUint64ToUint32(binary.LittleEndian.Uint64(data))

	if err != nil {
		slog.Error("Error decoding page store metadata", "error", err)
		return err
	}

	s.count = count

	return nil
}

func (s *LocalPageStore) metadataPath() string {
	return filepath.Join(s.path, "_METADATA")
}

func (s *LocalPageStore) PageCount() (uint32, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.count, nil
}

func (s *LocalPageStore) pagePath(index uint32) string {
	return filepath.Join(s.pagesPath(), fmt.Sprintf("%010d", index))
}

func (s *LocalPageStore) pagesPath() string {
	return filepath.Join(s.path, "pages")
}

func (s *LocalPageStore) PageSize() int64 {
	return s.pageSize
}

// Write the page to a temporary file and rename it into place so a page is
// never observed half written.
func (s *LocalPageStore) PutPage(index uint32, data []byte) error {
	if int64(len(data)) != s.pageSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPageSize, s.pageSize, len(data))
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	path := s.pagePath(index)

	err := file.EnsureDirectoryExists(path)

	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"

	err = os.WriteFile(tmpPath, data, 0600)

	if err != nil {
		slog.Error("Error writing page", "index", index, "error", err)
		return err
	}

	err = os.Rename(tmpPath, path)

	if err != nil {
		slog.Error("Error renaming page", "index", index, "error", err)
		return err
	}

	if index >= s.count {
		return s.saveMetadata(index + 1)
	}

	return nil
}

func (s *LocalPageStore) saveMetadata(count uint32) error {
	data := make([]byte, 8)

	binary.LittleEndian.PutUint64(data, uint64(count))

	err := os.WriteFile(s.metadataPath(), data, 0600)

	if err != nil {
		slog.Error("Error writing page store metadata", "error", err)
		return err
	}

	s.count = count

	return nil
}
