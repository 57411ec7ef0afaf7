package vfs

import (
	"fmt"
	"log/slog"

	"github.com/litebase/pagedb/internal/utils"
	"github.com/litebase/pagedb/pkg/file"
	"github.com/litebase/pagedb/pkg/storage"
)

// PageTranslator writes every page straight through to the page store. Only
// whole, aligned pages can be written and reads must fall inside a single
// existing page.
type PageTranslator struct {
	buffer   []byte
	pageSize int64
	store    storage.PageStore
}

func NewPageTranslator(store storage.PageStore, pageSize int64) *PageTranslator {
	return &PageTranslator{
		buffer:   make([]byte, pageSize),
		pageSize: pageSize,
		store:    store,
	}
}

// Invalidate is a no-op since every read goes to the store.
func (t *PageTranslator) Invalidate() {}

func (t *PageTranslator) PageSize() int64 {
	return t.pageSize
}

func (t *PageTranslator) ReadAt(p []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrBoundaryViolation, offset)
	}

	pageIndex := file.PageIndex(offset, t.pageSize)
	intraOffset := file.PageIntraOffset(offset, t.pageSize)

	count, err := t.store.PageCount()

	if err != nil {
		return 0, err
	}

	if pageIndex >= int64(count) {
		return 0, fmt.Errorf("%w: page %d of %d", ErrPastEnd, pageIndex, count)
	}

	index, err := utils.SafeInt64ToUint32(pageIndex)

	if err != nil {
		return 0, err
	}

	data, err := t.store.GetPage(index)

	if err != nil {
		slog.Error("Error reading page", "index", index, "error", err)
		return 0, err
	}

	n := copy(t.buffer, data)

	if int64(n) < intraOffset+int64(len(p)) {
		return 0, fmt.Errorf("%w: page %d holds %d bytes, need %d", ErrUnexpectedEOF, index, n, intraOffset+int64(len(p)))
	}

	return copy(p, t.buffer[intraOffset:]), nil
}

// The page size is fixed for the lifetime of the database.
func (t *PageTranslator) SetChunkSize(size int64) error {
	if size != t.pageSize {
		return fmt.Errorf("%w: chunk size %d does not match page size %d", ErrBoundaryViolation, size, t.pageSize)
	}

	return nil
}

func (t *PageTranslator) Size() (int64, error) {
	count, err := t.store.PageCount()

	if err != nil {
		return 0, err
	}

	return file.PageOffset(int64(count), t.pageSize), nil
}

func (t *PageTranslator) Sync() error {
	return nil
}

// Remove every page past the new size, starting with the last one.
func (t *PageTranslator) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrBoundaryViolation, size)
	}

	count, err := t.store.PageCount()

	if err != nil {
		return err
	}

	newCount := file.PageCount(size, t.pageSize)

	for i := int64(count) - 1; i >= newCount; i-- {
		err := t.store.DeletePage(uint32(i))

		if err != nil {
			slog.Error("Error deleting page", "index", i, "error", err)
			return err
		}
	}

	return nil
}

func (t *PageTranslator) WriteAt(p []byte, offset int64) (int, error) {
	if offset < 0 || !file.PageAligned(offset, t.pageSize) || int64(len(p)) != t.pageSize {
		return 0, fmt.Errorf(
			"%w: write of %d bytes at offset %d is not a whole page",
			ErrBoundaryViolation,
			len(p),
			offset,
		)
	}

	index, err := utils.SafeInt64ToUint32(file.PageIndex(offset, t.pageSize))

	if err != nil {
		return 0, err
	}

	copy(t.buffer, p)

	err = t.store.PutPage(index, t.buffer)

	if err != nil {
		slog.Error("Error writing page", "index", index, "error", err)
		return 0, err
	}

	return len(p), nil
}
