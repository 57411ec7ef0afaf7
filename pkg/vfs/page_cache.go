package vfs

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/litebase/pagedb/internal/utils"
	"github.com/litebase/pagedb/pkg/file"
	"github.com/litebase/pagedb/pkg/storage"
)

// PageCache buffers pages in memory and pushes modified pages to the page
// store when the database is synced. Writes may cover any range inside a
// single page.
type PageCache struct {
	count    uint32
	dirty    map[uint32]struct{}
	loaded   bool
	pages    map[uint32][]byte
	pageSize int64
	store    storage.PageStore
}

func NewPageCache(store storage.PageStore, pageSize int64) *PageCache {
	return &PageCache{
		dirty:    make(map[uint32]struct{}),
		pages:    make(map[uint32][]byte),
		pageSize: pageSize,
		store:    store,
	}
}

// Return the indexes of pages that have not been flushed, in ascending order.
func (c *PageCache) DirtyPages() []uint32 {
	indexes := make([]uint32, 0, len(c.dirty))

	for index := range c.dirty {
		indexes = append(indexes, index)
	}

	slices.Sort(indexes)

	return indexes
}

// Push dirty pages to the store in ascending index order.
func (c *PageCache) Flush() error {
	for _, index := range c.DirtyPages() {
		err := c.store.PutPage(index, c.pages[index])

		if err != nil {
			slog.Error("Error flushing page", "index", index, "error", err)
			return err
		}

		delete(c.dirty, index)
	}

	return nil
}

// Invalidate drops clean pages and forgets the page count so both are read
// from the store again. Dirty pages are kept until they are flushed.
func (c *PageCache) Invalidate() {
	for index := range c.pages {
		if _, ok := c.dirty[index]; !ok {
			delete(c.pages, index)
		}
	}

	c.loaded = false
}

func (c *PageCache) load() error {
	if c.loaded {
		return nil
	}

	count, err := c.store.PageCount()

	if err != nil {
		return err
	}

	// Unflushed pages past the end of the store still count.
	for index := range c.dirty {
		if index >= count {
			count = index + 1
		}
	}

	c.count = count
	c.loaded = true

	return nil
}

// Return the cached page at index, fetching it from the store on first touch.
// Pages past the end of the database are only created when create is set.
func (c *PageCache) page(index uint32, create bool) ([]byte, error) {
	if page, ok := c.pages[index]; ok {
		return page, nil
	}

	if index >= c.count {
		if !create {
			return nil, fmt.Errorf("%w: page %d of %d", ErrPastEnd, index, c.count)
		}

		page := make([]byte, c.pageSize)
		c.pages[index] = page

		return page, nil
	}

	storeCount, err := c.store.PageCount()

	if err != nil {
		return nil, err
	}

	// Gaps left by unflushed writes past the end of the store.
	if index >= storeCount {
		if !create {
			return nil, fmt.Errorf("%w: page %d is not stored", ErrPastEnd, index)
		}

		page := make([]byte, c.pageSize)
		c.pages[index] = page

		return page, nil
	}

	data, err := c.store.GetPage(index)

	if err != nil {
		slog.Error("Error reading page", "index", index, "error", err)
		return nil, err
	}

	page := make([]byte, c.pageSize)

	if copy(page, data) < int(c.pageSize) {
		return nil, fmt.Errorf("%w: page %d holds %d bytes", ErrUnexpectedEOF, index, len(data))
	}

	c.pages[index] = page

	return page, nil
}

func (c *PageCache) PageSize() int64 {
	return c.pageSize
}

func (c *PageCache) ReadAt(p []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrBoundaryViolation, offset)
	}

	if err := c.load(); err != nil {
		return 0, err
	}

	intraOffset := file.PageIntraOffset(offset, c.pageSize)

	if intraOffset+int64(len(p)) > c.pageSize {
		return 0, fmt.Errorf("%w: read of %d bytes at offset %d crosses a page", ErrUnexpectedEOF, len(p), offset)
	}

	index, err := utils.SafeInt64ToUint32(file.PageIndex(offset, c.pageSize))

	if err != nil {
		return 0, err
	}

	page, err := c.page(index, false)

	if err != nil {
		return 0, err
	}

	return copy(p, page[intraOffset:]), nil
}

func (c *PageCache) SetChunkSize(size int64) error {
	if size != c.pageSize {
		return fmt.Errorf("%w: chunk size %d does not match page size %d", ErrBoundaryViolation, size, c.pageSize)
	}

	return nil
}

func (c *PageCache) Size() (int64, error) {
	if err := c.load(); err != nil {
		return 0, err
	}

	return file.PageOffset(int64(c.count), c.pageSize), nil
}

func (c *PageCache) Sync() error {
	return c.Flush()
}

// Drop cached pages past the new size, then remove them from the store
// starting with the last one.
func (c *PageCache) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrBoundaryViolation, size)
	}

	if err := c.load(); err != nil {
		return err
	}

	newCount := file.PageCount(size, c.pageSize)

	for index := range c.pages {
		if int64(index) >= newCount {
			delete(c.pages, index)
			delete(c.dirty, index)
		}
	}

	storeCount, err := c.store.PageCount()

	if err != nil {
		return err
	}

	for i := int64(storeCount) - 1; i >= newCount; i-- {
		err := c.store.DeletePage(uint32(i))

		if err != nil {
			slog.Error("Error deleting page", "index", i, "error", err)
			return err
		}
	}

	if newCount < int64(c.count) {
		c.count = uint32(newCount)
	}

	return nil
}

func (c *PageCache) WriteAt(p []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrBoundaryViolation, offset)
	}

	intraOffset := file.PageIntraOffset(offset, c.pageSize)

	if intraOffset+int64(len(p)) > c.pageSize {
		return 0, fmt.Errorf("%w: write of %d bytes at offset %d crosses a page", ErrBoundaryViolation, len(p), offset)
	}

	if err := c.load(); err != nil {
		return 0, err
	}

	index, err := utils.SafeInt64ToUint32(file.PageIndex(offset, c.pageSize))

	if err != nil {
		return 0, err
	}

	page, err := c.page(index, true)

	if err != nil {
		return 0, err
	}

	n := copy(page[intraOffset:], p)

	c.dirty[index] = struct{}{}

	if index >= c.count {
		c.count = index + 1
	}

	return n, nil
}
