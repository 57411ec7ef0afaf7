package vfs

// Pager maps byte ranges of the database file onto pages of a page store.
type Pager interface {
	// Drop any state that may be stale once other handles have written.
	Invalidate()
	PageSize() int64
	ReadAt(p []byte, offset int64) (int, error)
	SetChunkSize(size int64) error
	Size() (int64, error)
	Sync() error
	Truncate(size int64) error
	WriteAt(p []byte, offset int64) (int, error)
}
