package vfs

// WALIndex describes the shared memory index of a write-ahead log. Databases
// served by this package never use a write-ahead log, so every handle returns
// a disabled index.
type WALIndex interface {
	Enabled() bool
	ReadOnly() bool
}

type disabledWALIndex struct {
	readOnly bool
}

func (w disabledWALIndex) Enabled() bool {
	return false
}

func (w disabledWALIndex) ReadOnly() bool {
	return w.readOnly
}
