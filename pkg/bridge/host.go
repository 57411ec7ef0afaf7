package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/litebase/pagedb/pkg/config"
	"github.com/litebase/pagedb/pkg/vfs"
)

type bufferKind int

const (
	bufferKindAllocation bufferKind = iota
	bufferKindError
	bufferKindQueryResult
)

type hostBuffer struct {
	buffer *Buffer
	kind   bufferKind
}

// Host exposes connections and buffers to a host runtime through integer
// handles. Handle 0 is never issued and stands for null.
type Host struct {
	buffers     map[uint32]hostBuffer
	config      *config.Config
	connections map[uint32]*Connection
	context     context.Context
	mutex       *sync.Mutex
	nextHandle  uint32
	vfs         *vfs.VFS
}

func NewHost(ctx context.Context, c *config.Config, v *vfs.VFS) *Host {
	return &Host{
		buffers:     make(map[uint32]hostBuffer),
		config:      c,
		connections: make(map[uint32]*Connection),
		context:     ctx,
		mutex:       &sync.Mutex{},
		vfs:         v,
	}
}

// Allocate a zeroed buffer the host can fill before passing it to a call.
func (h *Host) Alloc(size int) (uint32, error) {
	if size < 0 {
		return 0, fmt.Errorf("invalid allocation size %d", size)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.addBuffer(NewBuffer(make([]byte, size)), bufferKindAllocation), nil
}

func (h *Host) addBuffer(buffer *Buffer, kind bufferKind) uint32 {
	handle := h.handle()

	h.buffers[handle] = hostBuffer{buffer: buffer, kind: kind}

	return handle
}

// Return the contents of any live buffer.
func (h *Host) Bytes(handle uint32) ([]byte, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	entry, ok := h.buffers[handle]

	if !ok {
		return nil, fmt.Errorf("%w: buffer %d", ErrUnknownHandle, handle)
	}

	return entry.buffer.Bytes()
}

// Close every connection and release every buffer still held.
func (h *Host) Close() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var err error

	for handle, connection := range h.connections {
		if closeErr := connection.Close(); closeErr != nil && err == nil {
			err = closeErr
		}

		delete(h.connections, handle)
	}

	for handle, entry := range h.buffers {
		entry.buffer.Release()
		delete(h.buffers, handle)
	}

	return err
}

func (h *Host) connection(handle uint32) (*Connection, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	connection, ok := h.connections[handle]

	if !ok {
		return nil, fmt.Errorf("%w: connection %d", ErrUnknownHandle, handle)
	}

	return connection, nil
}

func (h *Host) ConnDrop(handle uint32) error {
	h.mutex.Lock()
	connection, ok := h.connections[handle]
	delete(h.connections, handle)
	h.mutex.Unlock()

	if !ok {
		return fmt.Errorf("%w: connection %d", ErrUnknownHandle, handle)
	}

	return connection.Close()
}

// Execute the query envelope stored in the payload buffer. It returns 1 on
// success and 0 on failure.
func (h *Host) ConnExecute(handle, payload uint32) (int32, error) {
	connection, err := h.connection(handle)

	if err != nil {
		return 0, err
	}

	data, err := h.Bytes(payload)

	if err != nil {
		return 0, err
	}

	if connection.Execute(data) {
		return 1, nil
	}

	return 0, nil
}

// Return a handle to the connection's last error, or 0 when there is none.
// The handle must be released with LastErrorDrop.
func (h *Host) ConnLastError(handle uint32) (uint32, error) {
	connection, err := h.connection(handle)

	if err != nil {
		return 0, err
	}

	message, ok := connection.LastError()

	if !ok {
		return 0, nil
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.addBuffer(NewBuffer([]byte(message)), bufferKindError), nil
}

func (h *Host) ConnNew() (uint32, error) {
	connection, err := NewConnection(h.context, h.config, h.vfs)

	if err != nil {
		slog.Error("Error opening connection", "error", err)
		return 0, err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	handle := h.handle()
	h.connections[handle] = connection

	return handle, nil
}

// Run the query envelope stored in the payload buffer. It returns a handle
// to the JSON result, or 0 on failure. The result must be released with
// QueryResultDrop.
func (h *Host) ConnQuery(handle, payload uint32) (uint32, error) {
	connection, err := h.connection(handle)

	if err != nil {
		return 0, err
	}

	data, err := h.Bytes(payload)

	if err != nil {
		return 0, err
	}

	result := connection.Query(data)

	if result == nil {
		return 0, nil
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.addBuffer(result, bufferKindQueryResult), nil
}

func (h *Host) Dealloc(handle uint32) error {
	return h.drop(handle, bufferKindAllocation)
}

func (h *Host) drop(handle uint32, kind bufferKind) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	entry, ok := h.buffers[handle]

	if !ok || entry.kind != kind {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, handle)
	}

	delete(h.buffers, handle)

	return entry.buffer.Release()
}

func (h *Host) handle() uint32 {
	h.nextHandle++

	// Skip the null handle on wrap around.
	if h.nextHandle == 0 {
		h.nextHandle++
	}

	return h.nextHandle
}

func (h *Host) LastErrorDrop(handle uint32) error {
	return h.drop(handle, bufferKindError)
}

// Return the writable memory of an allocation.
func (h *Host) Memory(handle uint32) ([]byte, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	entry, ok := h.buffers[handle]

	if !ok || entry.kind != bufferKindAllocation {
		return nil, fmt.Errorf("%w: allocation %d", ErrUnknownHandle, handle)
	}

	return entry.buffer.Bytes()
}

func (h *Host) QueryResultDrop(handle uint32) error {
	return h.drop(handle, bufferKindQueryResult)
}
