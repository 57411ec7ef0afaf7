package bridge

import "sync"

// Buffer is a byte sequence handed across the host boundary. Its owner must
// release it exactly once; every use after release fails.
type Buffer struct {
	data     []byte
	mutex    *sync.Mutex
	released bool
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{
		data:  data,
		mutex: &sync.Mutex{},
	}
}

// Return the buffer contents. The slice is owned by the buffer and must not
// be used after Release.
func (b *Buffer) Bytes() ([]byte, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.released {
		return nil, ErrBufferReleased
	}

	return b.data, nil
}

func (b *Buffer) Cap() (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.released {
		return 0, ErrBufferReleased
	}

	return cap(b.data), nil
}

func (b *Buffer) Len() (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.released {
		return 0, ErrBufferReleased
	}

	return len(b.data), nil
}

func (b *Buffer) Release() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.released {
		return ErrBufferReleased
	}

	b.data = nil
	b.released = true

	return nil
}
