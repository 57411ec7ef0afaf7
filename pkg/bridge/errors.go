package bridge

import "errors"

var (
	ErrBufferReleased = errors.New("buffer has been released")
	ErrEngine         = errors.New("engine error")
	ErrSerialization  = errors.New("serialization error")
	ErrUnknownHandle  = errors.New("unknown handle")
)
