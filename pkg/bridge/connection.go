package bridge

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/litebase/pagedb/pkg/config"
	"github.com/litebase/pagedb/pkg/sqlite3"
	"github.com/litebase/pagedb/pkg/vfs"
)

// Connection runs serialized queries from the host against one engine
// connection. Failures are kept as the connection's last error until the
// host retrieves them.
type Connection struct {
	connection *sqlite3.Connection
	context    context.Context
	lastError  error
	mutex      *sync.Mutex
	retrier    *vfs.BusyRetrier
}

func NewConnection(ctx context.Context, c *config.Config, v *vfs.VFS) (*Connection, error) {
	connection, err := sqlite3.Open(ctx, c, v)

	if err != nil {
		return nil, err
	}

	retrier := vfs.NewBusyRetrier(c, v.Sleeper())
	retrier.IsBusy = sqlite3.IsBusy

	return &Connection{
		connection: connection,
		context:    ctx,
		mutex:      &sync.Mutex{},
		retrier:    retrier,
	}, nil
}

func (c *Connection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.connection.Close()
}

// Execute a statement. It returns false on failure; the reason is available
// through LastError.
func (c *Connection) Execute(payload []byte) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query, args, err := c.prepare(payload)

	if err != nil {
		c.lastError = err
		return false
	}

	err = c.retrier.Do(func() error {
		_, err := c.connection.Exec(c.context, query.SQL, args...)

		return err
	})

	if err != nil {
		slog.Debug("Statement failed", "error", err)
		c.lastError = newChainError(ErrEngine, "failed to execute statement", err)

		return false
	}

	return true
}

// Retrieve and clear the last error recorded on the connection.
func (c *Connection) LastError() (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.lastError == nil {
		return "", false
	}

	message := FormatErrorChain(c.lastError)
	c.lastError = nil

	return message, true
}

func (c *Connection) prepare(payload []byte) (*Query, []any, error) {
	query, err := DecodeQuery(payload)

	if err != nil {
		return nil, nil, err
	}

	args, err := query.Arguments()

	if err != nil {
		return nil, nil, err
	}

	return query, args, nil
}

// Run a query and return its rows as a JSON array of objects. A nil buffer
// signals failure; the reason is available through LastError.
func (c *Connection) Query(payload []byte) *Buffer {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query, args, err := c.prepare(payload)

	if err != nil {
		c.lastError = err
		return nil
	}

	buffer := &bytes.Buffer{}

	err = c.retrier.Do(func() error {
		buffer.Reset()

		rows, err := c.connection.Query(c.context, query.SQL, args...)

		if err != nil {
			return err
		}

		return WriteRows(buffer, rows)
	})

	if err != nil {
		slog.Debug("Query failed", "error", err)
		c.lastError = newChainError(ErrEngine, "failed to run query", err)

		return nil
	}

	return NewBuffer(buffer.Bytes())
}
