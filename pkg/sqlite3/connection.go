package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/litebase/pagedb/pkg/config"
	"github.com/litebase/pagedb/pkg/vfs"
	gosqlite3 "github.com/mattn/go-sqlite3"
	"github.com/psanford/sqlite3vfs"
)

var ErrJournalMode = errors.New("journal mode could not be set to memory")

// Connection is a single engine connection to the database served by a VFS.
type Connection struct {
	conn    *sql.Conn
	db      *sql.DB
	id      string
	vfsName string
}

var (
	registeredVFS      = map[*vfs.VFS]string{}
	registeredVFSMutex = &sync.Mutex{}
)

// Register the VFS with the engine under a name that is unique to this
// VFS. Registering the same VFS again returns the name it already has.
func Register(c *config.Config, v *vfs.VFS) (string, error) {
	registeredVFSMutex.Lock()
	defer registeredVFSMutex.Unlock()

	if name, ok := registeredVFS[v]; ok {
		return name, nil
	}

	name := fmt.Sprintf("%s-%s", c.VFSName, uuid.NewString())

	err := sqlite3vfs.RegisterVFS(name, NewVFS(v))

	if err != nil {
		slog.Error("Error registering VFS", "name", name, "error", err)
		return "", err
	}

	registeredVFS[v] = name

	return name, nil
}

// Open a connection to the database through the VFS. The page size is pinned
// when the database is created, the rollback journal is kept in memory and
// temporary storage never touches files.
func Open(ctx context.Context, c *config.Config, v *vfs.VFS) (*Connection, error) {
	vfsName, err := Register(c, v)

	if err != nil {
		return nil, err
	}

	db, err := sql.Open(
		"sqlite3",
		fmt.Sprintf("file:%s?vfs=%s&_busy_timeout=0", c.DatabaseName, vfsName),
	)

	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)

	if err != nil {
		db.Close()
		return nil, err
	}

	connection := &Connection{
		conn:    conn,
		db:      db,
		id:      uuid.NewString(),
		vfsName: vfsName,
	}

	err = connection.configure(ctx, c, v)

	if err != nil {
		connection.Close()
		return nil, err
	}

	slog.Debug("Opened connection", "id", connection.id, "vfs", vfsName)

	return connection, nil
}

func (c *Connection) Close() error {
	err := c.conn.Close()

	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}

	return err
}

func (c *Connection) configure(ctx context.Context, cfg *config.Config, v *vfs.VFS) error {
	exists, err := v.Exists(cfg.DatabaseName)

	if err != nil {
		return err
	}

	if !exists {
		_, err = c.conn.ExecContext(ctx, fmt.Sprintf("PRAGMA page_size = %d", cfg.PageSize))

		if err != nil {
			return err
		}
	}

	var mode string

	err = c.conn.QueryRowContext(ctx, "PRAGMA journal_mode = MEMORY").Scan(&mode)

	if err != nil {
		return err
	}

	if !strings.EqualFold(mode, "memory") {
		return fmt.Errorf("%w: got %s", ErrJournalMode, mode)
	}

	_, err = c.conn.ExecContext(ctx, "PRAGMA temp_store = MEMORY")

	return err
}

func (c *Connection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c *Connection) ID() string {
	return c.id
}

func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.conn.QueryContext(ctx, query, args...)
}

func (c *Connection) VFSName() string {
	return c.vfsName
}

// Report whether err is the engine reporting a locked database.
func IsBusy(err error) bool {
	var sqliteErr gosqlite3.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == gosqlite3.ErrBusy
	}

	return errors.Is(err, vfs.ErrBusy)
}

// Conn returns the pinned engine connection.
func (c *Connection) Conn() *sql.Conn {
	return c.conn
}
