package sqlite3

import (
	"crypto/rand"
	"log/slog"
	"math"
	"time"

	"github.com/litebase/pagedb/pkg/vfs"
	"github.com/psanford/sqlite3vfs"
)

// Open flag bits that select the kind of file being opened.
const (
	openMainDB        = 0x00000100
	openTempDB        = 0x00000200
	openTransientDB   = 0x00000400
	openMainJournal   = 0x00000800
	openTempJournal   = 0x00001000
	openSubJournal    = 0x00002000
	openSuperJournal  = 0x00004000
	openWAL           = 0x00080000
	maxSleepMillisecs = math.MaxUint32
)

// VFS adapts a page store backed VFS to the engine's VFS interface.
type VFS struct {
	vfs *vfs.VFS
}

func NewVFS(v *vfs.VFS) *VFS {
	return &VFS{
		vfs: v,
	}
}

func (v *VFS) Access(name string, flags sqlite3vfs.AccessFlag) (bool, error) {
	if name != v.vfs.DatabaseName() {
		return false, nil
	}

	if flags == sqlite3vfs.AccessExists {
		return v.vfs.Exists(name)
	}

	return true, nil
}

func (v *VFS) CurrentTime() time.Time {
	return time.Now()
}

func (v *VFS) Delete(name string, dirSync bool) error {
	return v.vfs.Delete(name)
}

func (v *VFS) FullPathname(name string) string {
	return name
}

func (v *VFS) Open(name string, flags sqlite3vfs.OpenFlag) (sqlite3vfs.File, sqlite3vfs.OpenFlag, error) {
	handle, err := v.vfs.Open(name, openKind(flags))

	if err != nil {
		slog.Debug("Rejected database file", "name", name, "flags", int(flags), "error", err)

		return nil, 0, sqlite3vfs.CantOpenError
	}

	return &File{
		handle:   handle,
		pageSize: v.vfs.PageSize(),
	}, flags, nil
}

func (v *VFS) Randomness(n []byte) int {
	i, err := rand.Read(n)

	if err != nil {
		slog.Error("Error reading randomness", "error", err)
	}

	return i
}

// Sleep yields to the host sleeper used by the VFS.
func (v *VFS) Sleep(d time.Duration) {
	ms := d.Milliseconds()

	if ms > maxSleepMillisecs {
		ms = maxSleepMillisecs
	}

	v.vfs.Sleep(uint32(ms))
}

func openKind(flags sqlite3vfs.OpenFlag) vfs.OpenKind {
	switch {
	case flags&openMainDB != 0:
		return vfs.OpenMainDB
	case flags&openMainJournal != 0:
		return vfs.OpenMainJournal
	case flags&openWAL != 0:
		return vfs.OpenWAL
	case flags&openTempDB != 0:
		return vfs.OpenTempDB
	case flags&openTempJournal != 0:
		return vfs.OpenTempJournal
	case flags&openTransientDB != 0:
		return vfs.OpenTransientDB
	case flags&openSubJournal != 0:
		return vfs.OpenSubJournal
	case flags&openSuperJournal != 0:
		return vfs.OpenSuperJournal
	}

	return vfs.OpenTransientDB
}
