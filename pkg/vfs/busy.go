package vfs

import (
	"errors"
	"log/slog"

	"github.com/litebase/pagedb/internal/utils"
	"github.com/litebase/pagedb/pkg/config"
	"github.com/litebase/pagedb/pkg/storage"
)

// BusyRetrier retries operations that fail because the database is locked.
// Attempts are bounded and the delay between them is delegated to a sleeper.
type BusyRetrier struct {
	Attempts int
	Delay    uint32
	IsBusy   func(error) bool
	Sleeper  storage.Sleeper
}

func NewBusyRetrier(c *config.Config, sleeper storage.Sleeper) *BusyRetrier {
	delay, err := utils.SafeInt64ToUint32(c.BusyDelay)

	if err != nil {
		delay = 0
	}

	if sleeper == nil {
		sleeper = storage.HostSleeper
	}

	return &BusyRetrier{
		Attempts: c.BusyRetries,
		Delay:    delay,
		IsBusy: func(err error) bool {
			return errors.Is(err, ErrBusy)
		},
		Sleeper: sleeper,
	}
}

// Run fn until it succeeds, fails with an error that is not a busy error, or
// the retry budget is spent. The last error is returned.
func (r *BusyRetrier) Do(fn func() error) error {
	var err error

	for attempt := 0; ; attempt++ {
		err = fn()

		if err == nil || !r.IsBusy(err) {
			return err
		}

		if attempt >= r.Attempts {
			break
		}

		slog.Debug("Database busy, retrying", "attempt", attempt+1, "delay", r.Delay)

		r.Sleeper.Sleep(r.Delay)
	}

	return err
}

// Request a lock kind, retrying denied requests with the configured budget.
// The handle is left at whatever kind the last attempt produced.
func (r *BusyRetrier) Lock(handle *DatabaseHandle, kind LockKind) (bool, error) {
	err := r.Do(func() error {
		granted, err := handle.Lock(kind)

		if err != nil {
			return err
		}

		if !granted {
			return ErrBusy
		}

		return nil
	})

	if errors.Is(err, ErrBusy) {
		return false, nil
	}

	return err == nil, err
}
