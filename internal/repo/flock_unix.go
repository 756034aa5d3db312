//go:build !windows

package repo

import (
	"os"

	"golang.org/x/sys/unix"
)

// flock wraps an OS-level advisory file lock: exclusive for write
// sessions, shared for read sessions, via POSIX flock(2).
type flock struct {
	f *os.File
}

func newFlock(path string) (*flock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return &flock{f: f}, nil
}

// tryLock attempts a non-blocking lock. busy=true means another process
// already holds an incompatible lock; the lock was not acquired.
func (l *flock) tryLock(exclusive bool) (busy bool, err error) {
	how := unix.LOCK_SH | unix.LOCK_NB
	if exclusive {
		how = unix.LOCK_EX | unix.LOCK_NB
	}
	if err := unix.Flock(int(l.f.Fd()), how); err != nil {
		if err == unix.EWOULDBLOCK {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (l *flock) lockShared() error {
	return unix.Flock(int(l.f.Fd()), unix.LOCK_SH)
}

func (l *flock) lockExclusive() error {
	return unix.Flock(int(l.f.Fd()), unix.LOCK_EX)
}

func (l *flock) unlock() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
