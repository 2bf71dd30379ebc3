package wrangler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ErrLockHeld indicates another regeneration run holds the lock.
var ErrLockHeld = errors.New("another regeneration run is in progress")

// FileLock guards a base directory against concurrent regeneration runs
// using flock(2). The lock is released when the process exits or crashes,
// so a crashed run never wedges the directory.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock at the given path. The lock file and its
// parent directories are created on first acquisition.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// TryLock attempts to acquire the exclusive lock without blocking.
// Returns ErrLockHeld if another process holds it; a batch run fails fast
// rather than queueing behind another regeneration.
func (l *FileLock) TryLock() error {
	if l.file == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
			return fmt.Errorf("failed to create lock directory: %w", err)
		}
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
		if err != nil {
			return fmt.Errorf("failed to open lock file: %w", err)
		}
		l.file = file
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = l.file.Close()
		l.file = nil
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrLockHeld
		}
		return fmt.Errorf("flock failed: %w", err)
	}
	return nil
}

// Unlock releases the lock. Safe to call on an unlocked FileLock.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("flock unlock failed: %w", err)
	}
	return closeErr
}
