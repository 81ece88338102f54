package observability

import (
	"fmt"
	"os"
	"syscall"
)

// writeLocked writes data to f while holding an exclusive advisory lock
// (LOCK_EX) on it. Agents and hooks in other processes append to the same
// log, so a single line must never interleave with another writer's.
func writeLocked(f *os.File, data []byte) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer func() { _ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN) }()

	if _, err := f.Write(data); err != nil {
		return err
	}
	return nil
}
