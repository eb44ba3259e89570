package writeback

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"slated/internal/fileutil"
	"slated/internal/services"
)

// Transaction stages a metadata write against one file. Begin snapshots the
// current bytes to a uniquely named backup sibling and takes an advisory lock
// so concurrent writers to the same path serialize instead of clobbering a
// shared backup name. The caller must finish with exactly one of Commit or
// Rollback.
type Transaction struct {
	ID         string
	path       string
	backupPath string
	lockPath   string
	lock       *flock.Flock
	keepBackup bool
	done       bool
}

// Begin opens a write transaction for path. keepBackup retains the snapshot
// after a successful commit; rollback always consumes it.
func Begin(path string, keepBackup bool) (*Transaction, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	lockPath := path + ".lock"

	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return nil, services.Wrap(services.ErrIO, "writeback", "lock", path, err)
	}

	backupPath := fmt.Sprintf("%s.bak-%s", path, id)
	if err := fileutil.CopyFile(path, backupPath); err != nil {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
		return nil, services.Wrap(services.ErrIO, "writeback", "stage backup", path, err)
	}

	return &Transaction{
		ID:         id,
		path:       path,
		backupPath: backupPath,
		lockPath:   lockPath,
		lock:       lock,
		keepBackup: keepBackup,
	}, nil
}

// BackupPath returns the staged snapshot location.
func (t *Transaction) BackupPath() string { return t.backupPath }

// Write replaces the target file's bytes. The snapshot remains untouched so a
// later Rollback can restore the pre-transaction state.
func (t *Transaction) Write(data []byte) error {
	if t.done {
		return services.Wrap(services.ErrIO, "writeback", "write", "transaction already finished", nil)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return services.Wrap(services.ErrIO, "writeback", "write", t.path, err)
	}
	return nil
}

// Commit finalizes the transaction and removes the backup unless retention
// was requested.
func (t *Transaction) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.release()
	if t.keepBackup {
		return nil
	}
	if err := os.Remove(t.backupPath); err != nil && !os.IsNotExist(err) {
		return services.Wrap(services.ErrIO, "writeback", "remove backup", t.backupPath, err)
	}
	return nil
}

// Rollback restores the snapshot, leaving the file byte-identical to its
// pre-transaction state. The backup is kept only if the restore itself fails.
func (t *Transaction) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.release()
	if err := fileutil.CopyFile(t.backupPath, t.path); err != nil {
		return services.Wrap(services.ErrIO, "writeback", "restore backup",
			fmt.Sprintf("restore failed, original bytes preserved at %s", t.backupPath), err)
	}
	if err := os.Remove(t.backupPath); err != nil && !os.IsNotExist(err) {
		return services.Wrap(services.ErrIO, "writeback", "remove backup", t.backupPath, err)
	}
	return nil
}

func (t *Transaction) release() {
	_ = t.lock.Unlock()
	_ = os.Remove(t.lockPath)
}
