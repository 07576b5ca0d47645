// Package file provides a patina.Store backed by a single file, with
// fsnotify-based watching for writes made by other processes.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Store persists the configuration blob in one file. Saves are atomic:
// the blob is written to a temporary file in the same directory and renamed
// over the target.
type Store struct {
	path string
	perm os.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithPerm sets the file mode for saved files. Defaults to 0o600.
func WithPerm(perm os.FileMode) Option {
	return func(s *Store) {
		s.perm = perm
	}
}

// New creates a Store for the given file path. Parent directories are
// created on first save.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		perm: 0o600,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the file. A missing file is not an error; it reports ok=false.
func (s *Store) Load(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, true, nil
}

// Save writes the blob atomically via a temporary file and rename.
func (s *Store) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(s.perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Watch begins watching the file and returns a channel that emits the file
// contents whenever it is written, including writes by other processes.
// The current contents are emitted immediately if the file exists.
//
// Concurrent writers are last-writer-wins at the file level; Watch reports
// what landed, it does not reconcile.
func (s *Store) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory so renames over the target are observed.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		// Emit initial contents
		if data, err := os.ReadFile(s.path); err == nil {
			select {
			case out <- data:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if event.Name != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}

				data, err := os.ReadFile(s.path)
				if err != nil {
					continue
				}

				select {
				case out <- data:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}
