package htpasswd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gohtpasswd "github.com/tg123/go-htpasswd"

	"github.com/hnrobert/pypiauth/internal/fileutil"
)

var ErrNoPath = errors.New("htpasswd: empty password file path")

// File is a loaded htpasswd file. Handles are shared per path for the life
// of the process; LoadIfChanged keeps them in step with the disk.
type File struct {
	path string

	mu       sync.RWMutex
	pf       *gohtpasswd.File
	info     os.FileInfo
	badLines int
}

var (
	filesMu sync.Mutex
	files   = map[string]*File{}
)

// Open returns the handle for path, reading the file the first time the
// path is seen. Unreadable or missing files are reported as errors.
func Open(path string) (*File, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	key := filepath.Clean(path)

	filesMu.Lock()
	defer filesMu.Unlock()
	if f := files[key]; f != nil {
		return f, nil
	}
	f := &File{path: key}
	if err := f.load(); err != nil {
		return nil, err
	}
	files[key] = f
	return f, nil
}

func (f *File) Path() string { return f.path }

// LoadIfChanged re-reads the file when the path names a different file
// than the last load, or its modification time or size differ, and reports
// whether it did. Replacing the file by rename is seen even when the new
// copy keeps the old timestamp and size.
func (f *File) LoadIfChanged() (bool, error) {
	st, err := os.Stat(f.path)
	if err != nil {
		return false, fmt.Errorf("htpasswd: stat %s: %w", f.path, err)
	}
	f.mu.RLock()
	same := unchanged(f.info, st)
	f.mu.RUnlock()
	if same {
		return false, nil
	}
	if err := f.load(); err != nil {
		return false, err
	}
	return true, nil
}

// CheckPassword reports whether user exists and password matches its hash.
func (f *File) CheckPassword(user, password string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.pf == nil {
		return false
	}
	return f.pf.Match(user, password)
}

// BadLines is the number of lines skipped during the last load.
func (f *File) BadLines() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.badLines
}

func (f *File) load() error {
	b, st, err := fileutil.ReadFileStat(f.path)
	if err != nil {
		return fmt.Errorf("htpasswd: read %s: %w", f.path, err)
	}
	bad := 0
	pf, err := gohtpasswd.NewFromReader(bytes.NewReader(b), gohtpasswd.DefaultSystems, func(error) { bad++ })
	if err != nil {
		return fmt.Errorf("htpasswd: parse %s: %w", f.path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pf = pf
	f.info = st
	f.badLines = bad
	return nil
}

func unchanged(loaded, cur os.FileInfo) bool {
	if loaded == nil {
		return false
	}
	return os.SameFile(loaded, cur) &&
		cur.ModTime().Equal(loaded.ModTime()) &&
		cur.Size() == loaded.Size()
}
