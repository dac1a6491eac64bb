package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// File is a Store backed by a YAML map of key to score. Several processes
// may share one file: writers serialise on an advisory lock next to it and
// merge with what is on disk, readers reload whenever the file changed.
// The file is always replaced through a temp file and rename, so readers
// never see a partial write.
type File struct {
	mu     sync.Mutex
	path   string
	lock   *flock.Flock
	scores map[string]int
	seen   os.FileInfo // nil while the file does not exist
}

// OpenFile loads path, creating an empty store when the file does not exist.
func OpenFile(path string) (*File, error) {
	f := &File{
		path:   path,
		lock:   flock.New(path + ".lock"),
		scores: make(map[string]int),
	}
	if err := f.reload(true); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the backing file.
func (f *File) Path() string {
	return f.path
}

// reload reads the file again unless it is unchanged since the last read.
// Must be called with mu held.
func (f *File) reload(force bool) error {
	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.scores = make(map[string]int)
		f.seen = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat scores: %w", err)
	}
	if !force && f.seen != nil && os.SameFile(f.seen, info) &&
		f.seen.ModTime().Equal(info.ModTime()) && f.seen.Size() == info.Size() {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read scores: %w", err)
	}
	scores := make(map[string]int)
	if err := yaml.Unmarshal(data, &scores); err != nil {
		return fmt.Errorf("parse scores %s: %w", f.path, err)
	}
	if scores == nil {
		scores = make(map[string]int)
	}
	f.scores = scores
	f.seen = info
	return nil
}

func (f *File) Score(player, difficulty string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reload(false); err != nil {
		return 0, err
	}
	return f.scores[Key(player, difficulty)], nil
}

func (f *File) SetIfHigher(player, difficulty string, score int) (bool, error) {
	if score < 0 {
		return false, ErrInvalidScore
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return false, fmt.Errorf("create score dir: %w", err)
	}
	if err := f.lock.Lock(); err != nil {
		return false, fmt.Errorf("lock scores: %w", err)
	}
	defer f.lock.Unlock()

	// Another process may have written since our last read.
	if err := f.reload(true); err != nil {
		return false, err
	}

	k := Key(player, difficulty)
	prev, had := f.scores[k]
	if score <= prev {
		return false, nil
	}
	f.scores[k] = score
	if err := f.flush(); err != nil {
		if had {
			f.scores[k] = prev
		} else {
			delete(f.scores, k)
		}
		return false, err
	}
	return true, nil
}

func (f *File) Players() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reload(false); err != nil {
		return nil, err
	}
	return playersOf(f.scores), nil
}

// flush must be called with mu and the file lock held.
func (f *File) flush() error {
	data, err := yaml.Marshal(f.scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".scores-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace scores: %w", err)
	}
	if info, err := os.Stat(f.path); err == nil {
		f.seen = info
	}
	return nil
}
