// Package workspace hands out per-request scratch directories.
//
// Types:
//   - Scratch: one isolated directory, removed by Release.
//   - Manager: tracks live scratch directories under a root.
//
// Expected outputs:
// - Scratch directory names are unique (operation + UUID)
// - Release removes everything a request wrote
// - Sweep removes untracked directories left behind longer than a TTL
//
// Used by API handlers for uploaded and produced files.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-pdftools/internal/utils"
)

var ErrResourceAllocation = errors.New("failed to allocate scratch storage")

type Scratch struct {
	ID        string
	Dir       string
	CreatedAt time.Time

	manager  *Manager
	released bool
	mu       sync.Mutex
}

type Manager struct {
	Root string

	live map[string]*Scratch
	mu   sync.RWMutex
}

func NewManager(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceAllocation, err)
	}
	return &Manager{Root: root, live: make(map[string]*Scratch)}, nil
}

// Acquire creates a fresh directory for one request. op prefixes the
// directory name so leftovers can be traced back to an endpoint.
func (m *Manager) Acquire(op string) (*Scratch, error) {
	id := utils.GenerateUUID()
	dir, err := os.MkdirTemp(m.Root, fmt.Sprintf("%s-%s-", utils.SanitizeFilename(op), id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceAllocation, err)
	}

	s := &Scratch{ID: id, Dir: dir, CreatedAt: time.Now(), manager: m}
	m.mu.Lock()
	m.live[id] = s
	m.mu.Unlock()
	return s, nil
}

// Active returns the number of scratch directories not yet released.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.live)
}

// Sweep removes directories under Root that no live Scratch owns and whose
// modification time is older than maxAge. These are leftovers of a previous
// process. Tracked directories are never touched; their owner releases them.
// It returns how many directories were removed.
func (m *Manager) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(m.Root)
	if err != nil {
		return 0, err
	}
	var errs []error
	removed := 0
	for _, entry := range entries {
		path := filepath.Join(m.Root, entry.Name())
		if m.tracked(path) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// Purge removes every entry under Root. Called on shutdown.
func (m *Manager) Purge() error {
	m.mu.Lock()
	m.live = make(map[string]*Scratch)
	m.mu.Unlock()

	entries, err := os.ReadDir(m.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var errs []error
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(m.Root, entry.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) tracked(dir string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.live {
		if s.Dir == dir {
			return true
		}
	}
	return false
}

// Path joins name to the scratch directory after sanitising it.
func (s *Scratch) Path(name string) string {
	clean := utils.SanitizeFilename(name)
	if clean == "" {
		clean = "file"
	}
	return filepath.Join(s.Dir, clean)
}

// WriteFile stores data under name and returns its path.
func (s *Scratch) WriteFile(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResourceAllocation, err)
	}
	return path, nil
}

// Release removes the directory. It is safe to call more than once.
func (s *Scratch) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true

	if s.manager != nil {
		s.manager.mu.Lock()
		delete(s.manager.live, s.ID)
		s.manager.mu.Unlock()
	}
	return os.RemoveAll(s.Dir)
}
