package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore persists attachment payloads and hands back opaque paths.
type FileStore interface {
	Save(name string, data []byte) (string, error)
	Open(path string) ([]byte, error)
	Remove(path string) error
}

type diskStore struct {
	root string
}

// NewDiskStore returns a FileStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &diskStore{root: dir}, nil
}

func (s *diskStore) Save(name string, data []byte) (string, error) {
	stored := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], sanitize(name))
	path := filepath.Join(s.root, stored)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return path, nil
}

func (s *diskStore) Open(path string) ([]byte, error) {
	if !s.contains(path) {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(path)
}

func (s *diskStore) Remove(path string) error {
	if !s.contains(path) {
		return os.ErrNotExist
	}
	return os.Remove(path)
}

// contains rejects paths that escape the store root.
func (s *diskStore) contains(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func sanitize(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
