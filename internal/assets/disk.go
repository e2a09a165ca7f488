package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bilgisen/croft/internal/models"
)

// DiskStore serves assets from a directory on the local filesystem
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static directory: %w", err)
	}
	// Symlinks inside the tree are checked against the real root
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open static directory: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open static directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static path %s is not a directory", abs)
	}

	return &DiskStore{
		root: resolved,
	}, nil
}

// Root returns the resolved asset directory
func (s *DiskStore) Root() string {
	return s.root
}

// Open reads the named file. Directories are reported as ErrNotFound.
func (s *DiskStore) Open(ctx context.Context, name string) (*models.Asset, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	fullPath, err := filepath.EvalSymlinks(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if isNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", clean, err)
	}
	if !s.within(fullPath) {
		return nil, ErrInvalidPath
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if isNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", clean, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	body, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", clean, err)
	}

	return &models.Asset{
		Name:        clean,
		ContentType: contentType(clean, body),
		Body:        body,
		Size:        int64(len(body)),
		ModTime:     info.ModTime(),
	}, nil
}

// Count walks the asset tree and returns the number of regular files
func (s *DiskStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error walking the path: %w", err)
	}
	return count, nil
}

func (s *DiskStore) within(p string) bool {
	if p == s.root {
		return true
	}
	return strings.HasPrefix(p, s.root+string(filepath.Separator))
}

// isNotExist also covers a file used as a directory component
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
