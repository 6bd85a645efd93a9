package baseline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSProvider serves baselines from a snapshot directory. Paths are resolved
// relative to the root; escapes above it are rejected.
type FSProvider struct {
	root string
}

// NewFSProvider creates a provider rooted at dir.
func NewFSProvider(dir string) *FSProvider {
	return &FSProvider{root: dir}
}

// Baseline reads the snapshot file for path.
func (p *FSProvider) Baseline(_ context.Context, path string) ([]byte, error) {
	full := filepath.Join(p.root, filepath.FromSlash(path))

	rel, err := filepath.Rel(p.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%w: %s escapes snapshot root", ErrNoBaseline, path)
	}

	data, readErr := os.ReadFile(full)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoBaseline, path)
		}

		return nil, fmt.Errorf("read baseline %s: %w", path, readErr)
	}

	return data, nil
}
