// Package baseline resolves the committed baseline content of a document,
// either from a plain snapshot directory or from the HEAD commit of a git
// repository via libgit2.
package baseline

import (
	"context"
	"errors"
)

// ErrNoBaseline indicates the provider holds no baseline for the path.
var ErrNoBaseline = errors.New("no baseline for path")

// Provider resolves the baseline bytes of a document by repository-relative
// path.
type Provider interface {
	Baseline(ctx context.Context, path string) ([]byte, error)
}
