package baseline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v34"
)

// GitProvider serves baselines from the HEAD commit of a git repository.
// The HEAD tree is resolved once at construction; a live-edit session pins
// its baseline to the commit the session started from.
type GitProvider struct {
	repo    *git2go.Repository
	tree    *git2go.Tree
	workdir string
}

// NewGitProvider opens the repository at repoPath and pins HEAD as the
// baseline. Call Free when done.
func NewGitProvider(repoPath string) (*GitProvider, error) {
	repo, err := git2go.OpenRepository(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		repo.Free()

		return nil, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	commit, err := repo.LookupCommit(ref.Target())
	if err != nil {
		repo.Free()

		return nil, fmt.Errorf("lookup HEAD commit: %w", err)
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		repo.Free()

		return nil, fmt.Errorf("lookup HEAD tree: %w", err)
	}

	return &GitProvider{repo: repo, tree: tree, workdir: repo.Workdir()}, nil
}

// Baseline returns the blob content at path in the pinned HEAD tree.
func (p *GitProvider) Baseline(_ context.Context, path string) ([]byte, error) {
	entry, err := p.tree.EntryByPath(filepath.ToSlash(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBaseline, path)
	}

	if entry.Type != git2go.ObjectBlob {
		return nil, fmt.Errorf("%w: %s is not a blob", ErrNoBaseline, path)
	}

	blob, err := p.repo.LookupBlob(entry.Id)
	if err != nil {
		return nil, fmt.Errorf("lookup blob %s: %w", path, err)
	}
	defer blob.Free()

	// Contents returns memory owned by libgit2; copy before Free.
	data := make([]byte, blob.Size())
	copy(data, blob.Contents())

	return data, nil
}

// Worktree reads the current working-tree content of path.
func (p *GitProvider) Worktree(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(p.workdir, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("read worktree %s: %w", path, err)
	}

	return data, nil
}

// ModifiedFiles lists worktree paths that differ from the index or HEAD,
// including untracked files. These are the session's candidate documents.
func (p *GitProvider) ModifiedFiles() ([]string, error) {
	opts := &git2go.StatusOptions{
		Show:  git2go.StatusShowIndexAndWorkdir,
		Flags: git2go.StatusOptIncludeUntracked,
	}

	statuses, err := p.repo.StatusList(opts)
	if err != nil {
		return nil, fmt.Errorf("list worktree status: %w", err)
	}
	defer statuses.Free()

	count, err := statuses.EntryCount()
	if err != nil {
		return nil, fmt.Errorf("count worktree status: %w", err)
	}

	files := make([]string, 0, count)

	for i := range count {
		entry, entryErr := statuses.ByIndex(i)
		if entryErr != nil {
			return nil, fmt.Errorf("read worktree status %d: %w", i, entryErr)
		}

		path := entry.IndexToWorkdir.NewFile.Path
		if path == "" {
			path = entry.HeadToIndex.NewFile.Path
		}

		if path != "" {
			files = append(files, path)
		}
	}

	return files, nil
}

// Workdir returns the repository working directory.
func (p *GitProvider) Workdir() string {
	return p.workdir
}

// Free releases the libgit2 resources.
func (p *GitProvider) Free() {
	if p.tree != nil {
		p.tree.Free()
		p.tree = nil
	}

	if p.repo != nil {
		p.repo.Free()
		p.repo = nil
	}
}
