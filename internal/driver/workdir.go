package driver

import (
	"fmt"
	"os"
)

// WorkDir owns the temporary directory holding a run's envelope and options
// files. The coordinator writes into it but never deletes from it; the
// run's outer lifecycle creates a WorkDir, hands its path down through the
// options, and closes it when the whole run is finished. Keeping the files
// until then means a failed run leaves inspectable intermediates behind a
// single path.
type WorkDir struct {
	Path string

	keep bool
}

// NewWorkDir creates a fresh working directory under base, or under the
// system temp directory when base is empty.
func NewWorkDir(base string) (*WorkDir, error) {
	path, err := os.MkdirTemp(base, "dexter-")
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	return &WorkDir{Path: path}, nil
}

// Keep marks the directory to survive Close, for post-mortem inspection.
func (w *WorkDir) Keep() {
	w.keep = true
}

// Close removes the directory and everything in it unless Keep was called.
func (w *WorkDir) Close() error {
	if w.keep {
		return nil
	}
	return os.RemoveAll(w.Path)
}
