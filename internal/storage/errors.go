package storage

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrDestinationMissing = errors.New("destination directory does not exist")
	ErrPermissionDenied   = errors.New("permission denied")
)

// LoadError reports a store that could not be read to the end. Records read
// before the failure are still returned alongside it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// classifyWriteError maps filesystem errors onto the exported sentinels while
// keeping the original error in the chain.
func classifyWriteError(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("write %s: %w: %w", path, ErrPermissionDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("write %s: %w: %w", path, ErrDestinationMissing, err)
	default:
		return fmt.Errorf("write %s: %w", path, err)
	}
}
