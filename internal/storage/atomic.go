package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic writes path through a temp file in the same directory and
// renames it into place, so readers never see a half-written file. The
// destination directory must already exist, and an existing destination must
// be writable by the caller. Its permissions are kept.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return classifyWriteError(path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("write %s: %w: %s is not a directory", path, ErrDestinationMissing, dir)
	}
	if err := checkWritable(path); err != nil {
		return err
	}

	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(dir),
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return classifyWriteError(path, err)
	}
	defer pf.Cleanup()

	bw := bufio.NewWriter(pf)
	if err := write(bw); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return classifyWriteError(path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return classifyWriteError(path, err)
	}
	return nil
}

// checkWritable opens an existing destination for writing without touching
// its content. A rename would otherwise replace a read-only file silently.
func checkWritable(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return classifyWriteError(path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("write %s: is a directory", path)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return classifyWriteError(path, err)
	}
	return f.Close()
}
