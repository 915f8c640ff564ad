package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicFileSink implements ports.FileSink by writing to a temporary file in
// the destination directory and renaming it over the destination.
type AtomicFileSink struct {
	perm os.FileMode
}

// NewAtomicFileSink creates a sink producing files with mode perm.
func NewAtomicFileSink(perm os.FileMode) *AtomicFileSink {
	if perm == 0 {
		perm = 0o644
	}
	return &AtomicFileSink{perm: perm}
}

// WriteFile creates path from what write produces. On any error the
// temporary file is removed and an existing file at path is left untouched.
func (s *AtomicFileSink) WriteFile(ctx context.Context, path string, write func(io.Writer) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), s.perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
