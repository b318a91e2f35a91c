package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// rotate closes the current file, gzip-compresses it to "<path>.1.gz"
// (overwriting any prior backup, since backupCount is fixed at 1), and
// reopens a fresh empty file at path. Caller holds w.mu.
func (w *rotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("diag: close log file before rotation: %w", err)
	}

	if err := compressToBackup(w.path, w.path+".1.gz"); err != nil {
		return fmt.Errorf("diag: compress rotated log: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("diag: reopen log file after rotation: %w", err)
	}

	w.file = f
	w.size = 0
	return nil
}

func compressToBackup(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		return err
	}

	return gz.Close()
}
