package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// move runs upload then remove; if either fails the source is renamed into place.
func move(upload, remove, rename func() error) error {
	err := upload()
	if err == nil {
		err = remove()
	}
	if err == nil {
		return nil
	}
	if rerr := rename(); rerr != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransfer, errors.Join(err, rerr))
	}
	return nil
}

// copyToFile writes r to path, creating parent directories.
func copyToFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
