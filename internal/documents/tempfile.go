package documents

import (
	"errors"
	"os"
)

// WithTempFile creates a uniquely named file in dir (os.TempDir when empty),
// passes it to fn and removes it on every exit path, including panics.
// fn may close the file itself.
func WithTempFile(dir, pattern string, fn func(f *os.File) error) (err error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) && err == nil {
			err = closeErr
		}
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	return fn(f)
}
