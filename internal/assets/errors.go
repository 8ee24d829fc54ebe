package assets

import (
	"errors"
	"fmt"
	"io/fs"
)

// DirectoryCreateError reports a folder creation failure other than the
// folder already existing.
type DirectoryCreateError struct {
	Path string
	Err  error
}

func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("create folder %s: %v", e.Path, e.Err)
}

func (e *DirectoryCreateError) Unwrap() error { return e.Err }

// FileWriteError reports that the payload could not be written, either
// because the destination is already occupied or the storage refused it.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	if e.Collision() {
		return fmt.Sprintf("write %s: destination already exists", e.Path)
	}
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error { return e.Err }

// Collision reports whether the write failed because a file was already
// present at the destination.
func (e *FileWriteError) Collision() bool { return errors.Is(e.Err, fs.ErrExist) }
