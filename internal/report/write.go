// # internal/report/write.go
package report

import (
	"io/fs"
	"os"
	"path/filepath"

	apperrors "pyaudit/internal/errors"
)

// WriteFileAtomic creates parent directories, writes to a temp file in
// the target directory, and renames it into place, so a reader never
// observes a half-written artifact.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.Wrap(err, apperrors.CodeSinkFailure, "create output directory")
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSinkFailure, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.Wrap(err, apperrors.CodeSinkFailure, "write output")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.Wrap(err, apperrors.CodeSinkFailure, "chmod output")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.Wrap(err, apperrors.CodeSinkFailure, "close output")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.Wrap(err, apperrors.CodeSinkFailure, "rename output into place")
	}
	return nil
}

// WriteStringAtomic is WriteFileAtomic for string content.
func WriteStringAtomic(path, content string, perm fs.FileMode) error {
	return WriteFileAtomic(path, []byte(content), perm)
}
