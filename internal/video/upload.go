package video

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUploadTooLarge is returned when an upload exceeds the configured cap.
var ErrUploadTooLarge = errors.New("upload too large")

var allowedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
}

// SaveUpload copies src into a uniquely named file under dir and returns its
// path together with a cleanup func that removes it. Callers defer cleanup
// immediately so the file is gone on every exit path. On error nothing is
// left on disk and cleanup is a no-op.
func SaveUpload(dir string, src io.Reader, maxBytes int64, originalName string) (string, func(), error) {
	noop := func() {}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", noop, fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		ext = ".bin"
	}

	f, err := os.OpenFile(filepath.Join(dir, uuid.NewString()+ext), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", noop, fmt.Errorf("create upload file: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to remove uploaded video", "path", path, "error", err)
		}
	}

	n, copyErr := io.Copy(f, io.LimitReader(src, maxBytes+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		cleanup()
		return "", noop, fmt.Errorf("write upload: %w", copyErr)
	case closeErr != nil:
		cleanup()
		return "", noop, fmt.Errorf("write upload: %w", closeErr)
	case n > maxBytes:
		cleanup()
		return "", noop, fmt.Errorf("%w: limit is %d bytes", ErrUploadTooLarge, maxBytes)
	}

	return path, cleanup, nil
}
