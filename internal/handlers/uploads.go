package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/storage"
)

// maxUploadMemory bounds how much of a multipart body is buffered in
// memory before spilling to disk.
const maxUploadMemory = 32 << 20

// BlobStorage uploads local files to the object store and deletes stored
// objects by key.
type BlobStorage interface {
	Upload(ctx context.Context, localPath, key string) (storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// DurationProber inspects a local media file and reports its playback
// length in seconds.
type DurationProber interface {
	Duration(ctx context.Context, localPath string) (float64, error)
}

// saveUploadedFile spools one multipart file field to a temp file under
// dir and returns its path. Callers own the file and must remove it when
// done; Upload removes it on their behalf.
func saveUploadedFile(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	return spoolToDisk(file, header, dir)
}

func spoolToDisk(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	path := filepath.Join(dir, uuid.NewString()+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload spool file: %w", err)
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("spool %s upload: %w", header.Filename, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("flush upload spool file: %w", err)
	}
	return path, nil
}

// objectKey builds the store key for an uploaded file, preserving the
// original extension.
func objectKey(prefix, localPath string) string {
	return prefix + "/" + filepath.Base(localPath)
}
