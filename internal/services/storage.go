package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/projhub/backend/internal/config"
	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/pkg/logger"
)

// FileUpload carries an uploaded file into the storage collaborator.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// FileStorage is the contract consumed by the lifecycle service. Bytes
// are owned by the implementation; the services keep only relative paths.
type FileStorage interface {
	// Validate rejects a file that does not match the expected kind or
	// exceeds the size limit. The returned error names the reason.
	Validate(upload *FileUpload, expectedKind string) error
	// Store writes the file under the given folder and returns its
	// relative path.
	Store(upload *FileUpload, folder string) (string, error)
	// Delete removes a stored file, best-effort. Failures are reported
	// by the return value only and never abort callers.
	Delete(relativePath string) bool
}

// LocalStorage stores files on local disk under a base directory.
type LocalStorage struct {
	baseDir  string
	maxBytes int64
}

func NewLocalStorage(cfg *config.StorageConfig) *LocalStorage {
	maxMB := cfg.MaxSizeMB
	if maxMB <= 0 {
		maxMB = 50
	}
	return &LocalStorage{
		baseDir:  cfg.BaseDir,
		maxBytes: maxMB << 20,
	}
}

// acceptedPrefixes maps an attachment kind to the content-type prefixes
// it accepts.
var acceptedPrefixes = map[string][]string{
	models.AttachmentDocument: {"application/pdf", "application/msword", "application/vnd", "text/"},
	models.AttachmentImage:    {"image/"},
	models.AttachmentVideo:    {"video/"},
}

func (s *LocalStorage) Validate(upload *FileUpload, expectedKind string) error {
	prefixes, ok := acceptedPrefixes[expectedKind]
	if !ok {
		return fmt.Errorf("unknown attachment kind %q", expectedKind)
	}
	if upload.Size > s.maxBytes {
		return fmt.Errorf("file %q exceeds the %d MB size limit", upload.FileName, s.maxBytes>>20)
	}

	for _, p := range prefixes {
		if strings.HasPrefix(upload.ContentType, p) {
			return nil
		}
	}
	return fmt.Errorf("content type %q is not accepted for kind %q", upload.ContentType, expectedKind)
}

func (s *LocalStorage) Store(upload *FileUpload, folder string) (string, error) {
	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(upload.FileName)
	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString()[:8], ext)
	relPath := filepath.Join(folder, name)

	f, err := os.Create(filepath.Join(s.baseDir, relPath))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, upload.Reader); err != nil {
		os.Remove(filepath.Join(s.baseDir, relPath))
		return "", err
	}
	return relPath, nil
}

func (s *LocalStorage) Delete(relativePath string) bool {
	if relativePath == "" {
		return false
	}
	if err := os.Remove(filepath.Join(s.baseDir, relativePath)); err != nil {
		logger.Warn().Str("path", relativePath).Err(err).Msg("file delete failed")
		return false
	}
	return true
}
