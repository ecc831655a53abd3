// Package documents stores uploaded identity documents on the local filesystem
// and provides scoped temporary files for image processing.
package documents

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"go.uber.org/zap"
)

// ErrUnsupportedType is returned for uploads that are not PNG or JPEG files.
var ErrUnsupportedType = fmt.Errorf("unsupported document type: %w", models.ErrValidation)

// ErrTooLarge is returned for uploads above the configured size limit.
var ErrTooLarge = fmt.Errorf("document exceeds size limit: %w", models.ErrValidation)

var allowedExtensions = map[string]string{
	".png":  ".png",
	".jpg":  ".jpg",
	".jpeg": ".jpg",
}

const (
	CategoryRegistration = "registration"
	CategoryVerification = "verification"
)

// Storage keeps documents under baseDir/<category>/<uuid><ext>.
type Storage struct {
	baseDir  string
	maxBytes int64
	logger   *logging.SafeLogger
}

// NewStorage creates the base directory if needed.
func NewStorage(baseDir string, maxBytes int64, logger *logging.SafeLogger) (*Storage, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, models.NewInfrastructureError("create upload dir", err)
	}
	return &Storage{baseDir: baseDir, maxBytes: maxBytes, logger: logger}, nil
}

// Save writes r under a fresh unique name. A partially written file is removed on error.
func (s *Storage) Save(category, originalName string, r io.Reader) (models.Document, error) {
	ext, ok := allowedExtensions[strings.ToLower(filepath.Ext(originalName))]
	if !ok {
		return models.Document{}, ErrUnsupportedType
	}

	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return models.Document{}, models.NewInfrastructureError("create category dir", err)
	}

	filename := uuid.New().String() + ext
	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return models.Document{}, models.NewInfrastructureError("create document", err)
	}

	written, copyErr := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		err = models.NewInfrastructureError("write document", copyErr)
	case closeErr != nil:
		err = models.NewInfrastructureError("close document", closeErr)
	case written > s.maxBytes:
		err = ErrTooLarge
	case written == 0:
		err = models.ErrImageRequired
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove partial document", zap.String("path", path), zap.Error(rmErr))
		}
		return models.Document{}, err
	}

	s.logger.Debug("document stored", zap.String("category", category), zap.String("filename", filename), zap.Int64("bytes", written))

	return models.Document{
		Filename:   filename,
		Path:       path,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// Exists reports an infrastructure error when the document is no longer readable.
func (s *Storage) Exists(doc *models.Document) error {
	if doc == nil || doc.Path == "" {
		return models.ErrOriginalDocumentMissing
	}
	info, err := os.Stat(doc.Path)
	if errors.Is(err, os.ErrNotExist) {
		return models.ErrOriginalDocumentMissing
	}
	if err != nil {
		return models.NewInfrastructureError("stat document", err)
	}
	if info.IsDir() {
		return models.ErrOriginalDocumentMissing
	}
	return nil
}

// Remove deletes a stored document. Missing files are not an error.
func (s *Storage) Remove(doc models.Document) error {
	if err := os.Remove(doc.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.NewInfrastructureError("remove document", err)
	}
	return nil
}

// BaseDir returns the storage root.
func (s *Storage) BaseDir() string {
	return s.baseDir
}
