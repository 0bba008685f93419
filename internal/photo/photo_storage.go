package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=photo_storage.go -destination=mock/photo_storage_mock.go -package=mock
type Storage interface {
	// Save writes the uploaded file under a fresh unique name and returns
	// that name. A nil header means no photo was chosen: "" and nil.
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	// Remove deletes a previously saved photo. Missing files are ignored.
	Remove(ctx context.Context, name string) error
	Dir() string
}

type diskStorage struct {
	dir    string
	logger *zap.Logger
}

// NewDiskStorage stores photos in dir, creating it when needed.
func NewDiskStorage(dir string, logger ...*zap.Logger) (Storage, error) {
	l := zap.L().Named("photo.storage")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("photo.storage")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images dir %s: %w", dir, err)
	}
	return &diskStorage{dir: dir, logger: l}, nil
}

func (s *diskStorage) Dir() string {
	return s.dir
}

// UniqueName prefixes the client file name with a random token. Only the
// base name is kept so a crafted name cannot escape the images dir.
func UniqueName(original string) string {
	return uuid.NewString() + "_" + baseName(original)
}

func baseName(name string) string {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return "photo"
	}
	return base
}

func (s *diskStorage) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}

	name := UniqueName(file.Filename)
	s.logger.Debug("save photo requested",
		zap.String("original_name", file.Filename),
		zap.String("file_name", name),
		zap.Int64("size", file.Size),
	)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded photo: %w", err)
	}
	defer src.Close()

	// Write to a temp file in the same dir and rename, so the final name
	// never points at a partially written photo.
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		s.logger.Error("create temp photo failed", zap.String("dir", s.dir), zap.Error(err))
		return "", fmt.Errorf("create temp photo: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		s.logger.Error("copy photo failed", zap.String("file_name", name), zap.Error(err))
		return "", fmt.Errorf("copy photo: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("chmod temp photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp photo: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		s.logger.Error("rename photo failed", zap.String("file_name", name), zap.Error(err))
		return "", fmt.Errorf("store photo: %w", err)
	}

	s.logger.Info("photo saved", zap.String("file_name", name))
	return name, nil
}

func (s *diskStorage) Remove(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}

	path := filepath.Join(s.dir, baseName(name))
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("photo already gone", zap.String("file_name", name))
			return nil
		}
		s.logger.Error("remove photo failed", zap.String("file_name", name), zap.Error(err))
		return fmt.Errorf("remove photo: %w", err)
	}

	s.logger.Info("photo removed", zap.String("file_name", name))
	return nil
}
