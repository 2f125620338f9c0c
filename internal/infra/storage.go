package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageStorage keeps product images on the local filesystem under a single
// base directory. Paths stored in the database are relative to that base.
type ImageStorage struct {
	base string
}

func NewImageStorage(base string) (*ImageStorage, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create base dir: %w", err)
	}
	return &ImageStorage{base: base}, nil
}

// Base returns the storage root, for handlers writing uploads directly.
func (s *ImageStorage) Base() string { return s.base }

// NombreUnico derives a collision-free filename preserving the extension.
func (s *ImageStorage) NombreUnico(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString()[:8], ext)
}

// Ruta resolves a stored relative path to an absolute one, refusing to
// escape the base directory.
func (s *ImageStorage) Ruta(rel string) (string, error) {
	abs := filepath.Join(s.base, filepath.Clean("/"+rel))
	if !strings.HasPrefix(abs, s.base) {
		return "", fmt.Errorf("storage: path %q escapes base", rel)
	}
	return abs, nil
}

// Eliminar removes a stored file. A missing file is not an error: the row is
// the source of truth and the file may already be gone.
func (s *ImageStorage) Eliminar(rel string) error {
	abs, err := s.Ruta(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
