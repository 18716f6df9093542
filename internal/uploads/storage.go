package uploads

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Storage writes uploaded signature images under a local directory with
// uuid-based names so clients cannot overwrite each other's files.
type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// SaveSignature stores the file and returns the relative path persisted on
// the record.
func (s *Storage) SaveSignature(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", custom_error.NewValidation("formato de firma no permitido: %s", ext)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.dir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save signature file: %w", err)
	}

	return name, nil
}

// Remove deletes a stored signature, ignoring files that are already gone.
func (s *Storage) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove signature file: %w", err)
	}
	return nil
}
