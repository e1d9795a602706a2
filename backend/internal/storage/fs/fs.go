package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brainboard/brainboard/backend/internal/service"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/google/uuid"
)

type Storage struct {
	rootPath string
}

var _ service.ImageStorage = (*Storage)(nil)

func New(rootPath string) (*Storage, error) {
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Save writes an uploaded image under a fresh name and returns its path
// relative to the storage root, using forward slashes.
func (s *Storage) Save(fileData io.Reader, boardId domain.BoardId, extension string) (string, error) {
	ext := strings.ToLower(filepath.Ext("x" + filepath.Base(extension)))
	filename := uuid.NewString() + ext

	boardDir := strconv.FormatInt(boardId, 10)
	relativePath := filepath.Join(boardDir, filename)
	fullPath := filepath.Join(s.rootPath, relativePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, fileData); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return filepath.ToSlash(relativePath), nil
}

func (s *Storage) Read(filePath string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// resolve rejects relative paths that escape the root.
func (s *Storage) resolve(filePath string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(filePath))
	if rel == "." || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path %q", filePath)
	}
	return filepath.Join(s.rootPath, rel), nil
}
