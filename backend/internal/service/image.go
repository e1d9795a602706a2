package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/brainboard/brainboard/shared/domain"
	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/brainboard/brainboard/shared/validation"
)

var formatExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
	"bmp":  ".bmp",
}

type ImageService interface {
	Upload(v Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error)
	UploadThumbnail(v Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error)
	Open(filePath string) (io.ReadCloser, error)
}

type ImageStorage interface {
	Save(fileData io.Reader, boardId domain.BoardId, extension string) (string, error)
	Read(filePath string) (io.ReadCloser, error)
}

type Image struct {
	storage   ImageStorage
	access    *Access
	allowed   []string
	urlPrefix string
}

// NewImage serves stored files under urlPrefix, e.g. "/uploads".
func NewImage(storage ImageStorage, access *Access, allowed []string, urlPrefix string) *Image {
	return &Image{storage: storage, access: access, allowed: allowed, urlPrefix: urlPrefix}
}

// Upload validates an image upload, stores it and returns its public URL.
func (i *Image) Upload(v Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	if _, _, err := i.access.Require(v, boardId, domain.PermissionEdit); err != nil {
		return "", err
	}
	return i.store(boardId, fileHeader, file)
}

// UploadThumbnail is Upload restricted to the board owner.
func (i *Image) UploadThumbnail(v Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	if _, _, err := i.access.Require(v, boardId, domain.PermissionOwner); err != nil {
		return "", err
	}
	return i.store(boardId, fileHeader, file)
}

func (i *Image) store(boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	info, err := validation.ValidateImage(fileHeader, file, i.allowed)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalidMimeType):
			return "", &internal_errors.ErrorWithStatusCode{Message: "Unsupported image type", StatusCode: http.StatusUnsupportedMediaType}
		case errors.Is(err, validation.ErrNotAnImage):
			return "", &internal_errors.ErrorWithStatusCode{Message: "File is not a valid image", StatusCode: http.StatusBadRequest}
		}
		return "", err
	}

	ext, ok := formatExtensions[info.Format]
	if !ok {
		return "", &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unsupported image format %q", info.Format), StatusCode: http.StatusUnsupportedMediaType}
	}
	stored, err := i.storage.Save(file, boardId, ext)
	if err != nil {
		return "", err
	}
	logger.Log.Info("image uploaded", "board_id", boardId, "path", stored, "width", info.Width, "height", info.Height)
	return path.Join(i.urlPrefix, stored), nil
}

// Open reads a stored image by its path relative to the URL prefix.
func (i *Image) Open(filePath string) (io.ReadCloser, error) {
	rc, err := i.storage.Read(filePath)
	if err != nil {
		logger.Log.Debug("image not served", "path", filePath, "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Image not found", StatusCode: http.StatusNotFound}
	}
	return rc, nil
}
