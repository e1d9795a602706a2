package validation

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"slices"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultImageMimeTypes are the formats the decoder registry above can size.
var DefaultImageMimeTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}

// ImageInfo describes an uploaded or fetched image without decoding pixels.
type ImageInfo struct {
	Filename string
	MimeType string
	Format   string
	Width    int
	Height   int
}

// ImageSize reads just enough of r to learn the pixel dimensions.
func ImageSize(r io.Reader) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bufio.NewReader(r))
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, "", fmt.Errorf("%w: empty image", ErrNotAnImage)
	}
	return cfg.Width, cfg.Height, format, nil
}

// ValidateImage checks an uploaded file's MIME type against allowed and that
// its header decodes. The file is rewound before returning.
func ValidateImage(fileHeader *multipart.FileHeader, file multipart.File, allowed []string) (ImageInfo, error) {
	mimeType, err := DetectMimeType(fileHeader)
	if err != nil {
		return ImageInfo{}, err
	}
	if !slices.Contains(allowed, mimeType) {
		return ImageInfo{}, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	w, h, format, err := ImageSize(file)
	if err != nil {
		return ImageInfo{}, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return ImageInfo{}, fmt.Errorf("failed to rewind upload: %w", err)
	}
	return ImageInfo{
		Filename: fileHeader.Filename,
		MimeType: mimeType,
		Format:   format,
		Width:    w,
		Height:   h,
	}, nil
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := filepath.Ext(fileHeader.Filename)
		detectedType := mime.TypeByExtension(ext)
		if detectedType != "" {
			mimeType = detectedType
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	return mimeType, nil
}
