package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// UploadImage stores an image for a board and returns its public URL.
func (c *APIClient) UploadImage(ctx context.Context, boardId domain.BoardId, filename string, r io.Reader) (string, error) {
	return c.postImage(ctx, fmt.Sprintf("/boards/%d/images", boardId), filename, r)
}

func (c *APIClient) UploadSharedImage(ctx context.Context, token domain.ShareToken, filename string, r io.Reader) (string, error) {
	return c.postImage(ctx, sharePath(token, "/images"), filename, r)
}

// postImage streams r as the "file" part of a multipart/form-data POST.
func (c *APIClient) postImage(ctx context.Context, path, filename string, r io.Reader) (string, error) {
	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filepath.Base(filename))))
		h.Set("Content-Type", contentTypeFor(filename))

		part, err := writer.CreatePart(h)
		if err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		pipeWriter.CloseWithError(writer.Close())
	}()

	resp, err := c.do(ctx, http.MethodPost, path, pipeReader, writer.FormDataContentType())
	if err != nil {
		pipeReader.CloseWithError(err)
		return "", err
	}
	defer resp.Body.Close()

	var out api.ImageUploadResponse
	if err := decodeResponse(resp, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload response carried no url")
	}
	return out.URL, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	}
	return "application/octet-stream"
}
