package validation

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageSize(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		w, h, format, err := ImageSize(bytes.NewReader(encodePNG(t, 37, 12)))
		require.NoError(t, err)
		assert.Equal(t, 37, w)
		assert.Equal(t, 12, h)
		assert.Equal(t, "png", format)
	})

	t.Run("bmp", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 5))))

		w, h, format, err := ImageSize(&buf)
		require.NoError(t, err)
		assert.Equal(t, 8, w)
		assert.Equal(t, 5, h)
		assert.Equal(t, "bmp", format)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, _, err := ImageSize(strings.NewReader("definitely not an image"))
		assert.ErrorIs(t, err, ErrNotAnImage)
	})
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestValidateImage(t *testing.T) {
	pngData := encodePNG(t, 20, 10)

	t.Run("accepted and rewound", func(t *testing.T) {
		req := uploadRequest(t, "a.png", "", pngData)
		require.NoError(t, ValidateAndParseMultipart(req, httptest.NewRecorder(), 1<<20))
		file, header, err := req.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		info, err := ValidateImage(header, file, DefaultImageMimeTypes)

		require.NoError(t, err)
		assert.Equal(t, "image/png", info.MimeType)
		assert.Equal(t, 20, info.Width)
		assert.Equal(t, 10, info.Height)
		rest := make([]byte, 8)
		_, err = file.Read(rest)
		require.NoError(t, err)
		assert.Equal(t, pngData[:8], rest)
	})

	t.Run("disallowed mime", func(t *testing.T) {
		req := uploadRequest(t, "a.svg", "image/svg+xml", []byte("<svg/>"))
		require.NoError(t, ValidateAndParseMultipart(req, httptest.NewRecorder(), 1<<20))
		file, header, err := req.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		_, err = ValidateImage(header, file, DefaultImageMimeTypes)
		assert.ErrorIs(t, err, ErrInvalidMimeType)
	})

	t.Run("lying content type", func(t *testing.T) {
		req := uploadRequest(t, "a.png", "image/png", []byte("plain text"))
		require.NoError(t, ValidateAndParseMultipart(req, httptest.NewRecorder(), 1<<20))
		file, header, err := req.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		_, err = ValidateImage(header, file, DefaultImageMimeTypes)
		assert.ErrorIs(t, err, ErrNotAnImage)
	})
}

func TestValidateAndParseMultipart_TooLarge(t *testing.T) {
	req := uploadRequest(t, "a.png", "", bytes.Repeat([]byte{1}, 4096))

	err := ValidateAndParseMultipart(req, httptest.NewRecorder(), 100)

	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestValidateAndParseMultipart_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/boards/1/images", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")

	err := ValidateAndParseMultipart(req, httptest.NewRecorder(), 1<<20)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPayloadTooLarge)
}
