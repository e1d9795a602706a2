package imageprobe

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaturalSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1280, 720)), nil))
	jpg := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/uploads/photo.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(jpg)
		case "/uploads/notes.txt":
			_, _ = w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("relative url", func(t *testing.T) {
		w, h, err := p.NaturalSize(ctx, "/uploads/photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, 1280, w)
		assert.Equal(t, 720, h)
	})

	t.Run("absolute url", func(t *testing.T) {
		w, _, err := p.NaturalSize(ctx, srv.URL+"/uploads/photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, 1280, w)
	})

	t.Run("not an image", func(t *testing.T) {
		_, _, err := p.NaturalSize(ctx, "/uploads/notes.txt")
		assert.ErrorIs(t, err, validation.ErrNotAnImage)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := p.NaturalSize(ctx, "/uploads/nope.png")
		assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
	})
}
