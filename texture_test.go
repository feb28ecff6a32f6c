package holo

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	im := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, im))
	return buf.Bytes()
}

func textureServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/background.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadTextureFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 4, 2, color.NRGBA{255, 0, 0, 255}), 0o644))

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, Color{1, 0, 0, 1}, tex.Sample(0.5, 0.5))
}

func TestLoadTextureFromURL(t *testing.T) {
	srv := textureServer(t, encodePNG(t, 3, 5, color.NRGBA{0, 255, 0, 255}))

	tex, err := LoadTexture(srv.URL + "/background.png")
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 5, tex.Height)
	assert.Equal(t, Color{0, 1, 0, 1}, tex.Sample(0.1, 0.9))

	_, err = LoadTexture(srv.URL + "/missing.png")
	assert.ErrorContains(t, err, "404")
}

func TestLoadTextureErrors(t *testing.T) {
	_, err := LoadTexture(filepath.Join(t.TempDir(), "gone.png"))
	assert.Error(t, err)

	_, err = TexFromBytes([]byte("not an image"))
	assert.Error(t, err)
}
