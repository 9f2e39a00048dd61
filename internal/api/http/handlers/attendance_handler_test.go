package handlers

import (
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/attendance-service/internal/api/dto"
)

// pngBytes is a minimal buffer that sniffs as image/png.
func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte("\x89PNG\r\n\x1a\n"))
	return data
}

func TestFormatLocation(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		formatted, err := formatLocation(nil)
		require.NoError(t, err)
		assert.Nil(t, formatted)
	})

	t.Run("flattens to lat,lon", func(t *testing.T) {
		formatted, err := formatLocation(&dto.LocationPayload{Latitude: 52.52, Longitude: 13.405})
		require.NoError(t, err)
		require.NotNil(t, formatted)
		assert.Equal(t, "52.520000,13.405000", *formatted)
	})

	t.Run("includes the accuracy when present", func(t *testing.T) {
		accuracy := 12.5
		formatted, err := formatLocation(&dto.LocationPayload{Latitude: -33.87, Longitude: 151.21, Accuracy: &accuracy})
		require.NoError(t, err)
		require.NotNil(t, formatted)
		assert.Equal(t, "-33.870000,151.210000,12.5", *formatted)
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		_, err := formatLocation(&dto.LocationPayload{Latitude: 91, Longitude: 0})
		assert.Error(t, err)

		_, err = formatLocation(&dto.LocationPayload{Latitude: 0, Longitude: -181})
		assert.Error(t, err)
	})
}

func TestDecodePhoto(t *testing.T) {
	t.Run("decodes raw base64", func(t *testing.T) {
		raw := pngBytes(64)
		upload, err := decodePhoto(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, int64(64), upload.Size)
		assert.Equal(t, "image/png", upload.ContentType)

		decoded, err := io.ReadAll(upload.Content)
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	})

	t.Run("strips a data URL prefix", func(t *testing.T) {
		encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(32))
		upload, err := decodePhoto(encoded)
		require.NoError(t, err)
		assert.Equal(t, "image/png", upload.ContentType)
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		_, err := decodePhoto("not-base64!!!")
		assert.Error(t, err)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		_, err := decodePhoto(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("plain text", 10))))
		assert.Error(t, err)
	})

	t.Run("rejects oversized photos", func(t *testing.T) {
		_, err := decodePhoto(base64.StdEncoding.EncodeToString(pngBytes(maxPhotoBytes + 1)))
		assert.Error(t, err)
	})
}
