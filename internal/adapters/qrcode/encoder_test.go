package qrcode

import (
	"bytes"
	"errors"
	"testing"

	"eventnexus/internal/domain"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_RealPNG(t *testing.T) {
	png, err := NewEncoder().EncodePNG("http://localhost:5173/events/1", 256)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output should be a PNG")
}

func TestEncoder_PassesContentAndLevel(t *testing.T) {
	var gotContent string
	var gotLevel qrcode.RecoveryLevel
	var gotSize int
	enc := NewEncoderWith(func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
		gotContent, gotLevel, gotSize = content, level, size
		return []byte("png"), nil
	})

	out, err := enc.EncodePNG("https://example.com/events/7", 300)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), out)
	assert.Equal(t, "https://example.com/events/7", gotContent)
	assert.Equal(t, qrcode.Medium, gotLevel)
	assert.Equal(t, 300, gotSize)
}

func TestEncoder_Errors(t *testing.T) {
	failing := NewEncoderWith(func(string, qrcode.RecoveryLevel, int) ([]byte, error) {
		return nil, errors.New("too long")
	})
	_, err := failing.EncodePNG("x", 256)
	require.Error(t, err)

	_, err = NewEncoder().EncodePNG("", 256)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewEncoder().EncodePNG("x", 10)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
