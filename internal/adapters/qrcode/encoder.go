// Package qrcode renders share links as QR code images.
package qrcode

import (
	"fmt"

	"eventnexus/internal/domain"

	"github.com/skip2/go-qrcode"
)

// EncodeFunc matches qrcode.Encode so tests can swap it out.
type EncodeFunc func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

const (
	minSize = 64
	maxSize = 1024
)

type encoder struct {
	encode EncodeFunc
}

// NewEncoder returns a QREncoder using go-qrcode at medium recovery level.
func NewEncoder() domain.QREncoder {
	return NewEncoderWith(qrcode.Encode)
}

// NewEncoderWith returns a QREncoder that delegates to fn.
func NewEncoderWith(fn EncodeFunc) domain.QREncoder {
	return &encoder{encode: fn}
}

func (e *encoder) EncodePNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty: %w", domain.ErrInvalidInput)
	}
	if size < minSize || size > maxSize {
		return nil, fmt.Errorf("qr size must be between %d and %d: %w", minSize, maxSize, domain.ErrInvalidInput)
	}
	png, err := e.encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
