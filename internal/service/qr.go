package service

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// QRService renders QR codes for short URLs.
type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// EncodePNG returns a PNG image encoding text. Size is clamped to sane
// bounds; zero means the default size.
func (s *QRService) EncodePNG(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// MakeBase64 returns the QR code as a data URL suitable for embedding.
func (s *QRService) MakeBase64(text string, size int) (string, error) {
	png, err := s.EncodePNG(text, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
