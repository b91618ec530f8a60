package imagepkg

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// QR size bounds in pixels.
const (
	MinQRSize     = 64
	MaxQRSize     = 2048
	DefaultQRSize = 400
)

func newQR(text string, size int) (*qrcode.QRCode, error) {
	if size < MinQRSize || size > MaxQRSize {
		return nil, fmt.Errorf("qr size %d outside [%d, %d]", size, MinQRSize, MaxQRSize)
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("build qr code: %w", err)
	}
	return q, nil
}

// GenerateQRPNG returns PNG bytes of a size x size QR code for text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	q, err := newQR(text, size)
	if err != nil {
		return nil, err
	}
	return q.PNG(size)
}

// GenerateQRImage returns the QR code for text as an image for composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	q, err := newQR(text, size)
	if err != nil {
		return nil, err
	}
	return q.Image(size), nil
}
