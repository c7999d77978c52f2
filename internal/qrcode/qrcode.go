// Package qrcode renders order ids as PNG QR codes embedded in data URLs and
// reads them back from scans.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered image edge in pixels.
const DefaultSize = 256

const pngDataURLPrefix = "data:image/png;base64,"

// ErrNotDataURL is returned when the input is not a base64 image data URL.
var ErrNotDataURL = errors.New("not a base64 image data URL")

// EncodePNG renders content as a PNG QR code.
func EncodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// DataURL renders content as a PNG QR code wrapped in a data URL, the form
// stored on orders and shown by the client app.
func DataURL(content string) (string, error) {
	png, err := EncodePNG(content, DefaultSize)
	if err != nil {
		return "", err
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// Decode reads the text held by a QR code image given as a data URL.
// PNG and JPEG payloads are accepted so camera captures work too.
func Decode(dataURL string) (string, error) {
	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	return DecodeImage(raw)
}

// DecodeImage reads the text held by an encoded QR code image.
func DecodeImage(raw []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize image: %w", err)
	}
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("read qr code: %w", err)
	}
	return result.GetText(), nil
}

func decodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, ErrNotDataURL
	}
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNotDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	return raw, nil
}
