package payment

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge length in pixels of generated payment QR codes.
const QRSize = 256

var ErrNoPaymentLink = errors.New("no payment link")

// LinkQR encodes a payment link as a PNG QR code. Only absolute http(s)
// links are accepted.
func LinkQR(link string, size int) ([]byte, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, ErrNoPaymentLink
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid payment link %q", link)
	}
	if size <= 0 {
		size = QRSize
	}

	img, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Image(size)); err != nil {
		return nil, fmt.Errorf("failed to encode QR png: %w", err)
	}
	return buf.Bytes(), nil
}
