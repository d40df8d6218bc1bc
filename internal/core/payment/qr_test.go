package payment

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkQR(t *testing.T) {
	data, err := LinkQR("https://pay.example.com/travel-mtl", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, QRSize, img.Bounds().Dx())
}

func TestLinkQR_Rejects(t *testing.T) {
	_, err := LinkQR("   ", 0)
	assert.ErrorIs(t, err, ErrNoPaymentLink)

	_, err = LinkQR("javascript:alert(1)", 0)
	assert.Error(t, err)

	_, err = LinkQR("not a link", 0)
	assert.Error(t, err)
}
