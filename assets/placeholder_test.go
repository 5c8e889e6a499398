package assets

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderIsPNG(t *testing.T) {
	b := Placeholder()
	require.NotEmpty(t, b)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, PlaceholderSize, img.Bounds().Dx())
	assert.Equal(t, PlaceholderSize, img.Bounds().Dy())

	// cached
	assert.Equal(t, &b[0], &Placeholder()[0])
}
