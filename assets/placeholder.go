// Package assets holds the images bundled with the binary.
package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const (
	PlaceholderSize = 512
	PlaceholderName = "default-recipe.png"
)

var (
	placeholderOnce sync.Once
	placeholderPNG  []byte
)

// Placeholder returns the PNG shown for recipes without an image_url.
func Placeholder() []byte {
	placeholderOnce.Do(func() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, drawPlaceholder(PlaceholderSize)); err != nil {
			panic("assets: encode placeholder: " + err.Error())
		}
		placeholderPNG = buf.Bytes()
	})
	return placeholderPNG
}

// drawPlaceholder paints a plate on a red-to-green festive gradient.
func drawPlaceholder(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	top := color.RGBA{R: 196, G: 57, B: 57, A: 255}
	bottom := color.RGBA{R: 46, G: 110, B: 72, A: 255}
	plate := color.RGBA{R: 250, G: 246, B: 238, A: 255}
	rim := color.RGBA{R: 225, G: 214, B: 196, A: 255}

	c := size / 2
	outer := (size * 3 / 8) * (size * 3 / 8)
	inner := (size / 4) * (size / 4)
	for y := 0; y < size; y++ {
		bg := lerp(top, bottom, float64(y)/float64(size-1))
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			d := dx*dx + dy*dy
			switch {
			case d <= inner:
				img.SetRGBA(x, y, plate)
			case d <= outer:
				img.SetRGBA(x, y, rim)
			default:
				img.SetRGBA(x, y, bg)
			}
		}
	}
	return img
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
