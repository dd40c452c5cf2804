package tiles

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
)

const tileSize = 256

var (
	placeholderOnce sync.Once
	placeholderPNG  []byte
)

// Placeholder returns a plain grey tile shown when a tile is neither cached
// nor reachable upstream.
func Placeholder() []byte {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}}, image.Point{}, draw.Src)

		border := color.RGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}
		for i := 0; i < tileSize; i++ {
			img.Set(i, 0, border)
			img.Set(0, i, border)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			panic("tiles: encode placeholder: " + err.Error())
		}
		placeholderPNG = buf.Bytes()
	})
	return placeholderPNG
}
