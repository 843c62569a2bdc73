package graphics

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("graphics: empty image data")

// Pixels is decoded image data ready for NewTexture.
type Pixels struct {
	Data     []byte
	Width    int
	Height   int
	Channels int // 3 for opaque images, 4 otherwise
}

// LoadImage reads and decodes an image file. PNG, JPEG, GIF, BMP and WebP are
// recognised by content. flip reverses the row order.
func LoadImage(path string, flip bool) (*Pixels, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeImage(f, flip)
}

// LoadImageBytes decodes an in-memory image.
func LoadImageBytes(data []byte, flip bool) (*Pixels, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return DecodeImage(bytes.NewReader(data), flip)
}

func DecodeImage(r io.Reader, flip bool) (*Pixels, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ImagePixels(img, flip), nil
}

// ImagePixels converts img to tightly packed RGB or RGBA rows.
func ImagePixels(img image.Image, flip bool) *Pixels {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)

	channels := 4
	if rgba.Opaque() {
		channels = 3
	}
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*channels)
	for y := 0; y < h; y++ {
		srcY := y
		if flip {
			srcY = h - 1 - y
		}
		src := rgba.Pix[srcY*rgba.Stride : srcY*rgba.Stride+w*4]
		dst := out[y*w*channels : (y+1)*w*channels]
		if channels == 4 {
			copy(dst, src)
			continue
		}
		for x := 0; x < w; x++ {
			dst[x*3+0] = src[x*4+0]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return &Pixels{Data: out, Width: w, Height: h, Channels: channels}
}

// ScaleImage resamples img to w×h with Catmull-Rom filtering.
func ScaleImage(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
