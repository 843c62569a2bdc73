package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"

	"mini2d/internal/gpu"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var ErrEmptyFont = errors.New("graphics: font has no glyphs")

// Glyph describes a single character's placement and metrics within the atlas
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas texture (top-left origin)
	AtlasX, AtlasY int
	// Glyph bitmap size in pixels
	Width, Height int
	// Bearing (offset from baseline) in pixels
	BearingX, BearingY int
	Advance            int
}

// Atlas is a baked glyph sheet: white pixels whose alpha is the coverage.
type Atlas struct {
	Image      *image.NRGBA
	Glyphs     map[rune]Glyph
	Ascent     int
	LineHeight int
}

// GlyphQuad is one glyph of laid out text, in pixels.
type GlyphQuad struct {
	X, Y, W, H     float32
	U0, V0, U1, V1 float32
}

const atlasWidth = 512

func atlasRunes() []rune {
	var runes []rune
	for r := rune(32); r <= 126; r++ {
		runes = append(runes, r)
	}
	for r := rune(160); r <= 255; r++ {
		runes = append(runes, r)
	}
	return runes
}

// BakeAtlas rasterizes the printable ASCII and Latin-1 glyphs of face into a
// single atlas image using a row packer.
func BakeAtlas(face font.Face) (*Atlas, error) {
	padding := 1
	runes := atlasRunes()

	// First pass: measure to size the atlas
	offsetX, rowH, requiredH := 0, 0, 0
	for _, r := range runes {
		dr, mask, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil || dr.Empty() {
			continue
		}
		if offsetX+dr.Dx()+padding > atlasWidth {
			requiredH += rowH + padding
			offsetX, rowH = 0, 0
		}
		offsetX += dr.Dx() + padding
		if dr.Dy() > rowH {
			rowH = dr.Dy()
		}
	}
	requiredH += rowH + padding
	// Round height up to next power-of-two
	atlasH := 1
	for atlasH < requiredH {
		atlasH <<= 1
	}

	atlas := &Atlas{
		Image:  image.NewNRGBA(image.Rect(0, 0, atlasWidth, atlasH)),
		Glyphs: make(map[rune]Glyph),
	}
	metrics := face.Metrics()
	atlas.Ascent = metrics.Ascent.Round()
	atlas.LineHeight = metrics.Height.Round()

	// Second pass: render each glyph into the atlas and record metrics
	offsetX, offsetY, rowHeight := 0, 0, 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		g := Glyph{
			BearingX: dr.Min.X,
			BearingY: -dr.Min.Y,
			Advance:  int(math.Round(float64(advance) / 64.0)),
		}
		if mask == nil || dr.Empty() {
			// Space or non-drawable glyph; still record advance
			atlas.Glyphs[r] = g
			continue
		}
		gw, gh := dr.Dx(), dr.Dy()
		if offsetX+gw > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		dst := image.Rect(offsetX, offsetY, offsetX+gw, offsetY+gh)
		draw.DrawMask(atlas.Image, dst, image.White, image.Point{}, mask, maskp, draw.Src)

		g.AtlasX, g.AtlasY = offsetX, offsetY
		g.Width, g.Height = gw, gh
		atlas.Glyphs[r] = g

		offsetX += gw + padding
		if gh > rowHeight {
			rowHeight = gh
		}
	}
	if len(atlas.Glyphs) == 0 {
		return nil, ErrEmptyFont
	}
	return atlas, nil
}

// Font is a baked atlas uploaded as a texture.
type Font struct {
	Atlas   *Atlas
	Texture *Texture
}

// NewFont parses TrueType/OpenType data and bakes it at the given pixel size.
func NewFont(dev gpu.Device, data []byte, pixels float64) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: pixels, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	atlas, err := BakeAtlas(face)
	if err != nil {
		return nil, err
	}
	b := atlas.Image.Bounds()
	tex, err := NewTexture(dev, atlas.Image.Pix, b.Dx(), b.Dy(), 4)
	if err != nil {
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}
	return &Font{Atlas: atlas, Texture: tex}, nil
}

// LoadFont reads a font file from disk.
func LoadFont(dev gpu.Device, path string, pixels float64) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewFont(dev, data, pixels)
}

// DefaultFont bakes the embedded Go Regular face.
func DefaultFont(dev gpu.Device, pixels float64) (*Font, error) {
	return NewFont(dev, goregular.TTF, pixels)
}

func (f *Font) Destroy() {
	if f != nil {
		f.Texture.Destroy()
	}
}

// Layout places text with its top-left corner at (x, y). Newlines start a
// new line; runes missing from the atlas advance by a space.
func (a *Atlas) Layout(text string, x, y, scale float32) []GlyphQuad {
	aw := float32(a.Image.Bounds().Dx())
	ah := float32(a.Image.Bounds().Dy())
	space := a.Glyphs[' ']

	quads := make([]GlyphQuad, 0, len(text))
	penX := x
	baseline := y + float32(a.Ascent)*scale
	for _, r := range text {
		if r == '\n' {
			penX = x
			baseline += float32(a.LineHeight) * scale
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			penX += float32(space.Advance) * scale
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			quads = append(quads, GlyphQuad{
				X:  penX + float32(g.BearingX)*scale,
				Y:  baseline - float32(g.BearingY)*scale,
				W:  float32(g.Width) * scale,
				H:  float32(g.Height) * scale,
				U0: float32(g.AtlasX) / aw,
				V0: float32(g.AtlasY) / ah,
				U1: float32(g.AtlasX+g.Width) / aw,
				V1: float32(g.AtlasY+g.Height) / ah,
			})
		}
		penX += float32(g.Advance) * scale
	}
	return quads
}

// Measure returns the width of the widest line and the total height of text.
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	space := a.Glyphs[' ']
	var width, line float32
	lines := 1
	for _, r := range text {
		if r == '\n' {
			width = max(width, line)
			line = 0
			lines++
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			g = space
		}
		line += float32(g.Advance) * scale
	}
	width = max(width, line)
	return width, float32(lines*a.LineHeight) * scale
}
