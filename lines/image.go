package lines

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// lookupSize is the resolution reference images are resampled to. Lookups
// only ever use the velocity vector as a coordinate, so a modest fixed
// size is plenty.
const lookupSize = 256

// ImageSampler is a bilinear color lookup table built from a reference
// image. Coordinates are normalized [0,1] UVs.
type ImageSampler struct {
	width, height int
	pix           []float32 // RGBA, 4 floats per pixel
}

// LoadImageSampler decodes the image at path (png or jpeg) and resamples
// it into a lookup table.
func LoadImageSampler(path string) (*ImageSampler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding reference image: %w", err)
	}

	return newSamplerFromImage(img), nil
}

// NewImageSamplerFromRGBA builds a sampler from a raw 8-bit RGBA pixel
// buffer, e.g. one supplied directly by the host.
func NewImageSamplerFromRGBA(pix []byte, width, height int) (*ImageSampler, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("reference image: invalid size %dx%d", width, height)
	}
	if len(pix) < 4*width*height {
		return nil, fmt.Errorf("reference image: buffer too short for %dx%d", width, height)
	}

	img := &image.RGBA{Pix: pix, Stride: 4 * width, Rect: image.Rect(0, 0, width, height)}
	return newSamplerFromImage(img), nil
}

func newSamplerFromImage(img image.Image) *ImageSampler {
	dst := image.NewRGBA(image.Rect(0, 0, lookupSize, lookupSize))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	s := &ImageSampler{
		width:  lookupSize,
		height: lookupSize,
		pix:    make([]float32, 4*lookupSize*lookupSize),
	}
	for i, b := range dst.Pix {
		s.pix[i] = float32(b) / 255.0
	}
	return s
}

// At returns the bilinearly interpolated color at (u, v), clamped to the
// image edges.
func (s *ImageSampler) At(u, v float32) RGBA {
	x := clamp01(u) * float32(s.width-1)
	y := clamp01(v) * float32(s.height-1)

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > s.width-1 {
		x1 = s.width - 1
	}
	if y1 > s.height-1 {
		y1 = s.height - 1
	}
	tx := x - float32(x0)
	ty := y - float32(y0)

	c00 := s.pixel(x0, y0)
	c10 := s.pixel(x1, y0)
	c01 := s.pixel(x0, y1)
	c11 := s.pixel(x1, y1)

	lerp := func(a, b RGBA, t float32) RGBA {
		return RGBA{
			R: a.R + (b.R-a.R)*t,
			G: a.G + (b.G-a.G)*t,
			B: a.B + (b.B-a.B)*t,
			A: a.A + (b.A-a.A)*t,
		}
	}
	return lerp(lerp(c00, c10, tx), lerp(c01, c11, tx), ty)
}

func (s *ImageSampler) pixel(x, y int) RGBA {
	i := 4 * (y*s.width + x)
	return RGBA{s.pix[i], s.pix[i+1], s.pix[i+2], s.pix[i+3]}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
