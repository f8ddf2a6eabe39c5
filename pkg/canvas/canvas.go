// Package canvas provides the RGB pixel grid that fractals are rendered into.
//
// A [Canvas] starts with a red/blue gradient background; the renderer then
// overwrites the green channel with escape counts. Canvas implements
// [image.Image], so it can be handed to any standard encoder.
package canvas

import (
	"fmt"
	"image"
	"image/color"
)

// Canvas is a width×height grid of 8-bit RGB triples stored row-major.
//
// Distinct pixels may be written from different goroutines; the canvas does
// no locking of its own.
type Canvas struct {
	// Pix holds the pixels: the triple for (x, y) starts at Pix[y*Stride+x*3].
	Pix    []uint8
	Stride int
	width  int
	height int
}

// New returns a canvas with the gradient background.
//
// With delta = 255/max(width, height), pixel (x, y) gets red = delta*y and
// blue = delta*x, truncated; green is 0. New panics if either dimension is
// less than 1.
func New(width, height int) *Canvas {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("canvas: invalid size %dx%d", width, height))
	}
	c := &Canvas{
		Pix:    make([]uint8, width*height*3),
		Stride: width * 3,
		width:  width,
		height: height,
	}

	delta := float32(255) / float32(max(width, height))
	for y := 0; y < height; y++ {
		r := uint8(float32(delta * float32(y)))
		row := c.Pix[y*c.Stride : (y+1)*c.Stride]
		for x := 0; x < width; x++ {
			row[x*3] = r
			row[x*3+2] = uint8(float32(delta * float32(x)))
		}
	}
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// RGB returns the channels of pixel (x, y).
func (c *Canvas) RGB(x, y int) (r, g, b uint8) {
	i := c.offset(x, y)
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2]
}

// SetGreen overwrites the green channel of pixel (x, y), keeping red and blue.
func (c *Canvas) SetGreen(x, y int, v uint8) {
	c.Pix[c.offset(x, y)+1] = v
}

// Set overwrites all three channels of pixel (x, y).
func (c *Canvas) Set(x, y int, r, g, b uint8) {
	i := c.offset(x, y)
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = r, g, b
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// At implements image.Image. Pixels outside the canvas are transparent black,
// as the image.Image contract requires.
func (c *Canvas) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(c.Bounds()) {
		return color.RGBA{}
	}
	r, g, b := c.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// RGBA copies the canvas into a new *image.RGBA.
func (c *Canvas) RGBA() *image.RGBA {
	img := image.NewRGBA(c.Bounds())
	for y := 0; y < c.height; y++ {
		src := c.Pix[y*c.Stride : (y+1)*c.Stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+c.width*4]
		for x := 0; x < c.width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// offset returns the Pix index of (x, y), panicking when out of range.
func (c *Canvas) offset(x, y int) int {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		panic(fmt.Sprintf("canvas: pixel (%d,%d) outside %dx%d", x, y, c.width, c.height))
	}
	return y*c.Stride + x*3
}

var _ image.Image = (*Canvas)(nil)
