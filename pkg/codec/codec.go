// Package codec encodes rendered canvases into raster files.
//
// Supported formats are PNG, JPEG, GIF, BMP and TIFF. The format is chosen
// from the output file extension unless given explicitly:
//
//	format, ok := codec.FormatFromPath("julia.tiff") // "tiff", true
//	err := codec.Save("julia.tiff", img)
//
// BMP and TIFF encoding come from golang.org/x/image.
package codec

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/fractals/pkg/errors"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// DefaultFormat is used when a path carries no recognised extension.
const DefaultFormat = FormatPNG

// DefaultJPEGQuality is the JPEG quality used unless overridden.
const DefaultJPEGQuality = 90

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatGIF:  true,
	FormatBMP:  true,
	FormatTIFF: true,
}

var extensions = map[string]string{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".gif":  FormatGIF,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatGIF:  "image/gif",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, jpeg, gif, bmp, tiff)", format)
	}
	return nil
}

// NormalizeFormat maps aliases such as "jpg" or "tif" to their canonical
// format name. Unknown names are returned lower-cased and unchanged.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if canonical, ok := extensions["."+f]; ok {
		return canonical
	}
	return f
}

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (string, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Extension returns the canonical file extension for format, including the dot.
func Extension(format string) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tiff"
	default:
		return "." + format
	}
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Option configures encoding.
type Option func(*encoder)

type encoder struct {
	jpegQuality int
	pngLevel    png.CompressionLevel
}

// WithJPEGQuality sets the JPEG quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(e *encoder) { e.jpegQuality = q }
}

// WithPNGCompression sets the PNG compression level.
func WithPNGCompression(level png.CompressionLevel) Option {
	return func(e *encoder) { e.pngLevel = level }
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string, opts ...Option) error {
	e := encoder{jpegQuality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(&e)
	}

	var err error
	switch NormalizeFormat(format) {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: e.pngLevel}
		err = enc.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: e.jpegQuality})
	case FormatGIF:
		err = gif.Encode(w, img, &gif.Options{NumColors: 256})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return ValidateFormat(format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode %s", format)
	}
	return nil
}

// EncodeBytes encodes img into a new byte slice.
func EncodeBytes(img image.Image, format string, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes img into the file at path, choosing the format from the
// extension. Paths without a recognised extension are an error; see
// [EnsureExtension].
func Save(path string, img image.Image, opts ...Option) error {
	format, ok := FormatFromPath(path)
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "cannot infer image format from %q", path)
	}
	data, err := EncodeBytes(img, format, opts...)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes already encoded data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", path)
	}
	return nil
}

// EnsureExtension returns path unchanged when it has a recognised image
// extension and otherwise appends the extension for format.
func EnsureExtension(path, format string) string {
	if _, ok := FormatFromPath(path); ok {
		return path
	}
	return path + Extension(NormalizeFormat(format))
}
