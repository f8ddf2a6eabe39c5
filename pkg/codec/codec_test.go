package codec

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/fractals/pkg/canvas"
	"github.com/matzehuels/fractals/pkg/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"fractal.png", FormatPNG, true},
		{"FRACTAL.PNG", FormatPNG, true},
		{"a/b/c.jpg", FormatJPEG, true},
		{"c.jpeg", FormatJPEG, true},
		{"c.gif", FormatGIF, true},
		{"c.bmp", FormatBMP, true},
		{"c.tif", FormatTIFF, true},
		{"c.tiff", FormatTIFF, true},
		{"c.webp", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		got, ok := FormatFromPath(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FormatFromPath(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := map[string]string{
		"png":  FormatPNG,
		"PNG":  FormatPNG,
		"jpg":  FormatJPEG,
		".jpg": FormatJPEG,
		"tif":  FormatTIFF,
		"webp": "webp",
	}
	for in, want := range tests {
		if got := NormalizeFormat(in); got != want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnsureExtension(t *testing.T) {
	tests := []struct {
		path, format, want string
	}{
		{"fractal", FormatPNG, "fractal.png"},
		{"fractal.png", FormatPNG, "fractal.png"},
		{"fractal.tiff", FormatPNG, "fractal.tiff"},
		{"fractal", "jpg", "fractal.jpg"},
		{"my.fractal", FormatBMP, "my.fractal.bmp"},
	}
	for _, tt := range tests {
		if got := EnsureExtension(tt.path, tt.format); got != tt.want {
			t.Errorf("EnsureExtension(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}

func TestEncodeDecodesToSameSize(t *testing.T) {
	img := canvas.New(37, 21)

	for format := range ValidFormats {
		t.Run(format, func(t *testing.T) {
			data, err := EncodeBytes(img, format)
			if err != nil {
				t.Fatalf("EncodeBytes: %v", err)
			}
			cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeConfig: %v", err)
			}
			if name != format {
				t.Errorf("decoded format = %q, want %q", name, format)
			}
			if cfg.Width != 37 || cfg.Height != 21 {
				t.Errorf("decoded size = %dx%d, want 37x21", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestEncodeLosslessPNG(t *testing.T) {
	img := canvas.New(16, 16)
	img.SetGreen(3, 4, 123)

	data, err := EncodeBytes(img, FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	_, g, _, _ := decoded.At(3, 4).RGBA()
	if g>>8 != 123 {
		t.Errorf("green = %d, want 123", g>>8)
	}
}

func TestEncodeInvalidFormat(t *testing.T) {
	_, err := EncodeBytes(canvas.New(2, 2), "webp")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "julia.bmp")

	if err := Save(path, canvas.New(8, 4)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, name, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if name != FormatBMP || cfg.Width != 8 || cfg.Height != 4 {
		t.Errorf("saved %s %dx%d, want bmp 8x4", name, cfg.Width, cfg.Height)
	}

	if err := Save(filepath.Join(dir, "noext"), canvas.New(2, 2)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Save without extension: err = %v", err)
	}
}

func TestContentType(t *testing.T) {
	if ContentType(FormatPNG) != "image/png" {
		t.Errorf("ContentType(png) = %q", ContentType(FormatPNG))
	}
	if ContentType("nope") != "application/octet-stream" {
		t.Errorf("ContentType(nope) = %q", ContentType("nope"))
	}
}

func TestWriteFileFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	// A regular file where a directory is expected cannot be written through.
	err := WriteFile(filepath.Join(blocker, "fractal.png"), []byte("x"))
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Errorf("WriteFile through a file: err = %v, want WRITE_FAILED", err)
	}

	if err := WriteFile("", []byte("x")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteFile(\"\"): err = %v, want INVALID_PATH", err)
	}
}
