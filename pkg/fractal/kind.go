package fractal

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects the recurrence and window geometry of a render.
type Kind uint8

const (
	// Julia is the filled Julia set for the fixed parameter [JuliaParam].
	Julia Kind = iota
	// Mandelbrot is the Mandelbrot set.
	Mandelbrot
)

// Kinds lists every supported kind in code order.
var Kinds = []Kind{Julia, Mandelbrot}

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Mandelbrot:
		return "mandelbrot"
	default:
		return "julia"
	}
}

// Title returns the display name used in log output, e.g. "Mandelbrot Set".
func (k Kind) Title() string {
	switch k {
	case Mandelbrot:
		return "Mandelbrot Set"
	default:
		return "Julia Set"
	}
}

// Code returns the numeric selector accepted on the command line.
func (k Kind) Code() int {
	return int(k)
}

// Geometry returns the window-fitting constants for k.
func (k Kind) Geometry() Geometry {
	if k == Mandelbrot {
		return mandelbrotGeometry
	}
	return juliaGeometry
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using [ParseKind].
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a kind from its name ("julia", "mandelbrot", "mandel") or
// numeric code. Codes 0 to 255 other than 1 select Julia; codes outside that
// range and unknown names are an error.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "julia", "j":
		return Julia, nil
	case "mandelbrot", "mandel", "m":
		return Mandelbrot, nil
	}
	code, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return Julia, fmt.Errorf("invalid fractal kind %q", s)
	}
	if int(code) == Mandelbrot.Code() {
		return Mandelbrot, nil
	}
	return Julia, nil
}
