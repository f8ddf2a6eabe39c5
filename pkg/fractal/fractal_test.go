package fractal

import (
	"math"
	"testing"
)

func TestComplexArithmetic(t *testing.T) {
	a := Complex{Re: 1, Im: 2}
	b := Complex{Re: 3, Im: -1}

	if got := a.Add(b); got != (Complex{Re: 4, Im: 1}) {
		t.Errorf("Add = %+v, want {4 1}", got)
	}
	// (1+2i)(3-i) = 3 - i + 6i - 2i² = 5 + 5i
	if got := a.Mul(b); got != (Complex{Re: 5, Im: 5}) {
		t.Errorf("Mul = %+v, want {5 5}", got)
	}
	if got := (Complex{Re: 3, Im: 4}).NormSqr(); got != 25 {
		t.Errorf("NormSqr = %v, want 25", got)
	}
	if got := (Complex{Re: 3, Im: 4}).Abs(); got != 5 {
		t.Errorf("Abs = %v, want 5", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"julia", Julia, false},
		{"Julia", Julia, false},
		{"mandelbrot", Mandelbrot, false},
		{"mandel", Mandelbrot, false},
		{"0", Julia, false},
		{"1", Mandelbrot, false},
		{"7", Julia, false}, // unknown codes fall back to Julia
		{"sierpinski", Julia, true},
		{"255", Julia, false},
		{"-1", Julia, true},
		{"256", Julia, true},
		{"999", Julia, true},
		{"", Julia, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != k {
			t.Errorf("text round trip of %v = %v", k, back)
		}
	}
}

func TestComputeWindowBounds(t *testing.T) {
	sizes := []int{1, 2, 3, 7, 10, 99, 100, 150, 301, 640}

	for _, kind := range Kinds {
		for _, w := range sizes {
			for _, h := range sizes {
				win := ComputeWindow(w, h, kind)
				if win.Width < 1 || win.Width > w {
					t.Errorf("%v %dx%d: window width %d out of (0, %d]", kind, w, h, win.Width, w)
				}
				if win.Height < 1 || win.Height > h {
					t.Errorf("%v %dx%d: window height %d out of (0, %d]", kind, w, h, win.Height, h)
				}
				if win.OffsetX < 0 || win.OffsetX+win.Width > w {
					t.Errorf("%v %dx%d: x offset %d + width %d exceeds canvas", kind, w, h, win.OffsetX, win.Width)
				}
				if win.OffsetY < 0 || win.OffsetY+win.Height > h {
					t.Errorf("%v %dx%d: y offset %d + height %d exceeds canvas", kind, w, h, win.OffsetY, win.Height)
				}
			}
		}
	}
}

func TestComputeWindowMandelbrotSquare(t *testing.T) {
	tests := []struct {
		w, h       int
		side       int
		offX, offY int
	}{
		{400, 400, 400, 0, 0},
		{800, 600, 600, 100, 0},
		{600, 800, 600, 0, 100},
		{5, 2, 2, 1, 0},
		{1, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		win := ComputeWindow(tt.w, tt.h, Mandelbrot)
		if win.Width != win.Height {
			t.Errorf("%dx%d: window %dx%d is not square", tt.w, tt.h, win.Width, win.Height)
		}
		if win.Width != tt.side || win.OffsetX != tt.offX || win.OffsetY != tt.offY {
			t.Errorf("%dx%d: got side %d offset (%d,%d), want %d (%d,%d)",
				tt.w, tt.h, win.Width, win.OffsetX, win.OffsetY, tt.side, tt.offX, tt.offY)
		}
		if win.ScaleX != win.ScaleY {
			t.Errorf("%dx%d: scales differ: %v vs %v", tt.w, tt.h, win.ScaleX, win.ScaleY)
		}
	}
}

func TestComputeWindowJuliaAspect(t *testing.T) {
	sizes := []int{1, 2, 3, 10, 99, 200, 300, 301, 450, 600, 1000}

	for _, w := range sizes {
		for _, h := range sizes {
			win := ComputeWindow(w, h, Julia)
			// One pixel of height is 1.5 pixels of width.
			diff := math.Abs(float64(win.Width) - 1.5*float64(win.Height))
			if diff >= 1.5 {
				t.Errorf("%dx%d: window %dx%d is not 1.5:1", w, h, win.Width, win.Height)
			}
		}
	}
}

func TestComputeWindowJulia(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		ww, wh     int
		offX, offY int
	}{
		{"portrait", 300, 600, 300, 200, 0, 200},
		{"exact", 300, 200, 300, 200, 0, 0},
		{"wide", 900, 200, 300, 200, 300, 0},
		{"square", 400, 400, 400, 266, 0, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := ComputeWindow(tt.w, tt.h, Julia)
			if win.Width != tt.ww || win.Height != tt.wh {
				t.Errorf("window = %dx%d, want %dx%d", win.Width, win.Height, tt.ww, tt.wh)
			}
			if win.OffsetX != tt.offX || win.OffsetY != tt.offY {
				t.Errorf("offset = (%d,%d), want (%d,%d)", win.OffsetX, win.OffsetY, tt.offX, tt.offY)
			}
			if win.ScaleX != 3.0/float32(tt.ww) || win.ScaleY != 2.0/float32(tt.wh) {
				t.Errorf("scale = (%v,%v)", win.ScaleX, win.ScaleY)
			}
			if win.ShiftX != 1.5 || win.ShiftY != 1.0 {
				t.Errorf("shift = (%v,%v), want (1.5,1)", win.ShiftX, win.ShiftY)
			}
		})
	}
}

func TestMandelbrotMapping400(t *testing.T) {
	win := ComputeWindow(400, 400, Mandelbrot)

	if win.Width != 400 || win.Height != 400 || win.OffsetX != 0 || win.OffsetY != 0 {
		t.Fatalf("window = %+v, want 400x400 at origin", win)
	}
	if want := float32(2.2) / 400; win.ScaleX != want || win.ScaleY != want {
		t.Errorf("scale = (%v,%v), want %v", win.ScaleX, win.ScaleY, want)
	}

	p := win.Point(0, 0)
	if !approx(p.Re, -1.6) || !approx(p.Im, -1.1) {
		t.Errorf("Point(0,0) = %+v, want (-1.6, -1.1)", p)
	}

	// The window is symmetric about the real axis.
	mid := win.Point(0, 200)
	if !approx(mid.Im, 0) {
		t.Errorf("Point(0,200).Im = %v, want 0", mid.Im)
	}

	if n := Iterate(p, Mandelbrot); n != 2 {
		t.Errorf("Iterate(%+v) = %d, want 2", p, n)
	}
}

func TestIterateMandelbrot(t *testing.T) {
	if n := Iterate(Complex{}, Mandelbrot); n != MaxIterations {
		t.Errorf("origin: got %d, want %d", n, MaxIterations)
	}
	if n := Iterate(Complex{Re: -1}, Mandelbrot); n != MaxIterations {
		t.Errorf("-1 (period-2 cycle): got %d, want %d", n, MaxIterations)
	}
	if n := Iterate(Complex{Re: 5, Im: 5}, Mandelbrot); n >= MaxIterations {
		t.Errorf("(5,5): got %d, want < %d", n, MaxIterations)
	} else if n != 1 {
		t.Errorf("(5,5): got %d, want 1", n)
	}
}

func TestIterateJulia(t *testing.T) {
	if n := Iterate(Complex{Re: 5, Im: 5}, Julia); n != 0 {
		t.Errorf("(5,5) escapes immediately: got %d, want 0", n)
	}
	if n := Iterate(Complex{Re: 2}, Julia); n == 0 {
		t.Errorf("|z0| = 2 is inside the radius: got 0 iterations")
	}
	if n := Iterate(Complex{}, Julia); n == 0 {
		t.Errorf("origin: got 0 iterations")
	}
}

func TestIterateDeterministic(t *testing.T) {
	points := []Complex{{-0.75, 0.1}, {0.285, 0.01}, {-1.6, -1.1}, {0.3, -0.5}}
	for _, kind := range Kinds {
		for _, p := range points {
			if a, b := Iterate(p, kind), Iterate(p, kind); a != b {
				t.Errorf("%v %+v: %d != %d", kind, p, a, b)
			}
		}
	}
}

func TestComputeWindowPanicsOnEmptyCanvas(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ComputeWindow(0, 10) should panic")
		}
	}()
	ComputeWindow(0, 10, Julia)
}

func approx(got, want float32) bool {
	return math.Abs(float64(got-want)) < 1e-5
}
