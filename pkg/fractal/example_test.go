package fractal_test

import (
	"fmt"

	"github.com/matzehuels/fractals/pkg/fractal"
)

func ExampleComputeWindow() {
	w := fractal.ComputeWindow(300, 600, fractal.Julia)
	fmt.Printf("window %dx%d at (%d,%d)\n", w.Width, w.Height, w.OffsetX, w.OffsetY)
	// Output:
	// window 300x200 at (0,200)
}

func ExampleIterate() {
	fmt.Println(fractal.Iterate(fractal.Complex{}, fractal.Mandelbrot))
	fmt.Println(fractal.Iterate(fractal.Complex{Re: 5, Im: 5}, fractal.Mandelbrot))
	// Output:
	// 255
	// 1
}
