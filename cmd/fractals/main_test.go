package main

import (
	"fmt"
	"testing"

	"github.com/matzehuels/fractals/pkg/errors"
)

func TestDescribe(t *testing.T) {
	cause := fmt.Errorf("unknown fractal kind %q", "koch")
	tests := []struct {
		name    string
		err     error
		verbose bool
		want    string
	}{
		{"plain error", fmt.Errorf("boom"), false, "boom"},
		{"coded", errors.New(errors.ErrCodeInvalidPath, "output path cannot be empty"), false, "output path cannot be empty"},
		{"coded with cause", errors.Wrap(errors.ErrCodeInvalidKind, cause, "invalid type value (koch)"), false,
			`invalid type value (koch): unknown fractal kind "koch"`},
		{"verbose keeps code", errors.New(errors.ErrCodeInvalidPath, "output path cannot be empty"), true,
			"INVALID_PATH: output path cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.err, tt.verbose); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
