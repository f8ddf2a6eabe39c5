package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
	}{
		{"plain", (*Spinner).Stop},
		{"success", func(s *Spinner) { s.StopWithSuccess("Rendered") }},
		{"error", func(s *Spinner) { s.StopWithError("Could not write image") }},
		{"repeated", func(s *Spinner) { s.Stop(); s.Stop(); s.Stop() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSpinner("Rendering Julia Set")
			s.Start()
			time.Sleep(50 * time.Millisecond)
			tt.stop(s)
			if !s.Cancelled() {
				t.Error("Cancelled() = false after Stop")
			}
		})
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := newSpinnerWithContext(ctx, "Rendering")
		s.Start()
		cancel()
		time.Sleep(100 * time.Millisecond)
		if !s.Cancelled() {
			t.Error("spinner should be cancelled after context cancellation")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		s := newSpinnerWithContext(ctx, "Rendering")
		s.Start()
		time.Sleep(100 * time.Millisecond)
		if !s.Cancelled() {
			t.Error("spinner should be cancelled after context timeout")
		}
	})
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner("Rendering")
	s.draw = true
	s.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i <= 100; i += 10 {
			s.SetMessage(fmt.Sprintf("Rendering %3d%%", i))
		}
	}()
	<-done
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != "Rendering 100%" {
		t.Errorf("message = %q, want last update", s.message)
	}
	if s.width < len("Rendering 100%") {
		t.Errorf("width = %d, want at least the drawn message", s.width)
	}
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("isTerminal(regular file) = true")
	}
}
