package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/fractal"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Render.Width != 400 || cfg.Render.Height != 400 {
		t.Errorf("default size = %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Kind() != fractal.Mandelbrot {
		t.Errorf("default kind = %v", cfg.Kind())
	}
	if cfg.Render.Output != "fractal.png" {
		t.Errorf("default output = %s", cfg.Render.Output)
	}
	if cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("default ttl = %v", cfg.Cache.TTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, unknown, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown keys = %v", unknown)
	}
	if cfg.Render.Width != 400 {
		t.Error("missing file should yield defaults")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[render]
width = 800
kind = "julia"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "1h30m"

[history]
backend = "memory"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, unknown, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown keys = %v", unknown)
	}
	if cfg.Render.Width != 800 {
		t.Errorf("width = %d, want 800", cfg.Render.Width)
	}
	if cfg.Render.Height != 400 {
		t.Errorf("height should keep its default, got %d", cfg.Render.Height)
	}
	if cfg.Kind() != fractal.Julia {
		t.Errorf("kind = %v, want julia", cfg.Kind())
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("ttl = %v, want 1h30m", cfg.Cache.TTL)
	}
	if cfg.History.Backend != BackendMemory {
		t.Errorf("history backend = %s", cfg.History.Backend)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %s", cfg.Server.Addr)
	}
}

func TestLoadUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[render]
width = 10
colour = "red"

[extra]
x = 1
`)
	_, unknown, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	joined := "," + strings.Join(unknown, ",") + ","
	for _, key := range []string{"render.colour", "extra.x"} {
		if !strings.Contains(joined, ","+key+",") {
			t.Errorf("unknown = %v, missing %s", unknown, key)
		}
	}
	if strings.Contains(joined, ",render.width,") {
		t.Errorf("render.width is a known key, got %v", unknown)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `[render`},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"bad kind", "[render]\nkind = \"sierpinski\""},
		{"negative size", "[render]\nwidth = -1"},
		{"unknown cache backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"unknown history backend", "[history]\nbackend = \"postgres\""},
		{"mongo without uri", "[history]\nbackend = \"mongo\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/xdg", "fractals", "config.toml") {
		t.Errorf("DefaultPath() = %s", path)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	path, _ = DefaultPath()
	if path != filepath.Join(home, ".config", "fractals", "config.toml") {
		t.Errorf("DefaultPath() without XDG = %s", path)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.Kind = "julia"
	cfg.Cache.TTL = Duration{time.Hour}

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `ttl = "1h0m0s"`) {
		t.Errorf("encoded ttl should be a duration string:\n%s", buf.String())
	}

	var decoded Config
	if _, err := toml.Decode(buf.String(), &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Render != cfg.Render || decoded.Cache != cfg.Cache || decoded.Server != cfg.Server {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, *cfg)
	}
}
