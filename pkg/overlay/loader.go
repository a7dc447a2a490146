package overlay

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder.
	_ "image/jpeg" // Register JPEG decoder.
	_ "image/png"  // Register PNG decoder.
	"os"
)

// ErrImageUnavailable is reported when an image cannot be read or decoded.
var ErrImageUnavailable = errors.New("image unavailable")

// Size is an image's intrinsic size in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Loader reads the intrinsic size of an image file.
type Loader interface {
	Load(path string) (Size, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (Size, error)

// Load calls f.
func (f LoaderFunc) Load(path string) (Size, error) {
	return f(path)
}

// FileLoader decodes image headers from disk.
type FileLoader struct{}

// Load opens path and decodes the image header.
func (FileLoader) Load(path string) (Size, error) {
	file, err := os.Open(path)
	if err != nil {
		return Size{}, fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return Size{}, fmt.Errorf("%w: %s: %w", ErrImageUnavailable, path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, fmt.Errorf("%w: %s: empty image", ErrImageUnavailable, path)
	}

	return Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}
