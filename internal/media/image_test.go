package media

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage writes a gradient image so resizing is observable.
func createTestImage(t *testing.T, path string, width, height int, format string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image file: %v", err)
	}
	defer f.Close()

	switch format {
	case "jpeg", "jpg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(f, img)
	default:
		t.Fatalf("Unsupported test image format: %s", format)
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

func TestGetImageDimensions(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name   string
		width  int
		height int
		format string
	}{
		{"Small JPEG", 100, 80, "jpeg"},
		{"Wide PNG", 640, 120, "png"},
		{"Tall PNG", 90, 300, "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+"."+tt.format)
			createTestImage(t, path, tt.width, tt.height, tt.format)

			dims, err := GetImageDimensions(path)
			if err != nil {
				t.Fatalf("GetImageDimensions: %v", err)
			}
			if dims.Width != tt.width || dims.Height != tt.height {
				t.Errorf("got %dx%d, want %dx%d", dims.Width, dims.Height, tt.width, tt.height)
			}
		})
	}
}

func TestGetImageDimensionsErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := GetImageDimensions(filepath.Join(tmpDir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := filepath.Join(tmpDir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := GetImageDimensions(garbage); err == nil {
		t.Error("expected error for non-image file")
	}
}

func TestConstrainDimensions(t *testing.T) {
	tests := []struct {
		name                  string
		width, height         int
		maxDim, maxPixels     int
		wantWidth, wantHeight int
	}{
		{"within limits", 800, 600, 4096, 20_000_000, 800, 600},
		{"wide over max", 8000, 4000, 4096, 20_000_000, 4096, 2048},
		{"tall over max", 3000, 6000, 4096, 20_000_000, 2048, 4096},
		{"pixel cap only", 400, 400, 4096, 40_000, 200, 200},
		{"degenerate", 0, 10, 4096, 100, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := constrainDimensions(tt.width, tt.height, tt.maxDim, tt.maxPixels)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestLoadImageConstrained(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "big.png")
	createTestImage(t, path, 300, 200, "png")

	img, err := LoadImageConstrained(path, 150, MaxImagePixels)
	if err != nil {
		t.Fatalf("LoadImageConstrained: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 150 || b.Dy() != 100 {
		t.Errorf("got %dx%d, want 150x100", b.Dx(), b.Dy())
	}

	img, err = LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("unconstrained load changed size to %dx%d", b.Dx(), b.Dy())
	}
}

func TestLoadImageMissing(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Error("expected error for missing file")
	}
}
