package renderer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// failingWriter rejects every write
type failingWriter struct{}

var errWriteFailed = errors.New("write failed")

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errWriteFailed
}

func createTestImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{12, 34, 56, 255})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, createTestImage()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n12 34 56\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestWritePPM_WriteFailure(t *testing.T) {
	err := WritePPM(failingWriter{}, createTestImage())
	if !errors.Is(err, errWriteFailed) {
		t.Errorf("Expected wrapped write error, got %v", err)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	img := createTestImage()
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 12 || g>>8 != 34 || b>>8 != 56 {
		t.Errorf("Expected pixel (12, 34, 56), got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestWriteImage(t *testing.T) {
	img := createTestImage()

	var ppm bytes.Buffer
	if err := WriteImage(&ppm, img, "ppm"); err != nil {
		t.Fatalf("WriteImage(ppm) failed: %v", err)
	}
	if !bytes.HasPrefix(ppm.Bytes(), []byte("P3\n")) {
		t.Errorf("Expected PPM output, got %q", ppm.String())
	}

	var pngBuf bytes.Buffer
	if err := WriteImage(&pngBuf, img, "png"); err != nil {
		t.Fatalf("WriteImage(png) failed: %v", err)
	}
	if !bytes.HasPrefix(pngBuf.Bytes(), []byte("\x89PNG")) {
		t.Error("Expected PNG signature")
	}

	if err := WriteImage(&bytes.Buffer{}, img, "jpeg"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
