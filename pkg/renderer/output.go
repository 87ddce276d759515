package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
)

// WritePPM writes img as an ASCII PPM (P3): a header followed by one
// "r g b" line per pixel, row-major from the top-left corner
func WritePPM(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return fmt.Errorf("failed to write PPM pixel (%d, %d): %w", x, y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM output: %w", err)
	}
	return nil
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img *image.RGBA) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WriteImage writes img in the named format ("ppm" or "png")
func WriteImage(w io.Writer, img *image.RGBA, format string) error {
	switch format {
	case "ppm", "":
		return WritePPM(w, img)
	case "png":
		return WritePNG(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}
