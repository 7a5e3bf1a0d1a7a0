package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// EncodePNG writes img to w as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	return nil
}

// PNGSink returns a Sink writing each frame to dir as frame-NNNNN.png.
// The directory is created on first use.
func PNGSink(dir string) Sink {
	return func(frame uint64, img *image.RGBA) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("raster: create frame dir: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("frame-%05d.png", frame))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("raster: create frame file: %w", err)
		}
		if err := EncodePNG(f, img); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}
