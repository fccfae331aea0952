// Package imaging validates and normalizes uploaded photos before they go to
// object storage.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxBytes is the upload size ceiling (5 MB).
const MaxBytes = 5 << 20

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 2048

// JPEGQuality is the compression quality for re-encoded JPEG output.
const JPEGQuality = 85

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Result is the processed photo ready for upload.
type Result struct {
	Data []byte
	MIME string
}

// Process sniffs the MIME type from the bytes (client headers are not
// trusted), enforces the size cap, verifies the data decodes, and downscales
// oversized JPEG/PNG input. WEBP is validated and passed through as-is since
// the decoder is read-only.
func Process(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("image exceeds %d MB limit", MaxBytes>>20)
	}

	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (JPEG, PNG or WEBP accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	if detected == "image/webp" {
		return &Result{Data: data, MIME: detected}, nil
	}

	bounds := img.Bounds()
	if bounds.Dx() <= MaxDimension && bounds.Dy() <= MaxDimension {
		return &Result{Data: data, MIME: detected}, nil
	}

	img = downscale(img, MaxDimension)
	var buf bytes.Buffer
	if detected == "image/png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding PNG: %w", err)
		}
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("encoding JPEG: %w", err)
		}
	}
	return &Result{Data: buf.Bytes(), MIME: detected}, nil
}

// downscale resizes so neither dimension exceeds maxDim, preserving aspect
// ratio.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
