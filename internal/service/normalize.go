package service

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 80

// ImageNormalizer re-encodes uploads as JPEG, scaling them down so the
// longest side is at most MaxDimension.
type ImageNormalizer struct {
	MaxDimension int
}

// NewImageNormalizer creates an ImageNormalizer. A non-positive maxDimension
// disables scaling.
func NewImageNormalizer(maxDimension int) *ImageNormalizer {
	return &ImageNormalizer{MaxDimension: maxDimension}
}

// Normalize decodes JPEG, PNG or WebP data and returns it as JPEG.
func (n *ImageNormalizer) Normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, newError(KindInvalidImage, "image is empty", nil)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newError(KindInvalidImage, "failed to decode image", err)
	}

	dst := n.scale(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, newError(KindInvalidImage, "failed to encode image", err)
	}
	return buf.Bytes(), nil
}

func (n *ImageNormalizer) scale(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if n.MaxDimension <= 0 || longest <= n.MaxDimension {
		return src
	}

	nw := w * n.MaxDimension / longest
	nh := h * n.MaxDimension / longest
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
