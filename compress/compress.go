// ABOUTME: Image compressor for uploaded site photos
// ABOUTME: Caps pixel width, keeps aspect ratio, and re-encodes as JPEG data URLs
package compress

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers webp with image.Decode
)

// Defaults used when a Compressor field is left zero.
const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 80
)

// ErrUndecodable is returned when the input is not a readable image.
var ErrUndecodable = errors.New("input is not a decodable image")

// Result is one re-encoded image.
type Result struct {
	DataURL string
	Width   int
	Height  int
	// Size is the byte length of the JPEG encoding before base64.
	Size int64
}

// Compressor re-encodes images. The zero value uses the defaults.
type Compressor struct {
	MaxWidth int
	Quality  int
}

// New returns a compressor with the given width cap and JPEG quality (1-100).
func New(maxWidth, quality int) *Compressor {
	return &Compressor{MaxWidth: maxWidth, Quality: quality}
}

// Compress decodes raw image bytes, scales them down to the width cap and
// encodes the result as a JPEG data URL. It has no side effects; callers keep
// their previous attachment when it fails.
func (c *Compressor) Compress(ctx context.Context, raw []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrUndecodable
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	bounds := img.Bounds()
	width, height := ScaledSize(bounds.Dx(), bounds.Dy(), c.maxWidth())
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUndecodable)
	}
	if width != bounds.Dx() {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.quality())); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return &Result{
		DataURL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   width,
		Height:  height,
		Size:    int64(buf.Len()),
	}, nil
}

// ScaledSize returns the output dimensions for an image of w x h pixels.
// Images no wider than maxWidth keep their size.
func ScaledSize(w, h, maxWidth int) (int, int) {
	if w <= maxWidth {
		return w, h
	}
	scaled := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	if scaled < 1 {
		scaled = 1
	}
	return maxWidth, scaled
}

func (c *Compressor) maxWidth() int {
	if c.MaxWidth <= 0 {
		return DefaultMaxWidth
	}
	return c.MaxWidth
}

func (c *Compressor) quality() int {
	if c.Quality < 1 || c.Quality > 100 {
		return DefaultQuality
	}
	return c.Quality
}
