package sink

import (
	"bytes"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/genposter/pkg/errors"
)

// DefaultThumbnailWidth is the preview width used by the server.
const DefaultThumbnailWidth = 320

// Thumbnail decodes an encoded image and returns a PNG no wider than
// maxWidth, keeping the aspect ratio. Narrower images are re-encoded as is.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		return nil, errors.Invalid("thumbnail width must be positive, got %d", maxWidth)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "decode image")
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "encode thumbnail")
	}
	return buf.Bytes(), nil
}
