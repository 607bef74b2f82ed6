package sink

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/render"
)

const inchesPerMeter = 1 / 0.0254

// RenderPNG encodes img as PNG tagged with dpi. When dpi differs from the
// raster's own resolution the pixels are resampled first; img is left as is.
func RenderPNG(img *render.Image, dpi float64) ([]byte, error) {
	if img == nil || img.Pixels == nil || img.Pixels.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeEncoding, "nothing to encode: empty image")
	}
	if !(dpi > 0) || math.IsInf(dpi, 0) {
		return nil, errors.Invalid("dpi must be positive, got %g", dpi)
	}

	var pix image.Image = img.Pixels
	if img.DPI > 0 && dpi != img.DPI {
		b := img.Pixels.Bounds()
		f := dpi / img.DPI
		w := max(1, int(float64(b.Dx())*f+0.5))
		h := max(1, int(float64(b.Dy())*f+0.5))
		pix = imaging.Resize(img.Pixels, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, pix); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "encode png")
	}
	return withPhys(buf.Bytes(), dpi)
}

// withPhys inserts a pHYs chunk right after IHDR. image/png has no way to
// write ancillary chunks, so the chunk is spliced into the encoded stream.
func withPhys(data []byte, dpi float64) ([]byte, error) {
	// signature (8) + IHDR length, type, 13 bytes of data, crc
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || string(data[12:16]) != "IHDR" {
		return nil, errors.New(errors.ErrCodeEncoding, "malformed png stream")
	}

	ppm := uint32(math.Round(dpi * inchesPerMeter))
	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: meter
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// DPI reads the resolution stamped by RenderPNG. It returns 0 when the
// stream has no pHYs chunk in meters.
func DPI(data []byte) float64 {
	i := 8
	for i+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[i : i+4]))
		typ := string(data[i+4 : i+8])
		if typ == "pHYs" && n == 9 && i+8+9 <= len(data) {
			body := data[i+8 : i+8+9]
			if body[8] != 1 {
				return 0
			}
			return math.Round(float64(binary.BigEndian.Uint32(body[0:4])) / inchesPerMeter)
		}
		if typ == "IDAT" || typ == "IEND" {
			return 0
		}
		i += 12 + n
	}
	return 0
}
