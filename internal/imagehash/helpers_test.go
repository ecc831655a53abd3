package imagehash

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/securevote/app-verify/internal/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *logging.SafeLogger {
	return logging.NewSafeLogger(zap.NewNop())
}

// blockImage draws a grid of random gray blocks. Large blocks keep the perceptual
// hash stable under re-encoding while distinct seeds give unrelated hashes.
func blockImage(seed int64) *image.NRGBA {
	const size, block = 256, 32
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for by := 0; by < size; by += block {
		for bx := 0; bx < size; bx += block {
			v := uint8(rng.Intn(256))
			for y := by; y < by+block; y++ {
				for x := bx; x < bx+block; x++ {
					img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
				}
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image, level png.CompressionLevel) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: level}
	require.NoError(t, enc.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
