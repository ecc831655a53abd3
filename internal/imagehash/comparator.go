// Package imagehash compares identity document images by content digest and
// perceptual hash, and gates images against a whitelist of templates.
package imagehash

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// HashBits is the length of the perceptual and average hashes.
const HashBits = 64

// DefaultPerceptualThreshold is the minimum similarity for a perceptual match.
const DefaultPerceptualThreshold = 90.0

// Comparator decides whether two document images show the same document.
type Comparator struct {
	threshold float64
	logger    *logging.SafeLogger
}

// NewComparator returns a comparator using threshold (0-100) for perceptual matches.
func NewComparator(threshold float64, logger *logging.SafeLogger) *Comparator {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultPerceptualThreshold
	}
	return &Comparator{threshold: threshold, logger: logger}
}

// Threshold returns the configured perceptual threshold.
func (c *Comparator) Threshold() float64 {
	return c.threshold
}

// Compare always returns a result. Unreadable or corrupt files yield
// Matched=false with Error set.
func (c *Comparator) Compare(ctx context.Context, pathA, pathB string) models.ImageComparison {
	return c.CompareWithThreshold(ctx, pathA, pathB, c.threshold)
}

// CompareWithThreshold is Compare with an explicit perceptual threshold.
func (c *Comparator) CompareWithThreshold(ctx context.Context, pathA, pathB string, threshold float64) models.ImageComparison {
	_, span, cleanup := utils.TraceImageOperation(ctx, "compare")
	defer cleanup()

	result := c.compare(pathA, pathB, threshold)
	if result.Error != "" {
		utils.AddSpanAttribute(span, "image.error", result.Error)
		c.logger.Warn("image comparison failed", zap.String("error", result.Error))
	}

	method := string(result.MatchMethod)
	if method == "" {
		method = "none"
	}
	observability.ImageComparisons.WithLabelValues(method, observability.BoolLabel(result.Matched, "matched", "unmatched")).Inc()
	return result
}

func (c *Comparator) compare(pathA, pathB string, threshold float64) models.ImageComparison {
	shaA, err := FileSHA256(pathA)
	if err != nil {
		return models.ImageComparison{Error: err.Error()}
	}
	shaB, err := FileSHA256(pathB)
	if err != nil {
		return models.ImageComparison{Error: err.Error()}
	}

	sha := &models.SHADetails{HashA: shaA, HashB: shaB, Match: shaA == shaB}
	if sha.Match {
		return models.ImageComparison{
			Matched:     true,
			MatchMethod: models.MatchExact,
			Similarity:  100,
			SHA:         sha,
		}
	}

	hashA, err := perceptionHashFile(pathA)
	if err != nil {
		return models.ImageComparison{SHA: sha, Error: err.Error()}
	}
	hashB, err := perceptionHashFile(pathB)
	if err != nil {
		return models.ImageComparison{SHA: sha, Error: err.Error()}
	}

	distance, err := hashA.Distance(hashB)
	if err != nil {
		return models.ImageComparison{SHA: sha, Error: err.Error()}
	}

	similarity := Similarity(distance, HashBits)
	matched := similarity >= threshold
	return models.ImageComparison{
		Matched:     matched,
		MatchMethod: models.MatchPerceptual,
		Similarity:  similarity,
		SHA:         sha,
		Perceptual: &models.PerceptualDetails{
			HashA:      hashHex(hashA),
			HashB:      hashHex(hashB),
			Distance:   distance,
			BitLength:  HashBits,
			Similarity: similarity,
			Threshold:  threshold,
		},
	}
}

// Similarity converts a Hamming distance into a percentage rounded to two decimals.
func Similarity(distance, bits int) float64 {
	if bits <= 0 {
		return 0
	}
	s := float64(bits-distance) / float64(bits) * 100
	return math.Round(s*100) / 100
}

// FileSHA256 returns the hex SHA-256 digest of a file's content.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func perceptionHashFile(path string) (*goimagehash.ImageHash, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("perception hash: %w", err)
	}
	return hash, nil
}

func decodeFile(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrImageDecode, err)
	}
	return img, nil
}

func hashHex(h *goimagehash.ImageHash) string {
	return fmt.Sprintf("%016x", h.GetHash())
}
