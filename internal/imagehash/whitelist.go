package imagehash

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// DefaultWhitelistThreshold is the maximum average-hash distance (of 64 bits) for a match.
const DefaultWhitelistThreshold = 10

var templateExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

type template struct {
	name string
	hash *goimagehash.ImageHash
}

// Whitelist holds average hashes of pre-approved template images.
type Whitelist struct {
	mu        sync.RWMutex
	templates []template
	threshold int
	logger    *logging.SafeLogger
}

// CheckOptions tunes a single check. A nil Threshold uses the whitelist default.
type CheckOptions struct {
	Threshold       *int
	AllowedPatterns []string
}

// NewWhitelist returns an empty whitelist.
func NewWhitelist(threshold int, logger *logging.SafeLogger) *Whitelist {
	if threshold < 0 || threshold > HashBits {
		threshold = DefaultWhitelistThreshold
	}
	return &Whitelist{threshold: threshold, logger: logger}
}

// LoadWhitelist hashes every PNG/JPEG file in dir. Files that cannot be decoded are
// skipped with a warning. An empty dir argument yields an empty whitelist.
func LoadWhitelist(dir string, threshold int, logger *logging.SafeLogger) (*Whitelist, error) {
	w := NewWhitelist(threshold, logger)
	if dir == "" {
		return w, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, models.NewInfrastructureError("read whitelist dir", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !templateExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		img, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping whitelist template", zap.String("template", name), zap.Error(err))
			continue
		}
		if err := w.Add(name, img); err != nil {
			logger.Warn("skipping whitelist template", zap.String("template", name), zap.Error(err))
		}
	}

	logger.Info("whitelist loaded", zap.String("dir", dir), zap.Int("templates", w.Len()))
	return w, nil
}

// Add hashes img and registers it under name.
func (w *Whitelist) Add(name string, img image.Image) error {
	hash, err := goimagehash.AverageHash(img)
	if err != nil {
		return fmt.Errorf("average hash: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.templates = append(w.templates, template{name: name, hash: hash})
	return nil
}

// Len returns the number of templates.
func (w *Whitelist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.templates)
}

// IsImageAllowed finds the closest template to the image in data. The image is
// allowed when the distance is within the threshold and, if patterns are given,
// the template name matches at least one of them.
func (w *Whitelist) IsImageAllowed(ctx context.Context, data []byte, opts CheckOptions) (models.WhitelistResult, error) {
	_, span, cleanup := utils.TraceImageOperation(ctx, "whitelist_check")
	defer cleanup()

	threshold := w.threshold
	if opts.Threshold != nil {
		if *opts.Threshold < 0 || *opts.Threshold > HashBits {
			return models.WhitelistResult{}, models.NewValidationError("threshold must be between 0 and %d", HashBits)
		}
		threshold = *opts.Threshold
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return models.WhitelistResult{}, fmt.Errorf("%w: %v", models.ErrImageDecode, err)
	}
	query, err := goimagehash.AverageHash(img)
	if err != nil {
		return models.WhitelistResult{}, fmt.Errorf("average hash: %w", err)
	}

	w.mu.RLock()
	templates := w.templates
	w.mu.RUnlock()

	result := models.WhitelistResult{Distance: HashBits, Threshold: threshold}
	if len(templates) == 0 {
		result.Reason = "whitelist is empty"
		observability.WhitelistChecks.WithLabelValues("empty").Inc()
		return result, nil
	}

	for _, t := range templates {
		d, err := query.Distance(t.hash)
		if err != nil {
			continue
		}
		if result.BestMatch == "" || d < result.Distance {
			result.BestMatch = t.name
			result.Distance = d
		}
	}

	switch {
	case result.Distance > threshold:
		result.Reason = "no template within threshold"
	case len(opts.AllowedPatterns) > 0 && !matchesAnyPattern(result.BestMatch, opts.AllowedPatterns):
		result.Reason = "best match does not satisfy allowed patterns"
	default:
		result.Allowed = true
	}

	utils.AddSpanAttribute(span, "whitelist.distance", result.Distance)
	utils.AddSpanAttribute(span, "whitelist.allowed", result.Allowed)
	observability.WhitelistChecks.WithLabelValues(observability.BoolLabel(result.Allowed, "allowed", "rejected")).Inc()
	return result, nil
}

// matchesAnyPattern treats each pattern as a regular expression, falling back to
// a plain substring test when it does not compile.
func matchesAnyPattern(name string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if re, err := regexp.Compile(p); err == nil {
			if re.MatchString(name) {
				return true
			}
			continue
		}
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
