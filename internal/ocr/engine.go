// Package ocr reads national-ID and voter-ID numbers from identity document images.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/securevote/app-verify/internal/models"
)

// Result is the raw output of an OCR run.
type Result struct {
	Text       string
	Confidence float64
	Duration   time.Duration
}

// Engine turns an image file into text.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (Result, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, imagePath string) (Result, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, imagePath string) (Result, error) {
	return f(ctx, imagePath)
}

// TesseractEngine runs the tesseract command line tool and reads its TSV output.
type TesseractEngine struct {
	Path     string
	Language string
	Timeout  time.Duration
}

// NewTesseractEngine returns an engine for the given binary and language.
func NewTesseractEngine(path, language string, timeout time.Duration) *TesseractEngine {
	return &TesseractEngine{Path: path, Language: language, Timeout: timeout}
}

// Recognize runs tesseract on imagePath. The process is killed when ctx is done.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (Result, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	start := time.Now()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Path, imagePath, "stdout", "-l", e.Language, "--psm", "3", "tsv")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %v", models.ErrOCRUnavailable, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("tesseract aborted: %w", ctxErr)
		}
		return Result{}, fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	text, confidence := ParseTSV(stdout.String())
	return Result{Text: text, Confidence: confidence, Duration: time.Since(start)}, nil
}

// ParseTSV rebuilds line-broken text from tesseract TSV output and returns the
// mean confidence of the recognized words. Rows are
// level, page, block, par, line, word, left, top, width, height, conf, text.
func ParseTSV(tsv string) (string, float64) {
	var (
		lines     []string
		current   []string
		lastKey   string
		confSum   float64
		confWords int
	)

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 && strings.HasPrefix(row, "level") {
			continue
		}
		cols := strings.Split(strings.TrimRight(row, "\r"), "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		key := strings.Join(cols[1:5], ".")
		if key != lastKey && len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
		lastKey = key
		current = append(current, word)

		if conf, err := strconv.ParseFloat(cols[10], 64); err == nil && conf >= 0 {
			confSum += conf
			confWords++
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	confidence := 0.0
	if confWords > 0 {
		confidence = confSum / float64(confWords)
	}
	return strings.Join(lines, "\n"), confidence
}
