package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/securevote/app-verify/internal/documents"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// Extractor preprocesses an ID image, runs OCR on it and scans the text for identifiers.
type Extractor struct {
	engine   Engine
	maxWidth int
	tempDir  string
	logger   *logging.SafeLogger
}

// NewExtractor creates an extractor. tempDir may be empty to use the system temp dir.
func NewExtractor(engine Engine, maxWidth int, tempDir string, logger *logging.SafeLogger) *Extractor {
	return &Extractor{engine: engine, maxWidth: maxWidth, tempDir: tempDir, logger: logger}
}

// ExtractIdentifiers never returns an error: OCR and decode failures are carried
// in the result's Err with both identifiers reported as not found.
func (e *Extractor) ExtractIdentifiers(ctx context.Context, imagePath string) models.IdentifierExtraction {
	ctx, span, cleanup := utils.TraceImageOperation(ctx, "ocr_extract")
	defer cleanup()

	result, err := e.recognize(ctx, imagePath)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		e.logger.Warn("identifier extraction failed", zap.String("image", imagePath), zap.Error(err))
		observability.OCRExtractions.WithLabelValues("any", "ocr_failed").Inc()
		return models.IdentifierExtraction{Err: err}
	}

	nationalID, voterID := ParseIdentifiers(result.Text, result.Confidence)
	observability.OCRExtractions.WithLabelValues("national_id", observability.BoolLabel(nationalID.Found, "found", "not_found")).Inc()
	observability.OCRExtractions.WithLabelValues("voter_id", observability.BoolLabel(voterID.Found, "found", "not_found")).Inc()
	observability.OCRDuration.Observe(result.Duration.Seconds())

	e.logger.Debug("identifiers extracted",
		zap.Bool("national_id_found", nationalID.Found),
		zap.Bool("voter_id_found", voterID.Found),
		zap.Float64("ocr_confidence", result.Confidence),
		zap.Duration("duration", result.Duration),
	)

	return models.IdentifierExtraction{
		NationalID:    nationalID,
		VoterID:       voterID,
		OCRConfidence: result.Confidence,
		RawText:       result.Text,
	}
}

// recognize writes the preprocessed image to a scoped temp file and runs the engine on it.
func (e *Extractor) recognize(ctx context.Context, imagePath string) (Result, error) {
	src, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrImageDecode, err)
	}
	prepared := Preprocess(src, e.maxWidth)

	var result Result
	err = documents.WithTempFile(e.tempDir, "ocr-*.png", func(f *os.File) error {
		if err := imaging.Encode(f, prepared, imaging.PNG); err != nil {
			return fmt.Errorf("encode preprocessed image: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close preprocessed image: %w", err)
		}
		var runErr error
		result, runErr = e.engine.Recognize(ctx, f.Name())
		return runErr
	})
	if err != nil {
		return Result{}, err
	}
	if result.Text == "" {
		return result, fmt.Errorf("ocr returned no text: %w", models.ErrExtraction)
	}
	return result, nil
}
