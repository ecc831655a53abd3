package services

import (
	"context"
	"time"

	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/ocr"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// IdentifierExtractor reads identifiers from a document image. It never fails;
// OCR failures are reported inside the result.
type IdentifierExtractor interface {
	ExtractIdentifiers(ctx context.Context, imagePath string) models.IdentifierExtraction
}

// ImageComparer compares two document images. It never fails; errors are
// reported inside the result.
type ImageComparer interface {
	Compare(ctx context.Context, pathA, pathB string) models.ImageComparison
}

// DocumentChecker confirms a stored document is still readable.
type DocumentChecker interface {
	Exists(doc *models.Document) error
}

// Orchestrator runs the three verification layers in order and stops at the
// first one that settles the request.
type Orchestrator struct {
	voters     repository.VoterStore
	documents  DocumentChecker
	extractor  IdentifierExtractor
	comparator ImageComparer
	cases      *CaseManager
	pool       *WorkerPool
	locks      *KeyedMutex
	logger     *logging.SafeLogger
}

// NewOrchestrator wires the layers together.
func NewOrchestrator(
	voters repository.VoterStore,
	documents DocumentChecker,
	extractor IdentifierExtractor,
	comparator ImageComparer,
	cases *CaseManager,
	pool *WorkerPool,
	locks *KeyedMutex,
	logger *logging.SafeLogger,
) *Orchestrator {
	return &Orchestrator{
		voters:     voters,
		documents:  documents,
		extractor:  extractor,
		comparator: comparator,
		cases:      cases,
		pool:       pool,
		locks:      locks,
		logger:     logger.Named("orchestrator"),
	}
}

// VerifyVoter checks step2 against the voter's registration document.
// Layer failures fall through to the next layer; only validation, state and
// infrastructure problems are returned as errors.
func (o *Orchestrator) VerifyVoter(ctx context.Context, voterID string, step2 models.Document) (*models.VerificationOutcome, error) {
	if voterID == "" {
		return nil, models.ErrVoterIDRequired
	}
	if step2.Path == "" {
		return nil, models.ErrImageRequired
	}

	ctx, span, cleanup := utils.TraceOperation(ctx, "verification.verify_voter", map[string]interface{}{
		"voter.id": observability.MaskVoterID(voterID),
	})
	defer cleanup()
	start := time.Now()
	defer utils.AddTimingToSpan(span, start)

	voter, err := o.voters.Find(ctx, voterID)
	if err != nil {
		return nil, err
	}
	if voter.IsBlocked {
		return nil, models.ErrVoterBlocked
	}
	if voter.HasOpenCase() {
		return nil, models.ErrCaseAlreadyOpen
	}
	if err := o.documents.Exists(voter.IDDocument); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		o.logger.Error("registration document unavailable",
			zap.String("voter_id", observability.MaskVoterID(voterID)),
			zap.Error(err))
		return nil, err
	}
	original := *voter.IDDocument

	outcome, ocrResults, err := o.layerOCR(ctx, voterID, original, step2)
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		return o.settle(ctx, outcome)
	}

	outcome, comparison, err := o.layerImage(ctx, voterID, original, step2)
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		outcome.OCRResults = ocrResults
		return o.settle(ctx, outcome)
	}

	return o.layerAdmin(ctx, voterID, original, step2, ocrResults, comparison)
}

// layerOCR extracts identifiers from both documents in parallel. National-ID
// equality wins over voter-ID equality.
func (o *Orchestrator) layerOCR(ctx context.Context, voterID string, original, step2 models.Document) (*models.VerificationOutcome, models.OCRResults, error) {
	ctx, span, cleanup := utils.TraceVerificationLayer(ctx, int(models.LayerOCR), "ocr")
	defer cleanup()

	var step1Result, step2Result models.IdentifierExtraction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.pool.Submit(gctx, "ocr.step1", func(ctx context.Context) error {
			step1Result = o.extractor.ExtractIdentifiers(ctx, original.Path)
			return nil
		})
	})
	g.Go(func() error {
		return o.pool.Submit(gctx, "ocr.step2", func(ctx context.Context) error {
			step2Result = o.extractor.ExtractIdentifiers(ctx, step2.Path)
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, models.OCRResults{}, err
	}

	results := models.OCRResults{
		NationalID: compareAttempt(step1Result.NationalID, step2Result.NationalID),
		VoterID:    compareAttempt(step1Result.VoterID, step2Result.VoterID),
		Step1Error: step1Result.ErrorString(),
		Step2Error: step2Result.ErrorString(),
	}
	utils.AddSpanAttribute(span, "ocr.national_id.matched", results.NationalID.Matched)
	utils.AddSpanAttribute(span, "ocr.voter_id.matched", results.VoterID.Matched)

	method := ""
	switch {
	case results.NationalID.Matched:
		method = models.MethodOCRNationalID
	case results.VoterID.Matched:
		method = models.MethodOCRVoterID
	default:
		observability.VerificationOutcomes.WithLabelValues("1", "fallthrough").Inc()
		o.logger.Debug("ocr layer found no match",
			zap.String("voter_id", observability.MaskVoterID(voterID)),
			zap.String("step1_error", results.Step1Error),
			zap.String("step2_error", results.Step2Error))
		return nil, results, nil
	}

	return &models.VerificationOutcome{
		VoterID:    voterID,
		Verified:   true,
		Layer:      models.LayerOCR,
		Method:     method,
		Status:     models.VerificationVerified,
		Message:    "identity verified by document number",
		OCRResults: results,
	}, results, nil
}

// compareAttempt records one identifier kind across both documents.
func compareAttempt(step1, step2 models.ExtractionResult) models.OCRAttempt {
	attempt := models.OCRAttempt{
		Step1Number: step1.Number,
		Step2Number: step2.Number,
	}
	if step1.Found && step2.Found {
		a, b := ocr.NormalizeIdentifier(step1.Number), ocr.NormalizeIdentifier(step2.Number)
		attempt.Matched = a != "" && a == b
	}
	return attempt
}

func (o *Orchestrator) layerImage(ctx context.Context, voterID string, original, step2 models.Document) (*models.VerificationOutcome, models.ImageComparison, error) {
	ctx, span, cleanup := utils.TraceVerificationLayer(ctx, int(models.LayerImageMatch), "image")
	defer cleanup()

	var comparison models.ImageComparison
	err := o.pool.Submit(ctx, "image.compare", func(ctx context.Context) error {
		comparison = o.comparator.Compare(ctx, original.Path, step2.Path)
		return nil
	})
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, models.ImageComparison{}, err
	}
	utils.AddSpanAttribute(span, "image.similarity", comparison.Similarity)
	utils.AddSpanAttribute(span, "image.matched", comparison.Matched)

	if !comparison.Matched {
		observability.VerificationOutcomes.WithLabelValues("2", "fallthrough").Inc()
		o.logger.Debug("image layer found no match",
			zap.String("voter_id", observability.MaskVoterID(voterID)),
			zap.Float64("similarity", comparison.Similarity),
			zap.String("error", comparison.Error))
		return nil, comparison, nil
	}

	method := models.MethodImagePHash
	if comparison.MatchMethod == models.MatchExact {
		method = models.MethodImageExact
	}
	return &models.VerificationOutcome{
		VoterID:         voterID,
		Verified:        true,
		Layer:           models.LayerImageMatch,
		Method:          method,
		Status:          models.VerificationVerified,
		Message:         "identity verified by document image",
		ImageComparison: &comparison,
	}, comparison, nil
}

func (o *Orchestrator) layerAdmin(ctx context.Context, voterID string, original, step2 models.Document, ocrResults models.OCRResults, comparison models.ImageComparison) (*models.VerificationOutcome, error) {
	ctx, span, cleanup := utils.TraceVerificationLayer(ctx, int(models.LayerAdmin), "admin")
	defer cleanup()

	c, err := o.cases.CreateCase(ctx, CaseInput{
		VoterID:          voterID,
		OriginalDocument: original,
		Step2Document:    step2,
		OCRResults:       ocrResults,
		ImageComparison:  comparison.Summary(),
	})
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, err
	}

	observability.VerificationOutcomes.WithLabelValues("3", "pending_review").Inc()
	o.logger.Info("verification parked for admin review",
		zap.String("voter_id", observability.MaskVoterID(voterID)),
		zap.String("case_id", c.CaseID))

	return &models.VerificationOutcome{
		VoterID:         voterID,
		Verified:        false,
		Layer:           models.LayerAdmin,
		Method:          models.MethodAdminReview,
		Status:          models.VerificationPending,
		CaseID:          c.CaseID,
		Message:         "automatic verification failed; pending admin review",
		OCRResults:      ocrResults,
		ImageComparison: &comparison,
	}, nil
}

// settle persists an automatic verification. The voter is re-read under the
// voter lock: a case parked or a vote invalidated by a concurrent request
// while OCR ran wins over this result.
func (o *Orchestrator) settle(ctx context.Context, outcome *models.VerificationOutcome) (*models.VerificationOutcome, error) {
	unlock := o.locks.Lock(outcome.VoterID)
	defer unlock()

	voter, err := o.voters.Find(ctx, outcome.VoterID)
	if err != nil {
		return nil, err
	}
	if voter.IsBlocked {
		return nil, models.ErrVoterBlocked
	}
	if voter.HasOpenCase() {
		o.logger.Warn("automatic verification superseded by open case",
			zap.String("voter_id", observability.MaskVoterID(outcome.VoterID)),
			zap.String("case_id", voter.PendingIDCaseID))
		return nil, models.ErrCaseAlreadyOpen
	}

	verified := models.VerificationVerified
	if err := o.voters.Update(ctx, outcome.VoterID, models.VoterUpdate{VerificationStatus: &verified}); err != nil {
		return nil, err
	}

	layer := "1"
	if outcome.Layer == models.LayerImageMatch {
		layer = "2"
	}
	observability.VerificationOutcomes.WithLabelValues(layer, "verified").Inc()
	o.logger.Info("voter verified",
		zap.String("voter_id", observability.MaskVoterID(outcome.VoterID)),
		zap.Int("layer", int(outcome.Layer)),
		zap.String("method", outcome.Method))
	return outcome, nil
}
