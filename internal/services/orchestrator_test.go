package services

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/securevote/app-verify/internal/imagehash"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/ocr"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textExtractor runs the real identifier parser over canned OCR text per path.
type textExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	fails map[string]error
	calls int
}

func (e *textExtractor) ExtractIdentifiers(_ context.Context, path string) models.IdentifierExtraction {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++

	if err, ok := e.fails[path]; ok {
		return models.IdentifierExtraction{Err: err}
	}
	nationalID, voterID := ocr.ParseIdentifiers(e.texts[path], 90)
	return models.IdentifierExtraction{NationalID: nationalID, VoterID: voterID, OCRConfidence: 90}
}

type stubComparer struct {
	result models.ImageComparison
	calls  int32
}

func (c *stubComparer) Compare(context.Context, string, string) models.ImageComparison {
	atomic.AddInt32(&c.calls, 1)
	return c.result
}

type stubDocuments struct{ err error }

func (d stubDocuments) Exists(doc *models.Document) error {
	if doc == nil {
		return models.ErrOriginalDocumentMissing
	}
	return d.err
}

type orchestratorFixture struct {
	orchestrator *Orchestrator
	stores       repository.Stores
	extractor    *textExtractor
	comparer     *stubComparer
	notifier     *recordingNotifier
}

func setupOrchestrator(t *testing.T, docs DocumentChecker, comparer ImageComparer) *orchestratorFixture {
	t.Helper()
	stores := repository.NewMemory().Stores()
	locks := NewKeyedMutex()
	notifier := &recordingNotifier{}
	pool := NewWorkerPool(2, 8, nopLogger())
	t.Cleanup(pool.Stop)

	extractor := &textExtractor{texts: map[string]string{}, fails: map[string]error{}}
	stub, _ := comparer.(*stubComparer)
	cases := NewCaseManager(stores, locks, notifier, nopLogger())
	return &orchestratorFixture{
		orchestrator: NewOrchestrator(stores.Voters, docs, extractor, comparer, cases, pool, locks, nopLogger()),
		stores:       stores,
		extractor:    extractor,
		comparer:     stub,
		notifier:     notifier,
	}
}

func (f *orchestratorFixture) caseCount(t *testing.T) int64 {
	t.Helper()
	stats, err := f.stores.Cases.Statistics(context.Background())
	require.NoError(t, err)
	return stats.Total
}

var step2Doc = models.Document{Filename: "step2.jpg", Path: "/docs/step2.jpg"}

func TestVerifyVoter_Layer1NationalID(t *testing.T) {
	f := setupOrchestrator(t, stubDocuments{}, &stubComparer{})
	seedVoter(t, f.stores, "VOTER-1", "/docs/original.jpg")
	f.extractor.texts["/docs/original.jpg"] = "GOVERNMENT OF INDIA\nAadhaar\n1234 5678 9012"
	f.extractor.texts["/docs/step2.jpg"] = "Aadhaar No 123456789012"

	outcome, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", step2Doc)
	require.NoError(t, err)
	assert.True(t, outcome.Verified)
	assert.Equal(t, models.LayerOCR, outcome.Layer)
	assert.Equal(t, models.MethodOCRNationalID, outcome.Method)
	assert.True(t, outcome.OCRResults.NationalID.Matched)

	assert.Zero(t, f.caseCount(t))
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.comparer.calls))

	voter, err := f.stores.Voters.Find(context.Background(), "VOTER-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, voter.VerificationStatus)
}

func TestVerifyVoter_Layer1VoterID(t *testing.T) {
	f := setupOrchestrator(t, stubDocuments{}, &stubComparer{})
	seedVoter(t, f.stores, "VOTER-1", "/docs/original.jpg")
	f.extractor.texts["/docs/original.jpg"] = "ELECTION COMMISSION OF INDIA\nEPIC No: ABC1234567"
	f.extractor.texts["/docs/step2.jpg"] = "Voter ID abc 1234567"

	outcome, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", step2Doc)
	require.NoError(t, err)
	assert.True(t, outcome.Verified)
	assert.Equal(t, models.LayerOCR, outcome.Layer)
	assert.Equal(t, models.MethodOCRVoterID, outcome.Method)
	assert.False(t, outcome.OCRResults.NationalID.Matched)
	assert.True(t, outcome.OCRResults.VoterID.Matched)
	assert.Zero(t, f.caseCount(t))
}

func TestVerifyVoter_Layer2ImageMatch(t *testing.T) {
	comparer := &stubComparer{result: models.ImageComparison{
		Matched:     true,
		MatchMethod: models.MatchPerceptual,
		Similarity:  93.75,
	}}
	f := setupOrchestrator(t, stubDocuments{}, comparer)
	seedVoter(t, f.stores, "VOTER-1", "/docs/original.jpg")
	f.extractor.fails["/docs/original.jpg"] = models.ErrOCRUnavailable
	f.extractor.texts["/docs/step2.jpg"] = "1234 5678 9012"

	outcome, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", step2Doc)
	require.NoError(t, err)
	assert.True(t, outcome.Verified)
	assert.Equal(t, models.LayerImageMatch, outcome.Layer)
	assert.Equal(t, models.MethodImagePHash, outcome.Method)
	assert.NotEmpty(t, outcome.OCRResults.Step1Error)
	require.NotNil(t, outcome.ImageComparison)
	assert.Equal(t, 93.75, outcome.ImageComparison.Similarity)
	assert.Zero(t, f.caseCount(t))
}

func TestVerifyVoter_Layer3CreatesCase(t *testing.T) {
	comparer := &stubComparer{result: models.ImageComparison{MatchMethod: models.MatchPerceptual, Similarity: 48.44}}
	f := setupOrchestrator(t, stubDocuments{}, comparer)
	seedVoter(t, f.stores, "VOTER-1", "/docs/original.jpg")
	f.extractor.texts["/docs/original.jpg"] = "1234 5678 9012"
	f.extractor.texts["/docs/step2.jpg"] = "9999 8888 7777"

	outcome, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", step2Doc)
	require.NoError(t, err)
	assert.False(t, outcome.Verified)
	assert.Equal(t, models.LayerAdmin, outcome.Layer)
	assert.Equal(t, models.VerificationPending, outcome.Status)
	require.NotEmpty(t, outcome.CaseID)

	assert.EqualValues(t, 1, f.caseCount(t))
	c, err := f.stores.Cases.Find(context.Background(), outcome.CaseID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusPending, c.Status)
	assert.Equal(t, "123456789012", c.OCRResults.NationalID.Step1Number)
	assert.Equal(t, "999988887777", c.OCRResults.NationalID.Step2Number)
	assert.Equal(t, 48.44, c.ImageComparison.Similarity)
	assert.Equal(t, "/docs/step2.jpg", c.Step2IDDocument.Path)

	voter, err := f.stores.Voters.Find(context.Background(), "VOTER-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, voter.VerificationStatus)
	assert.Equal(t, outcome.CaseID, voter.PendingIDCaseID)
	assert.Len(t, f.notifier.reviews, 1)

	// A second attempt while the case is open is refused
	_, err = f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", step2Doc)
	assert.ErrorIs(t, err, models.ErrCaseAlreadyOpen)
	assert.EqualValues(t, 1, f.caseCount(t))
}

func TestVerifyVoter_Errors(t *testing.T) {
	t.Run("missing voter id", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{}, &stubComparer{})
		_, err := f.orchestrator.VerifyVoter(context.Background(), "", step2Doc)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("missing image", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{}, &stubComparer{})
		_, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", models.Document{})
		assert.ErrorIs(t, err, models.ErrImageRequired)
	})

	t.Run("unknown voter", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{}, &stubComparer{})
		_, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-404", step2Doc)
		assert.ErrorIs(t, err, models.ErrVoterNotFound)
	})

	t.Run("original document missing", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{err: models.ErrOriginalDocumentMissing}, &stubComparer{})
		seedVoter(t, f.stores, "VOTER-1", "/docs/gone.jpg")

		_, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", step2Doc)
		assert.ErrorIs(t, err, models.ErrOriginalDocumentMissing)
		assert.ErrorIs(t, err, models.ErrInfrastructure)
		assert.Zero(t, f.extractor.calls)
		assert.Zero(t, f.caseCount(t))
	})

	t.Run("blocked voter", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{}, &stubComparer{})
		seedVoter(t, f.stores, "VOTER-1", "/docs/original.jpg")
		blocked := true
		require.NoError(t, f.stores.Voters.Update(context.Background(), "VOTER-1", models.VoterUpdate{IsBlocked: &blocked}))

		_, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", step2Doc)
		assert.ErrorIs(t, err, models.ErrVoterBlocked)
	})

	t.Run("cancelled request", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{}, &stubComparer{})
		seedVoter(t, f.stores, "VOTER-1", "/docs/original.jpg")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.orchestrator.VerifyVoter(ctx, "VOTER-1", step2Doc)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, f.caseCount(t))
	})
}

// gatedExtractor holds OCR of one path until gate is closed.
type gatedExtractor struct {
	inner   IdentifierExtractor
	path    string
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (e *gatedExtractor) ExtractIdentifiers(ctx context.Context, path string) models.IdentifierExtraction {
	if path == e.path {
		e.once.Do(func() { close(e.entered) })
		<-e.gate
	}
	return e.inner.ExtractIdentifiers(ctx, path)
}

func TestVerifyVoter_ConcurrentCaseWinsOverLateMatch(t *testing.T) {
	stores := repository.NewMemory().Stores()
	locks := NewKeyedMutex()
	pool := NewWorkerPool(2, 8, nopLogger())
	t.Cleanup(pool.Stop)
	seedVoter(t, stores, "VOTER-1", "/docs/original.jpg")

	texts := &textExtractor{texts: map[string]string{
		"/docs/original.jpg": "1234 5678 9012",
		"/docs/match.jpg":    "123456789012",
		"/docs/other.jpg":    "9999 8888 7777",
	}, fails: map[string]error{}}
	gated := &gatedExtractor{inner: texts, path: "/docs/match.jpg", gate: make(chan struct{}), entered: make(chan struct{})}
	comparer := &stubComparer{result: models.ImageComparison{MatchMethod: models.MatchPerceptual, Similarity: 40}}
	cases := NewCaseManager(stores, locks, &recordingNotifier{}, nopLogger())
	orchestrator := NewOrchestrator(stores.Voters, stubDocuments{}, gated, comparer, cases, pool, locks, nopLogger())

	type result struct {
		outcome *models.VerificationOutcome
		err     error
	}
	matching := make(chan result, 1)
	go func() {
		outcome, err := orchestrator.VerifyVoter(context.Background(), "VOTER-1",
			models.Document{Filename: "match.jpg", Path: "/docs/match.jpg"})
		matching <- result{outcome, err}
	}()
	<-gated.entered

	parked, err := orchestrator.VerifyVoter(context.Background(), "VOTER-1",
		models.Document{Filename: "other.jpg", Path: "/docs/other.jpg"})
	require.NoError(t, err)
	require.Equal(t, models.LayerAdmin, parked.Layer)

	close(gated.gate)
	late := <-matching
	assert.ErrorIs(t, late.err, models.ErrCaseAlreadyOpen)
	assert.Nil(t, late.outcome)

	voter, err := stores.Voters.Find(context.Background(), "VOTER-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, voter.VerificationStatus)
	assert.Equal(t, parked.CaseID, voter.PendingIDCaseID)

	c, err := stores.Cases.Find(context.Background(), parked.CaseID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusPending, c.Status)
}

// blockPNG writes a 256x256 image of random 32px gray blocks.
func blockPNG(t *testing.T, dir, name string, seed int64) string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, 256, 256))
	for by := 0; by < 8; by++ {
		for bx := 0; bx < 8; bx++ {
			c := color.Gray{Y: uint8(rng.Intn(256))}
			for y := by * 32; y < (by+1)*32; y++ {
				for x := bx * 32; x < (bx+1)*32; x++ {
					img.SetGray(x, y, c)
				}
			}
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestVerifyVoter_EndToEndWithComparator(t *testing.T) {
	dir := t.TempDir()
	original := blockPNG(t, dir, "original.png", 1)
	unrelated := blockPNG(t, dir, "unrelated.png", 99)

	copyPath := filepath.Join(dir, "reupload.png")
	data, err := os.ReadFile(original)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(copyPath, data, 0o600))

	comparator := imagehash.NewComparator(imagehash.DefaultPerceptualThreshold, nopLogger())

	t.Run("re-upload of the same file", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{}, comparator)
		seedVoter(t, f.stores, "VOTER-1", original)

		outcome, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", models.Document{Path: copyPath})
		require.NoError(t, err)
		assert.True(t, outcome.Verified)
		assert.Equal(t, models.LayerImageMatch, outcome.Layer)
		assert.Equal(t, models.MethodImageExact, outcome.Method)
		assert.Equal(t, 100.0, outcome.ImageComparison.Similarity)
		assert.Zero(t, f.caseCount(t))
	})

	t.Run("unrelated document", func(t *testing.T) {
		f := setupOrchestrator(t, stubDocuments{}, comparator)
		seedVoter(t, f.stores, "VOTER-1", original)

		outcome, err := f.orchestrator.VerifyVoter(context.Background(), "VOTER-1", models.Document{Path: unrelated})
		require.NoError(t, err)
		assert.False(t, outcome.Verified)
		assert.Equal(t, models.LayerAdmin, outcome.Layer)
		assert.Less(t, outcome.ImageComparison.Similarity, imagehash.DefaultPerceptualThreshold)
		assert.EqualValues(t, 1, f.caseCount(t))
	})
}
