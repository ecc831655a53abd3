package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/securevote/app-verify/internal/config"
	"github.com/securevote/app-verify/internal/documents"
	"github.com/securevote/app-verify/internal/imagehash"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/ocr"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/securevote/app-verify/internal/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminRole = "election-admin"

func init() {
	gin.SetMode(gin.TestMode)
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{AdminGroup: adminRole}
	}
}

// fileTextExtractor treats the uploaded file content as the OCR text.
type fileTextExtractor struct{}

func (fileTextExtractor) ExtractIdentifiers(_ context.Context, path string) models.IdentifierExtraction {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.IdentifierExtraction{Err: err}
	}
	nationalID, voterID := ocr.ParseIdentifiers(string(data), 90)
	return models.IdentifierExtraction{NationalID: nationalID, VoterID: voterID, OCRConfidence: 90, RawText: string(data)}
}

type testEnv struct {
	router    *gin.Engine
	stores    repository.Stores
	whitelist *imagehash.Whitelist
	uploadDir string
}

func setupTestEnv(t *testing.T, checks map[string]HealthCheckFunc) *testEnv {
	t.Helper()
	logger := logging.NewSafeLogger(zap.NewNop())

	uploadDir := t.TempDir()
	storage, err := documents.NewStorage(uploadDir, 1<<20, logger)
	require.NoError(t, err)

	stores := repository.NewMemory().Stores()
	locks := services.NewKeyedMutex()
	pool := services.NewWorkerPool(2, 8, logger)
	t.Cleanup(pool.Stop)

	cases := services.NewCaseManager(stores, locks, services.NopNotifier{}, logger)
	orchestrator := services.NewOrchestrator(stores.Voters, storage, fileTextExtractor{},
		imagehash.NewComparator(90, logger), cases, pool, locks, logger)
	tracker := services.NewWarningTracker(services.NewMemoryWarningStore(), stores, services.NopNotifier{},
		services.DefaultWarningConfig(), logger)
	patterns := services.DefaultPatternConfig()
	patterns.AnalysisInterval = 0
	liveness := services.NewLivenessService(stores.Voters, tracker, patterns, locks, logger)
	whitelist := imagehash.NewWhitelist(imagehash.DefaultWhitelistThreshold, logger)

	if checks == nil {
		checks = map[string]HealthCheckFunc{}
	}

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Health:       NewHealthHandlers(checks),
		Voters:       NewVoterHandlers(services.NewVoterService(stores.Voters, storage, logger)),
		Verification: NewVerificationHandlers(orchestrator, storage),
		Cases:        NewCaseHandlers(cases),
		Liveness:     NewLivenessHandlers(liveness),
		Whitelist:    NewWhitelistHandlers(whitelist, 1<<20),
	})

	return &testEnv{router: router, stores: stores, whitelist: whitelist, uploadDir: uploadDir}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field, name string
	content     []byte
}

// multipartRequest builds a multipart/form-data request.
func multipartRequest(t *testing.T, url string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, url string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withToken signs a token for username carrying roles.
func withToken(t *testing.T, req *http.Request, username string, roles ...string) *http.Request {
	t.Helper()
	claims := models.JWTClaims{
		RegisteredClaims:  jwt.RegisteredClaims{Subject: "sub-" + username},
		PreferredUsername: username,
	}
	claims.RealmAccess.Roles = roles
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// registerVoter registers a voter whose document "reads" as docText.
func (e *testEnv) registerVoter(t *testing.T, voterID, docText string) {
	t.Helper()
	w := e.do(multipartRequest(t, "/v1/voters",
		map[string]string{"voterId": voterID, "name": "Voter " + voterID},
		formFile{field: "idDocument", name: "id.png", content: []byte(docText)}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func stripesPNG(t *testing.T, vertical bool) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := x
			if !vertical {
				v = y
			}
			if (v/8)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var errProbe = errors.New("connection refused")

// storedFiles lists the files kept under one upload category.
func (e *testEnv) storedFiles(t *testing.T, category string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(e.uploadDir, category))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
