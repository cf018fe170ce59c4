package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "github.com/Sriram-PR/storylens/pkg/log"
	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

type fakeService struct {
	record    *models.StoryRecord
	err       error
	gotURL    string
	requestID string
	calls     int
}

func (f *fakeService) Run(ctx context.Context, articleURL string) (*models.StoryRecord, error) {
	f.calls++
	f.gotURL = articleURL
	f.requestID = applog.RequestIDFromContext(ctx)
	return f.record, f.err
}

func (f *fakeService) Health() models.Health {
	return models.Health{Status: "ok", CompletionConfigured: true, Provider: "anthropic", Model: "m"}
}

func testRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRouter(svc, logrus.NewEntry(log))
}

func postSummarize(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSummarize_Success(t *testing.T) {
	svc := &fakeService{record: &models.StoryRecord{
		Title:               "T",
		Source:              "S",
		Date:                "Unknown",
		Highlights:          []string{},
		FactSections:        []models.FactSection{},
		AdditionalImageURLs: []string{},
		OriginalURL:         "https://x.example/a",
	}}
	router := testRouter(svc)

	rec := postSummarize(router, `{"articleUrl": "https://x.example/a"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "T", body["title"])
	assert.Equal(t, "https://x.example/a", body["originalUrl"])
	assert.Contains(t, body, "engagementScore")
	assert.Equal(t, "https://x.example/a", svc.gotURL)
	assert.NotEmpty(t, svc.requestID)
	assert.Equal(t, svc.requestID, rec.Header().Get(applog.RequestIDHeader))
}

func TestSummarize_BadBody(t *testing.T) {
	svc := &fakeService{}
	router := testRouter(svc)

	rec := postSummarize(router, `{"articleUrl": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])
	assert.Equal(t, 0, svc.calls)
}

func TestSummarize_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing url", &utils.InvalidInputError{Reason: "article URL is required"}, http.StatusBadRequest},
		{"forbidden", &utils.FetchError{StatusCode: 403, Hint: "access denied"}, http.StatusForbidden},
		{"not found", &utils.FetchError{StatusCode: 404, Hint: "not found"}, http.StatusNotFound},
		{"timeout", &utils.TimeoutError{URL: "https://x.example/a"}, http.StatusGatewayTimeout},
		{"config", &utils.ConfigError{Reason: "no key"}, http.StatusInternalServerError},
		{"insufficient", &utils.InsufficientContentError{MinChars: 150}, http.StatusInternalServerError},
		{"completion", &utils.CompletionError{Provider: "anthropic", Err: errors.New("overloaded")}, http.StatusInternalServerError},
		{"parse", &utils.ParseError{Message: "bad", Raw: "RAW MODEL TEXT"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(&fakeService{err: tt.err})

			rec := postSummarize(router, `{"articleUrl": "https://x.example/a"}`)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, utils.PublicMessage(tt.err), body["error"])
			assert.NotContains(t, rec.Body.String(), "RAW MODEL TEXT")
		})
	}
}

func TestSummarize_EmptyURLReachesService(t *testing.T) {
	svc := &fakeService{err: &utils.InvalidInputError{Reason: "article URL is required"}}
	router := testRouter(svc)

	rec := postSummarize(router, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "", svc.gotURL)
}

func TestHealth(t *testing.T) {
	svc := &fakeService{}
	router := testRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["completionConfigured"])
	assert.Equal(t, "anthropic", body["provider"])
	assert.Equal(t, 0, svc.calls)
}

func TestUnknownRoute(t *testing.T) {
	router := testRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summarize", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
