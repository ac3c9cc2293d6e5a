package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyassist/internal/extract"
	"studyassist/internal/llm"
	"studyassist/internal/model"
	"studyassist/internal/prompt"
	"studyassist/internal/repository"
	"studyassist/internal/service"
	serviceMocks "studyassist/internal/service/mocks"
)

func multipartFile(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	t.Run("history enabled and healthy", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		app := fiber.New()
		app.Get("/health", HealthCheck(db))

		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "enabled", body["history"])
	})

	t.Run("history enabled and db down", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		app := fiber.New()
		app.Get("/health", HealthCheck(db))

		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	t.Run("history disabled", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "disabled", body["history"])
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIndex(t *testing.T) {
	app := fiber.New()
	app.Get("/", Index())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestUploadDocument(t *testing.T) {
	t.Run("success sets session cookie", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := fiber.New()
		app.Post("/documents", UploadDocument(mockSvc))

		body, ct := multipartFile(t, "file", "econ.pdf", []byte("%PDF-1.4 fake"))
		mockSvc.On("Upload", mock.Anything, []byte("%PDF-1.4 fake"), "econ.pdf", "").
			Return(&service.UploadResult{SessionID: "sess-1", Filename: "econ.pdf", Pages: 3, Characters: 42}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var res service.UploadResult
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "sess-1", res.SessionID)
		assert.Equal(t, 3, res.Pages)

		cookies := resp.Cookies()
		require.NotEmpty(t, cookies)
		found := false
		for _, ck := range cookies {
			if ck.Name == SessionCookie && ck.Value == "sess-1" {
				found = true
			}
		}
		assert.True(t, found)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := fiber.New()
		app.Post("/documents", UploadDocument(mockSvc))

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("unreadable document", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := fiber.New()
		app.Post("/documents", UploadDocument(mockSvc))

		body, ct := multipartFile(t, "file", "junk.pdf", []byte("not a pdf"))
		mockSvc.On("Upload", mock.Anything, mock.Anything, "junk.pdf", "").
			Return(nil, extract.ErrUnreadableDocument).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNREADABLE_DOCUMENT", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestGenerate(t *testing.T) {
	newApp := func(mockSvc *serviceMocks.MockStudyService) *fiber.App {
		app := fiber.New()
		app.Post("/generate", Generate(mockSvc))
		return app
	}
	jsonReq := func(body string, cookie string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
		}
		return req
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		mockSvc.On("Generate", mock.Anything, "sess-1", prompt.ModeSimplify, "").
			Return(&service.GenerationResult{Mode: "simplify", Answer: "Simple words."}, nil).Once()

		resp, _ := app.Test(jsonReq(`{"mode":"simplify"}`, "sess-1"), -1)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.GenerationResult
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Simple words.", res.Answer)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid mode", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		resp, _ := app.Test(jsonReq(`{"mode":"tl_dr"}`, "sess-1"))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_MODE", res.Error.Code)
		mockSvc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no document loaded", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		mockSvc.On("Generate", mock.Anything, "", prompt.ModeQA, "What is opportunity cost?").
			Return(nil, service.ErrNoDocument).Once()

		resp, _ := app.Test(jsonReq(`{"mode":"qa","question":"What is opportunity cost?"}`, ""))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "DOCUMENT_REQUIRED", res.Error.Code)
	})

	t.Run("provider failures map to status codes", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{name: "auth", err: llm.ErrAuthentication, wantStatus: http.StatusBadGateway, wantCode: "PROVIDER_AUTH_FAILED"},
			{name: "rate limit", err: llm.ErrRateLimited, wantStatus: http.StatusTooManyRequests, wantCode: "RATE_LIMITED"},
			{name: "timeout", err: llm.ErrTimeout, wantStatus: http.StatusGatewayTimeout, wantCode: "PROVIDER_TIMEOUT"},
			{name: "provider", err: &llm.ProviderError{StatusCode: 500, Message: "server melted"}, wantStatus: http.StatusBadGateway, wantCode: "PROVIDER_ERROR"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockSvc := new(serviceMocks.MockStudyService)
				app := newApp(mockSvc)

				mockSvc.On("Generate", mock.Anything, "sess-1", prompt.ModeSimplify, "").
					Return(nil, tt.err).Once()

				resp, _ := app.Test(jsonReq(`{"mode":"simplify"}`, "sess-1"))

				assert.Equal(t, tt.wantStatus, resp.StatusCode)
				var res errorPayload
				json.NewDecoder(resp.Body).Decode(&res)
				assert.Equal(t, tt.wantCode, res.Error.Code)
			})
		}
	})

	t.Run("missing question in qa mode", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		mockSvc.On("Generate", mock.Anything, "sess-1", prompt.ModeQA, "").
			Return(nil, prompt.ErrQuestionRequired).Once()

		resp, _ := app.Test(jsonReq(`{"mode":"qa"}`, "sess-1"))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "QUESTION_REQUIRED", res.Error.Code)
	})
}

func TestSearchHistory(t *testing.T) {
	newApp := func(mockSvc *serviceMocks.MockStudyService) *fiber.App {
		app := fiber.New()
		app.Get("/history", SearchHistory(mockSvc))
		return app
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		records := []model.HistoryRecord{
			{ID: "1", Question: "What is opportunity cost?", Answer: "The next best alternative.", CreatedAt: time.Now()},
		}
		mockSvc.On("SearchHistory", mock.Anything, "opportunity", 5).Return(records, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/history?q=opportunity&limit=5", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res historyResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "What is opportunity cost?", res.Items[0].Question)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty result is ok", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		mockSvc.On("SearchHistory", mock.Anything, "zebra", 0).
			Return([]model.HistoryRecord{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/history?q=zebra", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res historyResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, 0, res.Total)
	})

	t.Run("missing query", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/history", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "QUERY_REQUIRED", res.Error.Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/history?q=x&limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockStudyService)
		app := newApp(mockSvc)

		mockSvc.On("SearchHistory", mock.Anything, "q", 0).
			Return(nil, repository.ErrStorageUnavailable).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/history?q=q", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "STORAGE_UNAVAILABLE", res.Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockStudyService)
	RegisterRoutes(app, nil, mockSvc)

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
