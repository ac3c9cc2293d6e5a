package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studyassist/internal/extract"
	"studyassist/internal/http/middleware"
	"studyassist/internal/llm"
	"studyassist/internal/prompt"
	"studyassist/internal/repository"
	"studyassist/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// translateError maps domain errors onto HTTP responses. Every failure is a
// user-visible message; none are fatal, and the session state is untouched.
func translateError(c *fiber.Ctx, err error) error {
	var provErr *llm.ProviderError

	switch {
	case errors.Is(err, extract.ErrUnreadableDocument):
		return writeError(c, fiber.StatusBadRequest, "UNREADABLE_DOCUMENT",
			"the uploaded file could not be read as a PDF")
	case errors.Is(err, service.ErrEmptyUpload):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrNoDocument):
		return writeError(c, fiber.StatusBadRequest, "DOCUMENT_REQUIRED",
			"upload a document before requesting a generation")
	case errors.Is(err, prompt.ErrQuestionRequired):
		return writeError(c, fiber.StatusBadRequest, "QUESTION_REQUIRED",
			"QA mode requires a question")
	case errors.Is(err, llm.ErrAuthentication):
		return writeError(c, fiber.StatusBadGateway, "PROVIDER_AUTH_FAILED",
			"the model provider rejected the configured API key")
	case errors.Is(err, llm.ErrRateLimited):
		return writeError(c, fiber.StatusTooManyRequests, "RATE_LIMITED",
			"the model provider is throttling requests, try again later")
	case errors.Is(err, llm.ErrTimeout):
		return writeError(c, fiber.StatusGatewayTimeout, "PROVIDER_TIMEOUT",
			"the model provider did not answer in time")
	case errors.As(err, &provErr):
		return writeError(c, fiber.StatusBadGateway, "PROVIDER_ERROR", provErr.Message)
	case errors.Is(err, repository.ErrStorageUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE",
			"the history store is currently unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "uploaded file is too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
