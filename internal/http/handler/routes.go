package handler

import (
	"context"
	"database/sql"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"studyassist/internal/model"
	"studyassist/internal/prompt"
	"studyassist/internal/service"
)

// SessionCookie carries the session ID between the browser and the shell.
const SessionCookie = "session_id"

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when the history store is disabled.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.StudyService) {
	app.Get("/", Index())
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/documents", UploadDocument(svc))
	app.Post("/generate", Generate(svc))
	app.Get("/history", SearchHistory(svc))
}

// HealthCheck reports readiness. With history enabled it pings the
// database; with history disabled there is no dependency to check.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "history": "disabled"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "history": "enabled"})
	}
}

// LivenessProbe is a plain liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadDocument accepts a multipart upload (field name: file), extracts its
// text, and binds it to the caller's session. Re-uploading replaces the
// session's document; persisted history is unaffected.
//
// @Summary Upload a textbook PDF
// @Accept mpfd
// @Produce json
// @Param file formData file true "PDF document"
// @Success 201 {object} service.UploadResult
// @Router /documents [post]
func UploadDocument(svc service.StudyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		res, err := svc.Upload(c.UserContext(), data, fh.Filename, c.Cookies(SessionCookie))
		if err != nil {
			return translateError(c, err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    res.SessionID,
			HTTPOnly: true,
			SameSite: "Lax",
		})
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// generateRequest is the body of POST /generate.
type generateRequest struct {
	Mode     string `json:"mode"`
	Question string `json:"question"`
}

// Generate runs one generation for the session's document.
//
// @Summary Generate an explanation, summary, examples, or an answer
// @Accept json
// @Produce json
// @Param request body generateRequest true "mode is one of simplify, full_theory, examples, qa"
// @Success 200 {object} service.GenerationResult
// @Router /generate [post]
func Generate(svc service.StudyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		mode, err := prompt.ParseMode(req.Mode)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MODE",
				"mode must be one of: simplify, full_theory, examples, qa")
		}

		res, err := svc.Generate(c.UserContext(), c.Cookies(SessionCookie), mode, req.Question)
		if err != nil {
			return translateError(c, err)
		}
		return c.JSON(res)
	}
}

// SearchHistory searches past Q&A interactions by approximate text match.
//
// @Summary Search the Q&A history
// @Produce json
// @Param q query string true "search text"
// @Param limit query int false "maximum results"
// @Success 200 {object} historyResponse
// @Router /history [get]
func SearchHistory(svc service.StudyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return writeError(c, fiber.StatusBadRequest, "QUERY_REQUIRED", "q is required")
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			var err error
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
			}
		}

		items, err := svc.SearchHistory(c.UserContext(), q, limit)
		if err != nil {
			return translateError(c, err)
		}
		return c.JSON(historyResponse{Items: items, Total: len(items)})
	}
}

// historyResponse wraps history search results.
type historyResponse struct {
	Items []model.HistoryRecord `json:"data"`
	Total int                   `json:"total"`
}
