package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"studyassist/internal/extract"
	"studyassist/internal/llm"
	"studyassist/internal/model"
	"studyassist/internal/prompt"
	"studyassist/internal/repository"
	"studyassist/internal/session"
)

var (
	// ErrNoDocument is returned when generation is requested before any
	// document has been loaded for the session.
	ErrNoDocument = errors.New("no document loaded for this session")
	// ErrEmptyUpload is returned for an upload with no content.
	ErrEmptyUpload = errors.New("uploaded file is empty")
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// UploadResult describes a successfully loaded document.
type UploadResult struct {
	SessionID  string `json:"session_id"`
	Filename   string `json:"filename"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
}

// GenerationResult is one model answer for the session's document.
type GenerationResult struct {
	Mode            string `json:"mode"`
	Answer          string `json:"answer"`
	HistoryRecorded bool   `json:"history_recorded"`
}

// StudyService defines the use cases of the study assistant.
type StudyService interface {
	// Upload extracts the document text and binds it to the session.
	// An empty sessionID starts a new session; re-uploading replaces the
	// session's document, never any persisted history.
	Upload(ctx context.Context, data []byte, filename string, sessionID string) (*UploadResult, error)

	// Generate builds the prompt for the requested mode and calls the model.
	// QA results are recorded to history; a history failure does not fail
	// the generation. No model call is made without a loaded document.
	Generate(ctx context.Context, sessionID string, mode prompt.Mode, question string) (*GenerationResult, error)

	// SearchHistory returns past Q&A interactions approximately matching
	// the query, most similar first.
	SearchHistory(ctx context.Context, query string, limit int) ([]model.HistoryRecord, error)
}

// studyService is a concrete implementation of StudyService.
type studyService struct {
	extractor extract.Extractor
	builder   *prompt.Builder
	client    llm.Client
	history   repository.HistoryRepository
	sessions  *session.Store
}

// NewStudyService constructs a new StudyService.
func NewStudyService(
	extractor extract.Extractor,
	builder *prompt.Builder,
	client llm.Client,
	history repository.HistoryRepository,
	sessions *session.Store,
) StudyService {
	return &studyService{
		extractor: extractor,
		builder:   builder,
		client:    client,
		history:   history,
		sessions:  sessions,
	}
}

func (s *studyService) Upload(ctx context.Context, data []byte, filename string, sessionID string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	res, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}

	id := s.sessions.Put(sessionID, session.Document{
		Filename:   filename,
		Text:       res.Text,
		Pages:      res.Pages,
		UploadedAt: time.Now().UTC(),
	})

	return &UploadResult{
		SessionID:  id,
		Filename:   filename,
		Pages:      res.Pages,
		Characters: len(res.Text),
	}, nil
}

func (s *studyService) Generate(ctx context.Context, sessionID string, mode prompt.Mode, question string) (*GenerationResult, error) {
	doc, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoDocument
	}

	p, err := s.builder.Build(doc.Text, mode, question)
	if err != nil {
		return nil, err
	}

	answer, err := s.client.Generate(ctx, prompt.SystemInstruction, p)
	if err != nil {
		return nil, err
	}

	out := &GenerationResult{Mode: mode.String(), Answer: answer}
	if mode == prompt.ModeQA {
		rec, err := s.history.Record(ctx, question, answer)
		if err != nil {
			// History persistence is best-effort: the answer is still
			// returned, the failure only shows up in logs and the flag.
			logRecordFailure(err)
		} else {
			out.HistoryRecorded = rec != nil
		}
	}
	return out, nil
}

func (s *studyService) SearchHistory(ctx context.Context, query string, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return s.history.Search(ctx, query, limit)
}

func logRecordFailure(err error) {
	b, mErr := json.Marshal(map[string]any{
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"level":     "error",
		"component": "history",
		"event":     "history_record_failed",
		"error":     err.Error(),
	})
	if mErr != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
