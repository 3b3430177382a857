// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/semnote-dev/semnote/pkg/health"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "ingest-note",
		Method:        http.MethodPost,
		Path:          "/api/v1/notes",
		Summary:       "Store a note",
		Description:   "Embeds the note text and appends it to the durable store.",
		Tags:          []string{"notes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleIngestNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-notes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/search",
		Summary:     "Search notes",
		Description: "Returns the stored notes most semantically similar to the query text.",
		Tags:        []string{"notes"},
	}, s.handleSearchNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, s.handleHealth)
}

// --- Request/Response types for huma ---

type ingestNoteInput struct {
	Body struct {
		Label string `json:"label" example:"P001" doc:"Caller-supplied identifier, e.g. a patient reference"`
		Text  string `json:"text" example:"Patient reports chest pain." doc:"Note content"`
	}
}

// NoteBody is the JSON representation of a stored note. The embedding is
// intentionally not exposed; it is an internal artifact of the store.
type NoteBody struct {
	ID        string `json:"id" doc:"Server-assigned note identifier"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at" doc:"RFC 3339 creation time"`
}

type ingestNoteOutput struct {
	Body NoteBody
}

type searchNotesInput struct {
	Q string `query:"q" example:"heart attack" doc:"Free-text query"`
	K int    `query:"k" required:"false" doc:"Maximum number of results; defaults to 3"`
}

// SearchResultBody is one ranked search hit.
type SearchResultBody struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Text  string  `json:"text"`
	Score float32 `json:"score" doc:"Cosine similarity to the query, higher is closer"`
}

type searchNotesOutput struct {
	Body struct {
		Results []SearchResultBody `json:"results"`
	}
}

type healthOutput struct {
	Body struct {
		Status    string         `json:"status" example:"ok"`
		Stored    int            `json:"stored" doc:"Number of stored notes"`
		Provider  string         `json:"provider" doc:"Active embedding variant"`
		Embedding health.Metrics `json:"embedding" doc:"Embedding provider availability"`
	}
}

// --- Handlers ---

func (s *Server) handleIngestNote(ctx context.Context, in *ingestNoteInput) (*ingestNoteOutput, error) {
	rec, err := s.notes.Ingest(ctx, in.Body.Label, in.Body.Text)
	if err != nil {
		return nil, statusError(err)
	}

	out := &ingestNoteOutput{}
	out.Body = NoteBody{
		ID:        rec.ID,
		Label:     rec.Label,
		Text:      rec.Text,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339Nano),
	}
	return out, nil
}

func (s *Server) handleSearchNotes(ctx context.Context, in *searchNotesInput) (*searchNotesOutput, error) {
	results, err := s.notes.Query(ctx, in.Q, in.K)
	if err != nil {
		return nil, statusError(err)
	}

	out := &searchNotesOutput{}
	out.Body.Results = make([]SearchResultBody, 0, len(results))
	for _, res := range results {
		out.Body.Results = append(out.Body.Results, SearchResultBody{
			ID:    res.Record.ID,
			Label: res.Record.Label,
			Text:  res.Record.Text,
			Score: res.Score,
		})
	}
	return out, nil
}

func (s *Server) handleHealth(_ context.Context, _ *struct{}) (*healthOutput, error) {
	out := &healthOutput{}
	out.Body.Status = "ok"
	out.Body.Stored = s.notes.Count()
	out.Body.Provider = s.notes.EmbedderName()
	out.Body.Embedding = s.notes.EmbedderHealth()
	return out, nil
}

// statusError converts a coded core error into a huma error with the HTTP
// status the error taxonomy maps to. The message passes through unchanged.
func statusError(err error) error {
	return huma.NewError(semerr.HTTPStatus(err), err.Error())
}
