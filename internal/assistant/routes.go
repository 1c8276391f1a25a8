package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RequestLimit bounds request bodies that may carry an encoded image;
// base64 inflates images by a third.
func (s *Service) RequestLimit() int64 {
	return s.opts.MaxImageBytes*4/3 + 1<<20
}

// RegisterRoutes mounts the explain, render and export endpoints.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/explain", svc.handleExplain)
	r.Post("/api/render", svc.handleRender)
	r.Post("/api/export/pdf", svc.handleExportPDF)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Service) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.RequestLimit())).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "validation"})
		return
	}

	answer, err := s.Explain(r.Context(), req)
	if err != nil {
		writeJSON(w, StatusFor(err), errorResponse{Error: UserMessage(err), Kind: KindOf(err)})
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type renderRequest struct {
	Markdown string `json:"markdown"`
	Engine   string `json:"engine"`
}

func (s *Service) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "validation"})
		return
	}
	html, err := s.RenderWith(req.Engine, req.Markdown)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

type exportRequest struct {
	Question string `json:"question"`
	Markdown string `json:"markdown"`
}

func (s *Service) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "validation"})
		return
	}

	var buf bytes.Buffer
	if err := s.ExportPDF(r.Context(), req.Question, req.Markdown, &buf); err != nil {
		if errors.Is(err, ErrNoAnswer) {
			writeJSON(w, StatusFor(err), errorResponse{Error: UserMessage(err), Kind: KindOf(err)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "PDF export failed.", Kind: "internal"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="learnova-answer.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
