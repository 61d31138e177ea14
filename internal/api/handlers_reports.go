package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/a3tai/mcp-intake-report/internal/pdf"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
)

// handleGenerate assembles a report from a JSON answer record and returns
// it as a PDF attachment.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req pdf.ReportGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reportError(w, pdferrors.Wrap(pdferrors.ErrorTypeInvalidInput, "invalid request body", err))
		return
	}
	if req.Answers == nil {
		reportError(w, pdferrors.New(pdferrors.ErrorTypeInvalidInput, "answers is required"))
		return
	}

	result, err := s.reports.Generate(r.Context(), req)
	if err != nil {
		s.log.Error("report generation failed",
			"kind", pdferrors.TypeOf(err).String(),
			"error", err,
		)
		reportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Document)))
	w.Header().Set("X-Report-ID", result.ID)
	w.Header().Set("X-Report-Pages", strconv.Itoa(result.Pages.Total))
	if result.Path != "" {
		w.Header().Set("X-Report-Path", result.Path)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.Document)
}

// handleSections lists catalog sections. A POST body previews which
// sections an answer record includes.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	var req pdf.ReportSectionsRequest
	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			reportError(w, pdferrors.Wrap(pdferrors.ErrorTypeInvalidInput, "invalid request body", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, s.reports.Sections(req))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	req := pdf.ReportListRequest{Query: r.URL.Query().Get("query")}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		req.Limit = limit
	}

	result, err := s.reports.List(req)
	if err != nil {
		jsonError(w, "failed to list reports: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleInspectReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := s.reports.Inspect(pdf.ReportInspectRequest{Path: name})
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps a failure kind to an HTTP status
func statusFor(t pdferrors.ErrorType) int {
	switch t {
	case pdferrors.ErrorTypeTemplateFetch:
		return http.StatusBadGateway
	case pdferrors.ErrorTypeTemplateParse:
		return http.StatusUnprocessableEntity
	case pdferrors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Phase    string `json:"phase,omitempty"`
	Guidance string `json:"guidance,omitempty"`
}

func reportError(w http.ResponseWriter, err error) {
	kind := pdferrors.TypeOf(err)
	body := errorBody{
		Error:    err.Error(),
		Kind:     kind.String(),
		Guidance: kind.Guidance(),
	}
	if re, ok := pdferrors.As(err); ok {
		body.Phase = re.Phase
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, body)
		return
	}
	writeJSON(w, statusFor(kind), body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
