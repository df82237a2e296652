// Package server exposes the figure production transforms as an HTTP API.
// Every endpoint is a thin adapter: parse the upload and its options into
// explicit parameter structs, call one stateless transform, write the bytes
// back. No state is kept between requests.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/YASH4-HD/bio-tikz-studio/internal/raster"
	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 64 << 20

// Server implements the studio HTTP API.
type Server struct {
	startTime time.Time
	version   string
	logger    *log.Logger
}

// NewServer creates a new server instance.
func NewServer(version string, logger *log.Logger) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
		logger:    logger,
	}
}

// Routes returns the API router, intended to be mounted under /api/v1.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Post("/convert", s.ConvertDocuments)
	r.Post("/compose", s.ComposePanels)
	r.Post("/accessibility", s.ScoreImage)
	r.Post("/accessibility/preview", s.PreviewImage)
	r.Post("/tikz", s.GenerateTikz)
	r.Post("/workspace/export", s.ExportWorkspace)
	r.Post("/workspace/import", s.ImportWorkspace)
	return r
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// ErrorResponse is the common error body for all endpoints.
type ErrorResponse struct {
	Error           string                  `json:"error"`
	Message         string                  `json:"message"`
	RequestID       string                  `json:"request_id"`
	FailedDocuments []raster.FailedDocument `json:"failed_documents,omitempty"`
}

// GetHealth implements the health check endpoint.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
	})
}

// handleTransformError maps transform errors onto HTTP status codes and
// error codes from the API's taxonomy.
func (s *Server) handleTransformError(w http.ResponseWriter, err error, requestID string) {
	var paramErr *figure.ParameterError
	if errors.As(err, &paramErr) {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", paramErr.Error(), requestID)
		return
	}

	var docErr *figure.DocumentError
	if errors.As(err, &docErr) {
		s.writeError(w, http.StatusUnprocessableEntity, "DOCUMENT_PARSE_ERROR", docErr.Error(), requestID)
		return
	}

	var imgErr *figure.ImageFormatError
	if errors.As(err, &imgErr) {
		s.writeError(w, http.StatusUnprocessableEntity, "UNSUPPORTED_IMAGE_FORMAT", imgErr.Error(), requestID)
		return
	}

	var batchErr *raster.BatchError
	if errors.As(err, &batchErr) {
		s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:           "BATCH_CONVERSION_FAILED",
			Message:         batchErr.Message,
			RequestID:       requestID,
			FailedDocuments: batchErr.Failed,
		})
		return
	}

	s.logger.Error("transform failed", "request_id", requestID, "err", err)
	s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", requestID)
}

func newRequestID() string {
	return uuid.NewString()
}
