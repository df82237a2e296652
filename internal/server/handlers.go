package server

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/YASH4-HD/bio-tikz-studio/internal/access"
	"github.com/YASH4-HD/bio-tikz-studio/internal/archive"
	"github.com/YASH4-HD/bio-tikz-studio/internal/compose"
	"github.com/YASH4-HD/bio-tikz-studio/internal/raster"
	"github.com/YASH4-HD/bio-tikz-studio/internal/tikz"
	"github.com/YASH4-HD/bio-tikz-studio/internal/workspace"
	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// ConvertDocuments rasterizes one or more uploaded PDFs. A single-page
// result is returned as PNG; anything more (or bundle=true) is returned as
// a ZIP of per-page PNGs. Per-document failures do not abort the batch;
// when some documents fail, the ZIP carries a conversion_report.json
// listing them.
func (s *Server) ConvertDocuments(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", err.Error(), requestID)
		return
	}

	files := r.MultipartForm.File["documents"]
	if len(files) == 0 {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"at least one PDF must be uploaded as 'documents'", requestID)
		return
	}

	opts, err := renderOptionsFromForm(r)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}
	bundle, err := formBool(r, "bundle", false)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	docs := make([]raster.Document, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "UPLOAD_READ_ERROR",
				fmt.Sprintf("reading %q: %v", fh.Filename, err), requestID)
			return
		}
		docs = append(docs, raster.Document{Name: fh.Filename, Data: data})
	}

	result, err := raster.ConvertBatch(docs, opts)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	entries := make([]archive.Entry, 0, len(result.Pages))
	for _, p := range result.Pages {
		png, err := figure.EncodePNG(p.Page.Image)
		if err != nil {
			s.handleTransformError(w, err, requestID)
			return
		}
		entries = append(entries, archive.Entry{Name: p.Name, Data: png})
	}

	if len(entries) == 1 && len(result.Failed) == 0 && !bundle {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("Content-Length", strconv.Itoa(len(entries[0].Data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(entries[0].Data); err != nil {
			s.logger.Error("writing response", "request_id", requestID, "err", err)
		}
		return
	}

	if len(result.Failed) > 0 {
		report, err := marshalReport(result.Failed)
		if err != nil {
			s.handleTransformError(w, err, requestID)
			return
		}
		entries = append(entries, archive.Entry{Name: "conversion_report.json", Data: report})
	}

	zipData, err := archive.Build(entries)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="batch_figures.zip"`)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(zipData); err != nil {
		s.logger.Error("writing response", "request_id", requestID, "err", err)
	}
}

// ComposePanels assembles uploaded panel images into a grid figure.
func (s *Server) ComposePanels(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", err.Error(), requestID)
		return
	}

	files := r.MultipartForm.File["panels"]
	if len(files) == 0 {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"at least one image must be uploaded as 'panels'", requestID)
		return
	}

	opts, err := composeOptionsFromForm(r)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	panels := make([]*image.NRGBA, 0, len(files))
	for _, fh := range files {
		img, err := loadUploadImage(fh, figure.MaxPanelDim)
		if err != nil {
			s.handleTransformError(w, err, requestID)
			return
		}
		panels = append(panels, img)
	}

	composed, err := compose.Compose(panels, opts)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	png, err := figure.EncodePNG(composed)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		s.logger.Error("writing response", "request_id", requestID, "err", err)
	}
}

// ScoreResponse carries the accessibility report for one image.
type ScoreResponse struct {
	access.Report
	RequestID string `json:"request_id"`
}

// ScoreImage computes the grayscale resilience score of one uploaded image.
func (s *Server) ScoreImage(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	img, ok := s.singleImageUpload(w, r, requestID)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, ScoreResponse{
		Report:    access.Score(img),
		RequestID: requestID,
	})
}

// PreviewImage returns the color-vision-deficiency (default) or grayscale
// rendition of one uploaded image.
func (s *Server) PreviewImage(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	img, ok := s.singleImageUpload(w, r, requestID)
	if !ok {
		return
	}

	var preview image.Image
	switch variant := r.FormValue("variant"); variant {
	case "", "cvd":
		preview = access.Preview(img)
	case "grayscale":
		preview = access.Grayscale(img)
	default:
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("unknown preview variant %q", variant), requestID)
		return
	}

	png, err := figure.EncodePNG(preview)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		s.logger.Error("writing response", "request_id", requestID, "err", err)
	}
}

// TikzRequest selects either a named template, a legend, or a single cell
// node to generate.
type TikzRequest struct {
	Template string            `json:"template,omitempty"`
	Cell     *tikz.CellOptions `json:"cell,omitempty"`
	Legend   []tikz.LegendItem `json:"legend,omitempty"`
	Document bool              `json:"document"`
}

// GenerateTikz produces a TikZ snippet or full standalone document.
func (s *Server) GenerateTikz(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	var req TikzRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error(), requestID)
		return
	}

	var body string
	switch {
	case req.Template != "":
		tmpl, ok := tikz.Templates[req.Template]
		if !ok {
			s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				fmt.Sprintf("unknown template %q", req.Template), requestID)
			return
		}
		body = tmpl
	case len(req.Legend) > 0:
		legend, err := tikz.Legend(req.Legend)
		if err != nil {
			s.handleTransformError(w, err, requestID)
			return
		}
		body = legend
	case req.Cell != nil:
		cell, err := tikz.Cell(*req.Cell)
		if err != nil {
			s.handleTransformError(w, err, requestID)
			return
		}
		body = cell
	default:
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"one of template, cell or legend must be provided", requestID)
		return
	}

	if req.Document {
		body = tikz.Document(body)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		s.logger.Error("writing response", "request_id", requestID, "err", err)
	}
}

// ExportWorkspace validates a project payload and returns it as an indented
// JSON attachment.
func (s *Server) ExportWorkspace(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "UPLOAD_READ_ERROR", err.Error(), requestID)
		return
	}

	project, err := workspace.Import(data)
	if err != nil {
		s.handleWorkspaceError(w, err, requestID)
		return
	}

	blob, err := workspace.Export(project)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="biotikz_workspace.json"`)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		s.logger.Error("writing response", "request_id", requestID, "err", err)
	}
}

// ImportWorkspace parses and validates a saved workspace, returning the
// normalized project state.
func (s *Server) ImportWorkspace(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "UPLOAD_READ_ERROR", err.Error(), requestID)
		return
	}

	project, err := workspace.Import(data)
	if err != nil {
		s.handleWorkspaceError(w, err, requestID)
		return
	}

	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleWorkspaceError(w http.ResponseWriter, err error, requestID string) {
	var paramErr *figure.ParameterError
	if errors.As(err, &paramErr) {
		s.handleTransformError(w, err, requestID)
		return
	}
	s.writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error(), requestID)
}

// singleImageUpload reads the request's single "image" upload, bounded to
// the accessibility dimension cap. It writes the error response itself when
// the upload is missing or undecodable.
func (s *Server) singleImageUpload(w http.ResponseWriter, r *http.Request, requestID string) (*image.NRGBA, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", err.Error(), requestID)
		return nil, false
	}

	files := r.MultipartForm.File["image"]
	if len(files) != 1 {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"exactly one image must be uploaded as 'image'", requestID)
		return nil, false
	}

	img, err := loadUploadImage(files[0], figure.MaxAccessibilityDim)
	if err != nil {
		s.handleTransformError(w, err, requestID)
		return nil, false
	}
	return img, true
}

func loadUploadImage(fh *multipart.FileHeader, maxDim int) (*image.NRGBA, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := figure.LoadImage(f, maxDim)
	if err != nil {
		var fmtErr *figure.ImageFormatError
		if errors.As(err, &fmtErr) {
			fmtErr.Name = fh.Filename
		}
		return nil, err
	}
	return img, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
