package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Test server setup
func setupTestServer() *httptest.Server {
	r := chi.NewRouter()

	// Add middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))

	apiServer := NewServer("test", log.New(io.Discard))
	r.Mount("/api/v1", apiServer.Routes())

	return httptest.NewServer(r)
}

// uploadFile is one file part of a multipart request.
type uploadFile struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, url string, fields map[string]string, files []uploadFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field %q: %v", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("creating file part %q: %v", f.name, err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("writing file part %q: %v", f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, &body)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngPayload(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, c)); err != nil {
		t.Fatalf("encoding png fixture: %v", err)
	}
	return buf.Bytes()
}

// testPDF is a valid blank single-page PDF (US letter, 612x792 units) with
// a computed xref table.
func testPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << >> >>\nendobj\n")
	writeObj("4 0 obj\n<< /Length 0 >>\nstream\n\nendstream\nendobj\n")
	xrefPos := buf.Len()
	buf.WriteString("xref\n0 5\n0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes()
}

func decodeErrorResponse(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return er
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", health.Status)
	}
	if health.Version != "test" {
		t.Errorf("Expected version 'test', got %s", health.Version)
	}
	if time.Since(health.Timestamp) > time.Minute {
		t.Errorf("Timestamp seems too old: %v", health.Timestamp)
	}
}

func TestConvertEndpoint_SinglePagePNG(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/convert",
		map[string]string{"scale": "1.0", "auto_crop": "false"},
		[]uploadFile{{field: "documents", name: "fig.pdf", data: testPDF(t)}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Response is not a decodable image: %v", err)
	}
	if img.Bounds().Dx() < 600 || img.Bounds().Dx() > 620 {
		t.Errorf("Expected ~612px wide page at scale 1, got %d", img.Bounds().Dx())
	}
}

func TestConvertEndpoint_BundleZip(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/convert",
		map[string]string{"scale": "1.0", "bundle": "true"},
		[]uploadFile{
			{field: "documents", name: "a.pdf", data: testPDF(t)},
			{field: "documents", name: "b.pdf", data: testPDF(t)},
		})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Expected application/zip, got %s", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Reading body: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Response is not a valid zip: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["a_P1.png"] || !names["b_P1.png"] {
		t.Errorf("Expected per-page entries, got %v", names)
	}
}

func TestConvertEndpoint_NoDocuments(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/convert",
		map[string]string{"scale": "2.0"}, nil)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
	if er := decodeErrorResponse(t, resp); er.Error != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %s", er.Error)
	}
}

func TestConvertEndpoint_InvalidScale(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/convert",
		map[string]string{"scale": "0"},
		[]uploadFile{{field: "documents", name: "fig.pdf", data: testPDF(t)}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestConvertEndpoint_AllDocumentsCorrupt(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/convert",
		map[string]string{"scale": "2.0"},
		[]uploadFile{{field: "documents", name: "broken.pdf", data: []byte("not a pdf")}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", resp.StatusCode)
	}
	er := decodeErrorResponse(t, resp)
	if er.Error != "BATCH_CONVERSION_FAILED" {
		t.Errorf("Expected BATCH_CONVERSION_FAILED, got %s", er.Error)
	}
	if len(er.FailedDocuments) != 1 || er.FailedDocuments[0].Name != "broken.pdf" {
		t.Errorf("Expected broken.pdf in failure list, got %+v", er.FailedDocuments)
	}
}

func TestComposeEndpoint_Success(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	panel := pngPayload(t, 100, 100, color.NRGBA{200, 30, 30, 255})
	req := multipartRequest(t, server.URL+"/api/v1/compose",
		map[string]string{
			"columns":    "2",
			"spacing":    "10",
			"add_labels": "true",
		},
		[]uploadFile{
			{field: "panels", name: "a.png", data: panel},
			{field: "panels", name: "b.png", data: panel},
			{field: "panels", name: "c.png", data: panel},
		})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Response is not a decodable image: %v", err)
	}
	if img.Bounds().Dx() != 230 || img.Bounds().Dy() != 230 {
		t.Errorf("Expected 230x230 composite, got %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestConvertEndpoint_MalformedBundleFlag(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/convert",
		map[string]string{"scale": "1.0", "bundle": "maybe"},
		[]uploadFile{{field: "documents", name: "fig.pdf", data: testPDF(t)}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
	if er := decodeErrorResponse(t, resp); er.Error != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %s", er.Error)
	}
}

func TestComposeEndpoint_MalformedLabelsFlag(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	panel := pngPayload(t, 10, 10, color.NRGBA{0, 0, 0, 255})
	req := multipartRequest(t, server.URL+"/api/v1/compose",
		map[string]string{"add_labels": "maybe"},
		[]uploadFile{{field: "panels", name: "a.png", data: panel}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
	if er := decodeErrorResponse(t, resp); er.Error != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %s", er.Error)
	}
}

func TestComposeEndpoint_InvalidColumns(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	panel := pngPayload(t, 10, 10, color.NRGBA{0, 0, 0, 255})
	req := multipartRequest(t, server.URL+"/api/v1/compose",
		map[string]string{"columns": "0"},
		[]uploadFile{{field: "panels", name: "a.png", data: panel}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestComposeEndpoint_UndecodablePanel(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/compose",
		nil,
		[]uploadFile{{field: "panels", name: "junk.png", data: []byte("junk")}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", resp.StatusCode)
	}
	er := decodeErrorResponse(t, resp)
	if er.Error != "UNSUPPORTED_IMAGE_FORMAT" {
		t.Errorf("Expected UNSUPPORTED_IMAGE_FORMAT, got %s", er.Error)
	}
	if !strings.Contains(er.Message, "junk.png") {
		t.Errorf("Expected failing file name in message, got %q", er.Message)
	}
}

func TestAccessibilityEndpoint_Score(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	req := multipartRequest(t, server.URL+"/api/v1/accessibility", nil,
		[]uploadFile{{field: "image", name: "white.png",
			data: pngPayload(t, 50, 50, color.NRGBA{255, 255, 255, 255})}})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var score ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if score.Score != 100.0 {
		t.Errorf("Expected score 100 for all-white image, got %v", score.Score)
	}
	if score.RequestID == "" {
		t.Error("Expected a request ID")
	}
}

func TestAccessibilityPreview_Variants(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	payload := pngPayload(t, 20, 20, color.NRGBA{100, 200, 50, 255})
	for _, variant := range []string{"cvd", "grayscale"} {
		req := multipartRequest(t, server.URL+"/api/v1/accessibility/preview",
			map[string]string{"variant": variant},
			[]uploadFile{{field: "image", name: "fig.png", data: payload}})

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Variant %s: expected status 200, got %d", variant, resp.StatusCode)
		}
		if _, _, err := image.Decode(resp.Body); err != nil {
			t.Errorf("Variant %s: response is not a decodable image: %v", variant, err)
		}
		resp.Body.Close()
	}

	// Unknown variant is rejected.
	req := multipartRequest(t, server.URL+"/api/v1/accessibility/preview",
		map[string]string{"variant": "tritanopia"},
		[]uploadFile{{field: "image", name: "fig.png", data: payload}})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown variant, got %d", resp.StatusCode)
	}
}

func TestTikzEndpoint_Template(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	body := `{"template": "Cell Signaling", "document": true}`
	resp, err := http.Post(server.URL+"/api/v1/tikz", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	out, _ := io.ReadAll(resp.Body)
	text := string(out)
	if !strings.Contains(text, `\documentclass[tikz,border=10pt]{standalone}`) {
		t.Error("Expected standalone document wrapper")
	}
	if !strings.Contains(text, "Receptor") {
		t.Error("Expected template body in response")
	}
}

func TestTikzEndpoint_Cell(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	body := `{"cell": {"label": "T Cell", "color": "#ffaaaa", "shape": "circle", "line_thickness": "thick"}}`
	resp, err := http.Post(server.URL+"/api/v1/tikz", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	out, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(out), `\definecolor{mycolor}{HTML}{FFAAAA}`) {
		t.Errorf("Expected color preamble in response:\n%s", out)
	}
}

func TestTikzEndpoint_UnknownTemplate(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/tikz", "application/json",
		strings.NewReader(`{"template": "Golgi"}`))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestTikzEndpoint_EmptyRequest(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/tikz", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestWorkspaceImport_NormalizesPartialPayload(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/workspace/import", "application/json",
		strings.NewReader(`{"profile": "Nature Journal"}`))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var project map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if project["profile"] != "Nature Journal" {
		t.Errorf("Expected profile to survive import, got %v", project["profile"])
	}
	if _, ok := project["compose"]; !ok {
		t.Error("Expected defaults filled into normalized project")
	}
}

func TestWorkspaceImport_RejectsInvalid(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/workspace/import", "application/json",
		strings.NewReader(`{"profile": "No Such Journal"}`))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestWorkspaceExport_AttachmentHeaders(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/workspace/export", "application/json",
		strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "biotikz_workspace.json") {
		t.Errorf("Expected attachment disposition, got %q", cd)
	}
}
