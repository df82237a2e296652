package raster

import (
	"fmt"
	"path"
	"strings"

	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// ConvertedPage is one output of a batch conversion, named after its source
// document and one-based page number.
type ConvertedPage struct {
	Name     string
	Document string
	Page     Page
}

// FailedDocument records one document that could not be converted.
type FailedDocument struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// BatchResult holds converted pages and per-document failures. The batch
// policy is skip-and-report: a failing document never aborts the rest, and
// every failure is reported to the caller.
type BatchResult struct {
	Pages  []ConvertedPage
	Failed []FailedDocument
}

// BatchError is returned when no document in a batch could be converted.
type BatchError struct {
	Message        string
	Failed         []FailedDocument
	TotalDocuments int
}

func (e *BatchError) Error() string {
	return e.Message
}

// ConvertBatch rasterizes a sequence of documents in upload order. Documents
// are processed strictly sequentially and independently; per-document
// failures are collected in the result. If every document fails, a
// *BatchError carrying the failure list is returned instead.
func ConvertBatch(docs []Document, opts figure.RenderOptions) (*BatchResult, error) {
	if len(docs) == 0 {
		return nil, figure.NewParameterError("documents", "no documents to convert")
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for _, doc := range docs {
		pages, err := Render(doc.Data, opts)
		if err != nil {
			result.Failed = append(result.Failed, FailedDocument{
				Name:  doc.Name,
				Error: err.Error(),
			})
			continue
		}

		stem := docStem(doc.Name)
		for _, p := range pages {
			result.Pages = append(result.Pages, ConvertedPage{
				Name:     fmt.Sprintf("%s_P%d.png", stem, p.Index+1),
				Document: doc.Name,
				Page:     p,
			})
		}
	}

	if len(result.Pages) == 0 {
		return nil, &BatchError{
			Message:        fmt.Sprintf("no document could be converted: %d/%d failed", len(result.Failed), len(docs)),
			Failed:         result.Failed,
			TotalDocuments: len(docs),
		}
	}

	return result, nil
}

func docStem(name string) string {
	base := path.Base(name)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
