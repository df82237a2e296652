// Package archive packages named byte payloads into a single ZIP for
// one-shot download.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Entry is one (name, payload) pair. Name uniqueness within an archive is
// the caller's responsibility.
type Entry struct {
	Name string
	Data []byte
}

// Build writes entries into a deflate-compressed ZIP in input order, flat
// names only. An empty entry list yields a valid empty archive.
func Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %q: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("write archive entry %q: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}
