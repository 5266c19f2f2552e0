package catalog

import (
	"context"
	"encoding/json"
	"os"

	"github.com/forgeline/craft-api/internal/errors"
)

// FileSource loads catalog data from a JSON file on disk
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed catalog source
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, errors.InvalidArgument("catalog path is required")
	}
	return &FileSource{path: path}, nil
}

// Ensure FileSource implements Source
var _ Source = (*FileSource)(nil)

// Load reads and decodes the catalog file
func (s *FileSource) Load(_ context.Context) (*Data, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read catalog file")
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "failed to decode catalog file %s", s.path)
	}

	return &data, nil
}
