package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/keynav/internal/key"
)

// FileSource serves payloads from local files: one dataset file and a
// directory holding one <identity>.json record file per key.
type FileSource struct {
	DatasetPath string
	RecordsDir  string
	Validator   Validator // optional
}

// Dataset implements Source.
func (s *FileSource) Dataset(ctx context.Context) ([]key.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(s.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if s.Validator != nil {
		if err := s.Validator.ValidateDataset(body); err != nil {
			return nil, err
		}
	}
	return DecodeDataset(body)
}

// Records implements Source.
func (s *FileSource) Records(ctx context.Context, identity string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if identity == "" || strings.ContainsAny(identity, `/\`) || identity == "." || identity == ".." {
		return nil, fmt.Errorf("invalid key identity %q", identity)
	}
	body, err := os.ReadFile(filepath.Join(s.RecordsDir, identity+".json"))
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if s.Validator != nil {
		if err := s.Validator.ValidateRecords(body); err != nil {
			return nil, err
		}
	}
	return DecodeRecords(body)
}
