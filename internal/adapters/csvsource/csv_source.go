package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

// FileSource implements MetricsSource over a CSV file with one header row
type FileSource struct {
	path string
}

var _ repositories.MetricsSource = (*FileSource)(nil)

// NewFileSource creates a CSV-backed metrics source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Describe returns the file path
func (s *FileSource) Describe() string {
	return s.path
}

// Load reads the CSV file into a raw table
func (s *FileSource) Load(ctx context.Context) (*entities.RawTable, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("CSV file not found: %s", s.path), err)
	}
	if err != nil {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("failed to open %s", s.path), err)
	}
	defer f.Close()

	return readTable(ctx, f, s.path)
}

// Save writes the table to a sibling temp file and renames it over the source
func (s *FileSource) Save(ctx context.Context, table *entities.RawTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".metrics-*.csv")
	if err != nil {
		return apperrors.NewDataSourceError(fmt.Sprintf("failed to create temp file next to %s", s.path), err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writeTable(tmp, table); err != nil {
		tmp.Close()
		return apperrors.NewDataSourceError(fmt.Sprintf("failed to write %s", s.path), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return apperrors.NewDataSourceError(fmt.Sprintf("failed to set permissions on %s", tmpName), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewDataSourceError(fmt.Sprintf("failed to flush %s", s.path), err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.NewDataSourceError(fmt.Sprintf("failed to replace %s", s.path), err)
	}

	return nil
}

func readTable(ctx context.Context, r io.Reader, name string) (*entities.RawTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("%s is empty", name), err)
	}
	if err != nil {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("failed to read CSV header of %s", name), err)
	}

	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	table := &entities.RawTable{Header: header}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.Reader enforces the header's field count on every row
			return nil, apperrors.NewDataSourceError(fmt.Sprintf("failed to read %s", name), err)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func writeTable(w io.Writer, table *entities.RawTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return err
	}
	return writer.Error()
}
