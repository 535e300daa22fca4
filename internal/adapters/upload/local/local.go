package local

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"registro-obras/internal/ports/upload"
)

// Store es el Uploader de dev: descarta los bytes y fabrica una
// referencia opaca. Suficiente para probar el flujo de adjuntos
// sin el colaborador real.
type Store struct{}

var _ upload.Uploader = (*Store)(nil)

func New() *Store { return &Store{} }

func (s *Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}

	ext := path.Ext(strings.TrimSpace(filename))
	return "local://adjuntos/" + uuid.NewString() + ext, nil
}
