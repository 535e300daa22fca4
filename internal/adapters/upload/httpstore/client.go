package httpstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"registro-obras/internal/platform/httpclient"
	"registro-obras/internal/ports/upload"
)

const defaultTimeout = 30 * time.Second

// Store implementa upload.Uploader contra un servicio HTTP externo.
// POST {base}/files?name=... con el body binario; la respuesta trae
// la referencia opaca que el core va a guardar.
type Store struct {
	hc *httpclient.Client
}

var _ upload.Uploader = (*Store)(nil)

func New(baseURL string) (*Store, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("httpstore: base url required")
	}
	hc, err := httpclient.NewWithBaseURL(baseURL, defaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("httpstore: %w", err)
	}
	return &Store{hc: hc}, nil
}

// Health consulta GET {base}/health. Se usa al arrancar para avisar
// temprano si el servicio de archivos no está respondiendo.
func (s *Store) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := s.hc.DoJSON(ctx, "GET", "/health", nil, &resp); err != nil {
		return fmt.Errorf("httpstore: health: %w", err)
	}
	return nil
}

type uploadResponse struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

func (s *Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	var resp uploadResponse

	path := "/files"
	if strings.TrimSpace(filename) != "" {
		path += "?name=" + url.QueryEscape(filename)
	}

	if err := s.hc.DoRaw(ctx, "POST", path, contentType, body, &resp); err != nil {
		return "", fmt.Errorf("httpstore: upload: %w", err)
	}

	// Algunos backends devuelven "ref", otros "url"; cualquiera sirve
	// como referencia opaca.
	ref := strings.TrimSpace(resp.Ref)
	if ref == "" {
		ref = strings.TrimSpace(resp.URL)
	}
	if ref == "" {
		return "", errors.New("httpstore: respuesta sin referencia")
	}
	return ref, nil
}
