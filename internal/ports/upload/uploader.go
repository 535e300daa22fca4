package upload

import (
	"context"
	"io"
)

// Uploader es el colaborador de almacenamiento de adjuntos.
// Recibe los bytes y devuelve una referencia opaca (string/URL);
// el core guarda solo la referencia, nunca el contenido, y no valida
// el archivo más allá de confiar en que la referencia es válida.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}
