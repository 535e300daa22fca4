package casos

import "context"

type Repository interface {
	Create(ctx context.Context, c Caso) error
	GetByID(ctx context.Context, id string) (Caso, error)

	// Update escribe el documento completo solo si la versión
	// almacenada sigue siendo expectedVersion; si no, devuelve
	// ErrVersionConflict. El repo incrementa la versión al escribir.
	Update(ctx context.Context, c Caso, expectedVersion int) error

	// Delete borra y devuelve el documento borrado (hard delete:
	// el historial desaparece con el caso).
	Delete(ctx context.Context, id string) (Caso, error)

	List(ctx context.Context, offset, limit int) ([]Caso, error)
	Count(ctx context.Context) (int, error)
}
