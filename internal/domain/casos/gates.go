package casos

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
)

// claveCoincide compara en tiempo constante. La semántica observable
// es igualdad exacta de strings, como exige el contrato.
func claveCoincide(recibida, configurada string) bool {
	if configurada == "" {
		// Sin clave configurada no hay forma legítima de autorizar.
		return false
	}
	return subtle.ConstantTimeCompare([]byte(recibida), []byte(configurada)) == 1
}

// ConfirmarEntrega cierra el caso de forma permanente. Es la única vía
// a ENTREGADO. La clave se valida antes de leer o tocar nada: con clave
// mala el documento queda intacto (cero efectos parciales).
//
// Idempotencia sobre la fecha: si FechaEntrega ya está seteada, se
// conserva la del primer cierre; la actuación de entrega se anota igual.
func (s *Service) ConfirmarEntrega(ctx context.Context, id, clave, autor string) (Caso, error) {
	if !claveCoincide(clave, s.claves.Entrega) {
		s.metrics.IncClaveRechazada("entrega")
		return Caso{}, ErrClaveInvalida
	}

	// La entrega siempre tiene que ser atribuible.
	autor = strings.TrimSpace(autor)
	if autor == "" {
		return Caso{}, ErrActorRequerido
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Caso{}, ErrInvalidInput
	}

	actual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Caso{}, err
	}

	now := s.now()
	leida := actual.Version

	if actual.FechaEntrega == nil {
		f := now
		actual.FechaEntrega = &f
	}
	actual.Estado = EstadoEntregado
	actual.Actuaciones = append(actual.Actuaciones, Actuacion{
		Descripcion: "Obra entregada / culminada",
		Fecha:       now,
		Autor:       autor,
	})
	actual.UpdatedAt = now

	if err := s.repo.Update(ctx, actual, leida); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			s.metrics.IncConflictoVersion()
		}
		return Caso{}, err
	}

	actual.Version = leida + 1
	s.metrics.IncEntregasOK()
	s.invalidate(ctx)
	return actual, nil
}

// Eliminar borra el caso de forma definitiva. Clave independiente de
// la de entrega. No hay soft-delete: el historial se va con el caso.
func (s *Service) Eliminar(ctx context.Context, id, clave string) (Caso, error) {
	if !claveCoincide(clave, s.claves.Eliminacion) {
		s.metrics.IncClaveRechazada("eliminacion")
		return Caso{}, ErrClaveInvalida
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Caso{}, ErrInvalidInput
	}

	borrado, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Caso{}, err
	}

	s.metrics.IncEliminaciones()
	s.invalidate(ctx)
	return borrado, nil
}
