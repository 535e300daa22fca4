package casos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"registro-obras/internal/platform/metrics"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("caso not found")
	ErrEstadoInvalido  = errors.New("estado invalido")
	ErrCasoEntregado   = errors.New("caso ya entregado")
	ErrClaveInvalida   = errors.New("clave invalida")
	ErrActorRequerido  = errors.New("actor requerido")
	ErrVersionConflict = errors.New("version conflict")
)

// ListCache es la cache de lectura derivada del listado (advisory,
// nunca autoritativa). Puede ser nil.
type ListCache interface {
	GetPage(ctx context.Context, page, limit int) (Page, bool)
	SetPage(ctx context.Context, page, limit int, p Page)
	Invalidate(ctx context.Context)
}

// Claves son los dos secretos compartidos de las operaciones
// irreversibles. Independientes entre sí.
type Claves struct {
	Entrega     string
	Eliminacion string
}

type Service struct {
	repo    Repository
	claves  Claves
	cache   ListCache
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo Repository, claves Claves) *Service {
	return &Service{
		repo:   repo,
		claves: claves,
		now:    time.Now,
	}
}

// WithCache engancha la cache derivada del listado. Nil la apaga.
func (s *Service) WithCache(c ListCache) *Service {
	s.cache = c
	return s
}

// WithMetrics engancha contadores Prometheus. Nil los apaga.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

type CreateInput struct {
	Codigo         string
	Nombre         string
	Descripcion    string
	Parroquia      string
	ConsejoComunal string
	Estado         string // opcional; default CARGADO
	FechaCaso      time.Time
	AdjuntoRef     string
}

func (s *Service) Create(ctx context.Context, autor string, in CreateInput) (Caso, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return Caso{}, ErrInvalidInput
	}

	estado := EstadoCargado
	if strings.TrimSpace(in.Estado) != "" {
		estado = Estado(strings.TrimSpace(in.Estado))
		if !estado.EsNoTerminal() {
			// Un caso nunca nace entregado ni en un estado desconocido.
			return Caso{}, ErrEstadoInvalido
		}
	}

	now := s.now()
	fechaCaso := in.FechaCaso
	if fechaCaso.IsZero() {
		fechaCaso = now
	}

	autor = autorODefault(autor)
	c := Caso{
		ID:             uuid.NewString(),
		Codigo:         strings.TrimSpace(in.Codigo),
		Nombre:         strings.TrimSpace(in.Nombre),
		Descripcion:    strings.TrimSpace(in.Descripcion),
		Parroquia:      strings.TrimSpace(in.Parroquia),
		ConsejoComunal: strings.TrimSpace(in.ConsejoComunal),
		Estado:         estado,
		FechaCaso:      fechaCaso,
		AdjuntoRef:     strings.TrimSpace(in.AdjuntoRef),
		Actuaciones: []Actuacion{{
			Descripcion: "Caso registrado",
			Fecha:       now,
			Autor:       autor,
		}},
		Modificaciones: []Modificacion{},
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Caso{}, err
	}

	s.metrics.IncCasosCreados()
	s.invalidate(ctx)
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Caso, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Caso{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Page es la respuesta paginada del listado.
type Page struct {
	Casos       []Caso `json:"casos"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	TotalCount  int    `json:"total_count"`
}

func (s *Service) List(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	if s.cache != nil {
		if p, ok := s.cache.GetPage(ctx, page, limit); ok {
			return p, nil
		}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return Page{}, err
	}

	items, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return Page{}, err
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	p := Page{
		Casos:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
	}

	if s.cache != nil {
		s.cache.SetPage(ctx, page, limit, p)
	}
	return p, nil
}

// Update es el merge libre de campos editables, con side effect del
// registrador de historial: una modificación por campo cambiado, o la
// centinela "review" si no cambió nada. Una sola escritura condicionada
// a la versión leída; en conflicto devuelve ErrVersionConflict y el
// caller re-lee y reintenta.
func (s *Service) Update(ctx context.Context, id, autor string, cambios Cambios) (Caso, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Caso{}, ErrInvalidInput
	}

	actual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Caso{}, err
	}

	now := s.now()
	mods := calcularModificaciones(actual, cambios, autor, now)

	leida := actual.Version
	aplicarCambios(&actual, cambios)
	actual.Modificaciones = append(actual.Modificaciones, mods...)
	actual.UpdatedAt = now

	if err := s.repo.Update(ctx, actual, leida); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			s.metrics.IncConflictoVersion()
		}
		return Caso{}, err
	}

	actual.Version = leida + 1
	s.invalidate(ctx)
	return actual, nil
}

// Transition cambia el estado por la vía genérica (solo destinos
// no terminales; ENTREGADO únicamente por ConfirmarEntrega).
func (s *Service) Transition(ctx context.Context, id string, destino Estado, autor string) (Caso, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Caso{}, ErrInvalidInput
	}
	if !destino.EsNoTerminal() {
		return Caso{}, ErrEstadoInvalido
	}

	actual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Caso{}, err
	}
	if actual.Estado.EsTerminal() {
		return Caso{}, ErrCasoEntregado
	}

	now := s.now()
	leida := actual.Version

	actual.Modificaciones = append(actual.Modificaciones, Modificacion{
		Campo:         "estado",
		ValorAnterior: string(actual.Estado),
		ValorNuevo:    string(destino),
		Fecha:         now,
		Autor:         autorODefault(autor),
	})
	actual.Estado = destino
	actual.UpdatedAt = now

	if err := s.repo.Update(ctx, actual, leida); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			s.metrics.IncConflictoVersion()
		}
		return Caso{}, err
	}

	actual.Version = leida + 1
	s.metrics.IncCambiosDeEstado()
	s.invalidate(ctx)
	return actual, nil
}

// AgregarActuacion anota una entrada narrativa en el historial.
// Las ediciones genéricas nunca tocan actuaciones; solo esta
// operación y la confirmación de entrega.
func (s *Service) AgregarActuacion(ctx context.Context, id, descripcion, autor string) (Caso, error) {
	id = strings.TrimSpace(id)
	descripcion = strings.TrimSpace(descripcion)
	if id == "" || descripcion == "" {
		return Caso{}, ErrInvalidInput
	}

	actual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Caso{}, err
	}

	now := s.now()
	leida := actual.Version

	actual.Actuaciones = append(actual.Actuaciones, Actuacion{
		Descripcion: descripcion,
		Fecha:       now,
		Autor:       autorODefault(autor),
	})
	actual.UpdatedAt = now

	if err := s.repo.Update(ctx, actual, leida); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			s.metrics.IncConflictoVersion()
		}
		return Caso{}, err
	}

	actual.Version = leida + 1
	s.invalidate(ctx)
	return actual, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
