package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"registro-obras/internal/domain/casos"
	"registro-obras/internal/domain/stats"
)

type CasosRepo struct {
	mu   sync.RWMutex
	byID map[string]casos.Caso
}

// NewCasosRepo crea el repo in-memory de casos (modo dev / tests).
// Implementa también la interfaz de consulta del módulo stats.
func NewCasosRepo() *CasosRepo {
	return &CasosRepo{
		byID: make(map[string]casos.Caso),
	}
}

var (
	_ casos.Repository = (*CasosRepo)(nil)
	_ stats.Repository = (*CasosRepo)(nil)
)

func (r *CasosRepo) Create(ctx context.Context, c casos.Caso) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("caso id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("caso already exists")
	}
	r.byID[c.ID] = clonar(c)
	return nil
}

func (r *CasosRepo) GetByID(ctx context.Context, id string) (casos.Caso, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return casos.Caso{}, casos.ErrNotFound
	}
	return clonar(c), nil
}

func (r *CasosRepo) Update(ctx context.Context, c casos.Caso, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	actual, ok := r.byID[c.ID]
	if !ok {
		return casos.ErrNotFound
	}
	if actual.Version != expectedVersion {
		return casos.ErrVersionConflict
	}

	c.Version = expectedVersion + 1
	r.byID[c.ID] = clonar(c)
	return nil
}

func (r *CasosRepo) Delete(ctx context.Context, id string) (casos.Caso, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return casos.Caso{}, casos.ErrNotFound
	}
	delete(r.byID, id)
	return c, nil
}

func (r *CasosRepo) List(ctx context.Context, offset, limit int) ([]casos.Caso, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]casos.Caso, 0, len(r.byID))
	for _, c := range r.byID {
		todos = append(todos, c)
	}

	// Orden estable por created_at asc (consistencia con el repo SQL)
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})

	if offset >= len(todos) {
		return []casos.Caso{}, nil
	}
	fin := offset + limit
	if fin > len(todos) {
		fin = len(todos)
	}

	out := make([]casos.Caso, 0, fin-offset)
	for _, c := range todos[offset:fin] {
		out = append(out, clonar(c))
	}
	return out, nil
}

func (r *CasosRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *CasosRepo) AgruparPorParroquia(ctx context.Context) ([]stats.Grupo, error) {
	return r.agrupar(func(c casos.Caso) string { return c.Parroquia }), nil
}

func (r *CasosRepo) AgruparPorConsejo(ctx context.Context) ([]stats.Grupo, error) {
	return r.agrupar(func(c casos.Caso) string { return c.ConsejoComunal }), nil
}

func (r *CasosRepo) agrupar(clave func(casos.Caso) string) []stats.Grupo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conteo := map[string]int{}
	for _, c := range r.byID {
		k := strings.TrimSpace(clave(c))
		if k == "" {
			continue
		}
		conteo[k]++
	}

	out := make([]stats.Grupo, 0, len(conteo))
	for nombre, total := range conteo {
		out = append(out, stats.Grupo{Nombre: nombre, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

// clonar copia el documento con sus slices de historial, para que
// ningún caller comparta backing array con lo almacenado.
func clonar(c casos.Caso) casos.Caso {
	out := c
	if c.Actuaciones != nil {
		out.Actuaciones = append([]casos.Actuacion(nil), c.Actuaciones...)
	}
	if c.Modificaciones != nil {
		out.Modificaciones = append([]casos.Modificacion(nil), c.Modificaciones...)
	}
	if c.FechaEntrega != nil {
		f := *c.FechaEntrega
		out.FechaEntrega = &f
	}
	return out
}
