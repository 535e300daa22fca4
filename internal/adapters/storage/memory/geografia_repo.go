package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"registro-obras/internal/domain/geografia"
)

type geografiaRepo struct {
	mu         sync.RWMutex
	parroquias map[string]geografia.Parroquia
	consejos   map[string]geografia.ConsejoComunal
}

func NewGeografiaRepo() geografia.Repository {
	return &geografiaRepo{
		parroquias: make(map[string]geografia.Parroquia),
		consejos:   make(map[string]geografia.ConsejoComunal),
	}
}

func (r *geografiaRepo) CreateParroquia(ctx context.Context, p geografia.Parroquia) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("parroquia id required")
	}
	r.parroquias[p.ID] = p
	return nil
}

func (r *geografiaRepo) ListParroquias(ctx context.Context) ([]geografia.Parroquia, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]geografia.Parroquia, 0, len(r.parroquias))
	for _, p := range r.parroquias {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *geografiaRepo) DeleteParroquia(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.parroquias[id]; !ok {
		return geografia.ErrNotFound
	}
	delete(r.parroquias, id)
	return nil
}

func (r *geografiaRepo) CreateConsejo(ctx context.Context, c geografia.ConsejoComunal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("consejo id required")
	}
	r.consejos[c.ID] = c
	return nil
}

func (r *geografiaRepo) ListConsejos(ctx context.Context) ([]geografia.ConsejoComunal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]geografia.ConsejoComunal, 0, len(r.consejos))
	for _, c := range r.consejos {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *geografiaRepo) DeleteConsejo(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.consejos[id]; !ok {
		return geografia.ErrNotFound
	}
	delete(r.consejos, id)
	return nil
}
