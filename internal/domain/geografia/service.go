package geografia

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) CreateParroquia(ctx context.Context, nombre, municipio string) (Parroquia, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return Parroquia{}, ErrInvalidInput
	}

	p := Parroquia{
		ID:        uuid.NewString(),
		Nombre:    nombre,
		Municipio: strings.TrimSpace(municipio),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateParroquia(ctx, p); err != nil {
		return Parroquia{}, err
	}
	return p, nil
}

func (s *Service) ListParroquias(ctx context.Context) ([]Parroquia, error) {
	return s.repo.ListParroquias(ctx)
}

func (s *Service) DeleteParroquia(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteParroquia(ctx, id)
}

func (s *Service) CreateConsejo(ctx context.Context, nombre, parroquia string) (ConsejoComunal, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return ConsejoComunal{}, ErrInvalidInput
	}

	c := ConsejoComunal{
		ID:        uuid.NewString(),
		Nombre:    nombre,
		Parroquia: strings.TrimSpace(parroquia),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateConsejo(ctx, c); err != nil {
		return ConsejoComunal{}, err
	}
	return c, nil
}

func (s *Service) ListConsejos(ctx context.Context) ([]ConsejoComunal, error) {
	return s.repo.ListConsejos(ctx)
}

func (s *Service) DeleteConsejo(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteConsejo(ctx, id)
}
