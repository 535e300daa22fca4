package stats

import "context"

// Grupo es un bucket de conteo: nombre de la dimensión + total.
type Grupo struct {
	Nombre string `json:"nombre"`
	Total  int    `json:"total"`
}

// Repository es la interfaz de consulta que este módulo consume sobre
// el repositorio de casos. Solo lectura; los repos de casos (memory y
// postgres) la implementan.
type Repository interface {
	AgruparPorParroquia(ctx context.Context) ([]Grupo, error)
	AgruparPorConsejo(ctx context.Context) ([]Grupo, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) PorParroquia(ctx context.Context) ([]Grupo, error) {
	return s.repo.AgruparPorParroquia(ctx)
}

func (s *Service) PorConsejo(ctx context.Context) ([]Grupo, error) {
	return s.repo.AgruparPorConsejo(ctx)
}
