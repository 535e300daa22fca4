package geografia

import "context"

type Repository interface {
	CreateParroquia(ctx context.Context, p Parroquia) error
	ListParroquias(ctx context.Context) ([]Parroquia, error)
	DeleteParroquia(ctx context.Context, id string) error

	CreateConsejo(ctx context.Context, c ConsejoComunal) error
	ListConsejos(ctx context.Context) ([]ConsejoComunal, error)
	DeleteConsejo(ctx context.Context, id string) error
}
