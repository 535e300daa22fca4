package postgres

import (
	"context"
	"database/sql"

	"registro-obras/internal/domain/geografia"
)

type GeografiaRepo struct {
	db *sql.DB
}

func NewGeografiaRepo(db *sql.DB) *GeografiaRepo {
	return &GeografiaRepo{db: db}
}

var _ geografia.Repository = (*GeografiaRepo)(nil)

func (r *GeografiaRepo) CreateParroquia(ctx context.Context, p geografia.Parroquia) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO parroquias (id, nombre, municipio, created_at)
		VALUES ($1,$2,$3,$4)
	`, p.ID, p.Nombre, p.Municipio, p.CreatedAt)
	return err
}

func (r *GeografiaRepo) ListParroquias(ctx context.Context) ([]geografia.Parroquia, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, municipio, created_at
		FROM parroquias
		ORDER BY nombre ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]geografia.Parroquia, 0)
	for rows.Next() {
		var p geografia.Parroquia
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Municipio, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *GeografiaRepo) DeleteParroquia(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parroquias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return geografia.ErrNotFound
	}
	return nil
}

func (r *GeografiaRepo) CreateConsejo(ctx context.Context, c geografia.ConsejoComunal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO consejos_comunales (id, nombre, parroquia, created_at)
		VALUES ($1,$2,$3,$4)
	`, c.ID, c.Nombre, c.Parroquia, c.CreatedAt)
	return err
}

func (r *GeografiaRepo) ListConsejos(ctx context.Context) ([]geografia.ConsejoComunal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, parroquia, created_at
		FROM consejos_comunales
		ORDER BY nombre ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]geografia.ConsejoComunal, 0)
	for rows.Next() {
		var c geografia.ConsejoComunal
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Parroquia, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *GeografiaRepo) DeleteConsejo(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM consejos_comunales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return geografia.ErrNotFound
	}
	return nil
}
