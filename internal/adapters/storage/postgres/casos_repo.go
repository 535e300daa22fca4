package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"registro-obras/internal/domain/casos"
	"registro-obras/internal/domain/stats"
)

// CasosRepo guarda el caso como documento: el historial va en columnas
// jsonb y toda mutación es un read-modify-write del documento completo,
// condicionado por versión.
type CasosRepo struct {
	db *sql.DB
}

func NewCasosRepo(db *sql.DB) *CasosRepo {
	return &CasosRepo{db: db}
}

var (
	_ casos.Repository = (*CasosRepo)(nil)
	_ stats.Repository = (*CasosRepo)(nil)
)

const casoColumns = `
	id, codigo, nombre, descripcion,
	parroquia, consejo_comunal,
	estado, fecha_caso, fecha_entrega, adjunto_ref,
	actuaciones, modificaciones,
	version, created_at, updated_at
`

func (r *CasosRepo) Create(ctx context.Context, c casos.Caso) error {
	actuaciones, modificaciones, err := marshalHistorial(c)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO casos (`+casoColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		c.ID,
		c.Codigo,
		c.Nombre,
		c.Descripcion,
		c.Parroquia,
		c.ConsejoComunal,
		string(c.Estado),
		c.FechaCaso,
		toNullTime(c.FechaEntrega),
		c.AdjuntoRef,
		actuaciones,
		modificaciones,
		c.Version,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CasosRepo) GetByID(ctx context.Context, id string) (casos.Caso, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return casos.Caso{}, casos.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+casoColumns+`
		FROM casos
		WHERE id = $1
	`, id)

	return scanCaso(row)
}

func (r *CasosRepo) Update(ctx context.Context, c casos.Caso, expectedVersion int) error {
	actuaciones, modificaciones, err := marshalHistorial(c)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE casos
		SET
			codigo = $3,
			nombre = $4,
			descripcion = $5,
			parroquia = $6,
			consejo_comunal = $7,
			estado = $8,
			fecha_caso = $9,
			fecha_entrega = $10,
			adjunto_ref = $11,
			actuaciones = $12,
			modificaciones = $13,
			version = version + 1,
			updated_at = $14
		WHERE id = $1 AND version = $2
	`,
		c.ID,
		expectedVersion,
		c.Codigo,
		c.Nombre,
		c.Descripcion,
		c.Parroquia,
		c.ConsejoComunal,
		string(c.Estado),
		c.FechaCaso,
		toNullTime(c.FechaEntrega),
		c.AdjuntoRef,
		actuaciones,
		modificaciones,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	// 0 filas: o el caso no existe, o la versión se movió.
	var existe bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM casos WHERE id = $1)`, c.ID,
	).Scan(&existe); err != nil {
		return err
	}
	if !existe {
		return casos.ErrNotFound
	}
	return casos.ErrVersionConflict
}

func (r *CasosRepo) Delete(ctx context.Context, id string) (casos.Caso, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return casos.Caso{}, casos.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		DELETE FROM casos
		WHERE id = $1
		RETURNING `+casoColumns+`
	`, id)

	return scanCaso(row)
}

func (r *CasosRepo) List(ctx context.Context, offset, limit int) ([]casos.Caso, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+casoColumns+`
		FROM casos
		ORDER BY created_at ASC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]casos.Caso, 0)
	for rows.Next() {
		c, err := scanCaso(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CasosRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM casos`).Scan(&n)
	return n, err
}

func (r *CasosRepo) AgruparPorParroquia(ctx context.Context) ([]stats.Grupo, error) {
	return r.agrupar(ctx, "parroquia")
}

func (r *CasosRepo) AgruparPorConsejo(ctx context.Context) ([]stats.Grupo, error) {
	return r.agrupar(ctx, "consejo_comunal")
}

func (r *CasosRepo) agrupar(ctx context.Context, columna string) ([]stats.Grupo, error) {
	// columna viene de un set fijo interno, nunca del cliente.
	q := fmt.Sprintf(`
		SELECT %s, count(*)
		FROM casos
		WHERE %s <> ''
		GROUP BY %s
		ORDER BY %s ASC
	`, columna, columna, columna, columna)

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]stats.Grupo, 0)
	for rows.Next() {
		var g stats.Grupo
		if err := rows.Scan(&g.Nombre, &g.Total); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCaso(row scanner) (casos.Caso, error) {
	var (
		c              casos.Caso
		estado         string
		fechaEntrega   sql.NullTime
		actuaciones    []byte
		modificaciones []byte
	)

	if err := row.Scan(
		&c.ID,
		&c.Codigo,
		&c.Nombre,
		&c.Descripcion,
		&c.Parroquia,
		&c.ConsejoComunal,
		&estado,
		&c.FechaCaso,
		&fechaEntrega,
		&c.AdjuntoRef,
		&actuaciones,
		&modificaciones,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return casos.Caso{}, casos.ErrNotFound
		}
		return casos.Caso{}, err
	}

	c.Estado = casos.Estado(estado)
	if fechaEntrega.Valid {
		t := fechaEntrega.Time
		c.FechaEntrega = &t
	}

	if len(actuaciones) > 0 {
		if err := json.Unmarshal(actuaciones, &c.Actuaciones); err != nil {
			return casos.Caso{}, fmt.Errorf("actuaciones jsonb: %w", err)
		}
	}
	if len(modificaciones) > 0 {
		if err := json.Unmarshal(modificaciones, &c.Modificaciones); err != nil {
			return casos.Caso{}, fmt.Errorf("modificaciones jsonb: %w", err)
		}
	}
	if c.Actuaciones == nil {
		c.Actuaciones = []casos.Actuacion{}
	}
	if c.Modificaciones == nil {
		c.Modificaciones = []casos.Modificacion{}
	}

	return c, nil
}

func marshalHistorial(c casos.Caso) (actuaciones, modificaciones []byte, err error) {
	actuaciones, err = json.Marshal(c.Actuaciones)
	if err != nil {
		return nil, nil, fmt.Errorf("actuaciones jsonb: %w", err)
	}
	modificaciones, err = json.Marshal(c.Modificaciones)
	if err != nil {
		return nil, nil, fmt.Errorf("modificaciones jsonb: %w", err)
	}
	return actuaciones, modificaciones, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
