package geografia

import "time"

// Datos geográficos de referencia. CRUD fino, sin invariantes propias:
// los casos guardan el nombre como string y no hay integridad
// referencial dura entre ambos.

type Parroquia struct {
	ID        string
	Nombre    string
	Municipio string
	CreatedAt time.Time
}

// ConsejoComunal pertenece (nominalmente) a una parroquia.
type ConsejoComunal struct {
	ID        string
	Nombre    string
	Parroquia string
	CreatedAt time.Time
}
