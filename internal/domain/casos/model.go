package casos

import "time"

// AutorSistema es el fallback cuando el colaborador de identidad
// no manda actor.
const AutorSistema = "system"

// Actuacion es una entrada narrativa del historial (ej. "Obra entregada").
// El historial es append-only: nunca se edita ni se borra una entrada.
type Actuacion struct {
	Descripcion string    `json:"descripcion"`
	Fecha       time.Time `json:"fecha"`
	Autor       string    `json:"autor"`
}

// Modificacion es un diff estructurado campo-a-campo del historial.
type Modificacion struct {
	Campo         string    `json:"campo"`
	ValorAnterior string    `json:"valor_anterior"`
	ValorNuevo    string    `json:"valor_nuevo"`
	Fecha         time.Time `json:"fecha"`
	Autor         string    `json:"autor"`
}

// Caso es el expediente de una obra pública.
type Caso struct {
	ID     string
	Codigo string // código visible opcional, único si viene

	Nombre         string
	Descripcion    string
	Parroquia      string
	ConsejoComunal string

	Estado Estado

	// FechaCaso: inicio de la obra; editable mientras no esté entregada.
	FechaCaso time.Time

	// FechaEntrega se setea una sola vez, solo por la confirmación
	// de entrega. nil = obra no entregada.
	FechaEntrega *time.Time

	// AdjuntoRef: referencia opaca al archivo en el colaborador de
	// subida. El core nunca guarda los bytes.
	AdjuntoRef string

	Actuaciones    []Actuacion
	Modificaciones []Modificacion

	// Version: token de concurrencia optimista. Toda escritura va
	// condicionada a la versión leída; en conflicto el caller
	// re-lee y reintenta (no hay retry automático).
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}
