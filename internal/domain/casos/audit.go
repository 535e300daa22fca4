package casos

import (
	"strings"
	"time"
)

const (
	// CampoRevision es la entrada centinela cuando un guardado
	// explícito no produjo ningún diff: "guardó sin cambios" también
	// queda en el historial, distinto de "nunca lo tocó".
	CampoRevision = "review"

	valorSinCambio = "N/A"
)

// Cambios es el merge parcial de un PATCH: nil = no tocar el campo.
// estado y fecha_entrega quedan afuera a propósito: tienen sus
// propias operaciones.
type Cambios struct {
	Codigo         *string
	Nombre         *string
	Descripcion    *string
	Parroquia      *string
	ConsejoComunal *string
	AdjuntoRef     *string
	FechaCaso      *time.Time
}

// calcularModificaciones compara el caso actual contra los campos
// propuestos y arma las entradas de historial de esta edición.
// Reglas:
//   - se compara el valor stringificado; fechas a granularidad de día
//     (evita falsos diffs por zona horaria)
//   - todas las entradas de un guardado comparten un mismo timestamp
//   - cero diffs => exactamente una entrada centinela "review"
func calcularModificaciones(actual Caso, cambios Cambios, autor string, ts time.Time) []Modificacion {
	autor = autorODefault(autor)

	type campo struct {
		nombre   string
		anterior string
		nuevo    string
		aplica   bool
	}

	comparar := func(nombre, anterior string, nuevo *string) campo {
		if nuevo == nil {
			return campo{}
		}
		return campo{nombre: nombre, anterior: anterior, nuevo: *nuevo, aplica: true}
	}

	campos := []campo{
		comparar("codigo", actual.Codigo, cambios.Codigo),
		comparar("nombre", actual.Nombre, cambios.Nombre),
		comparar("descripcion", actual.Descripcion, cambios.Descripcion),
		comparar("parroquia", actual.Parroquia, cambios.Parroquia),
		comparar("consejo_comunal", actual.ConsejoComunal, cambios.ConsejoComunal),
		comparar("adjunto_ref", actual.AdjuntoRef, cambios.AdjuntoRef),
	}

	if cambios.FechaCaso != nil {
		campos = append(campos, campo{
			nombre:   "fecha_caso",
			anterior: formatoDia(actual.FechaCaso),
			nuevo:    formatoDia(*cambios.FechaCaso),
			aplica:   true,
		})
	}

	out := make([]Modificacion, 0)
	for _, c := range campos {
		if !c.aplica || c.anterior == c.nuevo {
			continue
		}
		out = append(out, Modificacion{
			Campo:         c.nombre,
			ValorAnterior: c.anterior,
			ValorNuevo:    c.nuevo,
			Fecha:         ts,
			Autor:         autor,
		})
	}

	if len(out) == 0 {
		out = append(out, Modificacion{
			Campo:         CampoRevision,
			ValorAnterior: valorSinCambio,
			ValorNuevo:    valorSinCambio,
			Fecha:         ts,
			Autor:         autor,
		})
	}

	return out
}

// aplicarCambios mergea los campos presentes sobre el caso.
func aplicarCambios(c *Caso, cambios Cambios) {
	if cambios.Codigo != nil {
		c.Codigo = *cambios.Codigo
	}
	if cambios.Nombre != nil {
		c.Nombre = *cambios.Nombre
	}
	if cambios.Descripcion != nil {
		c.Descripcion = *cambios.Descripcion
	}
	if cambios.Parroquia != nil {
		c.Parroquia = *cambios.Parroquia
	}
	if cambios.ConsejoComunal != nil {
		c.ConsejoComunal = *cambios.ConsejoComunal
	}
	if cambios.AdjuntoRef != nil {
		c.AdjuntoRef = *cambios.AdjuntoRef
	}
	if cambios.FechaCaso != nil {
		c.FechaCaso = *cambios.FechaCaso
	}
}

func formatoDia(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func autorODefault(autor string) string {
	autor = strings.TrimSpace(autor)
	if autor == "" {
		return AutorSistema
	}
	return autor
}
