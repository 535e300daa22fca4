package casos

import (
	"testing"
	"time"
)

func TestCalcularModificaciones_CamposCambiados(t *testing.T) {
	actual := Caso{
		Nombre:    "Cancha techada",
		Parroquia: "San Juan",
		FechaCaso: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	nuevoNombre := "Cancha techada fase II"
	nuevaParroquia := "Santa Rosalía"
	ts := time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC)

	mods := calcularModificaciones(actual, Cambios{
		Nombre:    &nuevoNombre,
		Parroquia: &nuevaParroquia,
	}, "ana", ts)

	if len(mods) != 2 {
		t.Fatalf("expected 2 modificaciones, got %d", len(mods))
	}
	for _, m := range mods {
		if !m.Fecha.Equal(ts) {
			t.Errorf("todas las entradas comparten timestamp: got %v", m.Fecha)
		}
		if m.Autor != "ana" {
			t.Errorf("autor: got %q", m.Autor)
		}
	}
	if mods[0].Campo != "nombre" || mods[0].ValorAnterior != "Cancha techada" || mods[0].ValorNuevo != nuevoNombre {
		t.Errorf("mod nombre inesperada: %+v", mods[0])
	}
	if mods[1].Campo != "parroquia" || mods[1].ValorNuevo != "Santa Rosalía" {
		t.Errorf("mod parroquia inesperada: %+v", mods[1])
	}
}

func TestCalcularModificaciones_SinCambios_Centinela(t *testing.T) {
	actual := Caso{Nombre: "Acera", Parroquia: "Catedral"}

	mismoNombre := "Acera"
	ts := time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC)

	mods := calcularModificaciones(actual, Cambios{Nombre: &mismoNombre}, "", ts)

	if len(mods) != 1 {
		t.Fatalf("expected exactly 1 entrada centinela, got %d", len(mods))
	}
	m := mods[0]
	if m.Campo != CampoRevision {
		t.Errorf("campo centinela: got %q, want %q", m.Campo, CampoRevision)
	}
	if m.ValorAnterior != "N/A" || m.ValorNuevo != "N/A" {
		t.Errorf("valores centinela: %+v", m)
	}
	if m.Autor != AutorSistema {
		t.Errorf("sin actor aplica fallback %q, got %q", AutorSistema, m.Autor)
	}
}

func TestCalcularModificaciones_FechaMismoDia_NoEsDiff(t *testing.T) {
	// Misma fecha calendario con distinta hora no cuenta como cambio:
	// la comparación de fechas es a granularidad de día.
	actual := Caso{FechaCaso: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}

	mismaFecha := time.Date(2025, 3, 10, 23, 45, 0, 0, time.UTC)
	ts := time.Now()

	mods := calcularModificaciones(actual, Cambios{FechaCaso: &mismaFecha}, "ana", ts)

	if len(mods) != 1 || mods[0].Campo != CampoRevision {
		t.Fatalf("expected centinela, got %+v", mods)
	}
}

func TestCalcularModificaciones_FechaDistintoDia(t *testing.T) {
	actual := Caso{FechaCaso: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}

	otraFecha := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	ts := time.Now()

	mods := calcularModificaciones(actual, Cambios{FechaCaso: &otraFecha}, "ana", ts)

	if len(mods) != 1 {
		t.Fatalf("expected 1 modificación, got %d", len(mods))
	}
	if mods[0].Campo != "fecha_caso" || mods[0].ValorAnterior != "2025-03-10" || mods[0].ValorNuevo != "2025-03-12" {
		t.Errorf("mod fecha inesperada: %+v", mods[0])
	}
}
