package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores Prometheus de la aplicación.
// Se registran en el registry por defecto (promhttp los expone en /metrics).
type Metrics struct {
	CasosCreados      prometheus.Counter
	CambiosDeEstado   prometheus.Counter
	EntregasOK        prometheus.Counter
	Eliminaciones     prometheus.Counter
	ClavesRechazadas  *prometheus.CounterVec
	ConflictosVersion prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CasosCreados: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registro_obras_casos_creados_total",
			Help: "Total de casos registrados.",
		}),
		CambiosDeEstado: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registro_obras_cambios_estado_total",
			Help: "Total de transiciones de estado aplicadas.",
		}),
		EntregasOK: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registro_obras_entregas_confirmadas_total",
			Help: "Total de entregas confirmadas (estado terminal).",
		}),
		Eliminaciones: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registro_obras_eliminaciones_total",
			Help: "Total de casos eliminados.",
		}),
		ClavesRechazadas: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registro_obras_claves_rechazadas_total",
			Help: "Intentos con clave compartida inválida, por operación.",
		}, []string{"operacion"}),
		ConflictosVersion: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registro_obras_conflictos_version_total",
			Help: "Escrituras rechazadas por conflicto de versión.",
		}),
	}
}

// Los incrementos toleran receiver nil: en tests el router se arma sin
// métricas (promauto registra en el registry global y no se puede
// registrar dos veces el mismo contador).

func (m *Metrics) IncCasosCreados() {
	if m == nil {
		return
	}
	m.CasosCreados.Inc()
}

func (m *Metrics) IncCambiosDeEstado() {
	if m == nil {
		return
	}
	m.CambiosDeEstado.Inc()
}

func (m *Metrics) IncEntregasOK() {
	if m == nil {
		return
	}
	m.EntregasOK.Inc()
}

func (m *Metrics) IncEliminaciones() {
	if m == nil {
		return
	}
	m.Eliminaciones.Inc()
}

func (m *Metrics) IncClaveRechazada(operacion string) {
	if m == nil {
		return
	}
	m.ClavesRechazadas.WithLabelValues(operacion).Inc()
}

func (m *Metrics) IncConflictoVersion() {
	if m == nil {
		return
	}
	m.ConflictosVersion.Inc()
}
