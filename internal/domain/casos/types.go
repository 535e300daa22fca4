package casos

// Estado define el ciclo de vida de un caso de obra.
// Vocabulario único y canónico; ENTREGADO es terminal y solo se
// alcanza por la confirmación de entrega, nunca por la transición
// genérica.
type Estado string

const (
	EstadoCargado     Estado = "CARGADO"
	EstadoSupervisado Estado = "SUPERVISADO"
	EstadoEnEjecucion Estado = "EN_EJECUCION"
	EstadoInactivo    Estado = "INACTIVO"
	EstadoEntregado   Estado = "ENTREGADO"
)

// EstadosNoTerminales son los destinos válidos de la transición genérica.
var EstadosNoTerminales = []Estado{
	EstadoCargado,
	EstadoSupervisado,
	EstadoEnEjecucion,
	EstadoInactivo,
}

func (e Estado) EsTerminal() bool {
	return e == EstadoEntregado
}

// EsNoTerminal reporta si e es un destino permitido para la
// transición genérica de estado.
func (e Estado) EsNoTerminal() bool {
	for _, v := range EstadosNoTerminales {
		if e == v {
			return true
		}
	}
	return false
}
