package config

import (
	"os"
	"strings"
)

// Config agrupa toda la configuración del proceso.
// Las dos claves compartidas (entrega / eliminación) llegan out-of-band
// por env y se comparan contra lo que manda el cliente.
type Config struct {
	Addr string

	// Si DBDSN viene vacío, el router usa repos in-memory (modo dev).
	DBDSN string

	// Opcional: cache de lectura derivada para el listado de casos.
	RedisURL string

	// Opcional: URL del colaborador de subida de adjuntos.
	// Si viene vacío, se usa el adapter local (referencias fabricadas).
	UploadURL string

	// Claves independientes: entregar y eliminar son operaciones
	// irreversibles distintas y cada una tiene su propia clave.
	ClaveEntrega     string
	ClaveEliminacion string
}

// FromEnv arma la config desde env para que main quede simple.
// Defaults de dev: NO usar en producción.
func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		if p := os.Getenv("PORT"); p != "" {
			addr = ":" + p
		} else {
			addr = ":8080"
		}
	}

	claveEntrega := strings.TrimSpace(os.Getenv("CLAVE_ENTREGA"))
	if claveEntrega == "" {
		claveEntrega = "entrega-dev"
	}
	claveEliminacion := strings.TrimSpace(os.Getenv("CLAVE_ELIMINACION"))
	if claveEliminacion == "" {
		claveEliminacion = "eliminar-dev"
	}

	return Config{
		Addr:             addr,
		DBDSN:            os.Getenv("DB_DSN"),
		RedisURL:         os.Getenv("REDIS_URL"),
		UploadURL:        os.Getenv("UPLOAD_URL"),
		ClaveEntrega:     claveEntrega,
		ClaveEliminacion: claveEliminacion,
	}
}
