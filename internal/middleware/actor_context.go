package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const actorKey ctxKey = "actor"

// Actor es lo que el colaborador de identidad manda con cada request.
// El sistema confía en estos headers tal cual (no hay verificación de
// sesión aquí): ID y rol son etiquetas opacas para el core.
type Actor struct {
	ID  string
	Rol string
}

// ActorContext lee X-Actor-ID / X-Actor-Rol y los deja en el contexto.
// Si no vienen, el request sigue igual; los services aplican el
// fallback "system" al registrar historial.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Actor-ID"))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		a := Actor{
			ID:  id,
			Rol: strings.TrimSpace(r.Header.Get("X-Actor-Rol")),
		}
		ctx := context.WithValue(r.Context(), actorKey, a)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetActor(ctx context.Context) (Actor, bool) {
	v := ctx.Value(actorKey)
	if v == nil {
		return Actor{}, false
	}
	a, ok := v.(Actor)
	return a, ok
}
